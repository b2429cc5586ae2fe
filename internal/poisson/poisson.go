// Package poisson provides the Poisson goal model used to price football markets.
package poisson

import (
	"math"
)

// PMF returns P(X = k) for X ~ Poisson(lambda).
// Evaluated in log space; any non-finite result is reported as 0.
func PMF(k int, lambda float64) float64 {
	if k < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	lg, _ := math.Lgamma(float64(k) + 1)
	p := math.Exp(-lambda + float64(k)*math.Log(lambda) - lg)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// CDF returns P(X <= k) for X ~ Poisson(lambda). Negative k gives 0.
// Beyond lambda + 40*sqrt(lambda) + 50 the remaining tail is below float
// precision and 1 is returned without summing.
func CDF(k int, lambda float64) float64 {
	if k < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return 0
	}
	if float64(k) > tailCutoff(lambda) {
		return 1
	}
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += PMF(i, lambda)
	}
	return clamp01(sum)
}

func tailCutoff(lambda float64) float64 {
	if lambda < 0 {
		lambda = 0
	}
	return lambda + 40*math.Sqrt(lambda) + 50
}

// Survival returns P(X > k)
func Survival(k int, lambda float64) float64 {
	return clamp01(1 - CDF(k, lambda))
}

// AtLeastOne returns P(X >= 1) in closed form
func AtLeastOne(lambda float64) float64 {
	if math.IsNaN(lambda) || lambda <= 0 {
		return 0
	}
	return clamp01(1 - math.Exp(-lambda))
}

func clamp01(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
