package value

import (
	"fmt"
)

// ImpliedProbability returns 1/odds for valid decimal odds
func ImpliedProbability(odds float64) (float64, error) {
	if err := ValidateOdds(odds); err != nil {
		return 0, err
	}
	return 1.0 / odds, nil
}

// Overround returns the bookmaker margin: sum of implied probabilities minus 1
func Overround(prices ...float64) (float64, error) {
	sum := 0.0
	for _, odds := range prices {
		p, err := ImpliedProbability(odds)
		if err != nil {
			return 0, err
		}
		sum += p
	}
	return sum - 1, nil
}

// RemoveOverround converts a complete book of prices into fair probabilities
// by scaling the implied probabilities to sum to 1
func RemoveOverround(prices ...float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("need at least two prices to remove overround, got %d", len(prices))
	}

	implied := make([]float64, len(prices))
	sum := 0.0
	for i, odds := range prices {
		p, err := ImpliedProbability(odds)
		if err != nil {
			return nil, err
		}
		implied[i] = p
		sum += p
	}

	for i := range implied {
		implied[i] /= sum
	}
	return implied, nil
}
