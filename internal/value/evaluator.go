// Package value measures betting edge and sizes stakes with fractional Kelly.
package value

import (
	"errors"
	"math"
	"sort"

	"github.com/yourusername/match-odds/internal/models"
)

// DefaultKellySafetyFactor scales full Kelly down to quarter Kelly
const DefaultKellySafetyFactor = 0.25

// Evaluator prices a model probability against a bookmaker's decimal odds
type Evaluator struct {
	Bankroll          float64
	KellySafetyFactor float64
}

// NewEvaluator creates an evaluator. Negative inputs are treated as zero.
func NewEvaluator(bankroll, kellySafetyFactor float64) *Evaluator {
	return &Evaluator{
		Bankroll:          math.Max(0, bankroll),
		KellySafetyFactor: math.Max(0, kellySafetyFactor),
	}
}

// Evaluate returns expected value per unit staked, the full Kelly fraction
// (never negative) and the stake bankroll * kelly * safety factor.
// Odds of 1 or less return an *models.InvalidOddsError.
func (e *Evaluator) Evaluate(probability, odds float64) (models.ValueAssessment, error) {
	if err := ValidateOdds(odds); err != nil {
		return models.ValueAssessment{}, err
	}

	p := NormalizeProbability(probability)
	ev := ExpectedValue(p, odds)
	kelly := KellyFraction(p, odds)

	return models.ValueAssessment{
		Probability:   p,
		Odds:          odds,
		ExpectedValue: ev,
		KellyFraction: kelly,
		Stake:         math.Max(0, e.Bankroll) * kelly * math.Max(0, e.KellySafetyFactor),
	}, nil
}

// EvaluateQuote is Evaluate for a named market quote
func (e *Evaluator) EvaluateQuote(quote models.MarketQuote, odds float64) (models.ValueAssessment, error) {
	a, err := e.Evaluate(quote.Probability, odds)
	if err != nil {
		var invalid *models.InvalidOddsError
		if errors.As(err, &invalid) {
			invalid.Market = quote.Name
		}
		return a, err
	}
	a.Market = quote.Name
	return a, nil
}

// Scan evaluates every priced market that has a model quote. Assessments are
// ordered by expected value, best first. Invalid prices are skipped and their
// errors joined into the returned error.
func (e *Evaluator) Scan(quotes map[string]models.MarketQuote, prices map[string]float64) ([]models.ValueAssessment, error) {
	names := make([]string, 0, len(prices))
	for name := range prices {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		out  []models.ValueAssessment
		errs []error
	)
	for _, name := range names {
		quote, ok := quotes[name]
		if !ok {
			continue
		}
		a, err := e.EvaluateQuote(quote, prices[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpectedValue > out[j].ExpectedValue
	})
	return out, errors.Join(errs...)
}

// ValidateOdds ensures decimal odds are finite and greater than 1
func ValidateOdds(odds float64) error {
	if math.IsNaN(odds) || math.IsInf(odds, 0) || odds <= 1.0 {
		return models.NewInvalidOddsError("", odds)
	}
	return nil
}

// ExpectedValue returns the expected profit per unit staked: p*odds - 1
func ExpectedValue(probability, odds float64) float64 {
	return probability*odds - 1
}

// KellyFraction returns (odds*p - 1)/(odds - 1), clamped at 0.
// Odds of 1 or less give 0.
func KellyFraction(probability, odds float64) float64 {
	if odds <= 1 || math.IsNaN(odds) {
		return 0
	}
	f := (odds*probability - 1) / (odds - 1)
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	return f
}

// NormalizeProbability ensures probability in [0,1]
func NormalizeProbability(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
