package value

import (
	"github.com/yourusername/match-odds/internal/models"
)

// Default probability band a recommended pick must fall in
const (
	DefaultMinPickProbability = 0.55
	DefaultMaxPickProbability = 0.80
)

// Recommend picks the most likely market whose probability lies in [minP, maxP].
// Ties go to the alphabetically first name. Reports false when nothing qualifies.
func Recommend(quotes map[string]models.MarketQuote, minP, maxP float64) (models.MarketQuote, bool) {
	var (
		best  models.MarketQuote
		found bool
	)
	for _, q := range models.SortedQuotes(quotes) {
		if q.Probability < minP || q.Probability > maxP {
			continue
		}
		if !found || q.Probability > best.Probability {
			best = q
			found = true
		}
	}
	return best, found
}

// RecommendWithOdds is Recommend followed by an evaluation of the pick at the
// given price when one is supplied
func (e *Evaluator) RecommendWithOdds(quotes map[string]models.MarketQuote, prices map[string]float64, minP, maxP float64) (*models.Recommendation, error) {
	pick, ok := Recommend(quotes, minP, maxP)
	if !ok {
		return nil, nil
	}

	rec := &models.Recommendation{Quote: pick}
	odds, priced := prices[pick.Name]
	if !priced {
		return rec, nil
	}

	a, err := e.EvaluateQuote(pick, odds)
	if err != nil {
		return rec, err
	}
	rec.Assessment = &a
	return rec, nil
}
