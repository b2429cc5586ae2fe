package models

import (
	"sort"
)

// MarketQuote is the model probability for one named market outcome
type MarketQuote struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability" validate:"gte=0,lte=1"`
}

// FairOdds returns the decimal price implied by the probability, or 0 when p is 0
func (q MarketQuote) FairOdds() float64 {
	if q.Probability <= 0 {
		return 0
	}
	return 1.0 / q.Probability
}

// SortedQuotes returns the quotes ordered by name
func SortedQuotes(quotes map[string]MarketQuote) []MarketQuote {
	out := make([]MarketQuote, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
