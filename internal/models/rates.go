package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of decimal places rates and probabilities are shown with
const DisplayPlaces int32 = 2

// TeamRate holds a team's average scored and conceded counts for one metric
type TeamRate struct {
	ForAvg     float64 `json:"for_avg" validate:"gte=0"`
	AgainstAvg float64 `json:"against_avg" validate:"gte=0"`
	Matches    int     `json:"matches"`
}

// IsFallback reports whether the rate was not derived from any sample
func (r TeamRate) IsFallback() bool {
	return r.Matches == 0
}

// Rounded returns a copy rounded for display. Computation always uses the unrounded values.
func (r TeamRate) Rounded() TeamRate {
	return TeamRate{
		ForAvg:     Round(r.ForAvg, DisplayPlaces),
		AgainstAvg: Round(r.AgainstAvg, DisplayPlaces),
		Matches:    r.Matches,
	}
}

// ExpectedGoals is the pair of Poisson means for a fixture
type ExpectedGoals struct {
	LambdaHome float64 `json:"lambda_home"`
	LambdaAway float64 `json:"lambda_away"`
}

// Total returns the combined mean used for total-goals lines
func (e ExpectedGoals) Total() float64 {
	return e.LambdaHome + e.LambdaAway
}

// Round rounds v half away from zero to the given number of places
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
