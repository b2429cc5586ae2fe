package models

// ValueAssessment is the edge and suggested stake for one market at one price
type ValueAssessment struct {
	Market        string  `json:"market,omitempty"`
	Probability   float64 `json:"probability"`
	Odds          float64 `json:"odds"`
	ExpectedValue float64 `json:"expected_value"`
	KellyFraction float64 `json:"kelly_fraction"`
	Stake         float64 `json:"stake"`
}

// HasValue reports whether the bet has positive expected value
func (v ValueAssessment) HasValue() bool {
	return v.ExpectedValue > 0
}

// StakeAmount returns the stake rounded to whole cents
func (v ValueAssessment) StakeAmount() float64 {
	return Round(v.Stake, DisplayPlaces)
}

// Recommendation is the preferred pick for a fixture
type Recommendation struct {
	Quote      MarketQuote      `json:"quote"`
	Assessment *ValueAssessment `json:"assessment,omitempty"`
}
