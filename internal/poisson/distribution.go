package poisson

import (
	"github.com/yourusername/match-odds/internal/models"
)

// Build returns the joint scoreline table for independent home and away Poisson means,
// truncated at maxGoals per side. A negative maxGoals is treated as 0.
func Build(lambdaHome, lambdaAway float64, maxGoals int) models.ScoreTable {
	if maxGoals < 0 {
		maxGoals = 0
	}

	home := marginal(lambdaHome, maxGoals)
	away := marginal(lambdaAway, maxGoals)

	cells := make([][]float64, maxGoals+1)
	for i := range cells {
		cells[i] = make([]float64, maxGoals+1)
		for j := range cells[i] {
			cells[i][j] = home[i] * away[j]
		}
	}

	return models.ScoreTable{MaxGoals: maxGoals, Cells: cells}
}

// BuildFromExpected is Build for a combined expected-goals pair
func BuildFromExpected(eg models.ExpectedGoals, maxGoals int) models.ScoreTable {
	return Build(eg.LambdaHome, eg.LambdaAway, maxGoals)
}

func marginal(lambda float64, maxGoals int) []float64 {
	probs := make([]float64, maxGoals+1)
	for k := range probs {
		probs[k] = PMF(k, lambda)
	}
	return probs
}
