package estimator

import (
	"math"

	"github.com/yourusername/match-odds/internal/models"
)

// LambdaFloor is the smallest Poisson mean a side is ever given
const LambdaFloor = 0.05

// Combine crosses each side's attack with the opponent's defence:
// home = (home.for + away.against)/2, away = (away.for + home.against)/2.
func Combine(home, away models.TeamRate) models.ExpectedGoals {
	return CombineWithFloor(home, away, LambdaFloor)
}

// CombineWithFloor is Combine with a caller-supplied floor. Floors below
// LambdaFloor are raised to it.
func CombineWithFloor(home, away models.TeamRate, floor float64) models.ExpectedGoals {
	if math.IsNaN(floor) || floor < LambdaFloor {
		floor = LambdaFloor
	}
	return models.ExpectedGoals{
		LambdaHome: clampLambda((home.ForAvg+away.AgainstAvg)/2, floor),
		LambdaAway: clampLambda((away.ForAvg+home.AgainstAvg)/2, floor),
	}
}

// CombineTotal returns the single mean for a fixture-wide count such as
// corners or cards: the sum of both crossed sides.
func CombineTotal(home, away models.TeamRate) float64 {
	return CombineWithFloor(home, away, LambdaFloor).Total()
}

func clampLambda(lambda, floor float64) float64 {
	if math.IsNaN(lambda) || lambda < floor {
		return floor
	}
	return lambda
}
