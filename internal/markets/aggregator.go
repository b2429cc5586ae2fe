// Package markets aggregates a scoreline distribution into named market probabilities.
package markets

import (
	"math"

	"github.com/yourusername/match-odds/internal/models"
	"github.com/yourusername/match-odds/internal/poisson"
)

// Default lines priced when none are configured
var (
	DefaultGoalLines   = []float64{0.5, 1.5, 2.5, 3.5, 4.5}
	DefaultCornerLines = []float64{8.5, 9.5, 10.5, 11.5}
	DefaultCardLines   = []float64{2.5, 3.5, 4.5, 5.5, 6.5}
)

// Aggregator derives market probabilities from a score table
type Aggregator struct {
	GoalLines           []float64
	IncludeCorrectScore bool
}

// NewAggregator creates an aggregator for the given goal lines, falling back
// to DefaultGoalLines when none are given
func NewAggregator(goalLines []float64) *Aggregator {
	if len(goalLines) == 0 {
		goalLines = DefaultGoalLines
	}
	return &Aggregator{GoalLines: goalLines, IncludeCorrectScore: true}
}

// Markets returns every priced market for the fixture keyed by name.
// Result markets are renormalised over the table; goal lines and BTTS use the
// closed-form Poisson expressions so they do not depend on the truncation.
func (a *Aggregator) Markets(table models.ScoreTable, lambdaHome, lambdaAway float64) map[string]models.MarketQuote {
	out := make(map[string]models.MarketQuote)
	put := func(name string, p float64) {
		out[name] = models.MarketQuote{Name: name, Probability: clamp01(p)}
	}

	home, draw, away := Outcome(table)
	put(HomeWin, home)
	put(Draw, draw)
	put(AwayWin, away)

	put(HomeOrDraw, home+draw)
	put(DrawOrAway, draw+away)
	put(HomeOrAway, home+away)

	put(AHHomeMinus05, home)
	put(AHHomePlus05, home+draw)
	put(AHAwayMinus05, away)
	put(AHAwayPlus05, away+draw)

	yes := BothTeamsToScore(lambdaHome, lambdaAway)
	put(BTTSYes, yes)
	put(BTTSNo, 1-yes)

	for name, q := range a.LineMarkets(models.MetricGoals, lambdaHome+lambdaAway, a.lines()) {
		out[name] = q
	}

	if a.IncludeCorrectScore {
		for i, row := range table.Cells {
			for j, p := range row {
				put(ScoreName(i, j), p)
			}
		}
	}

	return out
}

// LineMarkets prices over/under for each line of a single fixture-wide count
func (a *Aggregator) LineMarkets(metric models.Metric, lambdaTotal float64, lines []float64) map[string]models.MarketQuote {
	out := make(map[string]models.MarketQuote, 2*len(lines))
	for _, line := range lines {
		over, under := OverUnder(lambdaTotal, line)
		out[OverName(metric, line)] = models.MarketQuote{Name: OverName(metric, line), Probability: over}
		out[UnderName(metric, line)] = models.MarketQuote{Name: UnderName(metric, line), Probability: under}
	}
	return out
}

func (a *Aggregator) lines() []float64 {
	if len(a.GoalLines) == 0 {
		return DefaultGoalLines
	}
	return a.GoalLines
}

// Outcome returns home win, draw and away win probabilities normalised to sum to 1.
// A table with no mass gives one third each.
func Outcome(table models.ScoreTable) (home, draw, away float64) {
	for i, row := range table.Cells {
		for j, p := range row {
			switch {
			case i > j:
				home += p
			case i == j:
				draw += p
			default:
				away += p
			}
		}
	}

	total := home + draw + away
	if total <= 0 || math.IsNaN(total) {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	return home / total, draw / total, away / total
}

// BothTeamsToScore returns P(home >= 1 and away >= 1) for independent sides
func BothTeamsToScore(lambdaHome, lambdaAway float64) float64 {
	return clamp01(poisson.AtLeastOne(lambdaHome) * poisson.AtLeastOne(lambdaAway))
}

// maxLine keeps the floor of a line within int range; every count is below it
const maxLine = 1 << 30

// OverUnder returns P(total > line) and P(total <= floor(line)) for a Poisson total.
// Under is summed from the CDF and over is its complement, so the pair sums to 1.
func OverUnder(lambdaTotal, line float64) (over, under float64) {
	switch {
	case math.IsNaN(line):
		return 0, 0
	case line > maxLine:
		return 0, 1
	case line < 0:
		return 1, 0
	}
	under = poisson.CDF(int(math.Floor(line)), lambdaTotal)
	return 1 - under, under
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
