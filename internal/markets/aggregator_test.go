package markets

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/match-odds/internal/models"
	"github.com/yourusername/match-odds/internal/poisson"
)

func TestMarkets_ResultSumsToOne(t *testing.T) {
	lambdas := [][2]float64{{1.75, 1.0}, {0.05, 0.05}, {3.2, 0.4}, {1.1, 1.1}}
	agg := NewAggregator(nil)

	for _, l := range lambdas {
		for _, maxGoals := range []int{0, 3, 5, 9} {
			table := poisson.Build(l[0], l[1], maxGoals)
			quotes := agg.Markets(table, l[0], l[1])

			sum := quotes[HomeWin].Probability + quotes[Draw].Probability + quotes[AwayWin].Probability
			assert.InDelta(t, 1.0, sum, 1e-9, "lambdas=%v maxGoals=%d", l, maxGoals)
		}
	}
}

func TestMarkets_ComplementaryPairs(t *testing.T) {
	agg := NewAggregator(nil)
	table := poisson.Build(1.4, 0.9, 7)
	quotes := agg.Markets(table, 1.4, 0.9)

	assert.InDelta(t, 1.0, quotes[BTTSYes].Probability+quotes[BTTSNo].Probability, 1e-12)
	for _, line := range DefaultGoalLines {
		over := quotes[OverName(models.MetricGoals, line)].Probability
		under := quotes[UnderName(models.MetricGoals, line)].Probability
		assert.InDelta(t, 1.0, over+under, 1e-12, "line %v", line)
	}
}

func TestMarkets_DerivedMarkets(t *testing.T) {
	agg := NewAggregator(nil)
	table := poisson.Build(1.75, 1.0, 9)
	quotes := agg.Markets(table, 1.75, 1.0)

	home := quotes[HomeWin].Probability
	draw := quotes[Draw].Probability
	away := quotes[AwayWin].Probability

	assert.Greater(t, home, away)
	assert.InDelta(t, home+draw, quotes[HomeOrDraw].Probability, 1e-12)
	assert.InDelta(t, draw+away, quotes[DrawOrAway].Probability, 1e-12)
	assert.InDelta(t, home+away, quotes[HomeOrAway].Probability, 1e-12)
	assert.Equal(t, home, quotes[AHHomeMinus05].Probability)
	assert.Equal(t, quotes[HomeOrDraw].Probability, quotes[AHHomePlus05].Probability)
	assert.Equal(t, away, quotes[AHAwayMinus05].Probability)
	assert.InDelta(t, away+draw, quotes[AHAwayPlus05].Probability, 1e-12)

	expectedBTTS := (1 - math.Exp(-1.75)) * (1 - math.Exp(-1.0))
	assert.InDelta(t, expectedBTTS, quotes[BTTSYes].Probability, 1e-12)

	assert.Equal(t, table.Prob(1, 1), quotes[ScoreName(1, 1)].Probability)
	assert.Equal(t, table.Prob(2, 0), quotes["score_2-0"].Probability)
}

func TestMarkets_ProbabilitiesInRange(t *testing.T) {
	agg := NewAggregator([]float64{-0.5, 0, 2, 2.5, 10.5})
	table := poisson.Build(0.05, 0.05, 9)
	quotes := agg.Markets(table, 0.05, 0.05)

	require.NotEmpty(t, quotes)
	for name, q := range quotes {
		assert.Equal(t, name, q.Name)
		assert.False(t, math.IsNaN(q.Probability), name)
		assert.GreaterOrEqual(t, q.Probability, 0.0, name)
		assert.LessOrEqual(t, q.Probability, 1.0, name)
	}
	assert.Equal(t, 1.0, quotes["goals_over_-0.5"].Probability)
	assert.Equal(t, 0.0, quotes["goals_under_-0.5"].Probability)
}

func TestMarkets_WithoutCorrectScore(t *testing.T) {
	agg := &Aggregator{GoalLines: []float64{2.5}}
	quotes := agg.Markets(poisson.Build(1.2, 1.2, 5), 1.2, 1.2)

	_, ok := quotes[ScoreName(0, 0)]
	assert.False(t, ok)
	_, ok = quotes["goals_over_2.5"]
	assert.True(t, ok)
	_, ok = quotes["goals_over_3.5"]
	assert.False(t, ok)
}

func TestOutcome_EmptyTable(t *testing.T) {
	home, draw, away := Outcome(models.ScoreTable{})
	assert.InDelta(t, 1.0/3, home, 1e-15)
	assert.InDelta(t, 1.0/3, draw, 1e-15)
	assert.InDelta(t, 1.0/3, away, 1e-15)
}

func TestOverUnder(t *testing.T) {
	lambda := 2.75

	over, under := OverUnder(lambda, 2.5)
	expectedUnder := math.Exp(-lambda) * (1 + lambda + lambda*lambda/2)
	assert.InDelta(t, expectedUnder, under, 1e-12)
	assert.InDelta(t, 1-expectedUnder, over, 1e-12)

	over, under = OverUnder(lambda, 0.5)
	assert.InDelta(t, math.Exp(-lambda), under, 1e-12)
	assert.InDelta(t, 1.0, over+under, 1e-12)
}

func TestOverUnder_ExtremeLines(t *testing.T) {
	tests := []struct {
		name      string
		line      float64
		wantOver  float64
		wantUnder float64
	}{
		{"positive infinity", math.Inf(1), 0, 1},
		{"negative infinity", math.Inf(-1), 1, 0},
		{"negative line", -0.5, 1, 0},
		{"huge finite line", 2e8 + 0.5, 0, 1},
		{"beyond int range", 1e300, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			over, under := OverUnder(2.75, tt.line)
			assert.Less(t, time.Since(start), 100*time.Millisecond)
			assert.Equal(t, tt.wantOver, over)
			assert.Equal(t, tt.wantUnder, under)
		})
	}
}

func TestLineMarkets_CornersAndCards(t *testing.T) {
	agg := NewAggregator(nil)

	corners := agg.LineMarkets(models.MetricCorners, 10.0, DefaultCornerLines)
	assert.Len(t, corners, 2*len(DefaultCornerLines))
	q, ok := corners["corners_over_9.5"]
	require.True(t, ok)
	assert.InDelta(t, 1-poisson.CDF(9, 10.0), q.Probability, 1e-12)

	cards := agg.LineMarkets(models.MetricCards, 4.2, DefaultCardLines)
	assert.Len(t, cards, 2*len(DefaultCardLines))
	assert.InDelta(t, 1.0, cards["cards_over_4.5"].Probability+cards["cards_under_4.5"].Probability, 1e-12)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "goals_over_2.5", OverName(models.MetricGoals, 2.5))
	assert.Equal(t, "cards_under_3", UnderName(models.MetricCards, 3))
	assert.Equal(t, "score_2-1", ScoreName(2, 1))
	assert.True(t, IsCorrectScore(ScoreName(2, 1)))
	assert.False(t, IsCorrectScore(HomeWin))
}
