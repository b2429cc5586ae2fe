package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreTable(t *testing.T) {
	table := ScoreTable{
		MaxGoals: 1,
		Cells: [][]float64{
			{0.2, 0.1},
			{0.3, 0.2},
		},
	}

	assert.InDelta(t, 0.8, table.Total(), 1e-12)
	assert.Equal(t, 0.3, table.Prob(1, 0))
	assert.Equal(t, 0.0, table.Prob(2, 0))
	assert.Equal(t, 0.0, table.Prob(-1, 0))

	norm := table.Normalized()
	assert.InDelta(t, 1.0, norm.Total(), 1e-12)
	assert.InDelta(t, 0.2, table.Prob(0, 0), 1e-12, "original must not change")

	top := table.Top(3)
	require.Len(t, top, 3)
	assert.Equal(t, ScoreCell{HomeGoals: 1, AwayGoals: 0, Probability: 0.3}, top[0])
	assert.Equal(t, ScoreCell{HomeGoals: 0, AwayGoals: 0, Probability: 0.2}, top[1])
	assert.Equal(t, ScoreCell{HomeGoals: 1, AwayGoals: 1, Probability: 0.2}, top[2])

	assert.Len(t, table.Top(-1), 4)

	best, ok := table.MostLikely()
	require.True(t, ok)
	assert.Equal(t, 1, best.HomeGoals)

	_, ok = ScoreTable{}.MostLikely()
	assert.False(t, ok)
}

func TestMatchResult_Counts(t *testing.T) {
	m := MatchResult{
		GoalsFor:       IntPtr(2),
		GoalsAgainst:   IntPtr(1),
		CornersFor:     IntPtr(7),
		CornersAgainst: IntPtr(3),
	}

	f, a := m.Counts(MetricCorners)
	assert.Equal(t, 7, *f)
	assert.Equal(t, 3, *a)

	assert.True(t, m.IsComplete(MetricGoals))
	assert.True(t, m.IsComplete(MetricCorners))
	assert.False(t, m.IsComplete(MetricCards))

	m.GoalsAgainst = IntPtr(-1)
	assert.False(t, m.IsComplete(MetricGoals))
}

func TestHeadToHead_Winner(t *testing.T) {
	h := HeadToHead{HomeTeam: "Arsenal", AwayTeam: "Chelsea", HomeGoals: IntPtr(2), AwayGoals: IntPtr(1)}
	assert.Equal(t, "Arsenal", h.Winner())

	h.AwayGoals = IntPtr(3)
	assert.Equal(t, "Chelsea", h.Winner())

	h.AwayGoals = IntPtr(2)
	assert.Equal(t, "draw", h.Winner())

	h.AwayGoals = nil
	assert.Equal(t, "", h.Winner())
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.33, Round(4.0/3.0, 2))
	assert.Equal(t, 2.68, Round(2.675, 2))
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))

	rate := TeamRate{ForAvg: 1.23456, AgainstAvg: 0.98765, Matches: 4}
	assert.Equal(t, TeamRate{ForAvg: 1.23, AgainstAvg: 0.99, Matches: 4}, rate.Rounded())
	assert.False(t, rate.IsFallback())
	assert.True(t, TeamRate{ForAvg: 1.2}.IsFallback())
}

func TestMarketQuote(t *testing.T) {
	assert.Equal(t, 4.0, MarketQuote{Probability: 0.25}.FairOdds())
	assert.Equal(t, 0.0, MarketQuote{}.FairOdds())

	sorted := SortedQuotes(map[string]MarketQuote{
		"draw":     {Name: "draw"},
		"away_win": {Name: "away_win"},
		"home_win": {Name: "home_win"},
	})
	require.Len(t, sorted, 3)
	assert.Equal(t, "away_win", sorted[0].Name)
	assert.Equal(t, "home_win", sorted[2].Name)
}

func TestInvalidOddsError(t *testing.T) {
	err := error(NewInvalidOddsError("draw", 1.0))
	assert.True(t, errors.Is(err, ErrInvalidOdds))
	assert.Contains(t, err.Error(), "draw")

	wrapped := errors.Join(errors.New("scan"), err)
	assert.True(t, errors.Is(wrapped, ErrInvalidOdds))
}
