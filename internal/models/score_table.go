package models

import (
	"sort"
)

// ScoreTable is the joint probability of each scoreline up to MaxGoals per side.
// Cells[i][j] is P(home scores i, away scores j). The raw table sums to at most 1.
type ScoreTable struct {
	MaxGoals int         `json:"max_goals"`
	Cells    [][]float64 `json:"cells"`
}

// ScoreCell is one scoreline and its probability
type ScoreCell struct {
	HomeGoals   int     `json:"home_goals"`
	AwayGoals   int     `json:"away_goals"`
	Probability float64 `json:"probability"`
}

// Prob returns P(home=i, away=j), or 0 outside the table
func (t ScoreTable) Prob(i, j int) float64 {
	if i < 0 || j < 0 || i >= len(t.Cells) || j >= len(t.Cells[i]) {
		return 0
	}
	return t.Cells[i][j]
}

// Total returns the probability mass captured by the table
func (t ScoreTable) Total() float64 {
	total := 0.0
	for _, row := range t.Cells {
		for _, p := range row {
			total += p
		}
	}
	return total
}

// Normalized returns a copy of the table scaled to sum to 1.
// An empty or zero-mass table is returned unchanged.
func (t ScoreTable) Normalized() ScoreTable {
	total := t.Total()
	out := ScoreTable{MaxGoals: t.MaxGoals, Cells: make([][]float64, len(t.Cells))}
	for i, row := range t.Cells {
		out.Cells[i] = make([]float64, len(row))
		for j, p := range row {
			if total > 0 {
				out.Cells[i][j] = p / total
			} else {
				out.Cells[i][j] = p
			}
		}
	}
	return out
}

// Top returns the n most likely scorelines, highest first.
// Equal probabilities are ordered by home goals then away goals.
func (t ScoreTable) Top(n int) []ScoreCell {
	cells := make([]ScoreCell, 0, len(t.Cells)*len(t.Cells))
	for i, row := range t.Cells {
		for j, p := range row {
			cells = append(cells, ScoreCell{HomeGoals: i, AwayGoals: j, Probability: p})
		}
	}
	sort.SliceStable(cells, func(a, b int) bool {
		if cells[a].Probability != cells[b].Probability {
			return cells[a].Probability > cells[b].Probability
		}
		if cells[a].HomeGoals != cells[b].HomeGoals {
			return cells[a].HomeGoals < cells[b].HomeGoals
		}
		return cells[a].AwayGoals < cells[b].AwayGoals
	})
	if n >= 0 && n < len(cells) {
		cells = cells[:n]
	}
	return cells
}

// MostLikely returns the single most likely scoreline
func (t ScoreTable) MostLikely() (ScoreCell, bool) {
	top := t.Top(1)
	if len(top) == 0 {
		return ScoreCell{}, false
	}
	return top[0], true
}
