package models

import (
	"time"
)

// Metric identifies a per-match statistic a team rate can be computed for
type Metric string

const (
	MetricGoals   Metric = "goals"
	MetricCorners Metric = "corners"
	MetricCards   Metric = "cards"
)

// MatchResult is a single historical match seen from one team's perspective.
// A nil count means the value was not recorded (postponed fixture, partial feed).
type MatchResult struct {
	Date           time.Time `json:"date"`
	Opponent       string    `json:"opponent"`
	Home           bool      `json:"home"`
	GoalsFor       *int      `json:"goals_for"`
	GoalsAgainst   *int      `json:"goals_against"`
	CornersFor     *int      `json:"corners_for,omitempty"`
	CornersAgainst *int      `json:"corners_against,omitempty"`
	CardsFor       *int      `json:"cards_for,omitempty"`
	CardsAgainst   *int      `json:"cards_against,omitempty"`
}

// Counts returns the for/against pair recorded for the given metric
func (m MatchResult) Counts(metric Metric) (*int, *int) {
	switch metric {
	case MetricCorners:
		return m.CornersFor, m.CornersAgainst
	case MetricCards:
		return m.CardsFor, m.CardsAgainst
	default:
		return m.GoalsFor, m.GoalsAgainst
	}
}

// IsComplete reports whether both counts for the metric are present and non-negative
func (m MatchResult) IsComplete(metric Metric) bool {
	f, a := m.Counts(metric)
	return f != nil && a != nil && *f >= 0 && *a >= 0
}

// HeadToHead is a past meeting between two teams, kept for display only
type HeadToHead struct {
	Date      time.Time `json:"date"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeGoals *int      `json:"home_goals"`
	AwayGoals *int      `json:"away_goals"`
}

// Winner returns the winning team name, "draw", or "" when the score is unknown
func (h HeadToHead) Winner() string {
	if h.HomeGoals == nil || h.AwayGoals == nil {
		return ""
	}
	switch {
	case *h.HomeGoals > *h.AwayGoals:
		return h.HomeTeam
	case *h.HomeGoals < *h.AwayGoals:
		return h.AwayTeam
	default:
		return "draw"
	}
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
