// Package estimator turns match history into team rates and fixture expected goals.
package estimator

import (
	"sort"

	"github.com/yourusername/match-odds/internal/models"
)

// Form configures how much the most recent matches weigh against the full sample
type Form struct {
	Window int
	Weight float64
}

// DefaultForm blends 30% of the last five matches into the season average
var DefaultForm = Form{Window: 5, Weight: 0.3}

// Estimate returns the mean goals scored and conceded over the complete matches.
// Matches with a missing or negative goal count are ignored. When nothing remains
// the fallback is returned unchanged.
func Estimate(matches []models.MatchResult, fallback models.TeamRate) models.TeamRate {
	return EstimateMetric(matches, models.MetricGoals, fallback)
}

// EstimateMetric is Estimate for any tracked per-match metric
func EstimateMetric(matches []models.MatchResult, metric models.Metric, fallback models.TeamRate) models.TeamRate {
	sample := Sample(matches, metric)
	if len(sample) == 0 {
		return fallback
	}
	return mean(sample, metric)
}

// EstimateWithForm blends the season rate with the rate over the most recent
// form.Window complete matches: (1-w)*season + w*recent.
func EstimateWithForm(matches []models.MatchResult, metric models.Metric, fallback models.TeamRate, form Form) models.TeamRate {
	sample := Sample(matches, metric)
	if len(sample) == 0 {
		return fallback
	}

	season := mean(sample, metric)
	w := form.Weight
	if form.Window <= 0 || w <= 0 {
		return season
	}
	if w > 1 {
		w = 1
	}

	sort.SliceStable(sample, func(i, j int) bool {
		return sample[i].Date.Before(sample[j].Date)
	})
	recentFrom := len(sample) - form.Window
	if recentFrom < 0 {
		recentFrom = 0
	}
	recent := mean(sample[recentFrom:], metric)

	return models.TeamRate{
		ForAvg:     (1-w)*season.ForAvg + w*recent.ForAvg,
		AgainstAvg: (1-w)*season.AgainstAvg + w*recent.AgainstAvg,
		Matches:    season.Matches,
	}
}

// Sample returns a copy of the matches that carry a complete count for the metric
func Sample(matches []models.MatchResult, metric models.Metric) []models.MatchResult {
	out := make([]models.MatchResult, 0, len(matches))
	for _, m := range matches {
		if m.IsComplete(metric) {
			out = append(out, m)
		}
	}
	return out
}

func mean(sample []models.MatchResult, metric models.Metric) models.TeamRate {
	var scored, conceded int
	for _, m := range sample {
		f, a := m.Counts(metric)
		scored += *f
		conceded += *a
	}
	n := float64(len(sample))
	return models.TeamRate{
		ForAvg:     float64(scored) / n,
		AgainstAvg: float64(conceded) / n,
		Matches:    len(sample),
	}
}
