package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-odds/internal/models"
)

// AnalysisLogger provides dedicated logging for fixture analysis.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogFixtureAnalysis logs a completed fixture analysis.
func (al *AnalysisLogger) LogFixtureAnalysis(home, away string, eg models.ExpectedGoals, homeWin, draw, awayWin float64, durationMs float64) {
	al.WithFields(logrus.Fields{
		"home_team":   home,
		"away_team":   away,
		"lambda_home": eg.LambdaHome,
		"lambda_away": eg.LambdaAway,
		"home_win":    homeWin,
		"draw":        draw,
		"away_win":    awayWin,
		"duration_ms": durationMs,
	}).Info("Fixture analysis completed")
}

// LogFallbackRate logs a team rate that fell back to the configured default.
func (al *AnalysisLogger) LogFallbackRate(team string, metric models.Metric, matchesSupplied int, fallback models.TeamRate) {
	al.WithFields(logrus.Fields{
		"team":             team,
		"metric":           metric,
		"matches_supplied": matchesSupplied,
		"fallback_for":     fallback.ForAvg,
		"fallback_against": fallback.AgainstAvg,
	}).Debug("No usable history, using fallback rate")
}

// LogValueAssessment logs a value evaluation for one market.
func (al *AnalysisLogger) LogValueAssessment(a models.ValueAssessment) {
	al.WithFields(logrus.Fields{
		"market":         a.Market,
		"probability":    a.Probability,
		"odds":           a.Odds,
		"expected_value": a.ExpectedValue,
		"kelly_fraction": a.KellyFraction,
		"stake":          a.StakeAmount(),
		"has_value":      a.HasValue(),
	}).Debug("Value assessed")
}

// LogRecommendation logs the recommended pick for a fixture.
func (al *AnalysisLogger) LogRecommendation(home, away string, rec *models.Recommendation) {
	fields := logrus.Fields{
		"home_team":   home,
		"away_team":   away,
		"market":      rec.Quote.Name,
		"probability": rec.Quote.Probability,
	}
	if rec.Assessment != nil {
		fields["odds"] = rec.Assessment.Odds
		fields["expected_value"] = rec.Assessment.ExpectedValue
	}
	al.WithFields(fields).Info("Pick recommended")
}

// LogInvalidOdds logs a price that could not be evaluated.
func (al *AnalysisLogger) LogInvalidOdds(market string, odds float64, err error) {
	al.WithFields(logrus.Fields{
		"market": market,
		"odds":   odds,
	}).WithError(err).Warn("Invalid odds supplied")
}
