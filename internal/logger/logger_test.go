package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/match-odds/internal/models"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}

	log := NewLoggerWithOutput("debug", buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLoggerWithOutput("not-a-level", buf)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level")
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	buf := &bytes.Buffer{}

	log := NewLoggerWithOutput("info", buf)
	log.Info("hello")

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "hello", entry["msg"])
}

func TestAnalysisLoggerFixtureAnalysis(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogFixtureAnalysis("Arsenal", "Chelsea",
		models.ExpectedGoals{LambdaHome: 1.75, LambdaAway: 1.0}, 0.52, 0.24, 0.24, 1.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "analysis", logEntry["component"])
	assert.Equal(t, "Arsenal", logEntry["home_team"])
	assert.Equal(t, 1.75, logEntry["lambda_home"])
	assert.Equal(t, "info", logEntry["level"])
}

func TestAnalysisLoggerFallbackRate(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogFallbackRate("Ipswich", models.MetricGoals, 0, models.TeamRate{ForAvg: 1.2, AgainstAvg: 1.1})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Ipswich", logEntry["team"])
	assert.Equal(t, "goals", logEntry["metric"])
	assert.Equal(t, "debug", logEntry["level"])
}

func TestAnalysisLoggerValueAssessment(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogValueAssessment(models.ValueAssessment{
		Market: "home_win", Probability: 0.6, Odds: 2.0, ExpectedValue: 0.2, KellyFraction: 0.2, Stake: 5.004,
	})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "home_win", logEntry["market"])
	assert.Equal(t, 5.0, logEntry["stake"])
	assert.Equal(t, true, logEntry["has_value"])
}

func TestAnalysisLoggerRecommendation(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogRecommendation("Arsenal", "Chelsea", &models.Recommendation{
		Quote:      models.MarketQuote{Name: "goals_over_1.5", Probability: 0.76},
		Assessment: &models.ValueAssessment{Odds: 1.45, ExpectedValue: 0.102},
	})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "goals_over_1.5", logEntry["market"])
	assert.Equal(t, 1.45, logEntry["odds"])
}

func TestAnalysisLoggerInvalidOdds(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogInvalidOdds("draw", 1.0, errors.New("invalid odds: 1"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "invalid odds: 1", logEntry["error"])
}
