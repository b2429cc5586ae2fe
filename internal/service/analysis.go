// Package service provides the fixture analysis pipeline.
package service

import (
	"github.com/yourusername/match-odds/internal/config"
	"github.com/yourusername/match-odds/internal/estimator"
	"github.com/yourusername/match-odds/internal/markets"
	"github.com/yourusername/match-odds/internal/models"
	"github.com/yourusername/match-odds/internal/value"
)

// AnalyzerConfig holds the model parameters used by FixtureAnalyzer
type AnalyzerConfig struct {
	MaxGoals           int
	LambdaFloor        float64
	Form               estimator.Form
	GoalLines          []float64
	CornerLines        []float64
	CardLines          []float64
	TopScores          int
	CorrectScore       bool
	Fallback           models.TeamRate
	FallbackCorners    models.TeamRate
	FallbackCards      models.TeamRate
	MinPickProbability float64
	MaxPickProbability float64
}

// DefaultAnalyzerConfig returns the parameters used when no configuration is loaded
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MaxGoals:           7,
		LambdaFloor:        estimator.LambdaFloor,
		Form:               estimator.DefaultForm,
		GoalLines:          markets.DefaultGoalLines,
		CornerLines:        markets.DefaultCornerLines,
		CardLines:          markets.DefaultCardLines,
		TopScores:          5,
		CorrectScore:       true,
		Fallback:           models.TeamRate{ForAvg: 1.20, AgainstAvg: 1.10},
		FallbackCorners:    models.TeamRate{ForAvg: 5.0, AgainstAvg: 5.0},
		FallbackCards:      models.TeamRate{ForAvg: 2.0, AgainstAvg: 2.0},
		MinPickProbability: value.DefaultMinPickProbability,
		MaxPickProbability: value.DefaultMaxPickProbability,
	}
}

// AnalyzerConfigFrom maps the application configuration onto AnalyzerConfig
func AnalyzerConfigFrom(cfg *config.Config) AnalyzerConfig {
	return AnalyzerConfig{
		MaxGoals:           cfg.Model.MaxGoals,
		LambdaFloor:        cfg.Model.LambdaFloor,
		Form:               estimator.Form{Window: cfg.Model.FormWindow, Weight: cfg.Model.FormWeight},
		GoalLines:          cfg.Model.GoalLines,
		CornerLines:        cfg.Model.CornerLines,
		CardLines:          cfg.Model.CardLines,
		TopScores:          cfg.Model.TopScores,
		CorrectScore:       cfg.Model.CorrectScore,
		Fallback:           cfg.Model.FallbackRate(models.MetricGoals),
		FallbackCorners:    cfg.Model.FallbackRate(models.MetricCorners),
		FallbackCards:      cfg.Model.FallbackRate(models.MetricCards),
		MinPickProbability: cfg.Staking.MinPickProbability,
		MaxPickProbability: cfg.Staking.MaxPickProbability,
	}
}

// FixtureRequest identifies a fixture and optional bookmaker prices keyed by market name
type FixtureRequest struct {
	HomeTeam string             `json:"home_team"`
	AwayTeam string             `json:"away_team"`
	Prices   map[string]float64 `json:"prices,omitempty"`
}

// MetricAnalysis prices over/under lines for a fixture-wide count such as corners
type MetricAnalysis struct {
	HomeRate models.TeamRate               `json:"home_rate"`
	AwayRate models.TeamRate               `json:"away_rate"`
	Lambda   float64                       `json:"lambda"`
	Markets  map[string]models.MarketQuote `json:"markets"`
}

// Analysis is the full model output for one fixture
type Analysis struct {
	HomeTeam        string                        `json:"home_team"`
	AwayTeam        string                        `json:"away_team"`
	HomeRate        models.TeamRate               `json:"home_rate"`
	AwayRate        models.TeamRate               `json:"away_rate"`
	ExpectedGoals   models.ExpectedGoals          `json:"expected_goals"`
	ScoreTable      models.ScoreTable             `json:"score_table"`
	NormalizedTable models.ScoreTable             `json:"normalized_table"`
	TopScores       []models.ScoreCell            `json:"top_scores"`
	Markets         map[string]models.MarketQuote `json:"markets"`
	Corners         *MetricAnalysis               `json:"corners,omitempty"`
	Cards           *MetricAnalysis               `json:"cards,omitempty"`
	Recommendation  *models.Recommendation        `json:"recommendation,omitempty"`
	ValueBets       []models.ValueAssessment      `json:"value_bets,omitempty"`
	PriceErrors     []string                      `json:"price_errors,omitempty"`
	Book            *BookView                     `json:"book,omitempty"`
}

// BookView is a supplied 1X2 book with its margin removed
type BookView struct {
	Margin        float64            `json:"margin"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// Probability returns the model probability of a named market, or 0 when it is not priced
func (a *Analysis) Probability(market string) float64 {
	return a.Markets[market].Probability
}
