package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/match-odds/internal/datasource"
	"github.com/yourusername/match-odds/internal/estimator"
	"github.com/yourusername/match-odds/internal/logger"
	"github.com/yourusername/match-odds/internal/markets"
	"github.com/yourusername/match-odds/internal/metrics"
	"github.com/yourusername/match-odds/internal/models"
	"github.com/yourusername/match-odds/internal/poisson"
	"github.com/yourusername/match-odds/internal/value"
)

// FixtureAnalyzer runs the rate, expected goals, distribution and market
// pipeline for a fixture and evaluates any supplied prices
type FixtureAnalyzer struct {
	supplier       datasource.MatchSupplier
	evaluator      *value.Evaluator
	aggregator     *markets.Aggregator
	cfg            AnalyzerConfig
	logger         *logrus.Logger
	analysisLogger *logger.AnalysisLogger
}

// NewFixtureAnalyzer creates a new fixture analyzer
func NewFixtureAnalyzer(supplier datasource.MatchSupplier, evaluator *value.Evaluator, cfg AnalyzerConfig, log *logrus.Logger) *FixtureAnalyzer {
	if log == nil {
		log = logrus.New()
	}
	if len(cfg.CornerLines) == 0 {
		cfg.CornerLines = markets.DefaultCornerLines
	}
	if len(cfg.CardLines) == 0 {
		cfg.CardLines = markets.DefaultCardLines
	}
	aggregator := markets.NewAggregator(cfg.GoalLines)
	aggregator.IncludeCorrectScore = cfg.CorrectScore

	return &FixtureAnalyzer{
		supplier:       supplier,
		evaluator:      evaluator,
		aggregator:     aggregator,
		cfg:            cfg,
		logger:         log,
		analysisLogger: logger.NewAnalysisLogger(log),
	}
}

// Analyze fetches both teams' histories and analyses the fixture
func (a *FixtureAnalyzer) Analyze(ctx context.Context, req FixtureRequest) (*Analysis, error) {
	start := time.Now()

	home, away, err := validateTeams(req.HomeTeam, req.AwayTeam)
	if err != nil {
		metrics.RecordFixtureAnalysis("invalid", time.Since(start).Seconds())
		return nil, err
	}

	var homeMatches, awayMatches []models.MatchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		homeMatches, err = a.supplier.TeamMatches(gctx, home)
		return err
	})
	g.Go(func() error {
		var err error
		awayMatches, err = a.supplier.TeamMatches(gctx, away)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RecordFixtureAnalysis("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to load match history: %w", err)
	}

	analysis := a.AnalyzeHistories(home, away, homeMatches, awayMatches, req.Prices)

	duration := time.Since(start)
	metrics.RecordFixtureAnalysis("success", duration.Seconds())
	a.analysisLogger.LogFixtureAnalysis(home, away, analysis.ExpectedGoals,
		analysis.Probability(markets.HomeWin), analysis.Probability(markets.Draw), analysis.Probability(markets.AwayWin),
		float64(duration.Microseconds())/1000)

	return analysis, nil
}

// AnalyzeHistories analyses a fixture from already loaded histories
func (a *FixtureAnalyzer) AnalyzeHistories(home, away string, homeMatches, awayMatches []models.MatchResult, prices map[string]float64) *Analysis {
	homeRate := a.rate(home, "home", homeMatches, models.MetricGoals, a.cfg.Fallback)
	awayRate := a.rate(away, "away", awayMatches, models.MetricGoals, a.cfg.Fallback)

	eg := estimator.CombineWithFloor(homeRate, awayRate, a.cfg.LambdaFloor)
	metrics.RecordExpectedGoals(eg.LambdaHome, eg.LambdaAway)

	table := poisson.BuildFromExpected(eg, a.cfg.MaxGoals)
	quotes := a.aggregator.Markets(table, eg.LambdaHome, eg.LambdaAway)

	analysis := &Analysis{
		HomeTeam:        home,
		AwayTeam:        away,
		HomeRate:        homeRate,
		AwayRate:        awayRate,
		ExpectedGoals:   eg,
		ScoreTable:      table,
		NormalizedTable: table.Normalized(),
		TopScores:       table.Top(a.cfg.TopScores),
		Markets:         quotes,
	}

	analysis.Corners = a.metricAnalysis(home, away, homeMatches, awayMatches, models.MetricCorners, a.cfg.FallbackCorners, a.cfg.CornerLines)
	analysis.Cards = a.metricAnalysis(home, away, homeMatches, awayMatches, models.MetricCards, a.cfg.FallbackCards, a.cfg.CardLines)

	all := a.allQuotes(analysis)
	a.evaluatePrices(analysis, all, prices)
	a.recommend(analysis, all, prices)

	return analysis
}

// HeadToHead lists past meetings when the supplier supports it
func (a *FixtureAnalyzer) HeadToHead(ctx context.Context, home, away string, limit int) ([]models.HeadToHead, error) {
	home, away, err := validateTeams(home, away)
	if err != nil {
		return nil, err
	}
	h2h, ok := a.supplier.(datasource.HeadToHeadSupplier)
	if !ok {
		return nil, fmt.Errorf("source %s does not support head-to-head", a.supplier.Name())
	}
	return h2h.HeadToHead(ctx, home, away, limit)
}

// Teams lists the teams the supplier covers when it supports listing
func (a *FixtureAnalyzer) Teams(ctx context.Context) ([]string, error) {
	lister, ok := a.supplier.(datasource.TeamLister)
	if !ok {
		return nil, datasource.NewDataSourceError(a.supplier.Name(), datasource.ErrCodeNotFound, "team listing not supported", nil)
	}
	teams, err := lister.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// Source names the supplier behind the analyzer
func (a *FixtureAnalyzer) Source() string {
	return a.supplier.Name()
}

// Evaluate prices a single probability at the given odds
func (a *FixtureAnalyzer) Evaluate(probability, odds float64) (models.ValueAssessment, error) {
	assessment, err := a.evaluator.Evaluate(probability, odds)
	if err != nil {
		metrics.RecordValueAssessment("invalid_odds")
		a.analysisLogger.LogInvalidOdds("", odds, err)
		return assessment, err
	}
	recordAssessment(assessment)
	a.analysisLogger.LogValueAssessment(assessment)
	return assessment, nil
}

func (a *FixtureAnalyzer) rate(team, side string, matches []models.MatchResult, metric models.Metric, fallback models.TeamRate) models.TeamRate {
	var rate models.TeamRate
	if metric == models.MetricGoals {
		rate = estimator.EstimateWithForm(matches, metric, fallback, a.cfg.Form)
	} else {
		rate = estimator.EstimateMetric(matches, metric, fallback)
	}
	if rate.IsFallback() {
		metrics.RecordFallbackRate(side, string(metric))
		a.analysisLogger.LogFallbackRate(team, metric, len(matches), fallback)
	}
	return rate
}

// metricAnalysis is skipped when neither team has any recorded values for the metric
func (a *FixtureAnalyzer) metricAnalysis(home, away string, homeMatches, awayMatches []models.MatchResult, metric models.Metric, fallback models.TeamRate, lines []float64) *MetricAnalysis {
	if len(estimator.Sample(homeMatches, metric)) == 0 && len(estimator.Sample(awayMatches, metric)) == 0 {
		return nil
	}

	homeRate := a.rate(home, "home", homeMatches, metric, fallback)
	awayRate := a.rate(away, "away", awayMatches, metric, fallback)
	lambda := estimator.CombineTotal(homeRate, awayRate)

	return &MetricAnalysis{
		HomeRate: homeRate,
		AwayRate: awayRate,
		Lambda:   lambda,
		Markets:  a.aggregator.LineMarkets(metric, lambda, lines),
	}
}

func (a *FixtureAnalyzer) allQuotes(analysis *Analysis) map[string]models.MarketQuote {
	all := make(map[string]models.MarketQuote, len(analysis.Markets))
	for k, q := range analysis.Markets {
		all[k] = q
	}
	for _, m := range []*MetricAnalysis{analysis.Corners, analysis.Cards} {
		if m == nil {
			continue
		}
		for k, q := range m.Markets {
			all[k] = q
		}
	}
	return all
}

func (a *FixtureAnalyzer) evaluatePrices(analysis *Analysis, quotes map[string]models.MarketQuote, prices map[string]float64) {
	if len(prices) == 0 {
		return
	}
	analysis.Book = bookView(prices)

	assessments, err := a.evaluator.Scan(quotes, prices)
	for _, assessment := range assessments {
		recordAssessment(assessment)
		a.analysisLogger.LogValueAssessment(assessment)
		if assessment.HasValue() {
			analysis.ValueBets = append(analysis.ValueBets, assessment)
		}
	}
	if err != nil {
		for _, e := range unwrapJoined(err) {
			var invalid *models.InvalidOddsError
			if errors.As(e, &invalid) {
				metrics.RecordValueAssessment("invalid_odds")
				a.analysisLogger.LogInvalidOdds(invalid.Market, invalid.Odds, e)
			}
			analysis.PriceErrors = append(analysis.PriceErrors, e.Error())
		}
	}

	for name := range prices {
		if _, ok := quotes[name]; !ok {
			a.logger.WithField("market", name).Debug("Price supplied for unknown market")
		}
	}
}

func (a *FixtureAnalyzer) recommend(analysis *Analysis, quotes map[string]models.MarketQuote, prices map[string]float64) {
	rec, err := a.evaluator.RecommendWithOdds(quotes, prices, a.cfg.MinPickProbability, a.cfg.MaxPickProbability)
	if rec == nil {
		return
	}
	if err != nil {
		a.logger.WithError(err).Debug("Recommended pick has an invalid price")
	}
	analysis.Recommendation = rec
	metrics.RecordRecommendation()
	a.analysisLogger.LogRecommendation(analysis.HomeTeam, analysis.AwayTeam, rec)
}

// bookView is only built when all three 1X2 prices are supplied and valid
func bookView(prices map[string]float64) *BookView {
	names := []string{markets.HomeWin, markets.Draw, markets.AwayWin}
	odds := make([]float64, 0, len(names))
	for _, name := range names {
		o, ok := prices[name]
		if !ok {
			return nil
		}
		odds = append(odds, o)
	}

	fair, err := value.RemoveOverround(odds...)
	if err != nil {
		return nil
	}
	margin, _ := value.Overround(odds...)

	view := &BookView{Margin: margin, Probabilities: make(map[string]float64, len(names))}
	for i, name := range names {
		view.Probabilities[name] = fair[i]
	}
	return view
}

func recordAssessment(assessment models.ValueAssessment) {
	if assessment.HasValue() {
		metrics.RecordValueAssessment("value")
	} else {
		metrics.RecordValueAssessment("no_value")
	}
}

func validateTeams(home, away string) (string, string, error) {
	home = strings.TrimSpace(home)
	away = strings.TrimSpace(away)
	if home == "" || away == "" {
		return "", "", fmt.Errorf("home and away team are required: %w", models.ErrTeamNotFound)
	}
	if strings.EqualFold(home, away) {
		return "", "", models.ErrSameTeam
	}
	return home, away, nil
}

func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
