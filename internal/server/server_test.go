package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/match-odds/internal/datasource"
	"github.com/yourusername/match-odds/internal/markets"
	"github.com/yourusername/match-odds/internal/models"
	"github.com/yourusername/match-odds/internal/service"
	"github.com/yourusername/match-odds/internal/value"
)

type stubSupplier struct {
	matches  map[string][]models.MatchResult
	meetings []models.HeadToHead
	teams    []string
	err      error
}

func (s *stubSupplier) Name() string { return "stub" }

func (s *stubSupplier) TeamMatches(ctx context.Context, team string) ([]models.MatchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.matches[team], nil
}

func (s *stubSupplier) HeadToHead(ctx context.Context, home, away string, limit int) ([]models.HeadToHead, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.meetings) > limit {
		return s.meetings[:limit], nil
	}
	return s.meetings, nil
}

func (s *stubSupplier) Teams(ctx context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.teams, nil
}

// historyOnly supplies matches but cannot list teams
type historyOnly struct{ stub *stubSupplier }

func (h historyOnly) TeamMatches(ctx context.Context, team string) ([]models.MatchResult, error) {
	return h.stub.TeamMatches(ctx, team)
}

func (h historyOnly) Name() string { return "history" }

func played(day, scored, conceded int) models.MatchResult {
	return models.MatchResult{
		Date:         time.Date(2024, time.October, day, 15, 0, 0, 0, time.UTC),
		GoalsFor:     models.IntPtr(scored),
		GoalsAgainst: models.IntPtr(conceded),
	}
}

func newStubSupplier() *stubSupplier {
	return &stubSupplier{
		matches: map[string][]models.MatchResult{
			"Arsenal": {played(1, 2, 1), played(8, 2, 1)},
			"Chelsea": {played(1, 1, 1), played(8, 1, 2)},
		},
		meetings: []models.HeadToHead{
			{Date: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), HomeTeam: "Arsenal", AwayTeam: "Chelsea",
				HomeGoals: models.IntPtr(2), AwayGoals: models.IntPtr(0)},
			{Date: time.Date(2023, time.October, 21, 0, 0, 0, 0, time.UTC), HomeTeam: "Chelsea", AwayTeam: "Arsenal",
				HomeGoals: models.IntPtr(2), AwayGoals: models.IntPtr(2)},
		},
	}
}

func newTestServer(supplier datasource.MatchSupplier, checks map[string]CheckFunc) *Server {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	analyzer := service.NewFixtureAnalyzer(supplier, value.NewEvaluator(100, 0.25), service.DefaultAnalyzerConfig(), log)
	return NewServer(Config{
		ServiceName:    "match-odds",
		Version:        "test",
		MetricsEnabled: true,
		Logger:         log,
		Checks:         checks,
	}, analyzer)
}

func do(t *testing.T, s *Server, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(newStubSupplier(), nil)

	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test", health.Version)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/live", nil).Code)

	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/ready", nil).Code)
	s.SetReady(true)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/ready", nil).Code)
}

func TestReadyReportsFailingChecks(t *testing.T) {
	s := newTestServer(newStubSupplier(), map[string]CheckFunc{
		"scheduler": func(ctx context.Context) error { return errors.New("stopped") },
	})
	s.SetReady(true)

	rec := do(t, s, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var ready ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.Equal(t, "not_ready", ready.Status)
	assert.Equal(t, "ok", ready.Checks["service"])
	assert.Equal(t, "error: stopped", ready.Checks["scheduler"])
}

func TestRequestID(t *testing.T) {
	s := newTestServer(newStubSupplier(), nil)

	rec := do(t, s, http.MethodGet, "/live", nil)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(newStubSupplier(), nil)
	do(t, s, http.MethodGet, "/v1/analysis?home=Arsenal&away=Chelsea", nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "match_odds_fixture_analyses_total")
}

func TestAnalysisQuery(t *testing.T) {
	s := newTestServer(newStubSupplier(), nil)

	rec := do(t, s, http.MethodGet, "/v1/analysis?home=Arsenal&away=Chelsea&odds=home_win:5.0&odds=draw:1.0", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var analysis service.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.InDelta(t, 1.75, analysis.ExpectedGoals.LambdaHome, 1e-9)
	assert.InDelta(t, 1.0, analysis.ExpectedGoals.LambdaAway, 1e-9)
	assert.Greater(t, analysis.Markets[markets.HomeWin].Probability, analysis.Markets[markets.AwayWin].Probability)
	require.Len(t, analysis.ValueBets, 1)
	assert.Equal(t, markets.HomeWin, analysis.ValueBets[0].Market)
	assert.Len(t, analysis.PriceErrors, 1)
}

func TestAnalysisBody(t *testing.T) {
	s := newTestServer(newStubSupplier(), nil)

	rec := do(t, s, http.MethodPost, "/v1/analysis", service.FixtureRequest{HomeTeam: "Arsenal", AwayTeam: "Chelsea"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var analysis service.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, "Arsenal", analysis.HomeTeam)
	assert.NotEmpty(t, analysis.TopScores)
}

func TestAnalysisErrors(t *testing.T) {
	s := newTestServer(newStubSupplier(), nil)

	tests := []struct {
		name   string
		method string
		target string
		body   interface{}
		status int
	}{
		{"missing away", http.MethodGet, "/v1/analysis?home=Arsenal", nil, http.StatusBadRequest},
		{"same team", http.MethodGet, "/v1/analysis?home=Arsenal&away=arsenal", nil, http.StatusBadRequest},
		{"bad price", http.MethodGet, "/v1/analysis?home=Arsenal&away=Chelsea&odds=home_win", nil, http.StatusBadRequest},
		{"bad body", http.MethodPost, "/v1/analysis", "{", http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/v1/analysis", `{"home":"Arsenal"}`, http.StatusBadRequest},
		{"wrong method", http.MethodDelete, "/v1/analysis", nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestAnalysisSupplierFailure(t *testing.T) {
	supplier := newStubSupplier()
	supplier.err = datasource.NewDataSourceError("stub", datasource.ErrCodeRateLimitExceeded, "slow down", datasource.ErrRateLimitExceeded)
	s := newTestServer(supplier, nil)

	rec := do(t, s, http.MethodGet, "/v1/analysis?home=Arsenal&away=Chelsea", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.RequestID)
	assert.Contains(t, body.Error, "slow down")
}

func TestValueEndpoint(t *testing.T) {
	s := newTestServer(newStubSupplier(), nil)

	rec := do(t, s, http.MethodPost, "/v1/value", ValueRequest{Market: markets.HomeWin, Probability: 0.6, Odds: 2.0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var assessment models.ValueAssessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))
	assert.Equal(t, markets.HomeWin, assessment.Market)
	assert.InDelta(t, 0.2, assessment.ExpectedValue, 1e-12)
	assert.InDelta(t, 0.2, assessment.KellyFraction, 1e-12)
	assert.InDelta(t, 100*0.2*0.25, assessment.Stake, 1e-9)

	rec = do(t, s, http.MethodPost, "/v1/value", ValueRequest{Market: markets.Draw, Probability: 0.6, Odds: 1.0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, markets.Draw)
}

func TestHeadToHeadEndpoint(t *testing.T) {
	s := newTestServer(newStubSupplier(), nil)

	rec := do(t, s, http.MethodGet, "/v1/h2h?home=Arsenal&away=Chelsea&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body HeadToHeadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Meetings, 1)
	assert.Equal(t, "Arsenal", body.Meetings[0].Winner())

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/v1/h2h?home=Arsenal&away=Chelsea&limit=zero", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/v1/h2h?home=Arsenal", nil).Code)
}

func TestTeamsEndpoint(t *testing.T) {
	supplier := newStubSupplier()
	supplier.teams = []string{"Arsenal", "Chelsea"}
	s := newTestServer(supplier, nil)

	rec := do(t, s, http.MethodGet, "/v1/teams", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body TeamsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "stub", body.Source)
	assert.Equal(t, []string{"Arsenal", "Chelsea"}, body.Teams)

	supplier.teams = nil
	rec = do(t, s, http.MethodGet, "/v1/teams", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"source":"stub","teams":[]}`, rec.Body.String())

	supplier.err = datasource.NewDataSourceError("stub", datasource.ErrCodeRateLimitExceeded, "slow down", datasource.ErrRateLimitExceeded)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/v1/teams", nil).Code)
}

func TestTeamsEndpointUnsupported(t *testing.T) {
	s := newTestServer(historyOnly{newStubSupplier()}, nil)

	rec := do(t, s, http.MethodGet, "/v1/teams", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not supported")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{models.ErrSameTeam, http.StatusBadRequest},
		{models.NewInvalidOddsError("draw", 0.5), http.StatusUnprocessableEntity},
		{fmt.Errorf("lookup: %w", datasource.NewDataSourceError("api_sports", datasource.ErrCodeNotFound, "team", models.ErrTeamNotFound)), http.StatusNotFound},
		{datasource.NewDataSourceError("api_sports", datasource.ErrCodeNotFound, "h2h", nil), http.StatusNotFound},
		{datasource.NewDataSourceError("api_sports", datasource.ErrCodeServerError, "boom", nil), http.StatusBadGateway},
		{fmt.Errorf("request: %w", datasource.ErrCircuitOpen), http.StatusServiceUnavailable},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}
