package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/yourusername/match-odds/internal/datasource"
	"github.com/yourusername/match-odds/internal/models"
	"github.com/yourusername/match-odds/internal/service"
)

const (
	defaultH2HLimit = 10
	maxH2HLimit     = 50
	maxBodyBytes    = 1 << 20
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ValueRequest is the body of POST /v1/value
type ValueRequest struct {
	Market      string  `json:"market,omitempty"`
	Probability float64 `json:"probability"`
	Odds        float64 `json:"odds"`
}

// HeadToHeadResponse is the body of GET /v1/h2h
type HeadToHeadResponse struct {
	HomeTeam string              `json:"home_team"`
	AwayTeam string              `json:"away_team"`
	Meetings []models.HeadToHead `json:"meetings"`
}

// TeamsResponse is the body of GET /v1/teams
type TeamsResponse struct {
	Source string   `json:"source"`
	Teams  []string `json:"teams"`
}

var errBadRequest = errors.New("bad request")

// handleAnalysisQuery serves GET /v1/analysis?home=..&away=..&odds=market:price
func (s *Server) handleAnalysisQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prices, err := service.ParsePrices(q["odds"])
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.analyze(w, r, service.FixtureRequest{
		HomeTeam: q.Get("home"),
		AwayTeam: q.Get("away"),
		Prices:   prices,
	})
}

// handleAnalysisBody serves POST /v1/analysis with a FixtureRequest body
func (s *Server) handleAnalysisBody(w http.ResponseWriter, r *http.Request) {
	var req service.FixtureRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.analyze(w, r, req)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, req service.FixtureRequest) {
	if strings.TrimSpace(req.HomeTeam) == "" || strings.TrimSpace(req.AwayTeam) == "" {
		s.writeError(w, r, fmt.Errorf("%w: home and away are required", errBadRequest))
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// handleValue serves POST /v1/value
func (s *Server) handleValue(w http.ResponseWriter, r *http.Request) {
	var req ValueRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	assessment, err := s.analyzer.Evaluate(req.Probability, req.Odds)
	if err != nil {
		var invalid *models.InvalidOddsError
		if errors.As(err, &invalid) {
			invalid.Market = req.Market
		}
		s.writeError(w, r, err)
		return
	}
	assessment.Market = req.Market
	writeJSON(w, http.StatusOK, assessment)
}

// handleHeadToHead serves GET /v1/h2h?home=..&away=..&limit=n
func (s *Server) handleHeadToHead(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	home, away := q.Get("home"), q.Get("away")
	if strings.TrimSpace(home) == "" || strings.TrimSpace(away) == "" {
		s.writeError(w, r, fmt.Errorf("%w: home and away are required", errBadRequest))
		return
	}

	limit := defaultH2HLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", errBadRequest))
			return
		}
		limit = min(n, maxH2HLimit)
	}

	meetings, err := s.analyzer.HeadToHead(r.Context(), home, away, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if meetings == nil {
		meetings = []models.HeadToHead{}
	}
	writeJSON(w, http.StatusOK, HeadToHeadResponse{HomeTeam: home, AwayTeam: away, Meetings: meetings})
}

// handleTeams serves GET /v1/teams
func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.analyzer.Teams(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if teams == nil {
		teams = []string{}
	}
	writeJSON(w, http.StatusOK, TeamsResponse{Source: s.analyzer.Source(), Teams: teams})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithField("request_id", RequestID(r.Context())).WithError(err).Error("Request error")
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: RequestID(r.Context())})
}

// statusFor maps domain and supplier errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, models.ErrSameTeam):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidOdds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrTeamNotFound):
		return http.StatusNotFound
	}

	var dsErr datasource.DataSourceError
	if errors.As(err, &dsErr) {
		switch dsErr.Code {
		case datasource.ErrCodeNotFound:
			return http.StatusNotFound
		case datasource.ErrCodeRateLimitExceeded:
			return http.StatusServiceUnavailable
		default:
			return http.StatusBadGateway
		}
	}
	if errors.Is(err, datasource.ErrCircuitOpen) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
