package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-odds/internal/models"
)

const (
	apiSportsSourceName = "api_sports"
	apiSportsKeyHeader  = "x-apisports-key"
	defaultLastMatches  = 15
)

// APISportsClient implements MatchSupplier for the API-Sports football API
type APISportsClient struct {
	httpClient  *RateLimitedHTTPClient
	baseURL     string
	apiKey      string
	leagueID    int
	season      int
	lastMatches int
	logger      *logrus.Logger

	mu      sync.RWMutex
	teamIDs map[string]int
}

// APISportsOptions configures an APISportsClient
type APISportsOptions struct {
	BaseURL     string
	APIKey      string
	LeagueID    int
	Season      int
	LastMatches int
}

// apiSportsEnvelope is the common response wrapper. Errors is an array when
// empty and an object keyed by field otherwise.
type apiSportsEnvelope struct {
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

type apiSportsFixture struct {
	Fixture struct {
		ID     int       `json:"id"`
		Date   time.Time `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	Teams struct {
		Home apiSportsTeam `json:"home"`
		Away apiSportsTeam `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type apiSportsTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type apiSportsTeamEntry struct {
	Team apiSportsTeam `json:"team"`
}

// NewAPISportsClient creates a new API-Sports client
func NewAPISportsClient(httpClient *RateLimitedHTTPClient, opts APISportsOptions, logger *logrus.Logger) *APISportsClient {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.LastMatches <= 0 {
		opts.LastMatches = defaultLastMatches
	}
	return &APISportsClient{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		leagueID:    opts.LeagueID,
		season:      opts.Season,
		lastMatches: opts.LastMatches,
		logger:      logger,
		teamIDs:     make(map[string]int),
	}
}

// Name returns the name of the data source
func (c *APISportsClient) Name() string {
	return apiSportsSourceName
}

// TeamMatches returns the team's last finished fixtures. The team may be given
// as a numeric API-Sports ID or as a name, which is resolved once and remembered.
func (c *APISportsClient) TeamMatches(ctx context.Context, team string) ([]models.MatchResult, error) {
	teamID, err := c.resolveTeam(ctx, team)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("team", strconv.Itoa(teamID))
	params.Set("last", strconv.Itoa(c.lastMatches))
	if c.leagueID > 0 {
		params.Set("league", strconv.Itoa(c.leagueID))
	}
	if c.season > 0 {
		params.Set("season", strconv.Itoa(c.season))
	}

	var fixtures []apiSportsFixture
	if err := c.get(ctx, "/fixtures", params, &fixtures); err != nil {
		return nil, err
	}

	matches := make([]models.MatchResult, 0, len(fixtures))
	for _, f := range fixtures {
		matches = append(matches, fixtureToMatch(f, teamID))
	}

	c.logger.WithFields(logrus.Fields{
		"source":  apiSportsSourceName,
		"team":    team,
		"team_id": teamID,
		"matches": len(matches),
	}).Debug("Fetched team fixtures")

	return matches, nil
}

// HeadToHead returns the most recent meetings between two teams
func (c *APISportsClient) HeadToHead(ctx context.Context, home, away string, limit int) ([]models.HeadToHead, error) {
	homeID, err := c.resolveTeam(ctx, home)
	if err != nil {
		return nil, err
	}
	awayID, err := c.resolveTeam(ctx, away)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("h2h", fmt.Sprintf("%d-%d", homeID, awayID))
	params.Set("last", strconv.Itoa(limit))

	var fixtures []apiSportsFixture
	if err := c.get(ctx, "/fixtures/headtohead", params, &fixtures); err != nil {
		return nil, err
	}

	out := make([]models.HeadToHead, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, models.HeadToHead{
			Date:      f.Fixture.Date,
			HomeTeam:  f.Teams.Home.Name,
			AwayTeam:  f.Teams.Away.Name,
			HomeGoals: f.Goals.Home,
			AwayGoals: f.Goals.Away,
		})
	}
	return out, nil
}

// Teams lists the teams of the configured league and season. The returned IDs
// are remembered so later lookups by name skip the /teams call.
func (c *APISportsClient) Teams(ctx context.Context) ([]string, error) {
	if c.leagueID <= 0 || c.season <= 0 {
		return nil, NewDataSourceError(apiSportsSourceName, ErrCodeInvalidData,
			"league_id and season are required to list teams", ErrInvalidData)
	}

	params := url.Values{}
	params.Set("league", strconv.Itoa(c.leagueID))
	params.Set("season", strconv.Itoa(c.season))

	var entries []apiSportsTeamEntry
	if err := c.get(ctx, "/teams", params, &entries); err != nil {
		return nil, err
	}

	teams := make([]string, 0, len(entries))
	c.mu.Lock()
	for _, e := range entries {
		if e.Team.Name == "" {
			continue
		}
		c.teamIDs[strings.ToLower(e.Team.Name)] = e.Team.ID
		teams = append(teams, e.Team.Name)
	}
	c.mu.Unlock()
	sort.Strings(teams)

	c.logger.WithFields(logrus.Fields{
		"source": apiSportsSourceName,
		"league": c.leagueID,
		"season": c.season,
		"teams":  len(teams),
	}).Debug("Fetched league teams")

	return teams, nil
}

func (c *APISportsClient) resolveTeam(ctx context.Context, team string) (int, error) {
	team = strings.TrimSpace(team)
	if id, err := strconv.Atoi(team); err == nil && id > 0 {
		return id, nil
	}

	key := strings.ToLower(team)
	c.mu.RLock()
	id, ok := c.teamIDs[key]
	c.mu.RUnlock()
	if ok {
		return id, nil
	}

	params := url.Values{}
	params.Set("name", team)
	if c.leagueID > 0 {
		params.Set("league", strconv.Itoa(c.leagueID))
	}
	if c.season > 0 {
		params.Set("season", strconv.Itoa(c.season))
	}

	var entries []apiSportsTeamEntry
	if err := c.get(ctx, "/teams", params, &entries); err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, NewDataSourceError(apiSportsSourceName, ErrCodeNotFound,
			fmt.Sprintf("team %q", team), models.ErrTeamNotFound)
	}

	id = entries[0].Team.ID
	c.mu.Lock()
	c.teamIDs[key] = id
	c.mu.Unlock()
	return id, nil
}

func (c *APISportsClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path + "?" + params.Encode()
	resp, err := c.httpClient.Get(ctx, endpoint, map[string]string{
		apiSportsKeyHeader: c.apiKey,
		"Accept":           "application/json",
	})
	if err != nil {
		return NewDataSourceError(apiSportsSourceName, ErrCodeNetworkError, "request to "+path+" failed", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	var envelope apiSportsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return NewDataSourceError(apiSportsSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	if msg := envelopeErrors(envelope.Errors); msg != "" {
		code := ErrCodeServerError
		if strings.Contains(strings.ToLower(msg), "token") || strings.Contains(strings.ToLower(msg), "key") {
			code = ErrCodeAuthenticationFailed
		}
		return NewDataSourceError(apiSportsSourceName, code, msg, nil)
	}
	if len(envelope.Response) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Response, out); err != nil {
		return NewDataSourceError(apiSportsSourceName, ErrCodeInvalidData, "unexpected response shape", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewDataSourceError(apiSportsSourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(apiSportsSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(apiSportsSourceName, ErrCodeNotFound, "endpoint not found", nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewDataSourceError(apiSportsSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), ErrServerError)
	}
}

// envelopeErrors flattens the errors field, which is [] or {"field": "message"}
func envelopeErrors(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil && len(asMap) > 0 {
		parts := make([]string, 0, len(asMap))
		for field, msg := range asMap {
			parts = append(parts, field+": "+msg)
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil && len(asList) > 0 {
		return strings.Join(asList, "; ")
	}
	return ""
}

func fixtureToMatch(f apiSportsFixture, teamID int) models.MatchResult {
	home := f.Teams.Home.ID == teamID
	m := models.MatchResult{Date: f.Fixture.Date, Home: home}
	if home {
		m.Opponent = f.Teams.Away.Name
		m.GoalsFor, m.GoalsAgainst = f.Goals.Home, f.Goals.Away
	} else {
		m.Opponent = f.Teams.Home.Name
		m.GoalsFor, m.GoalsAgainst = f.Goals.Away, f.Goals.Home
	}
	return m
}
