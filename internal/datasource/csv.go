package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-odds/internal/models"
)

const csvSourceName = "csv"

// Recognised CSV columns. Only home, away and the goal columns are required.
const (
	colDate        = "date"
	colHome        = "home"
	colAway        = "away"
	colHomeGoals   = "home_goals"
	colAwayGoals   = "away_goals"
	colHomeCorners = "home_corners"
	colAwayCorners = "away_corners"
	colHomeCards   = "home_cards"
	colAwayCards   = "away_cards"
)

var csvDateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// fixtureRow is one parsed line of the matches file
type fixtureRow struct {
	date                     time.Time
	home, away               string
	homeGoals, awayGoals     *int
	homeCorners, awayCorners *int
	homeCards, awayCards     *int
}

// CSVSupplier implements MatchSupplier over a separator-delimited fixtures file
type CSVSupplier struct {
	path      string
	separator rune
	logger    *logrus.Logger

	mu   sync.RWMutex
	rows []fixtureRow
}

// NewCSVSupplier reads the fixtures file at path. The separator defaults to ';'.
func NewCSVSupplier(path string, separator string, logger *logrus.Logger) (*CSVSupplier, error) {
	if logger == nil {
		logger = logrus.New()
	}
	sep := ';'
	if separator != "" {
		sep = []rune(separator)[0]
	}

	s := &CSVSupplier{path: path, separator: sep, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the name of the data source
func (s *CSVSupplier) Name() string {
	return csvSourceName
}

// Reload re-reads the fixtures file
func (s *CSVSupplier) Reload() error {
	f, err := os.Open(s.path)
	if err != nil {
		return NewDataSourceError(csvSourceName, ErrCodeNotFound, "failed to open "+s.path, err)
	}
	defer f.Close()

	rows, err := parseFixtures(f, s.separator)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"source": csvSourceName,
		"path":   s.path,
		"rows":   len(rows),
	}).Debug("Loaded fixtures file")
	return nil
}

// TeamMatches returns every fixture the team played, oldest first. Team names
// are matched case-insensitively.
func (s *CSVSupplier) TeamMatches(ctx context.Context, team string) ([]models.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []models.MatchResult
	for _, r := range s.rows {
		switch {
		case strings.EqualFold(r.home, team):
			matches = append(matches, models.MatchResult{
				Date: r.date, Opponent: r.away, Home: true,
				GoalsFor: r.homeGoals, GoalsAgainst: r.awayGoals,
				CornersFor: r.homeCorners, CornersAgainst: r.awayCorners,
				CardsFor: r.homeCards, CardsAgainst: r.awayCards,
			})
		case strings.EqualFold(r.away, team):
			matches = append(matches, models.MatchResult{
				Date: r.date, Opponent: r.home, Home: false,
				GoalsFor: r.awayGoals, GoalsAgainst: r.homeGoals,
				CornersFor: r.awayCorners, CornersAgainst: r.homeCorners,
				CardsFor: r.awayCards, CardsAgainst: r.homeCards,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Date.Before(matches[j].Date) })
	return matches, nil
}

// HeadToHead returns the latest meetings between the two teams in either venue, newest first
func (s *CSVSupplier) HeadToHead(ctx context.Context, home, away string, limit int) ([]models.HeadToHead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.HeadToHead
	for _, r := range s.rows {
		if (strings.EqualFold(r.home, home) && strings.EqualFold(r.away, away)) ||
			(strings.EqualFold(r.home, away) && strings.EqualFold(r.away, home)) {
			out = append(out, models.HeadToHead{
				Date: r.date, HomeTeam: r.home, AwayTeam: r.away,
				HomeGoals: r.homeGoals, AwayGoals: r.awayGoals,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Teams returns every team name in the file, sorted
func (s *CSVSupplier) Teams(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, r := range s.rows {
		seen[r.home] = struct{}{}
		seen[r.away] = struct{}{}
	}
	teams := make([]string, 0, len(seen))
	for t := range seen {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	return teams, nil
}

func parseFixtures(r io.Reader, separator rune) ([]fixtureRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = separator
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData, "failed to read header", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, required := range []string{colHome, colAway, colHomeGoals, colAwayGoals} {
		if _, ok := index[required]; !ok {
			return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData,
				fmt.Sprintf("missing column %q", required), ErrInvalidData)
		}
	}

	var rows []fixtureRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("line %d", line), err)
		}

		field := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		row := fixtureRow{
			home:        field(colHome),
			away:        field(colAway),
			homeGoals:   parseCount(field(colHomeGoals)),
			awayGoals:   parseCount(field(colAwayGoals)),
			homeCorners: parseCount(field(colHomeCorners)),
			awayCorners: parseCount(field(colAwayCorners)),
			homeCards:   parseCount(field(colHomeCards)),
			awayCards:   parseCount(field(colAwayCards)),
		}
		if row.home == "" || row.away == "" {
			continue
		}
		if d := field(colDate); d != "" {
			row.date = parseDate(d)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parseCount returns nil for blank, negative or non-integer cells so they count as missing.
// Whole-valued decimals such as "2.0" are accepted.
func parseCount(v string) *int {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return nil
		}
		n = int(f)
	}
	if n < 0 {
		return nil
	}
	return &n
}

func parseDate(v string) time.Time {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
