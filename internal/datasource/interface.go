// Package datasource supplies historical match results to the analysis pipeline.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/match-odds/internal/models"
)

// MatchSupplier fetches the recent match history of a team
type MatchSupplier interface {
	// TeamMatches returns the team's recent matches from its own perspective.
	// A team with no recorded matches yields an empty slice and no error.
	TeamMatches(ctx context.Context, team string) ([]models.MatchResult, error)

	// Name returns the name of the data source
	Name() string
}

// HeadToHeadSupplier is implemented by sources that can list past meetings
type HeadToHeadSupplier interface {
	HeadToHead(ctx context.Context, home, away string, limit int) ([]models.HeadToHead, error)
}

// TeamLister is implemented by sources that can enumerate the teams they cover
type TeamLister interface {
	Teams(ctx context.Context) ([]string, error)
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Sentinel errors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidData          = errors.New("invalid data format")
	ErrServerError          = errors.New("server error")
	ErrCircuitOpen          = errors.New("circuit breaker open")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode returns the code of a DataSourceError anywhere in err's chain, or ErrCodeUnknown
func ErrorCode(err error) string {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrCodeUnknown
}
