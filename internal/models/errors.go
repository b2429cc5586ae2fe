package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrInvalidOdds  = errors.New("invalid odds")
	ErrTeamNotFound = errors.New("team not found")
	ErrSameTeam     = errors.New("home and away team must differ")
)

// InvalidOddsError is returned when a decimal price cannot be evaluated
type InvalidOddsError struct {
	Odds   float64
	Market string
}

// NewInvalidOddsError creates an InvalidOddsError for the given price
func NewInvalidOddsError(market string, odds float64) *InvalidOddsError {
	return &InvalidOddsError{Odds: odds, Market: market}
}

func (e *InvalidOddsError) Error() string {
	if e.Market != "" {
		return fmt.Sprintf("invalid odds for %s: %v (decimal odds must be greater than 1)", e.Market, e.Odds)
	}
	return fmt.Sprintf("invalid odds: %v (decimal odds must be greater than 1)", e.Odds)
}

// Is lets errors.Is match ErrInvalidOdds
func (e *InvalidOddsError) Is(target error) bool {
	return target == ErrInvalidOdds
}
