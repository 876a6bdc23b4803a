package models

import (
	"errors"
	"fmt"
)

// DenialReason explains why a steal was not authorized
type DenialReason string

const (
	DenialLOYRequired      DenialReason = "LOY_REQUIRED"
	DenialLOQOrLOYRequired DenialReason = "LOQ_OR_LOY_REQUIRED"
	DenialLadderPriority   DenialReason = "LADDER_PRIORITY"
)

// Decision is the outcome of a steal authorization check. A denial is
// ordinary data, not an error: the claim was understood and refused.
type Decision struct {
	Allowed bool         `json:"allowed"`
	Reason  DenialReason `json:"reason,omitempty"`
}

// Allow returns an allowing decision
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with the given reason
func Deny(reason DenialReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// ClaimRequest carries everything needed to claim a team for a week
// and slot
type ClaimRequest struct {
	WeekID       int        `json:"week_id"`
	PlayerID     string     `json:"player_id"`
	Slot         Slot       `json:"slot"`
	Team         string     `json:"team"`
	Spread       float64    `json:"spread"`
	Odds         int        `json:"odds,omitempty"`
	Combo        BonusCombo `json:"combo"`
	Pressed      bool       `json:"pressed"`
	ConfirmSteal bool       `json:"confirm_steal"`
}

// ValidationError marks a claim that is malformed or spends something
// the player does not have. Distinct from an authorization denial and
// from an assignment conflict.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError
func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	// ErrTeamTaken means another claim won the race for the team.
	// Retryable once the caller re-reads the board.
	ErrTeamTaken = errors.New("team no longer available")

	// ErrWeekLocked means the week no longer accepts claims
	ErrWeekLocked = errors.New("week is locked")

	// ErrWeekNotFound means the week does not exist
	ErrWeekNotFound = errors.New("week not found")

	// ErrPickNotFound means no active pick matched
	ErrPickNotFound = errors.New("pick not found")

	// ErrDuplicateClaim means the store holds two active picks for one
	// team, which the rules never allow. Readers refuse to guess.
	ErrDuplicateClaim = errors.New("duplicate active claim for team")
)
