package scheduling

import (
	"errors"
	"fmt"
)

// Sentinel errors for the scheduling core. Callers match with errors.Is;
// the HTTP layer maps kinds to status codes via ClassifyError.
var (
	ErrBranchNotFound    = errors.New("branch not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrNoEligibleAgents  = errors.New("no eligible agents for branch")
	ErrActiveTicket      = errors.New("customer already has an active ticket")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSameStatus        = errors.New("ticket already in requested status")
	ErrNoServices        = errors.New("at least one service is required")
	ErrUnknownStatus     = errors.New("unknown ticket status")
	ErrConflict          = errors.New("concurrent scheduling conflict")
	ErrNoSlotFound       = errors.New("no slot found within scheduling horizon")
)

// ErrorKind is the coarse taxonomy surfaced to callers.
type ErrorKind int

const (
	KindPersistence ErrorKind = iota
	KindNotFound
	KindBusinessRule
	KindValidation
	KindConflict
)

// ClassifyError maps an error to its kind. Anything unrecognized is a
// persistence/opaque failure and must not be retried automatically;
// only KindConflict is safe to retry.
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrBranchNotFound), errors.Is(err, ErrTicketNotFound):
		return KindNotFound
	case errors.Is(err, ErrNoEligibleAgents), errors.Is(err, ErrActiveTicket),
		errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSameStatus),
		errors.Is(err, ErrNoSlotFound):
		return KindBusinessRule
	case errors.Is(err, ErrNoServices), errors.Is(err, ErrUnknownStatus):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	}
	return KindPersistence
}

// wrapBranchDay annotates a collaborator error with the scheduling
// context so logs can attribute the failure.
func wrapBranchDay(err error, branchID int64, day string) error {
	return fmt.Errorf("branch %d day %s: %w", branchID, day, err)
}
