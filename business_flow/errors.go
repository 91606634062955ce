// Package businessflow contains the core business logic and use cases of the hours-tracking backend
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Permission and visibility errors
	ErrPermissionDenied = errors.New("permission denied")

	// Interval validation errors
	ErrInvalidInterval        = errors.New("invalid time interval")
	ErrIntervalRequired       = errors.New("a time interval is required for non-regularization entries")
	ErrOverlapConflict        = errors.New("time interval overlaps an existing entry")
	ErrMutationWindowExceeded = errors.New("entry date is outside the today-or-yesterday window")

	// Lookup errors
	ErrWorkerNotFound    = errors.New("worker not found")
	ErrSiteNotFound      = errors.New("site not found")
	ErrCostCodeNotFound  = errors.New("cost code not found")
	ErrTimeEntryNotFound = errors.New("time entry not found")
	ErrUserNotFound      = errors.New("user not found")

	// Uniqueness errors
	ErrWorkerAlreadyExists   = errors.New("worker already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// Referential integrity guards on deletes
	ErrSiteHasCostCodes   = errors.New("site still has cost codes")
	ErrSiteHasEntries     = errors.New("site still has time entries")
	ErrCostCodeHasEntries = errors.New("cost code still has time entries")
	ErrWorkerHasEntries   = errors.New("worker still has time entries")

	// Login errors
	ErrIncorrectPassword = errors.New("incorrect username or password")
	ErrUserInactive      = errors.New("user is inactive")

	// Summary errors
	ErrInvalidMonth = errors.New("month must be between 1 and 12")

	// ErrStorageIntegrity marks writes the database rejected after in-memory
	// validation passed (constraint violation or a concurrent conflicting
	// write). The whole operation has been rolled back.
	ErrStorageIntegrity = errors.New("storage rejected the write")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// OverlapError carries the diagnostics of a rejected interval: which
// candidate collided and with what. Exactly one of EntryUUID (persisted
// record) or BatchIndex (earlier candidate in the same batch) is set.
type OverlapError struct {
	// CandidateIndex is the zero-based position of the rejected candidate in
	// its batch; -1 for single-entry operations.
	CandidateIndex int
	EntryUUID      *string
	BatchIndex     *int
	Range          string
	Date           string
}

func (e *OverlapError) Error() string {
	switch {
	case e.EntryUUID != nil:
		return fmt.Sprintf("overlaps entry %s (%s on %s)", *e.EntryUUID, e.Range, e.Date)
	case e.BatchIndex != nil:
		return fmt.Sprintf("overlaps batch candidate %d (%s on %s)", *e.BatchIndex, e.Range, e.Date)
	default:
		return fmt.Sprintf("overlaps %s on %s", e.Range, e.Date)
	}
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlapConflict
}

// CandidateError pins a batch validation failure to the candidate that caused it.
type CandidateError struct {
	Index int
	Err   error
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("candidate %d: %v", e.Index, e.Err)
}

func (e *CandidateError) Unwrap() error {
	return e.Err
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsInvalidInterval(err error) bool {
	return errors.Is(err, ErrInvalidInterval) || errors.Is(err, ErrIntervalRequired)
}

func IsOverlapConflict(err error) bool {
	return errors.Is(err, ErrOverlapConflict)
}

func IsMutationWindowExceeded(err error) bool {
	return errors.Is(err, ErrMutationWindowExceeded)
}

func IsWorkerNotFound(err error) bool {
	return errors.Is(err, ErrWorkerNotFound)
}

func IsSiteNotFound(err error) bool {
	return errors.Is(err, ErrSiteNotFound)
}

func IsCostCodeNotFound(err error) bool {
	return errors.Is(err, ErrCostCodeNotFound)
}

func IsTimeEntryNotFound(err error) bool {
	return errors.Is(err, ErrTimeEntryNotFound)
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsWorkerAlreadyExists(err error) bool {
	return errors.Is(err, ErrWorkerAlreadyExists)
}

func IsUsernameAlreadyExists(err error) bool {
	return errors.Is(err, ErrUsernameAlreadyExists)
}

func IsSiteHasCostCodes(err error) bool {
	return errors.Is(err, ErrSiteHasCostCodes)
}

func IsSiteHasEntries(err error) bool {
	return errors.Is(err, ErrSiteHasEntries)
}

func IsCostCodeHasEntries(err error) bool {
	return errors.Is(err, ErrCostCodeHasEntries)
}

func IsWorkerHasEntries(err error) bool {
	return errors.Is(err, ErrWorkerHasEntries)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsUserInactive(err error) bool {
	return errors.Is(err, ErrUserInactive)
}

func IsInvalidMonth(err error) bool {
	return errors.Is(err, ErrInvalidMonth)
}

func IsStorageIntegrity(err error) bool {
	return errors.Is(err, ErrStorageIntegrity)
}
