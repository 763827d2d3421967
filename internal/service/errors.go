package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrHouseNotFound      = errors.New("house not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingOverlap     = errors.New("room is already booked for the requested period")
	ErrDuplicateRoomCode  = errors.New("room code already exists in this house")
	ErrDuplicateHouseCode = errors.New("house code already exists")
	ErrInvalidTransition  = errors.New("booking status transition not allowed")
	ErrBookingClosed      = errors.New("booking is closed for changes")
	ErrConcurrentUpdate   = errors.New("booking was changed concurrently, retry the request")

	errRoomMoved = errors.New("booking moved to another room")
)

// ValidationError captures field level problems with caller input.
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for f := range v.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+v.FieldErrors[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) Add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, exists := v.FieldErrors[field]; !exists {
		v.FieldErrors[field] = message
	}
}

func invalid(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// RoomFailure records one room the reconciler could not persist.
type RoomFailure struct {
	RoomID uint
	Err    error
}

// ReconcileError reports the rooms left stale by a reconciliation pass.
type ReconcileError struct {
	Failures []RoomFailure
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconcile: %d room(s) failed to update", len(e.Failures))
}

func (e *ReconcileError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, fmt.Errorf("room %d: %w", f.RoomID, f.Err))
	}
	return errs
}

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
