package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrNoItemsSelected indicates a checkout attempt with no Selected lines
	// in the current session. No transaction is opened for it, which makes a
	// repeated checkout after success a safe no-op.
	ErrNoItemsSelected = errors.New("no items selected")
	// ErrOrderNotActionable indicates a delivery confirmation or cancellation
	// against an order that already left the PROCESSING state.
	ErrOrderNotActionable = errors.New("order already processed")
)

// ValidationError rejects a request before any state change.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// LineFailure is one checkout line that failed re-validation under lock.
type LineFailure struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Reason      string `json:"reason"`
	Stock       int    `json:"stock,omitempty"`
	Requested   int    `json:"requested,omitempty"`
}

// AvailabilityError carries the complete itemized list of line failures from
// a rolled-back checkout attempt, never just the first one.
type AvailabilityError struct {
	Failures []LineFailure
}

func (e *AvailabilityError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("product %d: %s", f.ProductID, f.Reason))
	}
	return "checkout rejected: " + strings.Join(parts, "; ")
}
