// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidOrder     = errors.New("invalid order")
	ErrLegCountMismatch = errors.New("leg count mismatch")
	ErrDataUnavailable  = errors.New("market data unavailable")
	ErrStoreUnavailable = errors.New("order store unavailable")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrOrderNotFound    = errors.New("order not found")
)

// ParseError represents a failure to parse a broker order string.
// It always wraps ErrInvalidOrder: any failure aborts the whole parse.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid order %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidOrder
}

// NewParseError creates a new ParseError.
func NewParseError(input, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Input:  input,
		Reason: fmt.Sprintf(format, args...),
	}
}

// PricingError represents an inconsistency between a structure and the
// market data supplied for it.
type PricingError struct {
	LegCount    int
	MarketCount int
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("leg count mismatch: %d legs but %d market entries", e.LegCount, e.MarketCount)
}

func (e *PricingError) Unwrap() error {
	return ErrLegCountMismatch
}

// NewPricingError creates a new PricingError.
func NewPricingError(legCount, marketCount int) *PricingError {
	return &PricingError{
		LegCount:    legCount,
		MarketCount: marketCount,
	}
}

// StoreError represents an error from the order blotter store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
