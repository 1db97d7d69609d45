package sync

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure. Each operation surfaces at most
// one kind per call; the first failure short-circuits the rest.
type Kind string

const (
	KindInvalidRange  Kind = "invalid_range"
	KindNoData        Kind = "no_data"
	KindFetchFailed   Kind = "fetch_failed"
	KindPersistFailed Kind = "persist_failed"
)

// Error is a pipeline failure with enough context to log and surface:
// which operation, which symbol, and the underlying cause.
type Error struct {
	Kind   Kind
	Op     string
	Symbol string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Symbol, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Symbol, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or "" for nil and untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func failed(kind Kind, op, symbol string, err error) *Error {
	return &Error{Kind: kind, Op: op, Symbol: symbol, Err: err}
}
