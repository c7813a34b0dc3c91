package failure

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was aborted.
type Kind string

const (
	NoSession         Kind = "no_session"
	StoreReadFailure  Kind = "store_read_failure"
	StoreWriteFailure Kind = "store_write_failure"
	GeneratorFailure  Kind = "generator_failure"
	ValidationFailure Kind = "validation_failure"
)

// Error carries the kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with kind and op.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
