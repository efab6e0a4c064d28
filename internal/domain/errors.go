package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedOperator signals a condition operator with no DSL shape.
	ErrUnsupportedOperator = errors.New("unsupported operator")
	// ErrUnknownField signals a filter on a field outside the index schema.
	ErrUnknownField = errors.New("unknown field")
	// ErrMissingOperator signals a condition without an operator.
	ErrMissingOperator = errors.New("missing operator")
	// ErrInvalidConjunction signals a group conjunction other than AND/OR.
	ErrInvalidConjunction = errors.New("invalid conjunction")
	// ErrInvalidValue signals a condition value whose shape does not fit the operator.
	ErrInvalidValue = errors.New("invalid condition value")

	// ErrInvalidSchema signals an invalid index schema definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidRequest signals an invalid search request.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrEngineCommunication signals a failed exchange with the search engine.
	ErrEngineCommunication = errors.New("engine communication failure")
	// ErrPartialBulkFailure signals that some items of a bulk request were rejected.
	ErrPartialBulkFailure = errors.New("partial bulk failure")
)

// CompileError is a DSL compilation failure. Kind is one of the compile sentinels.
type CompileError struct {
	Kind        error
	Field       string
	Operator    string
	Conjunction string
}

func (e *CompileError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrUnsupportedOperator):
		return fmt.Sprintf("%s %q for field %q", e.Kind, e.Operator, e.Field)
	case errors.Is(e.Kind, ErrInvalidConjunction):
		return fmt.Sprintf("%s %q", e.Kind, e.Conjunction)
	case errors.Is(e.Kind, ErrInvalidValue):
		return fmt.Sprintf("%s for operator %q on field %q", e.Kind, e.Operator, e.Field)
	default:
		return fmt.Sprintf("%s %q", e.Kind, e.Field)
	}
}

func (e *CompileError) Unwrap() error { return e.Kind }

// EngineError wraps an engine failure with the operation and target index.
type EngineError struct {
	Op    string
	Index string
	Err   error
}

func (e *EngineError) Error() string {
	if e.Index == "" {
		return fmt.Sprintf("%s: %s: %v", ErrEngineCommunication, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s on index %q: %v", ErrEngineCommunication, e.Op, e.Index, e.Err)
}

func (e *EngineError) Unwrap() []error { return []error{ErrEngineCommunication, e.Err} }

// NewEngineError wraps err unless it already carries engine context.
func NewEngineError(op, index string, err error) error {
	var ee *EngineError
	if errors.As(err, &ee) {
		return err
	}
	return &EngineError{Op: op, Index: index, Err: err}
}

// BulkFailure describes one item rejected by the engine in a bulk request.
type BulkFailure struct {
	ID       string
	Status   int
	Type     string
	Reason   string
	CausedBy string
}

// PartialBulkFailureError aggregates every rejected item of one bulk request.
type PartialBulkFailureError struct {
	Index     string
	Failures  []BulkFailure
	Succeeded []string
}

func (e *PartialBulkFailureError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ID)
	}
	return fmt.Sprintf("%s: %d item(s) rejected by index %q: %s",
		ErrPartialBulkFailure, len(e.Failures), e.Index, strings.Join(ids, ", "))
}

func (e *PartialBulkFailureError) Unwrap() error { return ErrPartialBulkFailure }
