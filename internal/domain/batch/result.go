package batch

import (
	"errors"

	"github.com/kailas-cloud/searchbridge/internal/domain"
)

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one item in a bulk operation.
type Result struct {
	id      string
	status  ItemStatus
	err     error
	failure *domain.BulkFailure
}

// NewOK creates a successful batch result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// NewRejected creates a result for an item the engine rejected.
func NewRejected(f domain.BulkFailure) Result {
	return Result{id: f.ID, status: StatusError, err: domain.ErrPartialBulkFailure, failure: &f}
}

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Failure returns the engine rejection details, or nil.
func (r Result) Failure() *domain.BulkFailure { return r.failure }

// Outcomes maps the ids sent in one bulk request and the resulting error to
// per-item results, in ids order. A partial failure marks only the rejected
// items; any other error marks every item.
func Outcomes(ids []string, err error) []Result {
	results := make([]Result, len(ids))

	var partial *domain.PartialBulkFailureError
	if err != nil && !errors.As(err, &partial) {
		for i, id := range ids {
			results[i] = NewError(id, err)
		}
		return results
	}

	rejected := map[string]domain.BulkFailure{}
	if partial != nil {
		for _, f := range partial.Failures {
			rejected[f.ID] = f
		}
	}
	for i, id := range ids {
		if f, ok := rejected[id]; ok {
			results[i] = NewRejected(f)
			continue
		}
		results[i] = NewOK(id)
	}
	return results
}
