package api

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/searchbridge/internal/domain"
	"github.com/kailas-cloud/searchbridge/internal/domain/batch"
	"github.com/kailas-cloud/searchbridge/internal/domain/search/result"
	"github.com/kailas-cloud/searchbridge/internal/dsl/query"
)

// Error codes.
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeValidationFailed = "validation_failed"
	CodeCompileFailed    = "compile_failed"
	CodeIndexExists      = "index_exists"
	CodeItemRejected     = "item_rejected"
	CodeEngineError      = "engine_error"
	CodeInternalError    = "internal_error"
)

// FromResult converts a result set.
func FromResult(set result.Set) SearchResult {
	hits := make([]Hit, 0, len(set.Items()))
	for _, it := range set.Items() {
		hits = append(hits, Hit{ID: it.ID(), Score: it.Score(), Fields: it.Fields()})
	}
	return SearchResult{ResultCount: set.Total(), Items: hits}
}

// FromBuilt converts a compiled search.
func FromBuilt(b query.Built) Compiled {
	return Compiled{Index: b.Index, Body: b.Body, Warnings: b.Warnings}
}

// FromBatch converts per-item bulk outcomes.
func FromBatch(results []batch.Result) BulkResult {
	resp := BulkResult{Items: make([]BulkItem, len(results))}
	for i, r := range results {
		resp.Items[i] = BulkItem{ID: r.ID(), Status: string(r.Status())}
		if r.Status() == batch.StatusOK {
			resp.Succeeded++
			continue
		}
		resp.Failed++
		resp.Items[i].Error = itemError(r)
	}
	return resp
}

func itemError(r batch.Result) *Error {
	if f := r.Failure(); f != nil {
		msg := f.Reason
		if f.Type != "" {
			msg = fmt.Sprintf("%s: %s", f.Type, f.Reason)
		}
		if f.CausedBy != "" {
			msg += " (caused by: " + f.CausedBy + ")"
		}
		return &Error{Code: CodeItemRejected, Message: msg}
	}
	if errors.Is(r.Err(), domain.ErrEngineCommunication) {
		return &Error{Code: CodeEngineError, Message: domain.ErrEngineCommunication.Error()}
	}
	return &Error{Code: CodeInternalError, Message: "internal error"}
}
