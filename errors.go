package searchbridge

import (
	"github.com/kailas-cloud/searchbridge/internal/db"
	"github.com/kailas-cloud/searchbridge/internal/domain"
)

// Sentinel errors re-exported from the domain and engine layers.
// Use errors.Is() to check.
var (
	ErrInvalidSchema       = domain.ErrInvalidSchema
	ErrInvalidRequest      = domain.ErrInvalidRequest
	ErrUnknownField        = domain.ErrUnknownField
	ErrUnsupportedOperator = domain.ErrUnsupportedOperator
	ErrMissingOperator     = domain.ErrMissingOperator
	ErrInvalidConjunction  = domain.ErrInvalidConjunction
	ErrInvalidValue        = domain.ErrInvalidValue
	ErrEngineCommunication = domain.ErrEngineCommunication
	ErrPartialBulkFailure  = domain.ErrPartialBulkFailure
	ErrIndexExists         = db.ErrIndexExists
	ErrIndexNotFound       = db.ErrIndexNotFound
)

// Error types carrying details. Use errors.As() to inspect.
type (
	CompileError            = domain.CompileError
	EngineError             = domain.EngineError
	BulkFailure             = domain.BulkFailure
	PartialBulkFailureError = domain.PartialBulkFailureError
)
