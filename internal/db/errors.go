package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Sentinel errors for engine operations.
var (
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
)

// Op constants name engine API calls for error context.
const (
	OpPing        = "ping"
	OpIndexExists = "indices.exists"
	OpCreateIndex = "indices.create"
	OpDeleteIndex = "indices.delete"
	OpPutMapping  = "indices.put_mapping"
	OpSearch      = "search"
	OpBulk        = "bulk"
)

// Engine error types with a sentinel equivalent.
const (
	TypeIndexNotFound = "index_not_found_exception"
	TypeIndexExists   = "resource_already_exists_exception"
)

// Error describes a failed engine call. Client library errors never leave
// the adapters; they are folded into Err.
type Error struct {
	Op     string
	Index  string
	Status int
	Type   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Index != "" {
		msg += " [" + e.Index + "]"
	}
	if e.Status != 0 {
		msg += ": status " + strconv.Itoa(e.Status)
	}
	if e.Type != "" {
		msg += ": " + e.Type
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinels by engine error type.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIndexNotFound:
		return e.Type == TypeIndexNotFound
	case ErrIndexExists:
		return e.Type == TypeIndexExists
	}
	return false
}

// errorBody is the engine error envelope. "error" is an object on modern
// engines and a bare string on some proxies.
type errorBody struct {
	Error  json.RawMessage `json:"error"`
	Status int             `json:"status"`
}

type errorCause struct {
	Type     string `json:"type"`
	Reason   string `json:"reason"`
	CausedBy *struct {
		Reason string `json:"reason"`
	} `json:"caused_by"`
}

// ParseError builds an Error from a non-2xx engine response body.
func ParseError(op, index string, status int, body []byte) *Error {
	e := &Error{Op: op, Index: index, Status: status}

	var env errorBody
	if err := json.Unmarshal(body, &env); err != nil || len(env.Error) == 0 {
		// Index APIs answer a bare 404 for a missing index.
		if status == http.StatusNotFound && op != OpSearch && op != OpBulk {
			e.Type = TypeIndexNotFound
		}
		if len(body) > 0 && err != nil {
			e.Reason = truncate(string(body))
		}
		return e
	}

	var cause errorCause
	if err := json.Unmarshal(env.Error, &cause); err != nil {
		var s string
		if json.Unmarshal(env.Error, &s) == nil {
			e.Reason = s
		}
		return e
	}
	e.Type = cause.Type
	e.Reason = cause.Reason
	if cause.CausedBy != nil && cause.CausedBy.Reason != "" {
		e.Reason = fmt.Sprintf("%s: %s", cause.Reason, cause.CausedBy.Reason)
	}
	return e
}

const maxReason = 512

func truncate(s string) string {
	if len(s) <= maxReason {
		return s
	}
	return s[:maxReason] + "..."
}
