// Package hsgerr defines the engine's typed error taxonomy (spec §7).
//
// Errors travel up the call stack as typed values; only the outermost
// request boundary deals with them: internal/http maps them to HTTP
// statuses, and internal/mcpadapter returns their text as a tool error
// result. Background workers never propagate these to request threads -
// they log them instead.
package hsgerr

import "fmt"

// ValidationError indicates malformed caller input (empty content, bad
// sector enum, k out of range). Surfaced verbatim to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError indicates a memory, namespace, or fact could not be found.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func NewNotFoundError(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// NamespaceAccessError indicates a memory exists but not within any of the
// request's namespaces. Callers must render this identically to
// NotFoundError so existence is never leaked across tenants.
type NamespaceAccessError struct {
	ID string
}

func (e *NamespaceAccessError) Error() string {
	return fmt.Sprintf("memory %q not visible in requested namespaces", e.ID)
}

func NewNamespaceAccessError(id string) error {
	return &NamespaceAccessError{ID: id}
}

// EmbedError indicates the embedding provider call failed.
type EmbedError struct {
	Provider string
	Err      error
}

func (e *EmbedError) Error() string {
	return fmt.Sprintf("embed: provider %s: %v", e.Provider, e.Err)
}

func (e *EmbedError) Unwrap() error { return e.Err }

func NewEmbedError(provider string, err error) error {
	return &EmbedError{Provider: provider, Err: err}
}

// VectorStoreError indicates an upsert/search/delete against the vector
// store failed.
type VectorStoreError struct {
	Op  string
	Err error
}

func (e *VectorStoreError) Error() string {
	return fmt.Sprintf("vector store: %s: %v", e.Op, e.Err)
}

func (e *VectorStoreError) Unwrap() error { return e.Err }

func NewVectorStoreError(op string, err error) error {
	return &VectorStoreError{Op: op, Err: err}
}

// MetadataStoreError is fatal for the current request: the transaction
// never committed, so no compensation is required.
type MetadataStoreError struct {
	Op  string
	Err error
}

func (e *MetadataStoreError) Error() string {
	return fmt.Sprintf("metadata store: %s: %v", e.Op, e.Err)
}

func (e *MetadataStoreError) Unwrap() error { return e.Err }

func NewMetadataStoreError(op string, err error) error {
	return &MetadataStoreError{Op: op, Err: err}
}

// TimeoutError indicates the request was canceled or exceeded its deadline.
// No partial commit is implied.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout: %s", e.Op)
}

func NewTimeoutError(op string) error {
	return &TimeoutError{Op: op}
}

// InternalError is the catch-all. It never exposes internal detail to
// callers beyond the message given; stack context belongs in the log line
// that wraps it, not in the error string returned to a client.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("internal: %s", e.Msg)
}

func (e *InternalError) Unwrap() error { return e.Err }

func NewInternalError(msg string, err error) error {
	return &InternalError{Msg: msg, Err: err}
}
