package filterfx

import (
	"errors"
	"fmt"
)

// NotFoundError reports a primitive kind with no registered implementation.
// It is raised while a chain resolves its graph, before any primitive runs.
type NotFoundError struct {
	// Kind is the unregistered primitive kind.
	Kind Kind
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("filterfx: no filter registered for kind %q", e.Kind)
}

// CyclicGraphError reports a cycle in a filter graph. The error is
// structural and fatal: it surfaces during resolving, before any primitive
// executes.
type CyclicGraphError struct {
	// Nodes are the ids of the specs participating in the cycle.
	Nodes []string
}

// Error implements error.
func (e *CyclicGraphError) Error() string {
	return fmt.Sprintf("filterfx: filter graph contains a cycle through %v", e.Nodes)
}

// UnresolvedReferenceError reports an input reference that names neither a
// result binding nor a well-known source. Like a cycle, it is structural
// and fatal.
type UnresolvedReferenceError struct {
	// Node is the id of the spec holding the reference.
	Node string
	// Reference is the unresolvable input name.
	Reference string
}

// Error implements error.
func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("filterfx: node %q references unknown input %q", e.Node, e.Reference)
}

// PrimitiveError wraps a single node's failure with the failing node's id.
// Under error isolation the error becomes a diagnostic; with fail-fast
// enabled it aborts the chain wrapped in a ChainError.
type PrimitiveError struct {
	// Node is the id of the failing spec.
	Node string
	// Kind is the primitive kind that failed.
	Kind Kind
	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *PrimitiveError) Error() string {
	return fmt.Sprintf("filterfx: primitive %q (%s) failed: %v", e.Node, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PrimitiveError) Unwrap() error { return e.Err }

// ChainError reports a chain aborted in fail-fast mode. It identifies the
// first failing node through the wrapped PrimitiveError.
type ChainError struct {
	// Err is the node failure that aborted the chain.
	Err error
}

// Error implements error.
func (e *ChainError) Error() string {
	return fmt.Sprintf("filterfx: chain aborted: %v", e.Err)
}

// Unwrap returns the node failure that aborted the chain.
func (e *ChainError) Unwrap() error { return e.Err }

// ErrChainReused is returned when Execute or Stream is called on a chain
// that has already run. Chains are single-use; construct a new chain per
// filtered element.
var ErrChainReused = errors.New("filterfx: chain has already executed")
