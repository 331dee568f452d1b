package filterfx

import "github.com/deckfx/filterfx/drawing"

// Strategy is the chosen output representation for one primitive instance.
//
// The values are ordered by decreasing nativeness: a larger value is a
// heavier fallback. The policy engine's monotonicity contract is expressed
// against this ordering.
type Strategy uint8

const (
	// NativeEffect maps the primitive onto a built-in presentation effect.
	NativeEffect Strategy = iota
	// VectorApprox approximates the primitive with vector geometry.
	VectorApprox
	// EMFFallback renders the primitive's vector output into an embedded
	// metafile.
	EMFFallback
	// RasterFallback rasterizes the output. Never chosen by the policy
	// engine directly; reached only when metafile encoding fails.
	RasterFallback
)

// strategyNames maps Strategy values to their string representation.
var strategyNames = [...]string{
	NativeEffect:   "native",
	VectorApprox:   "vector",
	EMFFallback:    "emf",
	RasterFallback: "raster",
}

// String returns the string representation of a Strategy.
func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "unknown"
}

// Diagnostic records a non-fatal event observed during execution, such as
// an isolated node failure or a size-cap escalation.
type Diagnostic struct {
	// ID uniquely identifies the diagnostic.
	ID string
	// Node is the id of the spec the diagnostic concerns.
	Node string
	// Message describes what happened and how it was degraded.
	Message string
}

// NodeResult is the outcome of one primitive instance.
type NodeResult struct {
	// ID is the spec id.
	ID string
	// Kind is the primitive kind.
	Kind Kind
	// Strategy is the representation the node ended up with, including
	// encoder-triggered escalation.
	Strategy Strategy
	// Fragment is the inline DrawingML payload for native/vector results.
	Fragment string
	// Blob is the binary payload for metafile (EMF bytes) or raster (PNG
	// bytes) results. The embedder registers it as a package relationship
	// part.
	Blob []byte
	// Bounds is the result bounding box in device units.
	Bounds drawing.Rect
	// Passthrough marks a node whose failure was isolated and replaced by
	// an identity pass-through of its primary input.
	Passthrough bool
}

// ExecutionResult is the outcome of one chain execution. It is owned by
// the caller and never mutated after return.
type ExecutionResult struct {
	// ExecutionID uniquely identifies this execution for diagnostics.
	ExecutionID string
	// Key is the cache key the execution was stored under.
	Key uint64
	// Nodes holds one result per primitive, in graph order.
	Nodes []NodeResult
	// Final is the result of the graph's output node (the last primitive).
	Final NodeResult
	// Diagnostics lists the non-fatal events recorded during execution.
	Diagnostics []Diagnostic
	// Cached reports whether the result was served from the cache.
	Cached bool
}

// SizeEstimate approximates the memory held by the result, used as the
// cache size hint.
func (r *ExecutionResult) SizeEstimate() int {
	size := 0
	for i := range r.Nodes {
		size += len(r.Nodes[i].Fragment) + len(r.Nodes[i].Blob)
	}
	return size
}
