package filterfx

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/deckfx/filterfx/drawing"
)

// Filter is the contract every primitive implementation satisfies.
//
// Apply must be a pure function of its declared inputs: no hidden state,
// no I/O. The execution engine caches results keyed on the graph structure
// and parameter values, which is only sound when identical requests always
// produce identical outputs.
type Filter interface {
	// Kind returns the primitive kind this filter implements.
	Kind() Kind

	// Apply executes the primitive for one request. Implementations check
	// ctx between internal sub-steps where feasible; otherwise
	// cancellation takes effect at the next dependency barrier.
	Apply(ctx context.Context, req *Request) (*Output, error)

	// Complexity scores the cost/fidelity burden of the primitive for the
	// given parameters. The score is consumed only by the policy engine.
	Complexity(p Params) float64
}

// Request carries everything a primitive needs for one application.
type Request struct {
	// Spec is the primitive specification being executed.
	Spec PrimitiveSpec
	// Strategy is the representation chosen by the policy engine; the
	// primitive shapes its output payload accordingly.
	Strategy Strategy
	// In is the resolved primary input.
	In *Output
	// In2 is the resolved secondary input, nil for single-input kinds.
	In2 *Output
}

// Output is a primitive's result in whichever representations the chosen
// strategy calls for.
type Output struct {
	// Fragment is an inline DrawingML fragment, set for NativeEffect and
	// VectorApprox strategies.
	Fragment string
	// Commands is the vector command form, set when the output can feed
	// the metafile encoder or the raster renderer.
	Commands []drawing.Command
	// Raster is encoded PNG bytes, set only when the primitive had to
	// compose pixels directly (arithmetic compositing).
	Raster []byte
	// Bounds is the output bounding box in device units.
	Bounds drawing.Rect
}

// Clone returns a copy sharing no mutable slices with the receiver.
func (o *Output) Clone() *Output {
	if o == nil {
		return nil
	}
	out := &Output{Fragment: o.Fragment, Bounds: o.Bounds}
	if o.Commands != nil {
		out.Commands = make([]drawing.Command, len(o.Commands))
		copy(out.Commands, o.Commands)
	}
	if o.Raster != nil {
		out.Raster = make([]byte, len(o.Raster))
		copy(out.Raster, o.Raster)
	}
	return out
}

// SourceContent is the rendered content of the filtered element, handed to
// the chain by the upstream shape converter. It seeds the well-known
// sources and the cache key's input fingerprint.
type SourceContent struct {
	// Commands is the element's geometry as drawing commands.
	Commands []drawing.Command
	// Bounds is the element's bounding box in device units.
	Bounds drawing.Rect
	// Fingerprint distinguishes source geometry in the cache key.
	// Zero means "compute from Commands".
	Fingerprint uint64
}

// fingerprint returns the explicit fingerprint or derives one from the
// command geometry, so structurally identical graphs applied to different
// source geometry never share a cache entry.
func (s *SourceContent) fingerprint() uint64 {
	if s == nil {
		return 0
	}
	if s.Fingerprint != 0 {
		return s.Fingerprint
	}
	return FingerprintCommands(s.Commands)
}

// FingerprintCommands hashes a command sequence into a 64-bit fingerprint.
func FingerprintCommands(cmds []drawing.Command) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeF := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	writePts := func(pts []drawing.Point) {
		for _, p := range pts {
			writeF(p.X)
			writeF(p.Y)
		}
	}
	for _, c := range cmds {
		_, _ = h.Write([]byte{byte(c.Type())})
		switch cmd := c.(type) {
		case drawing.PolygonCommand:
			writePts(cmd.Points)
		case drawing.PolylineCommand:
			writePts(cmd.Points)
			writeF(cmd.Width)
		case drawing.FillRectCommand:
			writeF(cmd.Rect.MinX)
			writeF(cmd.Rect.MinY)
			writeF(cmd.Rect.MaxX)
			writeF(cmd.Rect.MaxY)
		case drawing.TextCommand:
			_, _ = h.Write([]byte(cmd.Text))
			writeF(cmd.Origin.X)
			writeF(cmd.Origin.Y)
		}
	}
	return h.Sum64()
}
