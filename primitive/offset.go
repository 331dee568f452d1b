package primitive

import (
	"context"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/dml"
)

// Offset implements the translation primitive.
type Offset struct{}

// Kind implements filterfx.Filter.
func (Offset) Kind() filterfx.Kind { return filterfx.KindOffset }

// Apply implements filterfx.Filter.
func (Offset) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dx := req.Spec.Params.Float("dx", 0)
	dy := req.Spec.Params.Float("dy", 0)
	in := inputOf(req)

	out := &filterfx.Output{
		Commands: translate(in.Commands, dx, dy),
		Bounds:   in.Bounds.Translate(dx, dy),
	}
	if req.Strategy == filterfx.NativeEffect {
		out.Fragment = dml.Offset(dx, dy)
	}
	return out, nil
}

// Complexity implements filterfx.Filter.
func (Offset) Complexity(filterfx.Params) float64 { return 1 }
