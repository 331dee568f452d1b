package primitive

import (
	"context"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/drawing"
)

// Merge stacks its secondary input over its primary input in painter's
// order. Chained merges express wider stacks.
type Merge struct{}

// Kind implements filterfx.Filter.
func (Merge) Kind() filterfx.Kind { return filterfx.KindMerge }

// Apply implements filterfx.Filter.
func (Merge) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in := inputOf(req)

	cmds := make([]drawing.Command, 0, len(in.Commands))
	cmds = append(cmds, in.Commands...)
	bounds := in.Bounds
	if req.In2 != nil {
		cmds = append(cmds, req.In2.Commands...)
		bounds = bounds.Union(req.In2.Bounds)
	}

	// Stacking needs no effect element; the merged geometry is the
	// result on every strategy.
	return &filterfx.Output{Commands: cmds, Bounds: bounds}, nil
}

// Complexity implements filterfx.Filter.
func (Merge) Complexity(filterfx.Params) float64 { return 1 }
