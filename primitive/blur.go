package primitive

import (
	"context"
	"fmt"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/dml"
	"github.com/deckfx/filterfx/internal/kernel"
)

// Blur implements the Gaussian blur primitive.
//
// Natively it becomes a blur effect element. On the fallback paths the
// geometry passes through unchanged with the bounds grown by the blur
// support; the visual softening is what the fallback gives up.
type Blur struct{}

// Kind implements filterfx.Filter.
func (Blur) Kind() filterfx.Kind { return filterfx.KindBlur }

// Apply implements filterfx.Filter.
func (Blur) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sigma := req.Spec.Params.Float("stdDeviation", 0)
	if sigma < 0 {
		return nil, fmt.Errorf("primitive: blur stdDeviation must be >= 0, got %g", sigma)
	}

	in := inputOf(req)
	support := float64(kernel.GaussianSize(sigma)-1) / 2

	out := &filterfx.Output{
		Commands: in.Commands,
		Bounds:   in.Bounds.Expand(support, support),
	}
	if req.Strategy == filterfx.NativeEffect {
		// The effect radius covers the bulk of the Gaussian mass.
		out.Fragment = dml.EffectList(dml.Blur(2 * sigma))
	}
	return out, nil
}

// Complexity implements filterfx.Filter. Wide blurs cost more and push
// toward a cheaper strategy under the policy threshold.
func (Blur) Complexity(p filterfx.Params) float64 {
	return p.Float("stdDeviation", 0)
}
