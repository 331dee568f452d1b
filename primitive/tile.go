package primitive

import (
	"context"
	"fmt"

	"github.com/deckfx/filterfx"
	"github.com/deckfx/filterfx/drawing"
)

// Tile fills the effect region with one of the fixed procedural
// patterns. The metafile encoder maps hatch and crosshatch onto native
// hatch brushes and expands the other patterns into line tilings.
type Tile struct{}

// patternKinds maps the pattern parameter to its fill kind.
var patternKinds = map[string]drawing.PatternKind{
	"hatch":      drawing.PatternHatch,
	"crosshatch": drawing.PatternCrosshatch,
	"hexagonal":  drawing.PatternHexagonal,
	"grid":       drawing.PatternGrid,
	"brick":      drawing.PatternBrick,
}

// Kind implements filterfx.Filter.
func (Tile) Kind() filterfx.Kind { return filterfx.KindTile }

// Apply implements filterfx.Filter.
func (Tile) Apply(ctx context.Context, req *filterfx.Request) (*filterfx.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := req.Spec.Params

	name := p.String("pattern", "hatch")
	kind, ok := patternKinds[name]
	if !ok {
		return nil, fmt.Errorf("primitive: unknown tile pattern %q", name)
	}
	color, err := colorParam(p, "patternColor", "patternOpacity", drawing.RGBA{A: 255})
	if err != nil {
		return nil, err
	}

	region := req.Spec.Region
	if region.Empty() {
		region = inputOf(req).Bounds
	}

	return &filterfx.Output{
		Commands: []drawing.Command{
			drawing.FillRectCommand{
				Rect: region,
				Fill: drawing.PatternFill{
					Kind:    kind,
					Color:   color,
					Spacing: p.Float("spacing", drawing.DefaultPatternSpacing),
				},
			},
		},
		Bounds: region,
	}, nil
}

// Complexity implements filterfx.Filter. Dense tilings emit more
// records.
func (Tile) Complexity(p filterfx.Params) float64 {
	spacing := p.Float("spacing", drawing.DefaultPatternSpacing)
	if spacing <= 0 {
		spacing = drawing.DefaultPatternSpacing
	}
	return 2 + drawing.DefaultPatternSpacing/spacing
}
