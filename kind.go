package filterfx

// Kind identifies a filter primitive kind.
//
// The set of kinds is closed: dispatch goes through a Registry keyed by
// Kind rather than open-ended dynamic dispatch, and extensibility comes
// from registering a different implementation for an existing kind.
type Kind uint8

const (
	// KindBlur is a Gaussian blur.
	KindBlur Kind = iota
	// KindOffset translates its input by a fixed vector.
	KindOffset
	// KindMerge stacks its inputs in order.
	KindMerge
	// KindFlood fills the effect region with a solid color.
	KindFlood
	// KindComposite combines two inputs with a Porter-Duff operator or
	// blend mode.
	KindComposite
	// KindColorMatrix applies a 5x4 color transformation matrix.
	KindColorMatrix
	// KindConvolve applies a convolution kernel.
	KindConvolve
	// KindMorphology dilates or erodes its input.
	KindMorphology
	// KindLighting lights its input with a distant or point light source.
	KindLighting
	// KindDisplacement displaces pixels of one input by another.
	KindDisplacement
	// KindTile tiles the effect region with a procedural pattern.
	KindTile
	// KindComponentTransfer remaps color channels through transfer
	// functions.
	KindComponentTransfer
	// KindDropShadow renders a blurred, offset shadow behind its input.
	KindDropShadow

	// kindCount is the number of defined kinds; keep last.
	kindCount
)

// kindNames maps Kind values to their string representation.
// The names double as keys in the compatibility-table configuration.
var kindNames = [...]string{
	KindBlur:              "blur",
	KindOffset:            "offset",
	KindMerge:             "merge",
	KindFlood:             "flood",
	KindComposite:         "composite",
	KindColorMatrix:       "colormatrix",
	KindConvolve:          "convolve",
	KindMorphology:        "morphology",
	KindLighting:          "lighting",
	KindDisplacement:      "displacement",
	KindTile:              "tile",
	KindComponentTransfer: "componenttransfer",
	KindDropShadow:        "dropshadow",
}

// String returns the string representation of a Kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindFromName maps a kind name back to its Kind value.
// Returns (0, false) for unknown names.
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds returns all defined kinds in declaration order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}
