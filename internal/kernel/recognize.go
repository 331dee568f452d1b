package kernel

import "math"

// Known identifies a structurally recognized kernel family.
type Known uint8

const (
	// KnownNone means the kernel matched no reference family.
	KnownNone Known = iota
	// KnownSobelX is the horizontal Sobel edge detector.
	KnownSobelX
	// KnownSobelY is the vertical Sobel edge detector.
	KnownSobelY
	// KnownPrewittX is the horizontal Prewitt edge detector.
	KnownPrewittX
	// KnownPrewittY is the vertical Prewitt edge detector.
	KnownPrewittY
	// KnownLaplacian4 is the 4-connected Laplacian.
	KnownLaplacian4
	// KnownLaplacian8 is the 8-connected Laplacian.
	KnownLaplacian8
	// KnownSharpen is the unsharp 3x3 sharpening kernel.
	KnownSharpen
	// KnownEmboss is the diagonal emboss kernel.
	KnownEmboss
	// KnownBox is a uniform box-blur kernel of any odd order.
	KnownBox
	// KnownIdentity is the identity kernel (single centered 1).
	KnownIdentity
)

// knownNames maps Known values to their string representation.
var knownNames = [...]string{
	KnownNone:       "None",
	KnownSobelX:     "SobelX",
	KnownSobelY:     "SobelY",
	KnownPrewittX:   "PrewittX",
	KnownPrewittY:   "PrewittY",
	KnownLaplacian4: "Laplacian4",
	KnownLaplacian8: "Laplacian8",
	KnownSharpen:    "Sharpen",
	KnownEmboss:     "Emboss",
	KnownBox:        "Box",
	KnownIdentity:   "Identity",
}

// String returns the string representation of a Known kernel family.
func (k Known) String() string {
	if int(k) < len(knownNames) {
		return knownNames[k]
	}
	return "Unknown"
}

// VectorApproximable reports whether the family has a vector-space
// equivalent (edge detectors map to stroked outlines, box/identity map to
// blur/no-op). Unrecognized kernels are never vector-approximable.
func (k Known) VectorApproximable() bool {
	return k != KnownNone
}

// reference3x3 holds the reference coefficient layouts for 3x3 families.
// Recognition is scale-invariant: a kernel that is a uniform positive
// multiple of a reference matches that reference.
var reference3x3 = []struct {
	known  Known
	values [9]float64
}{
	{KnownSobelX, [9]float64{-1, 0, 1, -2, 0, 2, -1, 0, 1}},
	{KnownSobelY, [9]float64{-1, -2, -1, 0, 0, 0, 1, 2, 1}},
	{KnownPrewittX, [9]float64{-1, 0, 1, -1, 0, 1, -1, 0, 1}},
	{KnownPrewittY, [9]float64{-1, -1, -1, 0, 0, 0, 1, 1, 1}},
	{KnownLaplacian4, [9]float64{0, 1, 0, 1, -4, 1, 0, 1, 0}},
	{KnownLaplacian8, [9]float64{1, 1, 1, 1, -8, 1, 1, 1, 1}},
	{KnownSharpen, [9]float64{0, -1, 0, -1, 5, -1, 0, -1, 0}},
	{KnownEmboss, [9]float64{-2, -1, 0, -1, 1, 1, 0, 1, 2}},
}

// matchTolerance is the per-coefficient tolerance used during structural
// matching, after scale normalization.
const matchTolerance = 1e-6

// Recognize structurally matches a kernel against the reference families.
// Matching is scale-invariant but not rotation- or permutation-invariant:
// the coefficient layout must line up with a reference.
func Recognize(m Matrix) Known {
	if !m.Valid() {
		return KnownNone
	}

	if k := recognizeUniform(m); k != KnownNone {
		return k
	}

	if m.Cols != 3 || m.Rows != 3 {
		return KnownNone
	}

	for _, ref := range reference3x3 {
		if matchesScaled(m.Values, ref.values[:]) {
			return ref.known
		}
	}
	return KnownNone
}

// recognizeUniform handles the families that are not tied to a 3x3 layout:
// identity and uniform box kernels of any odd order.
func recognizeUniform(m Matrix) Known {
	if m.Cols == 1 && m.Rows == 1 {
		return KnownIdentity
	}
	if m.Cols%2 == 0 || m.Rows%2 == 0 {
		return KnownNone
	}

	// Identity: single non-zero coefficient at the center.
	center := (m.Rows/2)*m.Cols + m.Cols/2
	identity := m.Values[center] != 0
	uniform := true
	first := m.Values[0]
	for i, v := range m.Values {
		if i != center && v != 0 {
			identity = false
		}
		if math.Abs(v-first) > matchTolerance {
			uniform = false
		}
	}
	if identity {
		return KnownIdentity
	}
	if uniform && first > 0 {
		return KnownBox
	}
	return KnownNone
}

// matchesScaled reports whether got is a uniform positive multiple of ref.
func matchesScaled(got, ref []float64) bool {
	if len(got) != len(ref) {
		return false
	}

	// Find the scale from the first non-zero reference coefficient.
	scale := 0.0
	for i, r := range ref {
		if r != 0 {
			scale = got[i] / r
			break
		}
	}
	if scale <= 0 {
		return false
	}

	for i, r := range ref {
		if math.Abs(got[i]-r*scale) > matchTolerance*math.Max(1, math.Abs(scale)) {
			return false
		}
	}
	return true
}
