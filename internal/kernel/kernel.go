// Package kernel provides convolution-kernel math for the convolve
// primitive: Gaussian kernel generation, normalization, and structural
// recognition of well-known edge-detection kernels.
package kernel

import "math"

// Matrix is a convolution kernel in row-major order.
type Matrix struct {
	// Cols and Rows are the kernel dimensions (order).
	Cols, Rows int
	// Values holds Cols*Rows coefficients in row-major order.
	Values []float64
}

// Valid reports whether the matrix dimensions match its coefficient count.
func (m Matrix) Valid() bool {
	return m.Cols > 0 && m.Rows > 0 && len(m.Values) == m.Cols*m.Rows
}

// Sum returns the sum of all coefficients.
func (m Matrix) Sum() float64 {
	var s float64
	for _, v := range m.Values {
		s += v
	}
	return s
}

// Normalized returns a copy of the matrix scaled so its coefficients sum
// to 1. Kernels with a zero sum (edge detectors) are returned unchanged:
// their response is differential, not an average.
func (m Matrix) Normalized() Matrix {
	sum := m.Sum()
	if sum == 0 {
		return m
	}
	out := Matrix{Cols: m.Cols, Rows: m.Rows, Values: make([]float64, len(m.Values))}
	inv := 1 / sum
	for i, v := range m.Values {
		out.Values[i] = v * inv
	}
	return out
}

// Gaussian generates a 1D Gaussian kernel for the given standard deviation.
// The kernel is normalized so all values sum to 1.0.
//
// The kernel size is 2*ceil(sigma*3)+1, covering 99.7% of the distribution
// (3 standard deviations). For sigma <= 0 the identity kernel [1.0] is
// returned.
func Gaussian(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1.0}
	}

	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1
	kernel := make([]float64, size)

	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := range kernel {
		x := float64(i - halfSize)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = v
		sum += v
	}

	if sum > 0 {
		inv := 1 / sum
		for i := range kernel {
			kernel[i] *= inv
		}
	}
	return kernel
}

// GaussianSize returns the kernel size produced by Gaussian for sigma.
// Useful for pre-computing effect-region expansion.
func GaussianSize(sigma float64) int {
	if sigma <= 0 {
		return 1
	}
	return int(math.Ceil(sigma*3))*2 + 1
}
