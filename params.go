package filterfx

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sort"
)

// Params is the typed parameter bag of a primitive specification.
//
// Values are restricted to float64, string, bool and []float64; the
// upstream parser hands over unit-normalized values, so no unit parsing
// happens here. The accessors return a caller-provided default when a key
// is absent or has the wrong type, which keeps primitive code free of
// two-value map lookups.
type Params map[string]any

// Float returns the float64 value for key, or def if absent.
// Integer values are widened.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

// String returns the string value for key, or def if absent.
func (p Params) String(key string, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// Bool returns the bool value for key, or def if absent.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// Floats returns the []float64 value for key, or nil if absent.
// The returned slice is shared with the parameter bag; callers must not
// modify it.
func (p Params) Floats(key string) []float64 {
	if v, ok := p[key].([]float64); ok {
		return v
	}
	return nil
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Hash returns a canonical 64-bit hash of the parameter values.
//
// Keys are visited in sorted order and each value is encoded with a type
// tag, so two bags with the same entries hash identically regardless of
// insertion order, and a float 1 never collides with the string "1".
func (p Params) Hash() uint64 {
	h := fnv.New64a()
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf [8]byte
	for _, k := range keys {
		_, _ = h.Write([]byte(k))
		switch v := p[k].(type) {
		case float64:
			_, _ = h.Write([]byte{'f'})
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = h.Write(buf[:])
		case int:
			_, _ = h.Write([]byte{'f'})
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(v)))
			_, _ = h.Write(buf[:])
		case string:
			_, _ = h.Write([]byte{'s'})
			_, _ = h.Write([]byte(v))
		case bool:
			_, _ = h.Write([]byte{'b'})
			if v {
				_, _ = h.Write([]byte{1})
			} else {
				_, _ = h.Write([]byte{0})
			}
		case []float64:
			_, _ = h.Write([]byte{'l'})
			binary.LittleEndian.PutUint64(buf[:], uint64(len(v)))
			_, _ = h.Write(buf[:])
			for _, f := range v {
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
				_, _ = h.Write(buf[:])
			}
		}
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
