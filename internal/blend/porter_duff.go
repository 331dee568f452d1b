package blend

// Porter-Duff implementations (premultiplied alpha)

// opOver composites source over destination (default operator).
// Formula: S + D * (1 - Sa)
func opOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return clampAdd(sr, mulDiv255(dr, invSa)),
		clampAdd(sg, mulDiv255(dg, invSa)),
		clampAdd(sb, mulDiv255(db, invSa)),
		clampAdd(sa, mulDiv255(da, invSa))
}

// opIn shows source where destination is opaque.
// Formula: S * Da
func opIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(sr, da), mulDiv255(sg, da), mulDiv255(sb, da), mulDiv255(sa, da)
}

// opOut shows source where destination is transparent.
// Formula: S * (1 - Da)
func opOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	return mulDiv255(sr, invDa), mulDiv255(sg, invDa), mulDiv255(sb, invDa), mulDiv255(sa, invDa)
}

// opAtop composites source over destination, preserving destination alpha.
// Formula: S * Da + D * (1 - Sa)
func opAtop(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return clampAdd(mulDiv255(sr, da), mulDiv255(dr, invSa)),
		clampAdd(mulDiv255(sg, da), mulDiv255(dg, invSa)),
		clampAdd(mulDiv255(sb, da), mulDiv255(db, invSa)),
		da // Alpha unchanged (destination alpha)
}

// opXor shows source and destination where they don't overlap.
// Formula: S * (1 - Da) + D * (1 - Sa)
func opXor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invDa := 255 - da
	invSa := 255 - sa
	return clampAdd(mulDiv255(sr, invDa), mulDiv255(dr, invSa)),
		clampAdd(mulDiv255(sg, invDa), mulDiv255(dg, invSa)),
		clampAdd(mulDiv255(sb, invDa), mulDiv255(db, invSa)),
		clampAdd(mulDiv255(sa, invDa), mulDiv255(da, invSa))
}

// Separable blend modes (W3C compositing-1, applied in premultiplied space)

// opMultiply multiplies source and destination.
// Formula: S*D + S*(1-Da) + D*(1-Sa)
func opMultiply(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	invDa := 255 - da
	mix := func(s, d byte) byte {
		return clampAdd(clampAdd(mulDiv255(s, d), mulDiv255(s, invDa)), mulDiv255(d, invSa))
	}
	return mix(sr, dr), mix(sg, dg), mix(sb, db), clampAdd(sa, mulDiv255(da, invSa))
}

// opScreen inverts, multiplies, and inverts again.
// Formula: S + D - S*D
func opScreen(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	mix := func(s, d byte) byte {
		return clampAdd(s, d-mulDiv255(s, d))
	}
	return mix(sr, dr), mix(sg, dg), mix(sb, db), mix(sa, da)
}

// opDarken keeps the darker of the two colors.
// Formula: min(S*Da, D*Sa) + S*(1-Da) + D*(1-Sa)
func opDarken(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	invDa := 255 - da
	mix := func(s, d byte) byte {
		return clampAdd(clampAdd(minByte(mulDiv255(s, da), mulDiv255(d, sa)), mulDiv255(s, invDa)), mulDiv255(d, invSa))
	}
	return mix(sr, dr), mix(sg, dg), mix(sb, db), clampAdd(sa, mulDiv255(da, invSa))
}

// opLighten keeps the lighter of the two colors.
// Formula: max(S*Da, D*Sa) + S*(1-Da) + D*(1-Sa)
func opLighten(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	invDa := 255 - da
	mix := func(s, d byte) byte {
		return clampAdd(clampAdd(maxByte(mulDiv255(s, da), mulDiv255(d, sa)), mulDiv255(s, invDa)), mulDiv255(d, invSa))
	}
	return mix(sr, dr), mix(sg, dg), mix(sb, db), clampAdd(sa, mulDiv255(da, invSa))
}

// ArithmeticFunc builds the compositing function for the arithmetic
// operator with coefficients k1..k4 applied per channel:
//
//	result = k1*S*D + k2*S + k3*D + k4
//
// Inputs and output are premultiplied; the result is clamped to [0, 255].
func ArithmeticFunc(k1, k2, k3, k4 float64) Func {
	return func(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
		mix := func(s, d byte) byte {
			sf := float64(s) / 255
			df := float64(d) / 255
			v := k1*sf*df + k2*sf + k3*df + k4
			return clampUnit(v)
		}
		return mix(sr, dr), mix(sg, dg), mix(sb, db), mix(sa, da)
	}
}

// Utility functions

// mulDiv255 multiplies two byte values and divides by 255 with proper rounding.
// Formula: (a * b + 127) / 255
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// clampAdd adds two byte values with clamping to 255.
func clampAdd(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// clampUnit clamps a unit-range float to [0, 1] and converts to a byte.
func clampUnit(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// minByte returns the smaller of two bytes.
func minByte(a, b byte) byte {
	if a < b {
		return a
	}
	return b
}

// maxByte returns the larger of two bytes.
func maxByte(a, b byte) byte {
	if a > b {
		return a
	}
	return b
}
