// Package dml builds the inline DrawingML fragments used for native and
// vector-approximated effect payloads, and converts device units into
// EMUs (English Metric Units), the fixed-point unit of the target format.
//
// Fragments are returned as strings ready to be attached to a shape's
// properties by the document embedder; this package never touches the
// output container itself.
package dml

import (
	"fmt"
	"math"
	"strings"

	"github.com/deckfx/filterfx/drawing"
)

// EMU conversion factors.
const (
	// EMUPerInch is the number of EMUs in one inch.
	EMUPerInch = 914400
	// EMUPerPoint is the number of EMUs in one typographic point.
	EMUPerPoint = 12700
	// DeviceDPI is the resolution device units are expressed in.
	DeviceDPI = 96
	// EMUPerDevice is the number of EMUs in one device unit (96 dpi pixel).
	EMUPerDevice = EMUPerInch / DeviceDPI
)

// EMU converts device units to EMUs, rounding to the nearest unit.
func EMU(deviceUnits float64) int64 {
	return int64(math.Round(deviceUnits * EMUPerDevice))
}

// Degrees converts degrees to the format's 1/60000-degree angle unit,
// normalized to [0, 360).
func Degrees(deg float64) int64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return int64(math.Round(deg * 60000))
}

// Percent converts a unit fraction to the format's 1/1000-percent unit,
// clamped to [0, 1].
func Percent(frac float64) int64 {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return int64(math.Round(frac * 100000))
}

// ColorHex formats a color as the 6-digit uppercase hex the format uses.
// Alpha is expressed separately via alpha child elements.
func ColorHex(c drawing.RGBA) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Blur returns a blur effect element with the radius in device units.
func Blur(radius float64) string {
	return fmt.Sprintf(`<a:blur rad="%d"/>`, EMU(radius))
}

// OuterShadow returns an outer shadow effect element.
// blur and dist are in device units, dir in degrees clockwise from east.
func OuterShadow(blur, dist, dir float64, c drawing.RGBA) string {
	return fmt.Sprintf(
		`<a:outerShdw blurRad="%d" dist="%d" dir="%d">%s</a:outerShdw>`,
		EMU(blur), EMU(dist), Degrees(dir), colorElem(c))
}

// SolidFill returns a solid fill element.
func SolidFill(c drawing.RGBA) string {
	return fmt.Sprintf(`<a:solidFill>%s</a:solidFill>`, colorElem(c))
}

// Grayscale returns the grayscale color-change element.
func Grayscale() string {
	return `<a:grayscl/>`
}

// Duotone returns a duotone element mapping luminance between two colors.
func Duotone(dark, light drawing.RGBA) string {
	return fmt.Sprintf(`<a:duotone>%s%s</a:duotone>`, colorElem(dark), colorElem(light))
}

// AlphaModFix returns a fixed alpha modulation element.
// alpha is a unit fraction.
func AlphaModFix(alpha float64) string {
	return fmt.Sprintf(`<a:alphaModFix amt="%d"/>`, Percent(alpha))
}

// Luminance returns a brightness/contrast adjustment element.
// Both arguments are unit fractions in [-1, 1].
func Luminance(bright, contrast float64) string {
	return fmt.Sprintf(`<a:lum bright="%d" contrast="%d"/>`,
		signedPercent(bright), signedPercent(contrast))
}

// Offset returns a child-offset transform element with device-unit
// displacements.
func Offset(dx, dy float64) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/></a:xfrm>`, EMU(dx), EMU(dy))
}

// EffectList wraps effect elements in an effect-list container, dropping
// empty fragments.
func EffectList(effects ...string) string {
	var b strings.Builder
	b.WriteString(`<a:effectLst>`)
	for _, e := range effects {
		if e == "" {
			continue
		}
		b.WriteString(e)
	}
	b.WriteString(`</a:effectLst>`)
	return b.String()
}

// colorElem formats a color with its alpha child when not fully opaque.
func colorElem(c drawing.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf(`<a:srgbClr val="%s"/>`, ColorHex(c))
	}
	return fmt.Sprintf(`<a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr>`,
		ColorHex(c), Percent(float64(c.A)/255))
}

// signedPercent converts a [-1, 1] fraction to 1/1000-percent units.
func signedPercent(frac float64) int64 {
	if frac < -1 {
		frac = -1
	}
	if frac > 1 {
		frac = 1
	}
	return int64(math.Round(frac * 100000))
}
