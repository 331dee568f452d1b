package emf

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/unicode"

	"github.com/deckfx/filterfx/drawing"
)

// Options configures an encoding run.
type Options struct {
	// SizeCap is the maximum encoded size in bytes.
	// Zero means DefaultSizeCap; negative disables the cap.
	SizeCap int
}

// Encode serializes a command sequence into a metafile document.
//
// The document starts with one header record carrying the bounds in
// device units, followed by the shape, fill and pattern records in
// command order, and ends with an EOF record. Pattern fills are expanded
// from the fixed pattern table.
func Encode(cmds []drawing.Command, bounds drawing.Rect, opts Options) (*Document, error) {
	cap := opts.SizeCap
	if cap == 0 {
		cap = DefaultSizeCap
	}

	e := &encoder{sizeCap: cap}
	e.writeHeader(bounds)

	for _, c := range cmds {
		var err error
		switch cmd := c.(type) {
		case drawing.PolygonCommand:
			err = e.writePolygon(cmd)
		case drawing.PolylineCommand:
			err = e.writePolyline(cmd.Points, cmd.Color, cmd.Width)
		case drawing.FillRectCommand:
			err = e.writeFillRect(cmd)
		case drawing.TextCommand:
			err = e.writeText(cmd)
		default:
			err = &EncodingError{Record: "unknown", Err: ErrInvalidRecord}
		}
		if err != nil {
			return nil, err
		}
	}

	if err := e.writeEOF(); err != nil {
		return nil, err
	}
	e.patchHeader()

	return &Document{data: e.buf, records: e.records}, nil
}

// encoder accumulates records into a byte buffer.
// All multi-byte fields are little-endian; every record is padded to
// 4-byte alignment before the next one starts.
type encoder struct {
	buf     []byte
	records int
	handles uint16
	sizeCap int
}

// device resolution used for the header's frame rectangle.
const (
	deviceDPI      = 96
	devicePxX      = 1024
	devicePxY      = 768
	deviceMmX      = 271
	deviceMmY      = 203
	headerSize     = 88
	nBytesOffset   = 48 // offset of nBytes within the header record
	nHandlesOffset = 56
)

// writeHeader emits the 88-byte header record. nBytes, nRecords and
// nHandles are patched in after encoding completes.
func (e *encoder) writeHeader(bounds drawing.Rect) {
	e.u32(recHeader)
	e.u32(headerSize)
	// rclBounds: inclusive device-unit bounds.
	e.i32(int32(math.Floor(bounds.MinX)))
	e.i32(int32(math.Floor(bounds.MinY)))
	e.i32(int32(math.Ceil(bounds.MaxX)))
	e.i32(int32(math.Ceil(bounds.MaxY)))
	// rclFrame: the same rectangle in .01 millimeter units.
	toFrame := func(v float64) int32 {
		return int32(math.Round(v * 2540 / deviceDPI))
	}
	e.i32(toFrame(bounds.MinX))
	e.i32(toFrame(bounds.MinY))
	e.i32(toFrame(bounds.MaxX))
	e.i32(toFrame(bounds.MaxY))
	e.u32(signature)
	e.u32(0x00010000) // nVersion
	e.u32(0)          // nBytes (patched)
	e.u32(0)          // nRecords (patched)
	e.u16(0)          // nHandles (patched)
	e.u16(0)          // sReserved
	e.u32(0)          // nDescription
	e.u32(0)          // offDescription
	e.u32(0)          // nPalEntries
	e.i32(devicePxX)  // szlDevice
	e.i32(devicePxY)
	e.i32(deviceMmX) // szlMillimeters
	e.i32(deviceMmY)
	e.records++
}

// patchHeader fills in the totals the header could not know up front.
func (e *encoder) patchHeader() {
	binary.LittleEndian.PutUint32(e.buf[nBytesOffset:], uint32(len(e.buf)))
	binary.LittleEndian.PutUint32(e.buf[nBytesOffset+4:], uint32(e.records))
	// GDI handle count includes the reserved stock-object slot.
	binary.LittleEndian.PutUint16(e.buf[nHandlesOffset:], e.handles+1)
}

// writePolygon emits the brush selection and polygon records for a fill.
// Pattern fills from the procedural half of the table (hexagonal, grid,
// brick) are expanded into polyline tilings clipped to the polygon's
// bounding box.
func (e *encoder) writePolygon(cmd drawing.PolygonCommand) error {
	if len(cmd.Points) < 3 {
		return &EncodingError{Record: "polygon", Err: ErrInvalidRecord}
	}

	switch fill := cmd.Fill.(type) {
	case drawing.SolidFill:
		if err := e.writeBrush(brushSolid, fill.Color, 0); err != nil {
			return err
		}
	case drawing.PatternFill:
		hatch, procedural := patternBrush(fill.Kind)
		if procedural {
			return e.writeProceduralPattern(cmd, fill)
		}
		if err := e.writeBrush(brushHatched, fill.Color, hatch); err != nil {
			return err
		}
	default:
		return &EncodingError{Record: "polygon", Err: ErrInvalidRecord}
	}

	return e.writePointRecord(recPolygon, "polygon", cmd.Points)
}

// writeFillRect emits a rectangle as a 4-point polygon.
func (e *encoder) writeFillRect(cmd drawing.FillRectCommand) error {
	r := cmd.Rect
	return e.writePolygon(drawing.PolygonCommand{
		Points: []drawing.Point{
			{X: r.MinX, Y: r.MinY},
			{X: r.MaxX, Y: r.MinY},
			{X: r.MaxX, Y: r.MaxY},
			{X: r.MinX, Y: r.MaxY},
		},
		Fill: cmd.Fill,
	})
}

// writePolyline emits the pen selection and polyline records for a stroke.
func (e *encoder) writePolyline(pts []drawing.Point, color drawing.RGBA, width float64) error {
	if len(pts) < 2 {
		return &EncodingError{Record: "polyline", Err: ErrInvalidRecord}
	}
	if err := e.writePen(color, width); err != nil {
		return err
	}
	return e.writePointRecord(recPolyline, "polyline", pts)
}

// writePointRecord emits a bounds-prefixed point-array record (polygon or
// polyline share the same layout).
func (e *encoder) writePointRecord(rec uint32, name string, pts []drawing.Point) error {
	size := 8 + 16 + 4 + 8*len(pts)
	if err := e.reserve(size, name); err != nil {
		return err
	}

	var minX, minY, maxX, maxY int32
	for i, p := range pts {
		x, y := deviceUnits(p)
		if i == 0 {
			minX, minY, maxX, maxY = x, y, x, y
			continue
		}
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}

	e.u32(rec)
	e.u32(uint32(size))
	e.i32(minX)
	e.i32(minY)
	e.i32(maxX)
	e.i32(maxY)
	e.u32(uint32(len(pts)))
	for _, p := range pts {
		x, y := deviceUnits(p)
		e.i32(x)
		e.i32(y)
	}
	e.records++
	return nil
}

// writeBrush emits a CreateBrushIndirect record followed by SelectObject.
func (e *encoder) writeBrush(style uint32, color drawing.RGBA, hatch uint32) error {
	if err := e.reserve(24+12, "brush"); err != nil {
		return err
	}
	handle := e.nextHandle()

	e.u32(recCreateBrushIndirect)
	e.u32(24)
	e.u32(handle)
	e.u32(style)
	e.u32(colorref(color))
	e.u32(hatch)
	e.records++

	e.writeSelect(handle)
	return nil
}

// writePen emits a CreatePen record followed by SelectObject.
func (e *encoder) writePen(color drawing.RGBA, width float64) error {
	if err := e.reserve(28+12, "pen"); err != nil {
		return err
	}
	handle := e.nextHandle()

	e.u32(recCreatePen)
	e.u32(28)
	e.u32(handle)
	e.u32(0) // PS_SOLID
	e.i32(int32(math.Round(width)))
	e.i32(0)
	e.u32(colorref(color))
	e.records++

	e.writeSelect(handle)
	return nil
}

// writeSelect emits a SelectObject record. The caller has reserved space.
func (e *encoder) writeSelect(handle uint32) {
	e.u32(recSelectObject)
	e.u32(12)
	e.u32(handle)
	e.records++
}

// writeText emits SetTextColor and ExtTextOutW records.
// The string payload is UTF-16LE per the wire format.
func (e *encoder) writeText(cmd drawing.TextCommand) error {
	utf16le := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	encoded, err := utf16le.Bytes([]byte(cmd.Text))
	if err != nil {
		return &EncodingError{Record: "exttextoutw", Err: ErrInvalidRecord}
	}
	nChars := len(encoded) / 2
	if nChars == 0 {
		return &EncodingError{Record: "exttextoutw", Err: ErrInvalidRecord}
	}

	strSize := pad4(len(encoded))
	size := 76 + strSize
	if err := e.reserve(12+size, "exttextoutw"); err != nil {
		return err
	}

	e.u32(recSetTextColor)
	e.u32(12)
	e.u32(colorref(cmd.Color))
	e.records++

	x, y := deviceUnits(cmd.Origin)
	e.u32(recExtTextOutW)
	e.u32(uint32(size))
	e.i32(x) // rclBounds: degenerate at the reference point
	e.i32(y)
	e.i32(x)
	e.i32(y)
	e.u32(1) // iGraphicsMode: GM_COMPATIBLE
	e.f32(1) // exScale
	e.f32(1) // eyScale
	// EMRTEXT
	e.i32(x)
	e.i32(y)
	e.u32(uint32(nChars))
	e.u32(76) // offString from record start
	e.u32(0)  // fOptions
	e.i32(x)  // rcl
	e.i32(y)
	e.i32(x)
	e.i32(y)
	e.u32(0) // offDx: no inter-character spacing array
	e.buf = append(e.buf, encoded...)
	for i := 0; i < strSize-len(encoded); i++ {
		e.buf = append(e.buf, 0)
	}
	e.records++
	return nil
}

// writeEOF emits the terminating EOF record.
func (e *encoder) writeEOF() error {
	if err := e.reserve(20, "eof"); err != nil {
		return err
	}
	e.u32(recEOF)
	e.u32(20)
	e.u32(0)  // nPalEntries
	e.u32(16) // offPalEntries
	e.u32(20) // nSizeLast
	e.records++
	return nil
}

// reserve enforces the size cap before a record is appended.
func (e *encoder) reserve(size int, record string) error {
	if e.sizeCap > 0 && len(e.buf)+size > e.sizeCap {
		return &EncodingError{Record: record, Err: ErrSizeExceeded}
	}
	return nil
}

// nextHandle allocates the next GDI object handle index.
func (e *encoder) nextHandle() uint32 {
	e.handles++
	return uint32(e.handles)
}

func (e *encoder) u16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *encoder) u32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *encoder) i32(v int32) {
	e.u32(uint32(v))
}

func (e *encoder) f32(v float32) {
	e.u32(math.Float32bits(v))
}

// deviceUnits rounds a point to integer device units.
func deviceUnits(p drawing.Point) (int32, int32) {
	return int32(math.Round(p.X)), int32(math.Round(p.Y))
}

// colorref converts to the GDI 0x00BBGGRR color layout. Alpha is not
// representable in a COLORREF and is dropped.
func colorref(c drawing.RGBA) uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16
}

// pad4 rounds n up to the next multiple of 4.
func pad4(n int) int {
	return (n + 3) &^ 3
}
