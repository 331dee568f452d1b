// Package emf encodes abstract drawing commands into an Enhanced Metafile
// (EMF) document, the binary fallback payload embedded when a filter
// effect has no native or vector equivalent.
//
// Encoding is a pure function: identical command sequences always produce
// byte-identical documents, independent of call order or goroutine. The
// encoder holds no shared state and is safely callable from any worker
// without synchronization.
//
// Record layout follows MS-EMF: a little-endian 4-byte type tag, a 4-byte
// record length including the tag and length fields, then the payload,
// padded to 4-byte alignment.
package emf

import (
	"errors"
	"fmt"
)

// EMF record type tags (MS-EMF section 2.1.1).
const (
	recHeader              = 0x00000001
	recPolygon             = 0x00000003
	recPolyline            = 0x00000004
	recEOF                 = 0x0000000E
	recSetTextColor        = 0x00000018
	recSelectObject        = 0x00000025
	recCreatePen           = 0x00000026
	recCreateBrushIndirect = 0x00000027
	recExtTextOutW         = 0x00000054
)

// ENHMETA_SIGNATURE is the " EMF" signature in the header record.
const signature = 0x464D4520

// Brush styles (MS-WMF BrushStyle).
const (
	brushSolid   = 0x0000
	brushHatched = 0x0002
)

// Hatch styles (MS-WMF HatchStyle).
const (
	hatchHorizontal = 0x0000
	hatchCross      = 0x0004
)

// DefaultSizeCap is the default encoded-size limit in bytes.
// Exceeding the cap aborts encoding with an EncodingError wrapping
// ErrSizeExceeded and the caller escalates to a raster payload.
const DefaultSizeCap = 2 << 20 // 2 MiB

// ErrSizeExceeded marks an encoding aborted by the size cap.
var ErrSizeExceeded = errors.New("emf: size cap exceeded")

// ErrInvalidRecord marks a command that cannot form a valid record, such
// as a polygon with fewer than three points.
var ErrInvalidRecord = errors.New("emf: invalid record")

// EncodingError reports a failed encoding. The chain reacts by escalating
// the node to a raster payload rather than failing it outright.
type EncodingError struct {
	// Record names the record being written when encoding failed.
	Record string
	// Err is ErrSizeExceeded or ErrInvalidRecord.
	Err error
}

// Error implements error.
func (e *EncodingError) Error() string {
	return fmt.Sprintf("emf: encoding %s: %v", e.Record, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *EncodingError) Unwrap() error { return e.Err }

// Document is an immutable encoded metafile.
type Document struct {
	data    []byte
	records int
}

// Bytes returns the encoded document. The returned slice is shared;
// callers must not modify it.
func (d *Document) Bytes() []byte { return d.data }

// Len returns the encoded size in bytes.
func (d *Document) Len() int { return len(d.data) }

// Records returns the number of records in the document, including the
// header and EOF records.
func (d *Document) Records() int { return d.records }
