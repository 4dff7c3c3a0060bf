package otquery

import (
	"fmt"
	"time"

	"github.com/npillmayer/xtf/ot"
	"golang.org/x/image/font/sfnt"
)

// HeadTableInfo is a typed query view over OpenType table 'head'.
type HeadTableInfo struct {
	MajorVersion      uint16
	MinorVersion      uint16
	FontRevision      float64 // decoded from Fixed 16.16
	MagicNumber       uint32
	Flags             uint16
	UnitsPerEm        uint16
	Created           time.Time
	Modified          time.Time
	BBox              BoundingBox // union of all glyph bounding boxes
	MacStyle          uint16
	LowestRecPPEM     uint16
	FontDirectionHint int16
	IndexToLocFormat  int16
}

const headTableSize = 54

// Bold and Italic bits of field macStyle.
const (
	MacStyleBold   = 1 << 0
	MacStyleItalic = 1 << 1
)

// HeadInfo decodes table 'head'.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	if otf == nil || otf.Head == nil {
		return info, false
	}
	b := otf.Head.Binary()
	if len(b) < headTableSize {
		return info, false
	}
	info.MajorVersion = u16(b[0:])
	info.MinorVersion = u16(b[2:])
	info.FontRevision = float64(int32(otf.Head.FontRevision)) / 65536
	info.MagicNumber = otf.Head.MagicNumber
	info.Flags = otf.Head.Flags
	info.UnitsPerEm = otf.Head.UnitsPerEm
	info.Created = longDateTime(b[20:])
	info.Modified = longDateTime(b[28:])
	info.BBox = BoundingBox{
		MinX: sfnt.Units(i16(b[36:])),
		MinY: sfnt.Units(i16(b[38:])),
		MaxX: sfnt.Units(i16(b[40:])),
		MaxY: sfnt.Units(i16(b[42:])),
	}
	info.MacStyle = u16(b[44:])
	info.LowestRecPPEM = u16(b[46:])
	info.FontDirectionHint = i16(b[48:])
	info.IndexToLocFormat = i16(b[50:])
	return info, true
}

// Style returns a short description of the style bits of field macStyle,
// e.g. "bold italic".
func (h HeadTableInfo) Style() string {
	switch h.MacStyle & (MacStyleBold | MacStyleItalic) {
	case MacStyleBold:
		return "bold"
	case MacStyleItalic:
		return "italic"
	case MacStyleBold | MacStyleItalic:
		return "bold italic"
	}
	return "regular"
}

// Revision formats the font revision as found in font tools, e.g. "1.000".
func (h HeadTableInfo) Revision() string {
	return fmt.Sprintf("%.3f", h.FontRevision)
}
