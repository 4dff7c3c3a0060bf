package ot

import (
	"fmt"
)

// Post table versions.
const (
	PostVersion1  uint32 = 0x00010000
	PostVersion2  uint32 = 0x00020000
	PostVersion25 uint32 = 0x00025000
	PostVersion3  uint32 = 0x00030000
	PostVersion4  uint32 = 0x00040000
)

const postHeaderSize = 32

// PostTable contains additional information needed to use TrueType or OpenType
// fonts on PostScript printers. This includes data for the FontInfo dictionary
// entry and the PostScript names of all the glyphs.
//
// Versions 1.0, 2.0 and 2.5 carry glyph names. For all other versions name
// lookups fail with ErrUnsupportedPostFormat.
type PostTable struct {
	tableBase
	Version            uint32
	ItalicAngle        float64 // degrees counter-clockwise from the vertical
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       bool
	names              []string              // glyph index → name
	index              map[string]GlyphIndex // name → first glyph carrying it
}

func newPostTable(tag Tag, b binarySegm, offset, size uint32) *PostTable {
	t := &PostTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

func parsePost(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < postHeaderSize {
		ec.errorf(tag, "Size", SeverityMajor, offset, "post table too small: %d bytes (need %d)", size, postHeaderSize)
		return nil, errFontFormat("size of post table")
	}
	t := newPostTable(tag, b, offset, size)
	t.Version = b.U32(0)
	t.ItalicAngle = float64(int32(b.U32(4))) / 65536
	t.UnderlinePosition = int16(b.U16(8))
	t.UnderlineThickness = int16(b.U16(10))
	t.IsFixedPitch = b.U32(12) != 0
	tracer().Debugf("post table version %x", t.Version)
	return t, nil
}

// HasGlyphNames returns true if the post table version carries glyph names.
func (t *PostTable) HasGlyphNames() bool {
	switch t.Version {
	case PostVersion1, PostVersion2, PostVersion25:
		return true
	}
	return false
}

// buildNameIndex decodes the glyph names for a font with numGlyphs glyphs.
// Names are attached to glyph indices; if a name occurs more than once, the
// first glyph carrying it wins.
func (t *PostTable) buildNameIndex(numGlyphs int, ec *errorCollector) error {
	var err error
	switch t.Version {
	case PostVersion1:
		n := min(numGlyphs, len(standardMacNames))
		t.names = standardMacNames[:n]
	case PostVersion2:
		t.names, err = t.decodeVersion2(ec)
	case PostVersion25:
		t.names, err = t.decodeVersion25()
	default:
		tracer().Infof("post table version %x carries no glyph names", t.Version)
		return nil
	}
	if err != nil {
		t.names = nil
		return err
	}
	if numGlyphs > 0 && len(t.names) > numGlyphs {
		ec.warnf(t.name, t.offset, "post names %d glyphs, font has %d", len(t.names), numGlyphs)
	}
	t.index = make(map[string]GlyphIndex, len(t.names))
	for g, name := range t.names {
		if numGlyphs > 0 && g >= numGlyphs {
			break // names beyond the glyph count do not resolve
		}
		if name == "" {
			continue
		}
		if _, dup := t.index[name]; !dup {
			t.index[name] = GlyphIndex(g)
		}
	}
	return nil
}

// Version 2.0: numGlyphs, glyphNameIndex[numGlyphs], then Pascal strings for
// every index ≥ 258.
func (t *PostTable) decodeVersion2(ec *errorCollector) ([]string, error) {
	n, err := t.data.u16(postHeaderSize)
	if err != nil {
		return nil, err
	}
	indexes, err := t.data.view(postHeaderSize+2, 2*int(n))
	if err != nil {
		return nil, fmt.Errorf("post glyph name index: %w", err)
	}
	var custom []string
	for pos := postHeaderSize + 2 + 2*int(n); pos < len(t.data); {
		l, s, err := t.data.pascalString(pos)
		if err != nil {
			// a truncated last string is dropped; names before it stay valid
			ec.warnf(t.name, t.offset+uint32(pos), "truncated glyph name at %d", pos)
			break
		}
		custom = append(custom, s)
		pos += 1 + l
	}
	names := make([]string, n)
	for g := range names {
		inx := int(u16(indexes[2*g:]))
		switch {
		case inx < len(standardMacNames):
			names[g] = standardMacNames[inx]
		case inx-len(standardMacNames) < len(custom):
			names[g] = custom[inx-len(standardMacNames)]
		default:
			ec.warnf(t.name, t.offset, "glyph %d refers to missing name %d", g, inx)
		}
	}
	return names, nil
}

// Version 2.5 (deprecated): numGlyphs, then an int8 offset per glyph into the
// standard Macintosh names.
func (t *PostTable) decodeVersion25() ([]string, error) {
	n, err := t.data.u16(postHeaderSize)
	if err != nil {
		return nil, err
	}
	offsets, err := t.data.view(postHeaderSize+2, int(n))
	if err != nil {
		return nil, fmt.Errorf("post glyph name offsets: %w", err)
	}
	names := make([]string, n)
	for g := range names {
		inx := g + int(int8(offsets[g]))
		if inx >= 0 && inx < len(standardMacNames) {
			names[g] = standardMacNames[inx]
		}
	}
	return names, nil
}

// GlyphIndexForName returns the glyph index carrying a PostScript glyph name.
// If the table carries no glyph names, ErrUnsupportedPostFormat is returned.
// A name not present in the table yields a GlyphNotFoundError.
func (t *PostTable) GlyphIndexForName(name string) (GlyphIndex, error) {
	if t.index == nil {
		return 0, fmt.Errorf("%w: version %x", ErrUnsupportedPostFormat, t.Version)
	}
	if g, ok := t.index[name]; ok {
		return g, nil
	}
	return 0, GlyphNotFoundError{Name: name}
}

// GlyphName returns the PostScript name of a glyph, or the empty string.
func (t *PostTable) GlyphName(g GlyphIndex) string {
	if int(g) < len(t.names) {
		return t.names[g]
	}
	return ""
}

// NameCount returns the number of glyphs named by the table.
func (t *PostTable) NameCount() int {
	return len(t.names)
}
