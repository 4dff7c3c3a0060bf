package ot

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// CMapTable represents an OpenType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/en-us/typography/opentype/spec/cmap
type CMapTable struct {
	tableBase
	Version       uint16
	Records       []EncodingRecord
	GlyphIndexMap CMapGlyphIndex // preferred Unicode mapping
	NumGlyphs     int
	subtables     map[EncodingKey]*CMapSubtable
}

// EncodingKey selects a cmap subtable by platform and encoding.
type EncodingKey struct {
	PlatformID uint16
	EncodingID uint16
}

func (k EncodingKey) String() string {
	return fmt.Sprintf("%d/%d", k.PlatformID, k.EncodingID)
}

// EncodingRecord is an entry of the cmap header.
type EncodingRecord struct {
	EncodingKey
	Offset uint32 // from the start of table cmap
}

// Platform IDs and Platform Specific IDs as per
// https://www.microsoft.com/typography/otspec/name.htm
const (
	PlatformUnicode   = 0
	PlatformMacintosh = 1
	PlatformWindows   = 3

	// Note that FontForge may generate a bogus Platform Specific ID (value 10)
	// for the Unicode Platform ID (value 0). See
	// https://github.com/fontforge/fontforge/issues/2728
	psidUnicode2BMPOnly        = 3
	psidUnicode2FullRepertoire = 4
	psidUnicodeFull            = 6
	psidMacintoshRoman         = 0
	psidWindowsSymbol          = 0
	psidWindowsUCS2            = 1
	psidWindowsUCS4            = 10
)

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

func parseCMap(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	n, err := b.u16(2)
	if err != nil {
		ec.errorf(tag, "Header", SeverityCritical, offset, "cmap header truncated")
		return nil, errFontFormat("cmap header")
	}
	t := newCMapTable(tag, b, offset, size)
	t.Version = b.U16(0)
	const headerSize, recordSize = 4, 8
	recs, err := b.view(headerSize, recordSize*int(n))
	if err != nil {
		ec.errorf(tag, "EncodingRecords", SeverityCritical, offset, "%d encoding records exceed table size", n)
		return nil, errFontFormat("cmap encoding records")
	}
	t.Records = make([]EncodingRecord, 0, n)
	t.subtables = make(map[EncodingKey]*CMapSubtable, n)
	decoded := make(map[uint32]*CMapSubtable)
	for i := 0; i < int(n); i++ {
		r := recs[i*recordSize:]
		rec := EncodingRecord{
			EncodingKey: EncodingKey{PlatformID: u16(r), EncodingID: u16(r[2:])},
			Offset:      u32(r[4:]),
		}
		t.Records = append(t.Records, rec)
		if _, dup := t.subtables[rec.EncodingKey]; dup {
			ec.warnf(tag, offset, "duplicate encoding record %s ignored", rec.EncodingKey)
			continue
		}
		st, ok := decoded[rec.Offset]
		if !ok {
			st = decodeCMapSubtable(b, rec.Offset)
			decoded[rec.Offset] = st
			if st.err != nil {
				tracer().Infof("cmap subtable %s: %v", rec.EncodingKey, st.err)
				ec.errorf(tag, "Subtable", SeverityMinor, offset+rec.Offset, "encoding %s: %v", rec.EncodingKey, st.err)
			}
		}
		tracer().Debugf("cmap subtable %s has format %d", rec.EncodingKey, st.Format)
		t.subtables[rec.EncodingKey] = st
	}
	t.GlyphIndexMap = t.bestUnicodeMap()
	return t, nil
}

// HasEncoding reports whether the cmap contains a subtable for a
// platform/encoding pair.
func (t *CMapTable) HasEncoding(platformID, encodingID uint16) bool {
	_, ok := t.subtables[EncodingKey{platformID, encodingID}]
	return ok
}

// Subtable returns the decoded subtable for a platform/encoding pair.
// If the pair is not present, ErrEncodingNotSupported is returned.
func (t *CMapTable) Subtable(platformID, encodingID uint16) (*CMapSubtable, error) {
	if t == nil {
		return nil, TableNotFoundError{Tag: T("cmap")}
	}
	st, ok := t.subtables[EncodingKey{platformID, encodingID}]
	if !ok {
		return nil, fmt.Errorf("%w: platform %d, encoding %d", ErrEncodingNotSupported, platformID, encodingID)
	}
	return st, nil
}

// Lookup maps a character code to a glyph index, using the subtable for
// platform/encoding pair (platformID, encodingID). The code is interpreted in
// the encoding of that subtable.
//
// Codes not covered by the subtable result in None. A missing encoding results
// in ErrEncodingNotSupported; a subtable with a format not handled by this
// package results in a CMapFormatError.
func (t *CMapTable) Lookup(code uint32, platformID, encodingID uint16) (Option[GlyphIndex], error) {
	st, err := t.Subtable(platformID, encodingID)
	if err != nil {
		return None[GlyphIndex](), err
	}
	return st.Lookup(code)
}

// Unicode subtables, in order of preference.
var unicodePreference = []EncodingKey{
	{PlatformWindows, psidWindowsUCS4},
	{PlatformUnicode, psidUnicode2FullRepertoire},
	{PlatformUnicode, psidUnicodeFull},
	{PlatformWindows, psidWindowsUCS2},
	{PlatformUnicode, psidUnicode2BMPOnly},
}

// bestUnicodeMap selects the subtable best suited for mapping Unicode code
// points. A Macintosh Roman subtable is used as a last resort, translating
// code points to Mac Roman first.
func (t *CMapTable) bestUnicodeMap() CMapGlyphIndex {
	usable := func(k EncodingKey) *CMapSubtable {
		if st, ok := t.subtables[k]; ok && st.err == nil {
			return st
		}
		return nil
	}
	for _, k := range unicodePreference {
		if st := usable(k); st != nil {
			return &unicodeIndex{st: st}
		}
	}
	for _, rec := range t.Records {
		if rec.PlatformID == PlatformUnicode {
			if st := usable(rec.EncodingKey); st != nil {
				return &unicodeIndex{st: st}
			}
		}
	}
	if st := usable(EncodingKey{PlatformMacintosh, psidMacintoshRoman}); st != nil {
		return &unicodeIndex{st: st, macRoman: true}
	}
	tracer().Infof("font has no usable Unicode cmap subtable")
	return nullIndex{}
}

// setGlyphCount restricts the Unicode mapping to glyphs present in the font.
func (t *CMapTable) setGlyphCount(n int) {
	t.NumGlyphs = n
	if u, ok := t.GlyphIndexMap.(*unicodeIndex); ok {
		u.numGlyphs = n
	}
}

// CMapGlyphIndex represents a CMap table index to receive a glyph index from
// a code-point.
type CMapGlyphIndex interface {
	Lookup(rune) GlyphIndex
	ReverseLookup(GlyphIndex) rune
}

type unicodeIndex struct {
	st        *CMapSubtable
	macRoman  bool
	numGlyphs int
}

func (u *unicodeIndex) Lookup(r rune) GlyphIndex {
	code := uint32(r)
	if u.macRoman {
		b, ok := charmap.Macintosh.EncodeRune(r)
		if !ok {
			return 0
		}
		code = uint32(b)
	}
	g, err := u.st.Lookup(code)
	if err != nil {
		tracer().Errorf("cmap lookup for %#U: %v", r, err)
		return 0
	}
	gid := g.Or(0)
	if u.numGlyphs > 0 && int(gid) >= u.numGlyphs {
		return 0
	}
	return gid
}

// ReverseLookup is an inefficient operation: all code points of the
// subtable are checked sequentially.
func (u *unicodeIndex) ReverseLookup(gid GlyphIndex) rune {
	for code, g := range u.st.Mappings() {
		if g == gid {
			if u.macRoman {
				return charmap.Macintosh.DecodeByte(byte(code))
			}
			return rune(code)
		}
	}
	return 0
}

type nullIndex struct{}

func (nullIndex) Lookup(rune) GlyphIndex        { return 0 }
func (nullIndex) ReverseLookup(GlyphIndex) rune { return 0 }
