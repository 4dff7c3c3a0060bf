package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/xtf/internal/fonttest"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type CMapTestEnviron struct {
	suite.Suite
	otf *Font
}

// listen for 'go test' command --> run test methods
func TestCMapFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.ot")
	defer teardown()
	suite.Run(t, new(CMapTestEnviron))
}

// run once, before test suite methods
func (env *CMapTestEnviron) SetupSuite() {
	env.otf = parseGaramond(env.T())
}

// parseWithCMap parses Garamond with its cmap replaced.
func (env *CMapTestEnviron) parseWithCMap(encs ...fonttest.Encoding) *CMapTable {
	font := fonttest.GaramondBuilder().Table("cmap", fonttest.CMap(encs...)).Bytes()
	otf, err := Parse(font)
	env.Require().NoError(err)
	return otf.CMap
}

func (env *CMapTestEnviron) lookup(cmap *CMapTable, code uint32, pid, eid uint16) GlyphIndex {
	g, err := cmap.Lookup(code, pid, eid)
	env.Require().NoError(err, "lookup of %#x", code)
	return g.Or(0)
}

// --- Tests -----------------------------------------------------------------

func (env *CMapTestEnviron) TestCMapTableGlyphIndex() {
	cmap := As[*CMapTable](env.otf.Table(T("cmap")))
	env.Require().NotNil(cmap, "cannot convert cmap table")
	glyph := cmap.GlyphIndexMap.Lookup('A')
	env.Equal(GlyphIndex(fonttest.GlyphA), glyph, "expected glyph position for 'A'")
	env.Equal('A', cmap.GlyphIndexMap.ReverseLookup(fonttest.GlyphA))
	env.Equal(GlyphIndex(0), cmap.GlyphIndexMap.Lookup('€'))
}

func (env *CMapTestEnviron) TestEncodingRecords() {
	cmap := env.otf.CMap
	env.Len(cmap.Records, 3)
	env.True(cmap.HasEncoding(3, 1))
	env.False(cmap.HasEncoding(3, 10))
	st31, err := cmap.Subtable(3, 1)
	env.Require().NoError(err)
	st03, err := cmap.Subtable(0, 3)
	env.Require().NoError(err)
	env.Same(st31, st03, "expected pairs with same offset to share a subtable")
	env.Equal(uint16(4), st31.Format)
}

func (env *CMapTestEnviron) TestEncodingNotSupported() {
	_, err := env.otf.CMap.Lookup('A', 3, 10)
	env.ErrorIs(err, ErrEncodingNotSupported)
}

func (env *CMapTestEnviron) TestFormat0() {
	g := env.lookup(env.otf.CMap, 'W', 1, 0)
	env.Equal(GlyphIndex(fonttest.GlyphW), g)
	opt, err := env.otf.CMap.Lookup(0x141, 1, 0)
	env.NoError(err)
	env.True(opt.IsNone(), "codes ≥ 256 are not mapped by format 0")
	opt, _ = env.otf.CMap.Lookup('#', 1, 0)
	env.True(opt.IsNone(), "entries of 0 are not mapped")
}

func (env *CMapTestEnviron) TestFormat4Delta() {
	cmap := env.otf.CMap
	env.Equal(GlyphIndex(fonttest.GlyphSpace), env.lookup(cmap, ' ', 3, 1))
	env.Equal(GlyphIndex(fonttest.GlyphPeriod), env.lookup(cmap, '.', 3, 1))
	env.Equal(GlyphIndex(fonttest.GlyphA+25), env.lookup(cmap, 'Z', 3, 1))
	env.Equal(GlyphIndex(fonttest.GlyphLowerA), env.lookup(cmap, 'a', 0, 3))
	// between two segments
	for _, c := range []uint32{'!', '-', '[', '`', '{', 0x0fff, 0xfffe} {
		opt, err := cmap.Lookup(c, 3, 1)
		env.NoError(err)
		env.True(opt.IsNone(), "expected %#x to be unmapped", c)
	}
	opt, err := cmap.Lookup(0x1F600, 3, 1)
	env.NoError(err)
	env.True(opt.IsNone(), "format 4 does not cover supplementary planes")
	opt, _ = cmap.Lookup(0xffff, 3, 1)
	env.True(opt.IsNone(), "terminating segment maps to glyph 0")
}

func (env *CMapTestEnviron) TestFormat4RangeOffset() {
	sub := fonttest.Format4Segments(
		fonttest.Segment4{Start: 0x20, End: 0x23, Glyphs: []uint16{10, 7, 0, 42}},
		fonttest.Segment4{Start: 0x30, End: 0x31, Delta: 100, Glyphs: []uint16{1, 0xffff}},
		fonttest.Segment4{Start: 0x40, End: 0x41, Delta: 0xfff0}, // -16
	)
	cmap := env.parseWithCMap(fonttest.Encoding{PlatformID: 3, EncodingID: 1, Subtable: sub})
	env.Equal(GlyphIndex(10), env.lookup(cmap, 0x20, 3, 1))
	env.Equal(GlyphIndex(7), env.lookup(cmap, 0x21, 3, 1))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x22, 3, 1), "glyph array entry 0 is unmapped")
	env.Equal(GlyphIndex(42), env.lookup(cmap, 0x23, 3, 1))
	env.Equal(GlyphIndex(101), env.lookup(cmap, 0x30, 3, 1), "idDelta is added to array entries")
	env.Equal(GlyphIndex(99), env.lookup(cmap, 0x31, 3, 1), "idDelta addition wraps at 16 bits")
	env.Equal(GlyphIndex(0x30), env.lookup(cmap, 0x40, 3, 1), "negative idDelta wraps at 16 bits")
}

func (env *CMapTestEnviron) TestFormat6() {
	sub := fonttest.Format6(0x41, 5, 6, 0, 8)
	cmap := env.parseWithCMap(fonttest.Encoding{PlatformID: 1, EncodingID: 0, Subtable: sub})
	env.Equal(GlyphIndex(5), env.lookup(cmap, 0x41, 1, 0))
	env.Equal(GlyphIndex(8), env.lookup(cmap, 0x44, 1, 0))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x43, 1, 0))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x40, 1, 0))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x45, 1, 0))
}

func (env *CMapTestEnviron) TestFormat12() {
	sub := fonttest.Format12(
		fonttest.Group{Start: 0x41, End: 0x5a, Glyph: 36},
		fonttest.Group{Start: 0x1F600, End: 0x1F64F, Glyph: 300},
	)
	cmap := env.parseWithCMap(fonttest.Encoding{PlatformID: 3, EncodingID: 10, Subtable: sub})
	env.Equal(GlyphIndex(58), env.lookup(cmap, 'W', 3, 10))
	env.Equal(GlyphIndex(301), env.lookup(cmap, 0x1F601, 3, 10))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x1F650, 3, 10))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x40, 3, 10))
	env.Equal(GlyphIndex(301), cmap.GlyphIndexMap.Lookup(0x1F601), "3/10 is the preferred Unicode subtable")
}

func (env *CMapTestEnviron) TestFormat12GlyphOverflow() {
	sub := fonttest.Format12(fonttest.Group{Start: 0x41, End: 0x43, Glyph: 0xffff})
	cmap := env.parseWithCMap(fonttest.Encoding{PlatformID: 3, EncodingID: 10, Subtable: sub})
	env.Equal(GlyphIndex(0xffff), env.lookup(cmap, 0x41, 3, 10))
	for _, c := range []uint32{0x42, 0x43} {
		opt, err := cmap.Lookup(c, 3, 10)
		env.NoError(err)
		env.True(opt.IsNone(), "glyph ids beyond 0xffff are unmapped, code %#x", c)
	}
}

func (env *CMapTestEnviron) TestGroupMappingsAreBounded() {
	sub := fonttest.Format13(
		fonttest.Group{Start: 0x41, End: 0x42, Glyph: 5},
		fonttest.Group{Start: 0x10fffe, End: 0xffffffff, Glyph: 7},
	)
	cmap := env.parseWithCMap(fonttest.Encoding{PlatformID: 3, EncodingID: 10, Subtable: sub})
	st, err := cmap.Subtable(3, 10)
	env.Require().NoError(err)
	var codes []uint32
	for c := range st.Mappings() {
		codes = append(codes, c)
	}
	env.Equal([]uint32{0x41, 0x42, 0x10fffe, 0x10ffff}, codes)
}

func (env *CMapTestEnviron) TestFormat13() {
	sub := fonttest.Format13(fonttest.Group{Start: 0x4E00, End: 0x9FFF, Glyph: 77})
	cmap := env.parseWithCMap(fonttest.Encoding{PlatformID: 3, EncodingID: 10, Subtable: sub})
	env.Equal(GlyphIndex(77), env.lookup(cmap, 0x4E00, 3, 10))
	env.Equal(GlyphIndex(77), env.lookup(cmap, 0x9000, 3, 10))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0xA000, 3, 10))
}

func (env *CMapTestEnviron) TestFormat10() {
	sub := fonttest.Format10(0x10000, 11, 12)
	cmap := env.parseWithCMap(fonttest.Encoding{PlatformID: 0, EncodingID: 4, Subtable: sub})
	env.Equal(GlyphIndex(12), env.lookup(cmap, 0x10001, 0, 4))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x10002, 0, 4))
}

func (env *CMapTestEnviron) TestFormat2() {
	sub := fonttest.Format2(
		map[uint8]uint16{'A': 36, 'B': 37},
		map[uint8]fonttest.SubHeader2{
			0x81: {FirstCode: 0x40, Delta: 0, Glyphs: []uint16{200, 201, 0}},
			0x82: {FirstCode: 0x40, Delta: 10, Glyphs: []uint16{300}},
		},
	)
	cmap := env.parseWithCMap(fonttest.Encoding{PlatformID: 3, EncodingID: 3, Subtable: sub})
	env.Equal(GlyphIndex(36), env.lookup(cmap, 'A', 3, 3))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 'C', 3, 3))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x81, 3, 3), "lead byte alone is unmapped")
	env.Equal(GlyphIndex(201), env.lookup(cmap, 0x8141, 3, 3))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x8142, 3, 3))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x8143, 3, 3), "beyond entry count")
	env.Equal(GlyphIndex(310), env.lookup(cmap, 0x8240, 3, 3))
	env.Equal(GlyphIndex(0), env.lookup(cmap, 0x8340, 3, 3), "no subheader for lead byte 0x83")
}

func (env *CMapTestEnviron) TestUnsupportedFormatIsLocal() {
	cmap := env.parseWithCMap(
		fonttest.Encoding{PlatformID: 0, EncodingID: 5, Subtable: fonttest.Format14Stub()},
		fonttest.Encoding{PlatformID: 3, EncodingID: 1, Subtable: fonttest.Format6(0x41, 5)},
	)
	_, err := cmap.Lookup('A', 0, 5)
	var fe CMapFormatError
	env.Require().True(errors.As(err, &fe), "expected CMapFormatError, got %v", err)
	env.Equal(uint16(14), fe.Format)
	env.ErrorIs(err, ErrUnsupportedCmapFormat)
	env.Equal(GlyphIndex(5), env.lookup(cmap, 'A', 3, 1), "other subtables stay usable")
}

func (env *CMapTestEnviron) TestCorruptSubtableIsLocal() {
	sub := fonttest.Format12(fonttest.Group{Start: 0x41, End: 0x5a, Glyph: 36})
	// the truncated subtable comes last, its stated length exceeds table cmap
	cmap := env.parseWithCMap(
		fonttest.Encoding{PlatformID: 1, EncodingID: 0, Subtable: fonttest.Format0(map[uint8]uint8{'A': 36})},
		fonttest.Encoding{PlatformID: 3, EncodingID: 10, Subtable: sub[:20]},
	)
	_, err := cmap.Lookup('A', 3, 10)
	env.ErrorIs(err, ErrOutOfBounds)
	env.Equal(GlyphIndex(36), cmap.GlyphIndexMap.Lookup('A'), "expected Mac Roman fallback")
	env.Equal(GlyphIndex(0), cmap.GlyphIndexMap.Lookup('€'))
}

func (env *CMapTestEnviron) TestMacRomanFallbackConvertsCodePoints() {
	cmap := env.parseWithCMap(
		fonttest.Encoding{PlatformID: 1, EncodingID: 0, Subtable: fonttest.Format0(map[uint8]uint8{0x8a: 99})},
	)
	env.Equal(GlyphIndex(99), cmap.GlyphIndexMap.Lookup('ä'), "ä is 0x8a in Mac Roman")
	env.Equal('ä', cmap.GlyphIndexMap.ReverseLookup(99))
}

func (env *CMapTestEnviron) TestMappingsAreOrdered() {
	st, err := env.otf.CMap.Subtable(3, 1)
	env.Require().NoError(err)
	var codes []uint32
	for c, g := range st.Mappings() {
		env.NotZero(g)
		codes = append(codes, c)
	}
	env.Len(codes, 2+26+26)
	env.Equal(uint32(' '), codes[0])
	env.Equal(uint32('z'), codes[len(codes)-1])
}
