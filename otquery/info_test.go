package otquery

import (
	"errors"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/xtf/internal/fonttest"
	"github.com/npillmayer/xtf/ot"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	otf *ot.Font
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.otquery")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run once, before test suite methods
func (env *InfoTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("xtf.ot").SetTraceLevel(tracing.LevelError)
	env.otf = env.parse(fonttest.GaramondBuilder())
	tracing.Select("xtf.ot").SetTraceLevel(tracing.LevelInfo)
}

// run once, after test suite methods
func (env *InfoTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestFontTypeInfo() {
	fti := FontType(env.otf)
	env.Equal("TrueType", fti, "expected font type of test font to be TrueType")
}

func (env *InfoTestEnviron) TestFamilyName() {
	fam, err := FamilyName(env.otf)
	env.Require().NoError(err)
	env.Equal("Garamond", fam, "expected font family name 'Garamond'")
}

func (env *InfoTestEnviron) TestFamilyNamePreference() {
	cases := []struct {
		name    string
		records []fonttest.NameEntry
		family  string
	}{
		{"Windows English first", []fonttest.NameEntry{
			fonttest.MacName(1, "Mac"),
			{PlatformID: 3, EncodingID: 1, LanguageID: 0x407, NameID: 1, Value: fonttest.UTF16("Deutsch")},
			fonttest.WindowsName(1, "English"),
		}, "English"},
		{"any Windows Unicode", []fonttest.NameEntry{
			fonttest.MacName(1, "Mac"),
			{PlatformID: 3, EncodingID: 1, LanguageID: 0x407, NameID: 1, Value: fonttest.UTF16("Deutsch")},
		}, "Deutsch"},
		{"Mac Roman", []fonttest.NameEntry{
			{PlatformID: 0, EncodingID: 3, NameID: 1, Value: fonttest.UTF16("Unicode")},
			fonttest.MacName(1, "Garamond Pro"),
		}, "Garamond Pro"},
		{"Mac Roman non-ASCII", []fonttest.NameEntry{
			fonttest.MacName(1, "Café"),
		}, "Café"},
		{"first record", []fonttest.NameEntry{
			{PlatformID: 0, EncodingID: 3, NameID: 1, Value: fonttest.UTF16("Unicode")},
		}, "Unicode"},
		{"skip undecodable", []fonttest.NameEntry{
			{PlatformID: 3, EncodingID: 1, LanguageID: 0x409, NameID: 1, Value: []byte{0, 'G', 0}},
			fonttest.MacName(1, "Fallback"),
		}, "Fallback"},
	}
	for _, c := range cases {
		otf := env.parse(fonttest.GaramondBuilder().Table("name", fonttest.Name(c.records...)))
		fam, err := FamilyName(otf)
		if env.NoError(err, c.name) {
			env.Equal(c.family, fam, c.name)
		}
	}
}

func (env *InfoTestEnviron) TestFamilyNameNotFound() {
	otf := env.parse(fonttest.GaramondBuilder().Table("name", fonttest.Name(fonttest.WindowsName(4, "Full"))))
	_, err := FamilyName(otf)
	env.ErrorIs(err, ot.ErrNameNotFound)
	otf = env.parse(fonttest.GaramondBuilder().Without("name"))
	_, err = FamilyName(otf)
	env.ErrorIs(err, ot.ErrNameNotFound)
	env.ErrorIs(err, ot.ErrTableNotFound)
}

func (env *InfoTestEnviron) TestGeneralInfo() {
	info := NameInfo(env.otf)
	env.T().Logf("info = %v", info)
	fam, ok := info["family"]
	env.Require().True(ok, "font familiy identifier not found in font info")
	env.Equal("Garamond", fam, "expected font family name 'Garamond'")
	env.Equal("Regular", info["subfamily"])
	env.Equal("Garamond Regular", info["fullname"])
	env.Equal("Garamond-Regular", info["postscript"])
	_, ok = info["copyright"]
	env.False(ok)
}

func (env *InfoTestEnviron) TestNamesRange() {
	count := 0
	families := 0
	for id, value := range NamesRange(env.otf) {
		count++
		if id == sfnt.NameIDFamily {
			families++
			env.Equal("Garamond", value)
		}
	}
	env.Equal(6, count)
	env.Equal(2, families, "expected Mac and Windows family records")
	for range NamesRange(env.otf) {
		break // early exit must not panic
	}
}

func (env *InfoTestEnviron) TestHeadInfo() {
	h, ok := HeadInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'head'")

	headTable := ot.As[*ot.HeadTable](env.otf.Table(ot.T("head")))
	env.Require().NotNil(headTable, "expected parsed HeadTable")

	env.Equal(headTable.Flags, h.Flags, "expected matching Flags")
	env.Equal(headTable.UnitsPerEm, h.UnitsPerEm, "expected matching UnitsPerEm")
	env.Equal(int16(headTable.IndexToLocFormat), h.IndexToLocFormat, "expected matching IndexToLocFormat")
	env.Equal(uint32(0x5F0F3CF5), h.MagicNumber, "expected OpenType head magic number")
	env.Equal("1.000", h.Revision())
	env.Equal("regular", h.Style())
	env.True(h.Created.Equal(time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)))
	env.True(h.BBox.IsEmpty())
}

func (env *InfoTestEnviron) TestMaxPInfo() {
	m, ok := MaxPInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'maxp'")

	maxpTable := ot.As[*ot.MaxPTable](env.otf.Table(ot.T("maxp")))
	env.Require().NotNil(maxpTable, "expected parsed MaxPTable")

	env.Equal(uint16(maxpTable.NumGlyphs), m.NumGlyphs, "expected matching numGlyphs")
	env.NotZero(m.VersionFixed, "expected maxp version to be set")
	env.False(m.HasExtendedProfile, "version 0.5 has no TrueType profile")
}

func (env *InfoTestEnviron) TestFontMetrics() {
	m := FontMetrics(env.otf)
	env.Equal(sfnt.Units(fonttest.GaramondUnitsPerEm), m.UnitsPerEm)
	env.Equal(sfnt.Units(1556), m.Ascent)
	env.Equal(sfnt.Units(-492), m.Descent)
	env.InDelta(-12.0, m.ItalicAngle, 1e-9)
}

func (env *InfoTestEnviron) TestGlyphMetrics() {
	m := GlyphMetrics(env.otf, fonttest.GlyphW)
	env.Equal(sfnt.Units(fonttest.GaramondWidthW), m.Advance)
	env.Equal(sfnt.Units(fonttest.GlyphW), m.LSB)
	m = GlyphMetrics(env.otf, fonttest.GaramondGlyphCount-1)
	env.Equal(sfnt.Units(fonttest.GaramondTailWidth), m.Advance)
	m = GlyphMetrics(env.otf, fonttest.GaramondGlyphCount)
	env.Zero(m.Advance)
}

func (env *InfoTestEnviron) TestGlyphIndex() {
	env.Equal(ot.GlyphIndex(fonttest.GlyphA), GlyphIndex(env.otf, 'A'))
	env.Equal(ot.GlyphIndex(0), GlyphIndex(env.otf, 'ß'))
}

func (env *InfoTestEnviron) TestReverseLookup() {
	r := CodePointForGlyph(env.otf, fonttest.GlyphA)
	env.Equal('A', r, "expected code-point to be %#U, is %#U", 'A', r)
	env.Equal(rune(0), CodePointForGlyph(env.otf, 0))
}

// --- Glyph names -----------------------------------------------------------

func (env *InfoTestEnviron) TestAdobeGlyphList() {
	agl := AdobeGlyphList{}
	for name, expected := range map[string]rune{
		"A": 'A', "space": ' ', "period": '.', "adieresis": 'ä', "uni20AC": '€',
	} {
		rr, ok := agl.CodePoints(name)
		if env.True(ok, name) && env.Len(rr, 1, name) {
			env.Equal(expected, rr[0], name)
		}
	}
	_, ok := agl.CodePoints(".notdef")
	env.False(ok)
}

func (env *InfoTestEnviron) TestGlyphIndexByNamePostFirst() {
	g, err := GlyphIndexByName(env.otf, "W", 3, 1, AdobeGlyphList{}, PostTableFirst)
	env.Require().NoError(err)
	env.Equal(ot.GlyphIndex(fonttest.GlyphW), g)
	g, err = GlyphIndexByName(env.otf, "g300", 3, 1, AdobeGlyphList{}, PostTableFirst)
	env.Require().NoError(err, "custom names are known through table 'post' only")
	env.Equal(ot.GlyphIndex(300), g)
	_, err = GlyphIndexByName(env.otf, "no-such-glyph", 3, 1, AdobeGlyphList{}, PostTableFirst)
	var gnf ot.GlyphNotFoundError
	env.Require().True(errors.As(err, &gnf))
	env.Equal("no-such-glyph", gnf.Name)
}

func (env *InfoTestEnviron) TestGlyphIndexByNameRegistry() {
	otf := env.parse(fonttest.GaramondBuilder().Table("post", fonttest.Post3()))
	for _, order := range []LookupOrder{PostTableFirst, RegistryFirst} {
		g, err := GlyphIndexByName(otf, "A", 3, 1, AdobeGlyphList{}, order)
		if env.NoError(err, order.String()) {
			env.Equal(ot.GlyphIndex(fonttest.GlyphA), g)
		}
		g, err = GlyphIndexByName(otf, "uni0057", 1, 0, AdobeGlyphList{}, order)
		if env.NoError(err, order.String()) {
			env.Equal(ot.GlyphIndex(fonttest.GlyphW), g, "via Mac Roman subtable")
		}
	}
	_, err := GlyphIndexByName(otf, "A", 3, 1, nil, PostTableFirst)
	env.ErrorIs(err, ot.ErrGlyphNotFound, "without registry and post names nothing resolves")
}

func (env *InfoTestEnviron) TestGlyphIndexByNameCustomRegistry() {
	reg := registryFunc(func(name string) ([]rune, bool) {
		if name == "myglyph" {
			return []rune{'Q'}, true
		}
		return nil, false
	})
	g, err := GlyphIndexByName(env.otf, "myglyph", 0, 3, reg, RegistryFirst)
	env.Require().NoError(err)
	env.Equal(ot.GlyphIndex(fonttest.GlyphA+'Q'-'A'), g)
}

func (env *InfoTestEnviron) TestGlyphIndexByNameFormatError() {
	otf := env.parse(fonttest.GaramondBuilder().
		Table("post", fonttest.Post3()).
		Table("cmap", fonttest.CMap(
			fonttest.Encoding{PlatformID: 0, EncodingID: 5, Subtable: fonttest.Format14Stub()},
			fonttest.Encoding{PlatformID: 3, EncodingID: 1, Subtable: fonttest.Format6(0x41, 36)},
		)))
	_, err := GlyphIndexByName(otf, "A", 0, 5, AdobeGlyphList{}, RegistryFirst)
	env.ErrorIs(err, ot.ErrUnsupportedCmapFormat)
	_, err = GlyphIndexByName(otf, "B", 3, 1, AdobeGlyphList{}, RegistryFirst)
	env.ErrorIs(err, ot.ErrGlyphNotFound)
}

// --- Helpers ----------------------------------------------------------

func (env *InfoTestEnviron) parse(b *fonttest.Builder) *ot.Font {
	otf, err := ot.Parse(b.Bytes())
	env.Require().NoError(err)
	return otf
}

type registryFunc func(string) ([]rune, bool)

func (f registryFunc) CodePoints(name string) ([]rune, bool) {
	return f(name)
}
