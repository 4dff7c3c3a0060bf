package ot

import (
	"fmt"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// RequiredTables lists the tables a font must contain to be usable for
// metrics and character mapping.
var RequiredTables = []string{
	"cmap", "head", "hhea", "hmtx", "maxp",
}

// OptionalTables are interpreted if present. Failing to parse one of them
// leaves the rest of the font usable.
var OptionalTables = []string{
	"name", "post",
}

// Parse parses an OpenType font from a byte slice. If the data is a font
// collection, the first font of the collection is parsed.
//
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
//
// All tables needed for metrics, names and character mapping are decoded
// eagerly; after Parse returns no lookup on the font mutates it.
func Parse(font []byte, opts ...ParseOption) (*Font, error) {
	return ParseCollection(font, 0, opts...)
}

// ParseCollection parses font number i of a TrueType collection. For plain
// font files, i must be 0.
func ParseCollection(font []byte, i int, opts ...ParseOption) (*Font, error) {
	src := binarySegm(font)
	at, err := directoryOffset(src, i)
	if err != nil {
		return nil, err
	}
	otf := &Font{tables: make(map[Tag]Table), parseOptions: opts}
	// Create error collector for accumulating errors during parsing
	ec := &errorCollector{}
	defer func() {
		// Transfer accumulated errors and warnings to the Font
		otf.parseErrors = ec.errors
		otf.parseWarnings = ec.warnings
	}()
	otf.Header, otf.Directory, err = parseDirectory(src, at, otf.hasOption(StrictDirectory), ec)
	if err != nil {
		return nil, err
	}
	if otf.hasOption(VerifyChecksums) {
		if n := verifyChecksums(src, otf.Directory, ec); n > 0 {
			tracer().Infof("%d tables with checksum mismatch", n)
		}
	}
	for _, rec := range otf.Directory.Records() {
		b, _ := src.view(int(rec.Offset), int(rec.Length)) // bounds checked by parseDirectory
		t, err := parseTable(rec.Tag, b, rec.Offset, rec.Length, ec)
		if err != nil {
			if isRequired(rec.Tag) {
				return nil, fmt.Errorf("table %s: %w", rec.Tag, err)
			}
			tracer().Errorf("cannot parse table %s: %v", rec.Tag, err)
			otf.recordOptionalFailure(rec.Tag, err)
			t = newTable(rec.Tag, b, rec.Offset, rec.Length)
		}
		otf.tables[rec.Tag] = t
	}
	if err := extractMetricsInfo(otf, ec); err != nil {
		return nil, err
	}
	return otf, nil
}

func isRequired(tag Tag) bool {
	for _, t := range RequiredTables {
		if T(t) == tag {
			return true
		}
	}
	return false
}

func (otf *Font) recordOptionalFailure(tag Tag, err error) {
	switch tag {
	case T("post"):
		otf.postErr = err
	case T("name"):
		otf.nameErr = err
	}
}

// Consistency check and shortcuts to essential tables.
func extractMetricsInfo(otf *Font, ec *errorCollector) error {
	for _, tag := range RequiredTables {
		if otf.tables[T(tag)] == nil {
			ec.errorf(T(tag), "Missing", SeverityCritical, 0, "missing required table")
			return TableNotFoundError{Tag: T(tag)}
		}
	}
	otf.CMap = As[*CMapTable](otf.tables[T("cmap")])
	otf.Head = As[*HeadTable](otf.tables[T("head")])
	otf.HHea = As[*HHeaTable](otf.tables[T("hhea")])
	otf.HMtx = As[*HMtxTable](otf.tables[T("hmtx")])
	otf.MaxP = As[*MaxPTable](otf.tables[T("maxp")])
	if t := otf.tables[T("post")]; t != nil {
		otf.Post = As[*PostTable](t)
	}
	if t := otf.tables[T("name")]; t != nil {
		otf.Name = As[*NameTable](t)
	}
	// The number of glyphs in the font is stated by table maxp.
	// Note that a font must have at least two glyphs, and that glyph index 0 must have an outline.
	numGlyphs := otf.MaxP.NumGlyphs
	if numGlyphs == 0 {
		ec.errorf(T("maxp"), "NumGlyphs", SeverityCritical, otf.MaxP.offset, "font has no glyphs")
		return errFontFormat("font has no glyphs")
	}
	if otf.HHea.NumberOfHMetrics > numGlyphs {
		ec.errorf(T("hhea"), "NumberOfHMetrics", SeverityMajor, otf.HHea.offset,
			"value %d exceeds maxp.NumGlyphs %d", otf.HHea.NumberOfHMetrics, numGlyphs)
	}
	nhm := min(otf.HHea.NumberOfHMetrics, numGlyphs)
	if err := otf.HMtx.bind(numGlyphs, nhm); err != nil {
		ec.errorf(T("hmtx"), "Size", SeverityCritical, otf.HMtx.offset, "%v", err)
		return fmt.Errorf("table hmtx: %w", err)
	}
	otf.CMap.setGlyphCount(numGlyphs)
	if otf.Post != nil {
		if err := otf.Post.buildNameIndex(numGlyphs, ec); err != nil {
			ec.errorf(T("post"), "GlyphNames", SeverityMajor, otf.Post.offset, "%v", err)
			otf.postErr = fmt.Errorf("table post: %w", err)
			otf.Post = nil
		}
	}
	if otf.Head.MagicNumber != 0x5F0F3CF5 {
		ec.warnf(T("head"), otf.Head.offset, "bad magic number %x", otf.Head.MagicNumber)
	}
	return nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size, ec)
	case T("head"):
		return parseHead(t, b, offset, size, ec)
	case T("hhea"):
		return parseHHea(t, b, offset, size, ec)
	case T("hmtx"):
		return parseHMtx(t, b, offset, size, ec)
	case T("maxp"):
		return parseMaxP(t, b, offset, size, ec)
	case T("name"):
		return parseName(t, b, offset, size, ec)
	case T("post"):
		return parsePost(t, b, offset, size, ec)
	}
	tracer().Infof("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 54 {
		ec.errorf(tag, "Size", SeverityCritical, offset, "head table too small: %d bytes (need 54)", size)
		return nil, errFontFormat("size of head table")
	}
	t := newHeadTable(tag, b, offset, size)
	t.FontRevision = b.U32(4)
	t.CheckSumAdjustment = b.U32(8)
	t.MagicNumber = b.U32(12)
	t.Flags = b.U16(16)      // flags
	t.UnitsPerEm = b.U16(18) // units per em
	// IndexToLocFormat is needed to interpret the loca table:
	// 0 for short offsets, 1 for long
	t.IndexToLocFormat = b.U16(50)
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with CFF data
// must use Version 0.5 of this table, specifying only the numGlyphs field. Fonts
// with TrueType outlines must use Version 1.0 of this table, where all data is required.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 6 {
		ec.errorf(tag, "Size", SeverityCritical, offset, "maxp table too small: %d bytes (need 6)", size)
		return nil, errFontFormat("size of maxp table")
	}
	t := newMaxPTable(tag, b, offset, size)
	t.Version = b.U32(0)
	t.NumGlyphs = int(b.U16(4))
	return t, nil
}

// --- HHea table ------------------------------------------------------------

func parseHHea(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	tracer().Debugf("HHea table has size %d", size)
	if size < 36 {
		ec.errorf(tag, "Size", SeverityCritical, offset, "hhea table too small: %d bytes (need 36)", size)
		return nil, errFontFormat("hhea table incomplete")
	}
	t := newHHeaTable(tag, b, offset, size)
	t.Ascender = int16(b.U16(4))
	t.Descender = int16(b.U16(6))
	t.LineGap = int16(b.U16(8))
	t.AdvanceWidthMax = b.U16(10)
	t.MinLeftSideBearing = int16(b.U16(12))
	t.MinRightSideBearing = int16(b.U16(14))
	t.XMaxExtent = int16(b.U16(16))
	t.CaretSlopeRise = int16(b.U16(18))
	t.CaretSlopeRun = int16(b.U16(20))
	t.CaretOffset = int16(b.U16(22))
	t.NumberOfHMetrics = int(b.U16(34))
	if t.NumberOfHMetrics == 0 {
		ec.errorf(tag, "NumberOfHMetrics", SeverityCritical, offset, "hhea states zero long metrics")
		return nil, errFontFormat("hhea without horizontal metrics")
	}
	return t, nil
}

// --- HMtx table ------------------------------------------------------------

// Dependencies (taken from Apple Developer page about TrueType):
// The value of the numOfLongHorMetrics field is found in the 'hhea' (Horizontal Header)
// table. Fonts that lack an 'hhea' table must not have an 'hmtx' table.
//
// Decoding of the metrics is deferred until hhea and maxp are known.
func parseHMtx(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size == 0 {
		ec.errorf(tag, "Size", SeverityCritical, offset, "empty hmtx table")
		return nil, errFontFormat("empty hmtx table")
	}
	return newHMtxTable(tag, b, offset, size), nil
}
