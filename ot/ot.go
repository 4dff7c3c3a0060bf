package ot

// Font represents the internal structure of a TrueType or OpenType font.
// It is used to navigate the identity, metrics and character-mapping
// properties of a font.
//
// A Font is immutable once Parse returns. It may be shared between goroutines
// without locking. It keeps referencing the byte slice it has been parsed from,
// which therefore must not change while the Font is in use.
type Font struct {
	Header        *FontHeader
	Directory     *TableDirectory
	tables        map[Tag]Table
	CMap          *CMapTable  // CMAP table is mandatory
	Head          *HeadTable  // typed access to head
	HHea          *HHeaTable  // typed access to hhea
	HMtx          *HMtxTable  // typed access to hmtx
	MaxP          *MaxPTable  // typed access to maxp
	Post          *PostTable  // typed access to post; nil if absent or corrupt
	Name          *NameTable  // typed access to name; nil if absent or corrupt
	postErr       error       // reason for Post being nil
	nameErr       error       // reason for Name being nil
	parseErrors   []FontError   // Errors accumulated during parsing
	parseWarnings []FontWarning // Warnings accumulated during parsing
	parseOptions  []ParseOption // Options to guide the parsing process
}

// ParseOption guides and influences the parsing of the font.
type ParseOption int

const (
	// VerifyChecksums recomputes table checksums and records mismatches as warnings.
	VerifyChecksums ParseOption = iota
	// StrictDirectory rejects unsorted, duplicate or misaligned table records.
	StrictDirectory
)

func (otf *Font) hasOption(opt ParseOption) bool {
	for _, o := range otf.parseOptions {
		if o == opt {
			return true
		}
	}
	return false
}

// FontHeader is the offset table at the start of a font's table directory.
// If the font file contains only one font, the table directory will begin at
// byte 0 of the file. For a font collection file the beginning of the table
// directory of each font is indicated in the TTC header.
//
// Fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. Fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
// The Apple specification for TrueType fonts allows for 'true' and 'typ1',
// but these version tags should not be used for OpenType fonts.
type FontHeader struct {
	FontType      uint32
	TableCount    uint16
	SearchRange   uint16 // informational only
	EntrySelector uint16 // informational only
	RangeShift    uint16 // informational only
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Only the tables needed for identity, metrics and character mapping are
// interpreted. Every other table is still available as a generic table, i.e.
// no table information will be dropped.
//
// Table tag names are case-sensitive, following the names in the OpenType specification.
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in ascending order.
func (otf *Font) TableTags() []Tag {
	if otf.Directory != nil {
		return otf.Directory.Tags()
	}
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	return tags
}

// NumGlyphs returns the number of glyphs as stated by table 'maxp'.
func (otf *Font) NumGlyphs() int {
	if otf == nil || otf.MaxP == nil {
		return 0
	}
	return otf.MaxP.NumGlyphs
}

// HorizontalHeader returns the parsed hhea table, if present.
func (otf *Font) HorizontalHeader() *HHeaTable {
	if otf == nil {
		return nil
	}
	return otf.HHea
}

// HorizontalMetrics returns the parsed hmtx table, if present.
func (otf *Font) HorizontalMetrics() *HMtxTable {
	if otf == nil {
		return nil
	}
	return otf.HMtx
}

// GlyphIndexForName resolves a glyph name through table 'post'.
// If the font has no usable post table, the reason is returned as an error
// (a TableNotFoundError or ErrUnsupportedPostFormat). An unknown name yields a
// GlyphNotFoundError.
func (otf *Font) GlyphIndexForName(name string) (GlyphIndex, error) {
	if otf.Post == nil {
		if otf.postErr != nil {
			return 0, otf.postErr
		}
		return 0, TableNotFoundError{Tag: T("post")}
	}
	return otf.Post.GlyphIndexForName(name)
}

// NameTableError returns the reason for table 'name' being unavailable, or nil.
func (otf *Font) NameTableError() error {
	if otf.Name == nil && otf.nameErr == nil {
		return TableNotFoundError{Tag: T("name")}
	}
	return otf.nameErr
}

// Errors returns all errors encountered during font parsing.
// These errors represent issues that were found but did not prevent parsing from completing.
// Clients can inspect these errors to determine if the font is suitable for their use case.
func (otf *Font) Errors() []FontError {
	if otf.parseErrors == nil {
		return []FontError{}
	}
	return otf.parseErrors
}

// Warnings returns all warnings encountered during font parsing.
// Warnings indicate potential issues that are generally safe to ignore.
func (otf *Font) Warnings() []FontWarning {
	if otf.parseWarnings == nil {
		return []FontWarning{}
	}
	return otf.parseWarnings
}

// CriticalErrors returns the errors of severity SeverityCritical.
func (otf *Font) CriticalErrors() []FontError {
	return filterSeverity(otf.parseErrors, SeverityCritical)
}

// HasCriticalErrors reports whether parsing found critical errors.
func (otf *Font) HasCriticalErrors() bool {
	return len(otf.CriticalErrors()) > 0
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is an array of four uint8s, packed into 32 bits, identifying a table.
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various font tables.
//
// Required tables for this package: 'cmap' (Character to glyph mapping),
// 'head' (Font header), 'hhea' (Horizontal header), 'hmtx' (Horizontal metrics),
// 'maxp' (Maximum profile). Tables 'name' (Naming table) and 'post' (PostScript
// information) are interpreted if present.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table, read-only
	Self() TableSelf          // reference to itself
}

// newTable creates a table which is located but not interpreted.
func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of font tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   any
}

func makeTableBase(tag Tag, b binarySegm, offset, size uint32) tableBase {
	return tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
}

// Extent returns offset and byte size of this table within the font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. It is a view into the font data
// and must not be modified.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.name
}

// As converts a table to one of the concrete table types of this package,
// e.g. As[*CMapTable](otf.Table(T("cmap"))). If t is not of type T, the zero
// value of T is returned.
func As[T Table](t Table) T {
	var zero T
	if t == nil {
		return zero
	}
	if tb := t.Self().tableBase; tb != nil {
		if c, ok := tb.self.(T); ok {
			return c
		}
	}
	return zero
}

// --- Concrete table implementations ----------------------------------------

// HeadTable gives global information about the font.
// Only a small subset of fields are made public by HeadTable, as they are
// needed for consistency-checks.
type HeadTable struct {
	tableBase
	FontRevision       uint32 // fixed 16.16
	CheckSumAdjustment uint32
	MagicNumber        uint32 // 0x5F0F3CF5
	Flags              uint16 // see https://docs.microsoft.com/en-us/typography/opentype/spec/head
	UnitsPerEm         uint16 // values 16 … 16384 are valid
	IndexToLocFormat   uint16 // needed to interpret loca table
}

func newHeadTable(tag Tag, b binarySegm, offset, size uint32) *HeadTable {
	t := &HeadTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
// Whenever this value changes, other tables which depend on it should also be updated.
type MaxPTable struct {
	tableBase
	Version   uint32
	NumGlyphs int
}

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Ascender            int16
	Descender           int16
	LineGap             int16
	AdvanceWidthMax     uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	NumberOfHMetrics    int
}

func newHHeaTable(tag Tag, b binarySegm, offset, size uint32) *HHeaTable {
	t := &HHeaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}
