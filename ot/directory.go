package ot

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
)

// Font types (sfntVersion) accepted at the start of a table directory.
const (
	fontTypeTrueType  uint32 = 0x00010000
	fontTypeOpenType  uint32 = 0x4f54544f // OTTO
	fontTypeAppleTrue uint32 = 0x74727565 // true
	fontTypeAppleTyp1 uint32 = 0x74797031 // typ1
	collectionTag     uint32 = 0x74746366 // ttcf
)

const (
	offsetTableSize = 12
	tableRecordSize = 16
)

// TableRecord is an entry of a font's table directory.
type TableRecord struct {
	Tag      Tag
	Checksum uint32
	Offset   uint32 // from the start of the font file
	Length   uint32
}

// TableDirectory maps table tags to table records. Records are kept
// ordered by tag, regardless of their order in the font file.
type TableDirectory struct {
	records *treemap.Map // Tag → TableRecord
}

func compareTags(a, b any) int {
	ta, tb := a.(Tag), b.(Tag)
	switch {
	case ta < tb:
		return -1
	case ta > tb:
		return 1
	}
	return 0
}

func newTableDirectory() *TableDirectory {
	return &TableDirectory{records: treemap.NewWith(compareTags)}
}

// Lookup returns the table record for a tag, if present.
func (dir *TableDirectory) Lookup(tag Tag) (TableRecord, bool) {
	if dir == nil {
		return TableRecord{}, false
	}
	r, ok := dir.records.Get(tag)
	if !ok {
		return TableRecord{}, false
	}
	return r.(TableRecord), true
}

// Len returns the number of tables in the directory.
func (dir *TableDirectory) Len() int {
	if dir == nil {
		return 0
	}
	return dir.records.Size()
}

// Tags returns the tags of all tables, in ascending order.
func (dir *TableDirectory) Tags() []Tag {
	if dir == nil {
		return nil
	}
	keys := dir.records.Keys()
	tags := make([]Tag, len(keys))
	for i, k := range keys {
		tags[i] = k.(Tag)
	}
	return tags
}

// Records returns all table records, ordered by tag.
func (dir *TableDirectory) Records() []TableRecord {
	if dir == nil {
		return nil
	}
	values := dir.records.Values()
	recs := make([]TableRecord, len(values))
	for i, v := range values {
		recs[i] = v.(TableRecord)
	}
	return recs
}

// parseDirectory reads the offset table and the table records starting at
// byte position at of src. Every table must lie within src.
//
// Records which are not sorted by tag, carry a duplicate tag or start at a
// misaligned offset are tolerated, unless strict is set. For duplicate tags
// the first record wins.
func parseDirectory(src binarySegm, at int, strict bool, ec *errorCollector) (*FontHeader, *TableDirectory, error) {
	hdr, err := src.view(at, offsetTableSize)
	if err != nil {
		ec.errorf(T(""), "Header", SeverityCritical, uint32(at), "offset table truncated")
		return nil, nil, fmt.Errorf("%w: offset table: %w", ErrMalformedDirectory, err)
	}
	h := &FontHeader{
		FontType:      u32(hdr),
		TableCount:    u16(hdr[4:]),
		SearchRange:   u16(hdr[6:]),
		EntrySelector: u16(hdr[8:]),
		RangeShift:    u16(hdr[10:]),
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	switch h.FontType {
	case fontTypeTrueType, fontTypeOpenType, fontTypeAppleTrue, fontTypeAppleTyp1:
	default:
		ec.errorf(T(""), "Header", SeverityCritical, uint32(at), "font type not supported: %x", h.FontType)
		return nil, nil, fmt.Errorf("%w: font type not supported: %x", ErrMalformedDirectory, h.FontType)
	}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	size, err := checkedMulInt(tableRecordSize, int(h.TableCount))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrMalformedDirectory, err)
	}
	buf, err := src.view(at+offsetTableSize, size)
	if err != nil {
		ec.errorf(T(""), "TableRecords", SeverityCritical, uint32(at+offsetTableSize), "table record entries")
		return nil, nil, fmt.Errorf("%w: %d table records: %w", ErrMalformedDirectory, h.TableCount, err)
	}
	dir := newTableDirectory()
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[tableRecordSize:] {
		rec := TableRecord{
			Tag:      MakeTag(b),
			Checksum: u32(b[4:]),
			Offset:   u32(b[8:]),
			Length:   u32(b[12:]),
		}
		if rec.Tag < prevTag {
			if strict {
				ec.errorf(T(""), "TableRecords", SeverityCritical, uint32(at), "table order")
				return nil, nil, fmt.Errorf("%w: table %s out of order", ErrMalformedDirectory, rec.Tag)
			}
			ec.warnf(rec.Tag, rec.Offset, "table records not sorted by tag")
		}
		prevTag = rec.Tag
		end, err := checkedAddUint32(rec.Offset, rec.Length)
		if err != nil || end > uint32(len(src)) {
			ec.errorf(rec.Tag, "Bounds", SeverityCritical, rec.Offset, "bounds [%d:%d] exceed font size %d",
				rec.Offset, uint64(rec.Offset)+uint64(rec.Length), len(src))
			return nil, nil, fmt.Errorf("%w: table %s: bounds exceed font size %d",
				ErrMalformedDirectory, rec.Tag, len(src))
		}
		if rec.Offset&3 != 0 { // "all tables must begin on four byte boundries"
			if strict {
				ec.errorf(rec.Tag, "Offset", SeverityCritical, rec.Offset, "invalid table offset")
				return nil, nil, fmt.Errorf("%w: table %s: invalid table offset", ErrMalformedDirectory, rec.Tag)
			}
			ec.warnf(rec.Tag, rec.Offset, "table does not start on a four byte boundary")
		}
		if _, dup := dir.records.Get(rec.Tag); dup {
			if strict {
				ec.errorf(rec.Tag, "TableRecords", SeverityCritical, rec.Offset, "duplicate table")
				return nil, nil, fmt.Errorf("%w: duplicate table %s", ErrMalformedDirectory, rec.Tag)
			}
			ec.warnf(rec.Tag, rec.Offset, "duplicate table record ignored")
			continue
		}
		dir.records.Put(rec.Tag, rec)
	}
	return h, dir, nil
}

// --- Collections -----------------------------------------------------------

// IsCollection reports whether b starts with a TrueType collection header.
func IsCollection(b []byte) bool {
	return len(b) >= 4 && u32(b) == collectionTag
}

// CollectionSize returns the number of fonts contained in b. A plain font
// file counts as a collection of one.
func CollectionSize(b []byte) (int, error) {
	if !IsCollection(b) {
		if len(b) < offsetTableSize {
			return 0, fmt.Errorf("%w: font data too short", ErrMalformedDirectory)
		}
		return 1, nil
	}
	n, err := binarySegm(b).u32(8)
	if err != nil {
		return 0, fmt.Errorf("%w: collection header: %w", ErrMalformedDirectory, err)
	}
	return int(n), nil
}

// directoryOffset locates the table directory of font i within b.
func directoryOffset(b binarySegm, i int) (int, error) {
	if !IsCollection(b) {
		if i != 0 {
			return 0, fmt.Errorf("%w: font %d requested from a single font file", ErrMalformedDirectory, i)
		}
		return 0, nil
	}
	// TTC header: tag, majorVersion, minorVersion, numFonts, offsets[numFonts]
	n, err := CollectionSize(b)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: font %d requested, collection holds %d", ErrMalformedDirectory, i, n)
	}
	off, err := b.u32(12 + 4*i)
	if err != nil {
		return 0, fmt.Errorf("%w: collection offsets: %w", ErrMalformedDirectory, err)
	}
	tracer().Debugf("font %d of collection starts at offset %d", i, off)
	return int(off), nil
}
