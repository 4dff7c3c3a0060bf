package ot

import (
	"fmt"
	"iter"
)

// The various cmap formats are described at
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap
//
// Every subtable is decoded once, when the font is parsed. A CMapSubtable
// carries the decoded data of exactly one format; lookups dispatch on the
// format tag and never re-read the subtable header.

const (
	// This value is arbitrary, but defends against parsing malicious font
	// files causing excessive memory allocations. For reference, Adobe's
	// SourceHanSansSC-Regular.otf has 65535 glyphs and:
	//	- its format-4  cmap table has  1581 segments.
	//	- its format-12 cmap table has 16498 segments.
	maxCMapSegments = 20000
	maxUnicode      = 0x10ffff
)

// CMapSubtable is a decoded cmap subtable.
type CMapSubtable struct {
	Format   uint16
	Language uint32
	Offset   uint32 // within table cmap
	err      error  // set for subtables which cannot be used for lookups
	data     binarySegm
	bytes    []byte        // format 0
	subHdrs  []subHeader2  // format 2
	keys     []uint16      // format 2: subHeaderKeys / 8
	segments []cmapEntry16 // format 4
	first    uint32        // format 6, 10
	glyphs   []uint16      // format 6, 10
	groups   []cmapEntry32 // format 12, 13
}

// Err returns the reason why this subtable cannot be used, or nil.
func (st *CMapSubtable) Err() error {
	return st.err
}

type subHeader2 struct {
	firstCode, entryCount uint16
	delta                 uint16
	rangeOffset           uint16
	pos                   int // position of the idRangeOffset field
}

type cmapEntry16 struct {
	end, start, delta, offset uint16
	pos                       int // position of the idRangeOffset field
}

type cmapEntry32 struct {
	start, end, delta uint32
}

// Lookup maps a character code to a glyph index. Codes not covered by the
// subtable, as well as codes mapping to glyph 0, yield None.
func (st *CMapSubtable) Lookup(code uint32) (Option[GlyphIndex], error) {
	if st.err != nil {
		return None[GlyphIndex](), st.err
	}
	var g uint16
	var err error
	switch st.Format {
	case 0:
		if code < uint32(len(st.bytes)) {
			g = uint16(st.bytes[code])
		}
	case 2:
		g, err = st.lookupFormat2(code)
	case 4:
		g, err = st.lookupFormat4(code)
	case 6, 10:
		if code >= st.first && code-st.first < uint32(len(st.glyphs)) {
			g = st.glyphs[code-st.first]
		}
	case 12, 13:
		g = st.lookupGroups(code)
	default:
		return None[GlyphIndex](), CMapFormatError{Format: st.Format}
	}
	if err != nil || g == 0 {
		return None[GlyphIndex](), err
	}
	return Some(GlyphIndex(g)), nil
}

func (st *CMapSubtable) lookupFormat2(code uint32) (uint16, error) {
	if code > 0xffff {
		return 0, nil
	}
	hi, lo := code>>8, uint16(code&0xff)
	var k uint16
	if hi == 0 {
		// single byte code; must not be a lead byte of a two-byte code
		if st.keys[lo] != 0 {
			return 0, nil
		}
		lo = uint16(code)
	} else {
		k = st.keys[hi]
		if k == 0 {
			return 0, nil
		}
	}
	if int(k) >= len(st.subHdrs) {
		return 0, nil
	}
	sh := st.subHdrs[k]
	if lo < sh.firstCode || lo-sh.firstCode >= sh.entryCount {
		return 0, nil
	}
	at := sh.pos + int(sh.rangeOffset) + 2*int(lo-sh.firstCode)
	g, err := st.data.u16(at)
	if err != nil {
		return 0, fmt.Errorf("cmap format 2, code %#x: %w", code, err)
	}
	if g != 0 {
		g += sh.delta // modulo 65536
	}
	return g, nil
}

func (st *CMapSubtable) lookupFormat4(code uint32) (uint16, error) {
	if code > 0xffff {
		return 0, nil
	}
	c := uint16(code)
	// find the first segment with endCode ≥ c
	i, j := 0, len(st.segments)
	for i < j {
		h := i + (j-i)/2
		if st.segments[h].end < c {
			i = h + 1
		} else {
			j = h
		}
	}
	if i == len(st.segments) {
		return 0, nil
	}
	entry := &st.segments[i]
	if entry.start > c {
		return 0, nil
	}
	if entry.offset == 0 {
		return c + entry.delta, nil // modulo 65536
	}
	// idRangeOffset is relative to its own position in the subtable
	at := entry.pos + int(entry.offset) + 2*int(c-entry.start)
	g, err := st.data.u16(at)
	if err != nil {
		return 0, fmt.Errorf("cmap format 4, code %#x: %w", code, err)
	}
	if g != 0 {
		g += entry.delta
	}
	return g, nil
}

func (st *CMapSubtable) lookupGroups(c uint32) uint16 {
	for i, j := 0, len(st.groups); i < j; {
		h := i + (j-i)/2
		entry := &st.groups[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else {
			g := uint64(entry.delta)
			if st.Format == 12 {
				g += uint64(c - entry.start)
			}
			if g > 0xffff {
				return 0
			}
			return uint16(g)
		}
	}
	return 0
}

// Mappings iterates over all (code, glyph) pairs of the subtable in
// ascending code order. Codes mapping to glyph 0 are skipped.
func (st *CMapSubtable) Mappings() iter.Seq2[uint32, GlyphIndex] {
	return func(yield func(uint32, GlyphIndex) bool) {
		if st == nil || st.err != nil {
			return
		}
		emit := func(from, to uint32) bool {
			for c := from; c <= to; c++ {
				if g, _ := st.Lookup(c); g.IsSome() {
					if !yield(c, g.MustUnwrap()) {
						return false
					}
				}
				if c == to { // guard against overflow at 0xffffffff
					break
				}
			}
			return true
		}
		switch st.Format {
		case 0:
			emit(0, uint32(len(st.bytes))-1)
		case 2:
			emit(0, 0xffff)
		case 4:
			for _, seg := range st.segments {
				if seg.start > seg.end || !emit(uint32(seg.start), uint32(seg.end)) {
					return
				}
			}
		case 6, 10:
			if len(st.glyphs) > 0 {
				emit(st.first, st.first+uint32(len(st.glyphs))-1)
			}
		case 12, 13:
			// groups are clamped to the Unicode range and to codes not yet visited
			next := uint32(0)
			for _, grp := range st.groups {
				from, to := max(grp.start, next), min(grp.end, maxUnicode)
				if from > to {
					continue
				}
				if !emit(from, to) {
					return
				}
				next = to + 1
			}
		}
	}
}

// --- Decoding --------------------------------------------------------------

// decodeCMapSubtable decodes the subtable starting at offset off of table
// cmap. Formats which are not supported produce a subtable carrying a
// CMapFormatError.
func decodeCMapSubtable(cmap binarySegm, off uint32) *CMapSubtable {
	st := &CMapSubtable{Offset: off}
	b, err := cmap.from(int(off))
	if err == nil {
		st.Format, err = b.u16(0)
	}
	if err != nil {
		st.err = fmt.Errorf("cmap subtable at offset %d: %w", off, err)
		return st
	}
	switch st.Format {
	case 0, 2, 4, 6:
		st.data, err = subtableData16(b)
		if err == nil {
			st.Language = uint32(st.data.U16(4))
		}
	case 10, 12, 13:
		st.data, err = subtableData32(b)
		if err == nil {
			st.Language = st.data.U32(8)
		}
	default:
		st.err = CMapFormatError{Format: st.Format}
		return st
	}
	if err == nil {
		switch st.Format {
		case 0:
			err = st.decodeFormat0()
		case 2:
			err = st.decodeFormat2()
		case 4:
			err = st.decodeFormat4()
		case 6:
			err = st.decodeFormat6()
		case 10:
			err = st.decodeFormat10()
		case 12, 13:
			err = st.decodeGroups()
		}
	}
	if err != nil {
		st.err = fmt.Errorf("cmap subtable format %d at offset %d: %w", st.Format, off, err)
	}
	return st
}

// subtableData16 restricts b to the length stated in a 16-bit subtable
// header. Format 4 subtables of large fonts sometimes state a length
// truncated to 16 bits; for these the rest of the table is used.
func subtableData16(b binarySegm) (binarySegm, error) {
	length, err := b.u16(2)
	if err != nil {
		return nil, err
	}
	if int(length) <= len(b) {
		if length < 6 {
			return nil, errFontFormat("cmap subtable length")
		}
		return b[:length], nil
	}
	return b, nil
}

func subtableData32(b binarySegm) (binarySegm, error) {
	length, err := b.u32(4)
	if err != nil {
		return nil, err
	}
	if length < 12 || uint64(length) > uint64(len(b)) {
		return nil, fmt.Errorf("%w: subtable length %d", ErrOutOfBounds, length)
	}
	return b[:length], nil
}

func (st *CMapSubtable) decodeFormat0() error {
	arr, err := st.data.view(6, 256)
	if err != nil {
		return err
	}
	st.bytes = arr
	return nil
}

// Format 2: High-byte mapping through table.
func (st *CMapSubtable) decodeFormat2() error {
	const keysAt, subHeadersAt = 6, 6 + 512
	keys, err := st.data.view(keysAt, 512)
	if err != nil {
		return err
	}
	st.keys = make([]uint16, 256)
	maxKey := uint16(0)
	for i := range st.keys {
		st.keys[i] = u16(keys[2*i:]) / 8
		maxKey = max(maxKey, st.keys[i])
	}
	st.subHdrs = make([]subHeader2, int(maxKey)+1)
	for i := range st.subHdrs {
		at := subHeadersAt + 8*i
		sh, err := st.data.view(at, 8)
		if err != nil {
			return err
		}
		st.subHdrs[i] = subHeader2{
			firstCode:   u16(sh),
			entryCount:  u16(sh[2:]),
			delta:       u16(sh[4:]),
			rangeOffset: u16(sh[6:]),
			pos:         at + 6,
		}
	}
	return nil
}

// Format 4: Segment mapping to delta values.
//
// This is the standard character-to-glyph-index mapping subtable for fonts that support
// only Unicode Basic Multilingual Plane characters (U+0000 to U+FFFF).
// Four parallel arrays describe the segments (one segment for each contiguous range of codes),
// followed by a variable-length array of glyph IDs.
func (st *CMapSubtable) decodeFormat4() error {
	const headerSize = 14
	segCountX2, err := st.data.u16(6)
	if err != nil {
		return err
	}
	if segCountX2&1 != 0 {
		return errFontFormat("cmap table format, illegal segment count")
	}
	segCount := int(segCountX2 / 2)
	if segCount > maxCMapSegments {
		return errFontFormat(fmt.Sprintf("more than %d cmap segments not supported", maxCMapSegments))
	}
	// endCode[segCount], reservedPad, startCode[segCount], idDelta[segCount], idRangeOffset[segCount]
	segmentsData, err := st.data.view(headerSize, 8*segCount+2)
	if err != nil {
		return err
	}
	st.segments = make([]cmapEntry16, segCount)
	n := segCount
	for i := range st.segments {
		st.segments[i] = cmapEntry16{
			end:    u16(segmentsData[2*i:]),
			start:  u16(segmentsData[2*n+2+2*i:]),
			delta:  u16(segmentsData[4*n+2+2*i:]),
			offset: u16(segmentsData[6*n+2+2*i:]),
			pos:    headerSize + 6*n + 2 + 2*i,
		}
	}
	return nil
}

// Format 6: Trimmed table mapping.
func (st *CMapSubtable) decodeFormat6() error {
	first, err := st.data.u16(6)
	if err != nil {
		return err
	}
	count, err := st.data.u16(8)
	if err != nil {
		return err
	}
	st.first = uint32(first)
	st.glyphs, err = readGlyphArray(st.data, 10, int(count))
	return err
}

// Format 10: Trimmed array, the 32-bit variant of format 6.
func (st *CMapSubtable) decodeFormat10() error {
	first, err := st.data.u32(12)
	if err != nil {
		return err
	}
	count, err := st.data.u32(16)
	if err != nil {
		return err
	}
	if count > maxUnicode {
		return errFontFormat(fmt.Sprintf("cmap format 10 with %d characters", count))
	}
	st.first = first
	st.glyphs, err = readGlyphArray(st.data, 20, int(count))
	return err
}

func readGlyphArray(b binarySegm, at, count int) ([]uint16, error) {
	arr, err := b.view(at, 2*count)
	if err != nil {
		return nil, err
	}
	glyphs := make([]uint16, count)
	for i := range glyphs {
		glyphs[i] = u16(arr[2*i:])
	}
	return glyphs, nil
}

// Format 12: Segmented coverage, and format 13: Many-to-one range mappings.
// Both share the same layout of sequential map groups; for format 13 the
// third field of a group is the glyph for every code in the group.
func (st *CMapSubtable) decodeGroups() error {
	const headerSize = 16
	numGroups, err := st.data.u32(12)
	if err != nil {
		return err
	}
	if numGroups > maxCMapSegments {
		return errFontFormat(fmt.Sprintf("more than %d cmap segments not supported", maxCMapSegments))
	}
	buf, err := st.data.view(headerSize, 12*int(numGroups))
	if err != nil {
		return err
	}
	st.groups = make([]cmapEntry32, numGroups)
	for i := range st.groups {
		st.groups[i] = cmapEntry32{
			start: u32(buf[0+12*i:]),
			end:   u32(buf[4+12*i:]),
			delta: u32(buf[8+12*i:]),
		}
	}
	return nil
}
