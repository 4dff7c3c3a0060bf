/*
Package fonttest synthesizes sfnt font binaries for tests.

Fonts are assembled from raw table data. Helpers produce the tables this
module interprets (cmap subtables of every supported format, head, hhea,
hmtx, maxp, name and post) with exactly the values a test asks for.
*/
package fonttest

import (
	"encoding/binary"
	"sort"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Builder collects font tables and assembles them into an sfnt binary.
type Builder struct {
	FontType  uint32
	tables    map[string][]byte
	order     []string // record order; defaults to ascending tags
	checksums map[string]uint32
}

// New creates a builder for a TrueType-flavoured font.
func New() *Builder {
	return &Builder{
		FontType:  0x00010000,
		tables:    make(map[string][]byte),
		checksums: make(map[string]uint32),
	}
}

// Table adds or replaces a table.
func (b *Builder) Table(tag string, data []byte) *Builder {
	b.tables[tag] = data
	return b
}

// Without removes a table.
func (b *Builder) Without(tag string) *Builder {
	delete(b.tables, tag)
	return b
}

// RecordOrder sets the order of table records in the directory. Tags may be
// listed more than once, producing duplicate records.
func (b *Builder) RecordOrder(tags ...string) *Builder {
	b.order = tags
	return b
}

// Checksum overrides the checksum stated in the directory for a table.
func (b *Builder) Checksum(tag string, sum uint32) *Builder {
	b.checksums[tag] = sum
	return b
}

// Bytes assembles the font.
func (b *Builder) Bytes() []byte {
	return b.bytesAt(0)
}

// bytesAt assembles the font as if it started at position base of a file.
func (b *Builder) bytesAt(base int) []byte {
	order := b.order
	if order == nil {
		for tag := range b.tables {
			order = append(order, tag)
		}
		sort.Strings(order)
	}
	n := len(order)
	dirSize := 12 + 16*n
	out := make([]byte, dirSize)
	binary.BigEndian.PutUint32(out, b.FontType)
	binary.BigEndian.PutUint16(out[4:], uint16(n))
	sr, es := 1, 0
	for sr*2 <= n {
		sr *= 2
		es++
	}
	binary.BigEndian.PutUint16(out[6:], uint16(sr*16))
	binary.BigEndian.PutUint16(out[8:], uint16(es))
	binary.BigEndian.PutUint16(out[10:], uint16(n*16-sr*16))
	written := make(map[string]int)
	for i, tag := range order {
		data := b.tables[tag]
		off, ok := written[tag]
		if !ok {
			off = len(out)
			out = append(out, data...)
			for len(out)%4 != 0 {
				out = append(out, 0)
			}
			written[tag] = off
		}
		rec := out[12+16*i:]
		copy(rec, (tag + "    ")[:4])
		sum, ok := b.checksums[tag]
		if !ok {
			sum = Checksum(tag, data)
		}
		binary.BigEndian.PutUint32(rec[4:], sum)
		binary.BigEndian.PutUint32(rec[8:], uint32(base+off))
		binary.BigEndian.PutUint32(rec[12:], uint32(len(data)))
	}
	return out
}

// Checksum computes an sfnt table checksum. For table 'head' the
// checkSumAdjustment field is skipped.
func Checksum(tag string, data []byte) uint32 {
	var sum uint32
	padded := append([]byte{}, data...)
	for len(padded)%4 != 0 {
		padded = append(padded, 0)
	}
	for i := 0; i < len(padded); i += 4 {
		if tag == "head" && i == 8 {
			continue
		}
		sum += binary.BigEndian.Uint32(padded[i:])
	}
	return sum
}

// Collection assembles a TrueType collection of fonts.
func Collection(fonts ...*Builder) []byte {
	hdr := 12 + 4*len(fonts)
	out := make([]byte, hdr)
	copy(out, "ttcf")
	binary.BigEndian.PutUint16(out[4:], 1)
	binary.BigEndian.PutUint32(out[8:], uint32(len(fonts)))
	for i, f := range fonts {
		base := len(out)
		binary.BigEndian.PutUint32(out[12+4*i:], uint32(base))
		out = append(out, f.bytesAt(base)...)
	}
	return out
}

// --- Simple tables ---------------------------------------------------------

type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8) *writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *writer) u16(v uint16) *writer {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
	return w
}

func (w *writer) u32(v uint32) *writer {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
	return w
}

func (w *writer) zeros(n int) *writer {
	w.buf = append(w.buf, make([]byte, n)...)
	return w
}

// Head returns a 54-byte table 'head'.
func Head(unitsPerEm uint16) []byte {
	w := &writer{}
	w.u16(1).u16(0)       // version
	w.u32(0x00010000)     // fontRevision
	w.u32(0)              // checkSumAdjustment
	w.u32(0x5F0F3CF5)     // magicNumber
	w.u16(0x000b)         // flags
	w.u16(unitsPerEm)     // unitsPerEm
	w.zeros(16)           // created, modified
	w.zeros(8)            // bounding box
	w.u16(0).u16(8)       // macStyle, lowestRecPPEM
	w.u16(2)              // fontDirectionHint
	w.u16(0).u16(0)       // indexToLocFormat, glyphDataFormat
	return w.buf
}

// MaxP returns a version 0.5 table 'maxp'.
func MaxP(numGlyphs uint16) []byte {
	w := &writer{}
	w.u32(0x00005000).u16(numGlyphs)
	return w.buf
}

// HHea returns a table 'hhea'.
func HHea(ascender, descender int16, numberOfHMetrics uint16) []byte {
	w := &writer{}
	w.u16(1).u16(0)
	w.u16(uint16(ascender)).u16(uint16(descender)).u16(0) // lineGap
	w.u16(2000)                                            // advanceWidthMax
	w.zeros(6)                                             // minLSB, minRSB, xMaxExtent
	w.u16(1).u16(0).u16(0)                                 // caret
	w.zeros(8)                                             // reserved
	w.u16(0)                                               // metricDataFormat
	w.u16(numberOfHMetrics)
	return w.buf
}

// HMtx returns a table 'hmtx' with one long metric per advance and
// trailing left side bearings for the remaining glyphs. Left side bearings are
// set to the glyph index modulo 100.
func HMtx(advances []uint16, numGlyphs int) []byte {
	w := &writer{}
	for i, aw := range advances {
		w.u16(aw).u16(uint16(i % 100))
	}
	for i := len(advances); i < numGlyphs; i++ {
		w.u16(uint16(i % 100))
	}
	return w.buf
}

// --- cmap ------------------------------------------------------------------

// Encoding assigns a cmap subtable to a platform/encoding pair. Pairs with
// identical subtable data share one subtable in the font.
type Encoding struct {
	PlatformID, EncodingID uint16
	Subtable               []byte
}

// CMap returns a table 'cmap' from encoding records.
func CMap(encs ...Encoding) []byte {
	w := &writer{}
	w.u16(0).u16(uint16(len(encs)))
	offsets := make(map[string]uint32)
	var data []byte
	next := uint32(4 + 8*len(encs))
	for _, e := range encs {
		off, ok := offsets[string(e.Subtable)]
		if !ok {
			off = next
			offsets[string(e.Subtable)] = off
			data = append(data, e.Subtable...)
			next += uint32(len(e.Subtable))
		}
		w.u16(e.PlatformID).u16(e.EncodingID).u32(off)
	}
	return append(w.buf, data...)
}

// Format0 returns a byte encoding subtable.
func Format0(m map[uint8]uint8) []byte {
	w := &writer{}
	w.u16(0).u16(262).u16(0)
	arr := make([]byte, 256)
	for c, g := range m {
		arr[c] = g
	}
	w.buf = append(w.buf, arr...)
	return w.buf
}

// Segment4 describes a format 4 segment. If Glyphs is non-nil the segment
// uses the glyph ID array, otherwise idDelta alone.
type Segment4 struct {
	Start, End uint16
	Delta      uint16
	Glyphs     []uint16
}

// Format4 returns a segment mapping subtable for a code → glyph map.
// Runs with a constant delta use idDelta, all other runs the glyph array.
func Format4(m map[uint16]uint16) []byte {
	codes := make([]int, 0, len(m))
	for c := range m {
		codes = append(codes, int(c))
	}
	sort.Ints(codes)
	var segs []Segment4
	for i := 0; i < len(codes); {
		j := i
		for j+1 < len(codes) && codes[j+1] == codes[j]+1 {
			j++
		}
		start, end := uint16(codes[i]), uint16(codes[j])
		delta := m[start] - start
		constant := true
		for c := i; c <= j; c++ {
			if m[uint16(codes[c])]-uint16(codes[c]) != delta {
				constant = false
			}
		}
		seg := Segment4{Start: start, End: end, Delta: delta}
		if !constant {
			seg.Delta = 0
			for c := i; c <= j; c++ {
				seg.Glyphs = append(seg.Glyphs, m[uint16(codes[c])])
			}
		}
		segs = append(segs, seg)
		i = j + 1
	}
	return Format4Segments(segs...)
}

// Format4Segments returns a format 4 subtable for explicit segments. The
// terminating 0xFFFF segment is appended.
func Format4Segments(segs ...Segment4) []byte {
	segs = append(segs, Segment4{Start: 0xffff, End: 0xffff, Delta: 1})
	n := len(segs)
	var glyphs []uint16
	rangeOffsets := make([]uint16, n)
	for i, s := range segs {
		if s.Glyphs != nil {
			// distance from idRangeOffset[i] to the segment's first glyph
			rangeOffsets[i] = uint16(2*(n-i) + 2*len(glyphs))
			glyphs = append(glyphs, s.Glyphs...)
		}
	}
	length := 16 + 8*n + 2*len(glyphs)
	w := &writer{}
	w.u16(4).u16(uint16(length)).u16(0)
	sr, es := 1, 0
	for sr*2 <= n {
		sr *= 2
		es++
	}
	w.u16(uint16(2 * n)).u16(uint16(2 * sr)).u16(uint16(es)).u16(uint16(2*n - 2*sr))
	for _, s := range segs {
		w.u16(s.End)
	}
	w.u16(0) // reservedPad
	for _, s := range segs {
		w.u16(s.Start)
	}
	for _, s := range segs {
		w.u16(s.Delta)
	}
	for _, r := range rangeOffsets {
		w.u16(r)
	}
	for _, g := range glyphs {
		w.u16(g)
	}
	return w.buf
}

// SubHeader2 describes the two-byte codes of a format 2 lead byte.
type SubHeader2 struct {
	FirstCode uint16
	Delta     uint16
	Glyphs    []uint16
}

// Format2 returns a high-byte mapping subtable. Single byte codes are
// mapped through singles; lead bytes listed in leads start two-byte codes.
func Format2(singles map[uint8]uint16, leads map[uint8]SubHeader2) []byte {
	keys := make([]uint16, 256)
	subs := []SubHeader2{{FirstCode: 0, Glyphs: make([]uint16, 256)}}
	for c, g := range singles {
		subs[0].Glyphs[c] = g
	}
	leadBytes := make([]int, 0, len(leads))
	for l := range leads {
		leadBytes = append(leadBytes, int(l))
	}
	sort.Ints(leadBytes)
	for _, l := range leadBytes {
		keys[l] = uint16(8 * len(subs))
		subs = append(subs, leads[uint8(l)])
	}
	const subHeadersAt = 6 + 512
	arraysAt := subHeadersAt + 8*len(subs)
	w := &writer{}
	w.u16(2).u16(0).u16(0)
	for _, k := range keys {
		w.u16(k)
	}
	pos := arraysAt
	for j, s := range subs {
		w.u16(s.FirstCode).u16(uint16(len(s.Glyphs))).u16(s.Delta)
		w.u16(uint16(pos - (subHeadersAt + 8*j + 6)))
		pos += 2 * len(s.Glyphs)
	}
	for _, s := range subs {
		for _, g := range s.Glyphs {
			w.u16(g)
		}
	}
	binary.BigEndian.PutUint16(w.buf[2:], uint16(len(w.buf)))
	return w.buf
}

// Format6 returns a trimmed table mapping subtable.
func Format6(first uint16, glyphs ...uint16) []byte {
	w := &writer{}
	w.u16(6).u16(uint16(10 + 2*len(glyphs))).u16(0)
	w.u16(first).u16(uint16(len(glyphs)))
	for _, g := range glyphs {
		w.u16(g)
	}
	return w.buf
}

// Format10 returns a trimmed array subtable.
func Format10(first uint32, glyphs ...uint16) []byte {
	w := &writer{}
	w.u16(10).u16(0).u32(uint32(20 + 2*len(glyphs))).u32(0)
	w.u32(first).u32(uint32(len(glyphs)))
	for _, g := range glyphs {
		w.u16(g)
	}
	return w.buf
}

// Group is a sequential map group of formats 12 and 13.
type Group struct {
	Start, End, Glyph uint32
}

// Format12 returns a segmented coverage subtable.
func Format12(groups ...Group) []byte {
	return groupSubtable(12, groups)
}

// Format13 returns a many-to-one range mapping subtable.
func Format13(groups ...Group) []byte {
	return groupSubtable(13, groups)
}

func groupSubtable(format uint16, groups []Group) []byte {
	w := &writer{}
	w.u16(format).u16(0).u32(uint32(16 + 12*len(groups))).u32(0)
	w.u32(uint32(len(groups)))
	for _, g := range groups {
		w.u32(g.Start).u32(g.End).u32(g.Glyph)
	}
	return w.buf
}

// Format14Stub returns a minimal format 14 subtable (Unicode variation
// sequences) without any records.
func Format14Stub() []byte {
	w := &writer{}
	w.u16(14).u32(10).u32(0)
	return w.buf
}

// --- post ------------------------------------------------------------------

func postHeader(version uint32) *writer {
	italicAngle := int32(-12 << 16)
	w := &writer{}
	w.u32(version)
	w.u32(uint32(italicAngle))
	w.u16(uint16(0xff9c))           // underlinePosition -100
	w.u16(50)                       // underlineThickness
	w.u32(0)                        // isFixedPitch
	w.zeros(16)                     // memory usage
	return w
}

// Post1 returns a version 1.0 table 'post'.
func Post1() []byte {
	return postHeader(0x00010000).buf
}

// Post3 returns a version 3.0 table 'post' without glyph names.
func Post3() []byte {
	return postHeader(0x00030000).buf
}

// Post2 returns a version 2.0 table 'post'. Indices below 258 refer to the
// standard Macintosh names, indices above to custom names.
func Post2(indices []uint16, custom []string) []byte {
	w := postHeader(0x00020000)
	w.u16(uint16(len(indices)))
	for _, inx := range indices {
		w.u16(inx)
	}
	for _, name := range custom {
		w.u8(uint8(len(name)))
		w.buf = append(w.buf, name...)
	}
	return w.buf
}

// Post25 returns a version 2.5 table 'post' with per-glyph offsets into the
// standard Macintosh names.
func Post25(offsets []int8) []byte {
	w := postHeader(0x00025000)
	w.u16(uint16(len(offsets)))
	for _, o := range offsets {
		w.u8(uint8(o))
	}
	return w.buf
}

// --- name ------------------------------------------------------------------

// NameEntry is a record of table 'name' with pre-encoded value.
type NameEntry struct {
	PlatformID, EncodingID, LanguageID, NameID uint16
	Value                                      []byte
}

// WindowsName returns a (3,1,0x409) name record, encoded as UTF-16BE.
func WindowsName(nameID uint16, s string) NameEntry {
	return NameEntry{PlatformID: 3, EncodingID: 1, LanguageID: 0x409, NameID: nameID, Value: UTF16(s)}
}

// MacName returns a (1,0,0) name record, encoded as Mac Roman.
func MacName(nameID uint16, s string) NameEntry {
	return NameEntry{PlatformID: 1, EncodingID: 0, LanguageID: 0, NameID: nameID, Value: MacRoman(s)}
}

// UTF16 encodes s as UTF-16BE.
func UTF16(s string) []byte {
	b, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return b
}

// MacRoman encodes s as Mac Roman.
func MacRoman(s string) []byte {
	b, err := charmap.Macintosh.NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return b
}

// Name returns a table 'name' of format 0.
func Name(entries ...NameEntry) []byte {
	w := &writer{}
	w.u16(0).u16(uint16(len(entries))).u16(uint16(6 + 12*len(entries)))
	var storage []byte
	for _, e := range entries {
		w.u16(e.PlatformID).u16(e.EncodingID).u16(e.LanguageID).u16(e.NameID)
		w.u16(uint16(len(e.Value))).u16(uint16(len(storage)))
		storage = append(storage, e.Value...)
	}
	return append(w.buf, storage...)
}
