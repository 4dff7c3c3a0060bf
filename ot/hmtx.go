package ot

import "fmt"

// HMtxTable holds the horizontal metrics of the glyphs of a font.
//
// The table starts with NumberOfHMetrics long records (advance width and
// left side bearing), followed by bare left side bearings for the remaining
// glyphs. Glyphs without a long record share the advance width of the last
// long record. NumberOfHMetrics is copied from table hhea, the glyph count
// from table maxp.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
	numGlyphs        int
}

func newHMtxTable(tag Tag, b binarySegm, offset, size uint32) *HMtxTable {
	t := &HMtxTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	return t
}

// bind checks the table size against the counts from hhea and maxp. Only a
// bound table answers metric queries.
func (t *HMtxTable) bind(numGlyphs, numberOfHMetrics int) error {
	if t == nil {
		return nil
	}
	if numGlyphs < 0 {
		return fmt.Errorf("invalid glyph count %d", numGlyphs)
	}
	if numberOfHMetrics < 1 || numberOfHMetrics > numGlyphs {
		return fmt.Errorf("invalid numberOfHMetrics %d (numGlyphs=%d)", numberOfHMetrics, numGlyphs)
	}
	long, err := checkedMulInt(numberOfHMetrics, 4)
	if err != nil {
		return err
	}
	required, err := checkedAddInt(long, (numGlyphs-numberOfHMetrics)*2)
	if err != nil {
		return err
	}
	if required > t.data.Size() {
		return fmt.Errorf("%w: hmtx table too small: need %d bytes, have %d",
			ErrOutOfBounds, required, t.data.Size())
	}
	t.NumberOfHMetrics = numberOfHMetrics
	t.numGlyphs = numGlyphs
	return nil
}

// GlyphCount returns the number of glyphs the table has been bound to.
func (t *HMtxTable) GlyphCount() int {
	if t == nil {
		return 0
	}
	return t.numGlyphs
}

// HMetrics returns the advance width and left side bearing of glyph g.
// ok is false for glyphs outside the font.
func (t *HMtxTable) HMetrics(g GlyphIndex) (advance uint16, lsb int16, ok bool) {
	if t == nil || int(g) >= t.numGlyphs || t.NumberOfHMetrics == 0 {
		return 0, 0, false
	}
	last := t.NumberOfHMetrics - 1
	var err1, err2 error
	if int(g) <= last {
		advance, err1 = t.data.u16(int(g) * 4)
		lsb, err2 = t.data.i16(int(g)*4 + 2)
	} else {
		advance, err1 = t.data.u16(last * 4)
		lsb, err2 = t.data.i16(t.NumberOfHMetrics*4 + (int(g)-t.NumberOfHMetrics)*2)
	}
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return advance, lsb, true
}

// AdvanceWidth returns the advance width of glyph g in font units.
// It fails with ErrGlyphIndexOutOfRange if g is not a glyph of the font.
func (t *HMtxTable) AdvanceWidth(g GlyphIndex) (uint16, error) {
	aw, _, ok := t.HMetrics(g)
	if !ok {
		return 0, fmt.Errorf("%w: glyph %d, font has %d glyphs", ErrGlyphIndexOutOfRange, g, t.GlyphCount())
	}
	return aw, nil
}
