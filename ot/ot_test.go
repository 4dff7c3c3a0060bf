package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/xtf/internal/fonttest"
)

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.ot")
	defer teardown()
	//
	tag := Tag(0x636d6170)
	if tag.String() != "cmap" {
		t.Errorf("expected tag 0x636d6170 to be 'cmap', is %s", tag.String())
	}
	tag = MakeTag([]byte("cmap"))
	if tag.String() != "cmap" {
		t.Errorf("expected tag MakeTag(cmap) to be 'cmap', is %s", tag.String())
	}
	tag = T("cmap")
	if tag.String() != "cmap" {
		t.Errorf("expected tag T(cmap) to be 'cmap', is %s", tag.String())
	}
	if T("OS/2extra") != T("OS/2") {
		t.Errorf("expected T to cut long tag names")
	}
}

func TestTableName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.ot")
	defer teardown()
	//
	tb := tableBase{}
	tb.name = 0x636d6170
	s := tb.Self().NameTag().String()
	if s != "cmap" {
		t.Errorf("expected table name to be cmap, is %v", s)
	}
}

func TestBinarySegmReads(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.ot")
	defer teardown()
	//
	b := binarySegm{0x01, 0x02, 0xff, 0xfe, 0x03, 'a', 'b', 'c', 'd'}
	if v, err := b.u8(0); err != nil || v != 1 {
		t.Errorf("u8(0) = %d, %v", v, err)
	}
	if v, err := b.u16(0); err != nil || v != 0x0102 {
		t.Errorf("u16(0) = %x, %v", v, err)
	}
	if v, err := b.i16(2); err != nil || v != -2 {
		t.Errorf("i16(2) = %d, %v", v, err)
	}
	if v, err := b.u32(0); err != nil || v != 0x0102fffe {
		t.Errorf("u32(0) = %x, %v", v, err)
	}
	if n, s, err := b.pascalString(4); err != nil || n != 3 || s != "abc" {
		t.Errorf("pascalString(4) = %d, %q, %v", n, s, err)
	}
	if s, err := b.fixedString(5, 4); err != nil || s != "abcd" {
		t.Errorf("fixedString(5, 4) = %q, %v", s, err)
	}
}

func TestBinarySegmOutOfBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.ot")
	defer teardown()
	//
	b := binarySegm{0x01, 0x02, 0x09}
	checks := map[string]error{}
	_, checks["u8"] = b.u8(3)
	_, checks["u16"] = b.u16(2)
	_, checks["u32"] = b.u32(0)
	_, checks["negative"] = b.u16(-1)
	_, _, checks["pascal"] = b.pascalString(2) // length byte 9 exceeds buffer
	_, checks["fixed"] = b.fixedString(1, 5)
	_, checks["view"] = b.view(2, 1<<30)
	for name, err := range checks {
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%s: expected ErrOutOfBounds, got %v", name, err)
		}
	}
	if b.U16(2) != 0 || b.U32(0) != 0 {
		t.Errorf("expected convenience accessors to return 0 out of bounds")
	}
}

func TestCheckedArithmetic(t *testing.T) {
	if _, err := checkedMulInt(1<<62, 4); err == nil {
		t.Errorf("expected multiplication overflow")
	}
	if v, err := checkedMulInt(16, 12); err != nil || v != 192 {
		t.Errorf("16*12 = %d, %v", v, err)
	}
	if _, err := checkedAddUint32(0xfffffff0, 0x20); err == nil {
		t.Errorf("expected uint32 addition overflow")
	}
}

func TestOption(t *testing.T) {
	o := Some(GlyphIndex(7))
	if !o.IsSome() || o.MustUnwrap() != 7 || o.String() != "Some(7)" {
		t.Errorf("unexpected option %v", o)
	}
	n := None[GlyphIndex]()
	if !n.IsNone() || n.Or(3) != 3 || n.String() != "None" {
		t.Errorf("unexpected option %v", n)
	}
	if v, ok := o.Unwrap(); !ok || v != 7 {
		t.Errorf("Unwrap: expected 7, got %v", v)
	}
}

// ---------------------------------------------------------------------------

func parseGaramond(t *testing.T) *Font {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	defer tracer().SetTraceLevel(level)
	otf, err := Parse(fonttest.Garamond())
	if err != nil {
		t.Fatalf("cannot parse synthesized Garamond: %v", err)
	}
	return otf
}
