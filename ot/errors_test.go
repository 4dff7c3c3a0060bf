package ot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/xtf/internal/fonttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsFormat(t *testing.T) {
	assert.Equal(t, "CRITICAL", SeverityCritical.String())
	assert.Equal(t, "MINOR", SeverityMinor.String())
	assert.Equal(t, "UNKNOWN", ErrorSeverity(999).String())
	e := FontError{Table: T("cmap"), Section: "Subtable", Issue: "encoding 3/1: read out of bounds",
		Severity: SeverityMinor, Offset: 1234}
	assert.Equal(t, "[MINOR] cmap/Subtable at offset 1234: encoding 3/1: read out of bounds", e.Error())
	e = FontError{Table: T("post"), Section: "GlyphNames", Issue: "bad index", Severity: SeverityMajor}
	assert.Equal(t, "[MAJOR] post/GlyphNames: bad index", e.Error())
	w := FontWarning{Table: T("hmtx"), Issue: "checksum", Offset: 5678}
	assert.Equal(t, "[WARNING] hmtx at offset 5678: checksum", w.String())
	w = FontWarning{Table: T("cmap"), Issue: "duplicate encoding record 3/1 ignored"}
	assert.Equal(t, "[WARNING] cmap: duplicate encoding record 3/1 ignored", w.String())
}

func TestErrorCollector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.ot")
	defer teardown()
	//
	ec := &errorCollector{}
	ec.errorf(T("cmap"), "Subtable", SeverityMinor, 100, "encoding %s: %v", EncodingKey{3, 1}, ErrOutOfBounds)
	ec.errorf(T("maxp"), "NumGlyphs", SeverityCritical, 200, "font has no glyphs")
	ec.warnf(T("name"), 300, "name record %d: string outside of table", 4)
	ec.warnErr(T("head"), 12, ErrChecksumMismatch, "checksum %08x", 42)
	require.Len(t, ec.errors, 2)
	require.Len(t, ec.warnings, 2)
	assert.Equal(t, "encoding 3/1: read out of bounds", ec.errors[0].Issue)
	assert.Equal(t, "name record 4: string outside of table", ec.warnings[0].Issue)
	assert.Nil(t, ec.warnings[0].Unwrap())
	assert.ErrorIs(t, ec.warnings[1].Unwrap(), ErrChecksumMismatch)
	crit := filterSeverity(ec.errors, SeverityCritical)
	require.Len(t, crit, 1)
	assert.Equal(t, T("maxp"), crit[0].Table)
}

func TestFontDiagnostics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.ot")
	defer teardown()
	//
	otf, err := Parse(fonttest.Garamond())
	require.NoError(t, err)
	assert.False(t, otf.HasCriticalErrors())
	// a broken name table is diagnosed but does not fail the font
	otf, err = Parse(fonttest.GaramondBuilder().Table("name", []byte{0, 0, 0, 9}).Bytes())
	require.NoError(t, err)
	assert.NotEmpty(t, otf.Errors())
	assert.False(t, otf.HasCriticalErrors())
	//
	empty := &Font{}
	assert.NotNil(t, empty.Errors())
	assert.NotNil(t, empty.Warnings())
	assert.Empty(t, empty.CriticalErrors())
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		message  string
	}{
		{TableNotFoundError{Tag: T("cmap")}, ErrTableNotFound, "table not found: cmap"},
		{CMapFormatError{Format: 8}, ErrUnsupportedCmapFormat, "unsupported cmap subtable format 8"},
		{GlyphNotFoundError{Name: "foo"}, ErrGlyphNotFound, `glyph not found: "foo"`},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("context: %w", tt.err)
		assert.ErrorIs(t, wrapped, tt.sentinel)
		assert.Equal(t, tt.message, tt.err.Error())
	}
	var fmtErr CMapFormatError
	if assert.True(t, errors.As(fmt.Errorf("x: %w", CMapFormatError{Format: 14}), &fmtErr)) {
		assert.Equal(t, uint16(14), fmtErr.Format)
	}
	assert.False(t, errors.Is(GlyphNotFoundError{Name: "a"}, ErrTableNotFound))
}
