package ot

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/xtf/internal/fonttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameRecords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.ot")
	defer teardown()
	//
	otf := parseGaramond(t)
	require.NotNil(t, otf.Name)
	assert.NoError(t, otf.NameTableError())
	assert.Len(t, otf.Name.Records(), 6)
	family := otf.Name.RecordsFor(1)
	require.Len(t, family, 2)
	assert.Equal(t, uint16(1), family[0].PlatformID)
	assert.Equal(t, []byte("Garamond"), family[0].Value)
	assert.Equal(t, uint16(3), family[1].PlatformID)
	assert.Equal(t, uint16(0x409), family[1].LanguageID)
	assert.Equal(t, fonttest.UTF16("Garamond"), family[1].Value)
	assert.Empty(t, otf.Name.RecordsFor(16))
}

func TestNameRecordOutsideTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.ot")
	defer teardown()
	//
	name := fonttest.Name(
		fonttest.WindowsName(1, "Garamond"),
		fonttest.WindowsName(4, "Garamond Regular"),
	)
	font := fonttest.GaramondBuilder().Table("name", name[:len(name)-4]).Bytes()
	otf, err := Parse(font)
	require.NoError(t, err)
	require.Len(t, otf.Name.Records(), 1, "record with string cut off is skipped")
	assert.Equal(t, uint16(1), otf.Name.Records()[0].NameID)
	found := false
	for _, w := range otf.Warnings() {
		found = found || (w.Table == T("name") && strings.Contains(w.Issue, "outside of table"))
	}
	assert.True(t, found, "expected a warning for record 1")
}

func TestNameTableBroken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf.ot")
	defer teardown()
	//
	font := fonttest.GaramondBuilder().Table("name", []byte{0, 0, 0, 9, 0, 114}).Bytes()
	otf, err := Parse(font)
	require.NoError(t, err, "a broken name table must not fail the font")
	assert.Nil(t, otf.Name)
	assert.Error(t, otf.NameTableError())
	assert.Nil(t, otf.Name.Records())
	assert.NotNil(t, otf.Table(T("name")), "the raw table stays accessible")
}
