package fontload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/xtf/internal/fonttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "Garamond.ttf")
	require.NoError(t, os.WriteFile(path, fonttest.Garamond(), 0o644))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Garamond", f.Fontname)
	assert.Equal(t, path, f.Filepath)
	assert.Equal(t, fonttest.Garamond(), f.Binary)
}

func TestLoadMissing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "xtf")
	defer teardown()
	//
	_, err := Load(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = Load("no-such-font-installed-anywhere.ttf")
	assert.Error(t, err)
}
