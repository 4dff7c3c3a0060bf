/*
Package fontload locates and reads font files.

A font may be given as a file path or as the name of a font installed on
the system, e.g. "Garamond.ttf". System fonts are located with go-findfont,
which searches the platform's usual font directories.
*/
package fontload

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'xtf'
func tracer() tracing.Trace {
	return tracing.Select("xtf")
}

// FontFile is a font binary together with its origin.
type FontFile struct {
	Fontname string // file name without extension
	Filepath string
	Binary   []byte
}

// Load reads a font file. If fontfile does not name an existing file, it is
// resolved as a system font.
func Load(fontfile string) (*FontFile, error) {
	path := fontfile
	bytez, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !strings.ContainsRune(fontfile, filepath.Separator) {
		if path, err = findfont.Find(fontfile); err != nil {
			return nil, fmt.Errorf("font %q: %w", fontfile, err)
		}
		tracer().Debugf("%s is a system font at %s", fontfile, path)
		bytez, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return &FontFile{
		Fontname: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Filepath: path,
		Binary:   bytez,
	}, nil
}
