package xtf

import (
	"fmt"

	"github.com/npillmayer/xtf/internal/fontload"
)

// LoadFont reads a font file and opens a reader for it. fontfile is either
// a file path or the file name of a font installed on the system, such as
// "Garamond.ttf".
func LoadFont(fontfile string, opts ...Option) (*FontReader, error) {
	f, err := fontload.Load(fontfile)
	if err != nil {
		return nil, err
	}
	r, err := Open(f.Binary, opts...)
	if err != nil {
		return r, fmt.Errorf("font %s: %w", f.Filepath, err)
	}
	tracer().Infof("loaded font %s from %s", f.Fontname, f.Filepath)
	return r, nil
}
