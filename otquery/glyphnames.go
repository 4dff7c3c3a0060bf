package otquery

import (
	"errors"
	"fmt"

	"github.com/npillmayer/xtf/ot"
	"golang.org/x/text/encoding/charmap"
	"seehuhn.de/go/postscript/type1/names"
)

// GlyphRegistry maps PostScript glyph names to Unicode code points,
// independently of any font.
type GlyphRegistry interface {
	// CodePoints returns the code point sequence a glyph name stands for.
	// Returns false if the name is unknown to the registry.
	CodePoints(glyphName string) ([]rune, bool)
}

// AdobeGlyphList is a GlyphRegistry following the Adobe Glyph List
// Specification, including names of the form "uniXXXX" and "uXXXXXX" as well
// as ligature names composed with underscores.
type AdobeGlyphList struct{}

// CodePoints is part of interface GlyphRegistry.
func (AdobeGlyphList) CodePoints(glyphName string) ([]rune, bool) {
	if glyphName == "" || glyphName == ".notdef" {
		return nil, false
	}
	rr := []rune(names.ToUnicode(glyphName, ""))
	return rr, len(rr) > 0
}

// LookupOrder selects the source consulted first when resolving a glyph
// name to a glyph index.
type LookupOrder int

const (
	// PostTableFirst consults the font's table 'post' first, then the glyph
	// registry.
	PostTableFirst LookupOrder = iota
	// RegistryFirst maps the name to a code point with the glyph registry and
	// looks the code point up in the cmap, falling back to table 'post'.
	RegistryFirst
)

func (o LookupOrder) String() string {
	switch o {
	case PostTableFirst:
		return "post-first"
	case RegistryFirst:
		return "registry-first"
	}
	return fmt.Sprintf("LookupOrder(%d)", int(o))
}

// GlyphIndexByName resolves a glyph name to a glyph index for the cmap
// subtable selected by (platformID, encodingID). The font's table 'post' and
// the registry are consulted in the given order.
//
// If neither source resolves the name, a GlyphNotFoundError is returned.
// An exception are names the registry knows, but the cmap subtable cannot
// map because of an unsupported format: for these the cmap error is returned.
func GlyphIndexByName(otf *ot.Font, name string, platformID, encodingID uint16,
	reg GlyphRegistry, order LookupOrder) (ot.GlyphIndex, error) {
	//
	var cmapErr error
	viaPost := func() (ot.GlyphIndex, bool) {
		g, err := otf.GlyphIndexForName(name)
		if err != nil {
			tracer().Debugf("post lookup for %q: %v", name, err)
			return 0, false
		}
		return g, true
	}
	viaRegistry := func() (ot.GlyphIndex, bool) {
		g, err := glyphIndexViaRegistry(otf, reg, name, platformID, encodingID)
		if err != nil {
			tracer().Debugf("registry lookup for %q: %v", name, err)
			if !errors.Is(err, ot.ErrGlyphNotFound) {
				cmapErr = err
			}
			return 0, false
		}
		return g, true
	}
	first, second := viaPost, viaRegistry
	if order == RegistryFirst {
		first, second = viaRegistry, viaPost
	}
	if g, ok := first(); ok {
		return g, nil
	}
	if g, ok := second(); ok {
		return g, nil
	}
	if cmapErr != nil {
		return 0, cmapErr
	}
	return 0, ot.GlyphNotFoundError{Name: name}
}

// glyphIndexViaRegistry maps a glyph name to a single code point and looks it
// up in a cmap subtable. Mac Roman subtables are addressed with the Mac Roman
// code of the code point.
func glyphIndexViaRegistry(otf *ot.Font, reg GlyphRegistry, name string,
	platformID, encodingID uint16) (ot.GlyphIndex, error) {
	//
	if reg == nil {
		return 0, ot.GlyphNotFoundError{Name: name}
	}
	rr, ok := reg.CodePoints(name)
	if !ok || len(rr) != 1 {
		return 0, ot.GlyphNotFoundError{Name: name}
	}
	code, ok := CharCode(rr[0], platformID, encodingID)
	if !ok {
		return 0, ot.GlyphNotFoundError{Name: name}
	}
	g, err := otf.CMap.Lookup(code, platformID, encodingID)
	if err != nil {
		return 0, err
	}
	if g.IsNone() {
		return 0, ot.GlyphNotFoundError{Name: name}
	}
	return g.MustUnwrap(), nil
}

// CharCode converts a Unicode code point to a character code of the cmap
// subtable for (platformID, encodingID). Subtables other than Macintosh
// Roman are addressed with the code point itself.
func CharCode(r rune, platformID, encodingID uint16) (uint32, bool) {
	if PlatformID(platformID) == PlatformIDMacintosh && EncodingID(encodingID) == EncodingIDMacRoman {
		b, ok := charmap.Macintosh.EncodeRune(r)
		return uint32(b), ok
	}
	return uint32(r), r >= 0
}
