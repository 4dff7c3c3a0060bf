/*
Package xtf reads TrueType and OpenType font files and answers the questions
a document producer asks about a font: its family name, its number of
glyphs, and the advance width of a glyph given by name.

	r, err := xtf.Open(fontBytes)
	if err != nil { ... }
	family, _ := r.FamilyName()
	width, err := r.MapCharCodeToWidth("A", 3, 1) // Windows Unicode BMP

Glyph names are resolved through the font's table 'post', and through a
registry of glyph names (the Adobe Glyph List by default) which maps a name
to a code point for lookup in the selected cmap subtable. The order of both
sources is configurable with WithLookupOrder.

A FontReader is immutable once opened and may be shared between goroutines.
The tables themselves are accessible through package `ot`, more convenient
queries are found in package `otquery`.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package xtf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'xtf'
func tracer() tracing.Trace {
	return tracing.Select("xtf")
}
