/*
Package otquery answers questions about a parsed font in the vocabulary of
clients, e.g. a font's family name or the metrics of a glyph.

Package `ot` hands out tables; package otquery combines and decodes them.
Name strings are decoded from UTF-16BE or Mac Roman, glyph names are
resolved with the help of a GlyphRegistry.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'xtf.otquery'
func tracer() tracing.Trace {
	return tracing.Select("xtf.otquery")
}
