/*
Package ot provides access to the tables of TrueType and OpenType font files
which describe a font's identity, metrics and character mapping.
Intended audience for this package are:

▪︎ PDF writers and other document producers, which need glyph widths for
text in a given encoding

▪︎ any application needing to have the internal structure of a font file available,
and possibly extending the methods of package `ot` by handling additional font tables

Package `ot` will expose tables to the client, with typed access to
'cmap', 'head', 'hhea', 'hmtx', 'maxp', 'name' and 'post'. All other tables
are kept as plain binary segments. Functions for getting names and metrics
in a more convenient form are homed in the sister package `otquery`.
This package is not intended for font manipulation applications.

Fonts are parsed eagerly: Parse decodes every table it interprets, including
all cmap subtables, and returns an immutable Font. A Font may thereafter be
used from several goroutines.

▪︎ Format versions: many OT tables may occur in a variety of formats. Tables in `ot` will
hide the concrete format and structure of underlying OT tables.

▪︎ Bugs in fonts: many fonts in the wild contain entries that, strictly speaking, infringe
upon the OT specification, but an application using it should not fail because of
recoverable errors. Problems found while parsing are collected and available
through Font.Errors and Font.Warnings.

# Status

Font collections are supported as far as locating a single font's table
directory. Variable fonts are not supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'xtf.ot'
func tracer() tracing.Trace {
	return tracing.Select("xtf.ot")
}
