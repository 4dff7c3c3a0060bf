package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Debugf("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "cmap", "encoding", "map":
		pterm.Info.Println("cmap / encodings")
		pterm.Println(`
	Table cmap maps character codes to glyph indices. It holds subtables
	for platform/encoding pairs:
	+----------+----------+---------------------------+
	| Platform | Encoding |                           |
	+----------+----------+---------------------------+
	|    0     |   3, 4   | Unicode BMP, full Unicode |
	|    1     |    0     | Macintosh Roman           |
	|    3     |  1, 10   | Windows BMP, full Unicode |
	+----------+----------+---------------------------+
	cmap                 list all encodings
	cmap:3/1             show the subtable for platform 3, encoding 1
	encoding:1/0         set the default encoding for map and glyph
	map:A                map a character (or U+0041) to its glyph
	`)
	case "glyph", "width", "post":
		pterm.Info.Println("glyph names and widths")
		pterm.Println(`
	Glyph names are resolved through table post and the Adobe Glyph List.
	glyph:A              glyph index and advance width of glyph "A"
	glyph:uni20AC:3/1    same, for an explicit encoding
	width:36             advance width of glyph 36
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	info                 font identity and metrics
	tables               list the table directory
	table:<tag>          select a table
	name[:<id>]          list name records
	cmap[:<p/e>]         list encodings or show a cmap subtable
	encoding:<p/e>       set the default encoding
	map:<char>[:<p/e>]   map a character to a glyph
	glyph:<name>[:<p/e>] resolve a glyph name, print its width
	width:<index>        advance width of a glyph
	errors               problems found while parsing
	help[:<topic>]       help on cmap or glyph
	quit                 leave
	`)
	}
}
