/*
Command ot-tools offers non-interactive font diagnostics.

	ot-tools info  Garamond.ttf
	ot-tools width Garamond.ttf A,space,period --encoding 3/1
	ot-tools cmap  Garamond.ttf --encoding 1/0
	ot-tools view  Garamond.ttf W --output W.png

Fonts are given as a file path or as the name of an installed system font.
*/
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/xtf"
	"github.com/npillmayer/xtf/ot"
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("ot-tools").
		SetVersion("v0.1.0").
		SetDescription("CLI for font diagnostics: names, glyph widths and character maps.")

	commando.
		Register("info").
		SetDescription("Print identity, metrics and table information for a font.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "font file path or system font name", "").
		AddArgument("tables...", "optional list of table tags (e.g. cmap,post,head)", "").
		AddFlag("checksums,k", "verify table checksums", commando.Bool, nil).
		AddFlag("strict,s", "fail on a malformed table directory", commando.Bool, nil).
		AddFlag("errors,e", "print parse errors and warnings", commando.Bool, nil).
		SetAction(runInfoCommand)

	commando.
		Register("width").
		SetDescription("Print the advance widths of glyphs given by name.").
		SetShortDescription("glyph widths").
		AddArgument("font", "font file path or system font name", "").
		AddArgument("glyphs...", "glyph names (e.g. A,space,uni20AC)", "").
		AddFlag("encoding,n", "cmap platform/encoding", commando.String, "3/1").
		AddFlag("order,o", "glyph name lookup order: post|registry", commando.String, "post").
		SetAction(runWidthCommand)

	commando.
		Register("cmap").
		SetDescription("List the encoding records of table cmap, or the mappings of one subtable.").
		SetShortDescription("character maps").
		AddArgument("font", "font file path or system font name", "").
		AddFlag("encoding,n", "cmap platform/encoding (- lists all records)", commando.String, "-").
		AddFlag("limit,l", "maximum number of mappings to print", commando.Int, 64).
		SetAction(runCMapCommand)

	commando.
		Register("view").
		SetDescription("Render a glyph given by name to a PNG image.").
		SetShortDescription("glyph to image").
		AddArgument("font", "font file path or system font name", "").
		AddArgument("glyph", "glyph name", "").
		AddFlag("encoding,n", "cmap platform/encoding", commando.String, "3/1").
		AddFlag("output,o", "output PNG file", commando.String, "ot-tools-view.png").
		AddFlag("ppem,p", "render scale in pixels-per-em", commando.Int, 96).
		AddFlag("width,W", "image width in pixels", commando.Int, 320).
		AddFlag("height,H", "image height in pixels", commando.Int, 240).
		SetAction(runViewCommand)

	commando.Parse(nil)
}

func mustLoadFont(path string, opts ...xtf.Option) (*xtf.FontReader, *ot.Font) {
	r, err := xtf.LoadFont(path, opts...)
	if err != nil {
		fatalf("cannot load font %s: %v", path, err)
	}
	otf, err := r.Font()
	if err != nil {
		fatalf("cannot load font %s: %v", path, err)
	}
	return r, otf
}

func fontArg(args map[string]commando.ArgValue) string {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	return fontPath
}

// parseEncoding parses a platform/encoding pair of the form "3/1".
func parseEncoding(s string) (ot.EncodingKey, error) {
	p, e, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return ot.EncodingKey{}, fmt.Errorf("encoding must be given as platform/encoding, is %q", s)
	}
	pid, err1 := strconv.ParseUint(p, 10, 16)
	eid, err2 := strconv.ParseUint(e, 10, 16)
	if err1 != nil || err2 != nil {
		return ot.EncodingKey{}, fmt.Errorf("encoding not numeric: %q", s)
	}
	return ot.EncodingKey{PlatformID: uint16(pid), EncodingID: uint16(eid)}, nil
}

func mustEncoding(flag commando.FlagValue) ot.EncodingKey {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --encoding flag: %v", err)
	}
	key, err := parseEncoding(s)
	if err != nil {
		fatalf("%v", err)
	}
	return key
}

func parseLookupOrder(s string) (xtf.LookupOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "post":
		return xtf.PostTableFirst, nil
	case "registry":
		return xtf.RegistryFirst, nil
	}
	return xtf.PostTableFirst, fmt.Errorf("unsupported lookup order %q (expected post|registry)", s)
}

func splitCSVSpace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ot-tools: "+format+"\n", args...)
	os.Exit(1)
}
