package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/npillmayer/xtf/ot"
	"github.com/npillmayer/xtf/otquery"
	"github.com/pterm/pterm"
	"golang.org/x/image/font/sfnt"
)

func infoOp(intp *Intp, op *Op) (error, bool) {
	family, err := intp.reader.FamilyName()
	if err != nil {
		pterm.Error.Println(err)
	}
	n, _ := intp.reader.NumberOfGlyphs()
	m := otquery.FontMetrics(intp.font)
	data := [][]string{
		{"Property", "Value"},
		{"family", family},
		{"type", otquery.FontType(intp.font)},
		{"glyphs", strconv.Itoa(int(n))},
		{"units per em", strconv.Itoa(int(m.UnitsPerEm))},
		{"ascent / descent", fmt.Sprintf("%d / %d", m.Ascent, m.Descent)},
		{"line gap", strconv.Itoa(int(m.LineGap))},
		{"italic angle", fmt.Sprintf("%.1f", m.ItalicAngle)},
	}
	if h, ok := otquery.HeadInfo(intp.font); ok {
		data = append(data, []string{"revision", h.Revision()})
		data = append(data, []string{"style", h.Style()})
		data = append(data, []string{"created", h.Created.Format("2006-01-02")})
	}
	info := otquery.NameInfo(intp.font)
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k != "family" {
			data = append(data, []string{k, info[k]})
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func glyphOp(intp *Intp, op *Op) (error, bool) {
	name, ok := op.hasArg()
	if !ok {
		return errors.New("glyph needs a glyph name, e.g. glyph:A"), false
	}
	key, err := intp.parseEncoding(op.format)
	if err != nil {
		return err, false
	}
	w, err := intp.reader.MapCharCodeToWidth(name, key.PlatformID, key.EncodingID)
	if err != nil {
		return err, false
	}
	for _, order := range []otquery.LookupOrder{otquery.PostTableFirst, otquery.RegistryFirst} {
		g, err := otquery.GlyphIndexByName(intp.font, name, key.PlatformID, key.EncodingID,
			otquery.AdobeGlyphList{}, order)
		if err == nil {
			pterm.Printf("%-14s glyph %d\n", order.String()+":", g)
		}
	}
	pterm.Printf("glyph %q has advance width %d for %s\n", name, w, key)
	return nil, false
}

func widthOp(intp *Intp, op *Op) (error, bool) {
	arg, ok := op.hasArg()
	if !ok {
		return errors.New("width needs a glyph index, e.g. width:36"), false
	}
	g, err := strconv.Atoi(arg)
	if err != nil || g < 0 || g > 0xffff {
		return fmt.Errorf("glyph index not numeric: %v", arg), false
	}
	gm := otquery.GlyphMetrics(intp.font, ot.GlyphIndex(g))
	if _, err := intp.reader.GlyphWidth(ot.GlyphIndex(g)); err != nil {
		return err, false
	}
	name := ""
	if intp.font.Post != nil {
		name = intp.font.Post.GlyphName(ot.GlyphIndex(g))
	}
	r := otquery.CodePointForGlyph(intp.font, ot.GlyphIndex(g))
	pterm.Printf("glyph %d %q (%#U): advance %d, lsb %d\n", g, name, r, gm.Advance, gm.LSB)
	return nil, false
}

func nameOp(intp *Intp, op *Op) (error, bool) {
	filter := -1
	if arg, ok := op.hasArg(); ok {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("name ID not numeric: %v", arg), false
		}
		filter = id
	}
	if err := intp.font.NameTableError(); err != nil {
		return err, false
	}
	data := [][]string{
		{"ID", "Value"},
	}
	for id, value := range otquery.NamesRange(intp.font) {
		if filter < 0 || sfnt.NameID(filter) == id {
			data = append(data, []string{strconv.Itoa(int(id)), value})
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func errorsOp(intp *Intp, op *Op) (error, bool) {
	errs, warnings := intp.font.Errors(), intp.font.Warnings()
	if len(errs) == 0 && len(warnings) == 0 {
		pterm.Println("no problems found while parsing")
		return nil, false
	}
	for _, e := range errs {
		pterm.Error.Println(e.Error())
	}
	for _, w := range warnings {
		pterm.Warning.Println(w.String())
	}
	return nil, false
}
