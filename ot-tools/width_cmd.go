package main

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/xtf"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runWidthCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := fontArg(args)
	key := mustEncoding(flags["encoding"])
	s, err := flags["order"].GetString()
	if err != nil {
		fatalf("invalid --order flag: %v", err)
	}
	order, err := parseLookupOrder(s)
	if err != nil {
		fatalf("%v", err)
	}
	glyphs := splitCSVSpace(args["glyphs"].Value)
	if len(glyphs) == 0 {
		fatalf("no glyph names given")
	}
	r, _ := mustLoadFont(fontPath, xtf.WithLookupOrder(order))
	data := [][]string{
		{"Glyph", "Width", "Remark"},
	}
	failed := 0
	for _, name := range glyphs {
		w, err := r.MapCharCodeToWidth(name, key.PlatformID, key.EncodingID)
		if err != nil {
			failed++
			data = append(data, []string{name, "-", err.Error()})
			continue
		}
		data = append(data, []string{name, strconv.Itoa(int(w)), ""})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if failed > 0 {
		fatalf("%d of %d glyph names could not be resolved for %s", failed, len(glyphs), key)
	}
}

func runCMapCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	_, otf := mustLoadFont(fontArg(args))
	s, err := flags["encoding"].GetString()
	if err != nil {
		fatalf("invalid --encoding flag: %v", err)
	}
	cmap := otf.CMap
	if s == "-" || s == "" {
		data := [][]string{
			{"Encoding", "Offset", "Format", "Status"},
		}
		for _, rec := range cmap.Records {
			st, err := cmap.Subtable(rec.PlatformID, rec.EncodingID)
			format, status := "-", "ok"
			if err != nil {
				status = err.Error()
			} else {
				format = strconv.Itoa(int(st.Format))
				if st.Err() != nil {
					status = st.Err().Error()
				}
			}
			data = append(data, []string{rec.EncodingKey.String(),
				strconv.Itoa(int(rec.Offset)), format, status})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		return
	}
	key, err := parseEncoding(s)
	if err != nil {
		fatalf("%v", err)
	}
	st, err := cmap.Subtable(key.PlatformID, key.EncodingID)
	if err != nil {
		fatalf("%v", err)
	}
	if st.Err() != nil {
		fatalf("subtable %s: %v", key, st.Err())
	}
	limit := mustFlagInt(flags["limit"], "limit")
	data := [][]string{
		{"Code", "Glyph", "Name"},
	}
	for code, g := range st.Mappings() {
		if limit >= 0 && len(data) > limit {
			break
		}
		name := ""
		if otf.Post != nil {
			name = otf.Post.GlyphName(g)
		}
		data = append(data, []string{fmt.Sprintf("0x%04x", code), strconv.Itoa(int(g)), name})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
