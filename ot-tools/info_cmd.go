package main

import (
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/xtf"
	"github.com/npillmayer/xtf/ot"
	"github.com/npillmayer/xtf/otquery"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runInfoCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := fontArg(args)
	var opts []xtf.Option
	if mustFlagBool(flags["checksums"], "checksums") {
		opts = append(opts, xtf.WithChecksumVerification())
	}
	if mustFlagBool(flags["strict"], "strict") {
		opts = append(opts, xtf.WithStrictDirectory())
	}
	r, otf := mustLoadFont(fontPath, opts...)

	family, err := r.FamilyName()
	if err != nil {
		family = "(" + err.Error() + ")"
	}
	n, _ := r.NumberOfGlyphs()
	m := otquery.FontMetrics(otf)
	data := [][]string{
		{"Property", "Value"},
		{"path", fontPath},
		{"type", otquery.FontType(otf)},
		{"family", family},
		{"glyphs", strconv.Itoa(int(n))},
		{"units per em", strconv.Itoa(int(m.UnitsPerEm))},
	}
	names := otquery.NameInfo(otf)
	for _, key := range []string{"subfamily", "version", "postscript"} {
		if v := names[key]; v != "" {
			data = append(data, []string{key, v})
		}
	}
	if h, ok := otquery.HeadInfo(otf); ok {
		data = append(data, []string{"style", h.Style()})
	}
	tags := otf.TableTags()
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	tagNames := make([]string, len(tags))
	for i, tag := range tags {
		tagNames[i] = tag.String()
	}
	data = append(data, []string{"tables", strings.Join(tagNames, " ")})
	errs, warns := otf.Errors(), otf.Warnings()
	data = append(data, []string{"issues",
		"errors=" + strconv.Itoa(len(errs)) + " warnings=" + strconv.Itoa(len(warns))})
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	if len(args["tables"].Value) > 0 {
		printSelectedTables(otf, args["tables"].Value)
	}
	if mustFlagBool(flags["errors"], "errors") {
		for _, e := range errs {
			pterm.Error.Println(e.Error())
		}
		for _, w := range warns {
			pterm.Warning.Println(w.String())
		}
	}
}

func printSelectedTables(otf *ot.Font, raw string) {
	for _, t := range splitCSVSpace(raw) {
		tagName := strings.TrimSpace(t)
		if tagName == "" {
			continue
		}
		table := otf.Table(ot.T(tagName))
		if table == nil {
			pterm.Printf("table %s: missing\n", tagName)
			continue
		}
		off, size := table.Extent()
		pterm.Printf("table %s: offset=%d size=%d\n", tagName, off, size)
	}
}
