package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/xtf/ot"
	"github.com/npillmayer/xtf/otquery"
	"github.com/pterm/pterm"
)

func tablesOp(intp *Intp, op *Op) (error, bool) {
	data := [][]string{
		{"Tag", "Offset", "Length", "Checksum"},
	}
	for _, rec := range intp.font.Directory.Records() {
		data = append(data, []string{
			rec.Tag.String(),
			strconv.FormatUint(uint64(rec.Offset), 10),
			strconv.FormatUint(uint64(rec.Length), 10),
			fmt.Sprintf("%08x", rec.Checksum),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func tableOp(intp *Intp, op *Op) (error, bool) {
	tag, ok := op.hasArg()
	if !ok {
		if intp.table == nil {
			return ErrNoTable, false
		}
		offset, size := intp.table.Extent()
		pterm.Printf("table %s at offset %d, %d bytes\n", intp.table.Self().NameTag(), offset, size)
		return nil, false
	}
	if intp.table = intp.font.Table(ot.T(tag)); intp.table == nil {
		return errors.New("table not found in font"), false
	}
	tracer().Infof("setting table: %v", tag)
	return nil, false
}

func cmapOp(intp *Intp, op *Op) (error, bool) {
	cmap := intp.font.CMap
	if op.noArg() {
		data := [][]string{
			{"Platform", "Encoding", "Offset", "Format", "Status"},
		}
		for _, rec := range cmap.Records {
			format, status := "-", "ok"
			if st, err := cmap.Subtable(rec.PlatformID, rec.EncodingID); err == nil {
				format = strconv.Itoa(int(st.Format))
				if st.Err() != nil {
					status = st.Err().Error()
				}
			}
			data = append(data, []string{
				strconv.Itoa(int(rec.PlatformID)),
				strconv.Itoa(int(rec.EncodingID)),
				strconv.FormatUint(uint64(rec.Offset), 10),
				format,
				status,
			})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		return nil, false
	}
	key, err := intp.parseEncoding(op.arg)
	if err != nil {
		return err, false
	}
	st, err := cmap.Subtable(key.PlatformID, key.EncodingID)
	if err != nil {
		return err, false
	}
	if st.Err() != nil {
		return st.Err(), false
	}
	pterm.Printf("cmap %s: format %d, language %d\n", key, st.Format, st.Language)
	const maxShown = 32
	data := [][]string{
		{"Code", "Glyph"},
	}
	count := 0
	for code, g := range st.Mappings() {
		if count < maxShown {
			data = append(data, []string{fmt.Sprintf("%#04x", code), strconv.Itoa(int(g))})
		}
		count++
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Printf("%d codes mapped\n", count)
	return nil, false
}

func encodingOp(intp *Intp, op *Op) (error, bool) {
	if op.noArg() {
		pterm.Printf("default encoding is %s\n", intp.encoding)
		return nil, false
	}
	key, err := intp.parseEncoding(op.arg)
	if err != nil {
		return err, false
	}
	if !intp.font.CMap.HasEncoding(key.PlatformID, key.EncodingID) {
		return fmt.Errorf("%w: %s", ot.ErrEncodingNotSupported, key), false
	}
	intp.encoding = key
	return nil, false
}

func mapOp(intp *Intp, op *Op) (error, bool) {
	arg, ok := op.hasArg()
	if !ok {
		return errors.New("map needs a character, e.g. map:A or map:U+20AC"), false
	}
	r, err := parseRune(arg)
	if err != nil {
		return err, false
	}
	key, err := intp.parseEncoding(op.format)
	if err != nil {
		return err, false
	}
	code, ok := otquery.CharCode(r, key.PlatformID, key.EncodingID)
	if !ok {
		return fmt.Errorf("%#U cannot be encoded for %s", r, key), false
	}
	g, err := intp.font.CMap.Lookup(code, key.PlatformID, key.EncodingID)
	if err != nil {
		return err, false
	}
	if g.IsNone() {
		pterm.Printf("%#U (code %#x) is not mapped by %s\n", r, code, key)
		return nil, false
	}
	pterm.Printf("%#U (code %#x) maps to glyph %d\n", r, code, g.MustUnwrap())
	return nil, false
}

func parseRune(s string) (rune, error) {
	if hex, ok := strings.CutPrefix(strings.ToUpper(s), "U+"); ok {
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid code point %q", s)
		}
		return rune(n), nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("expected a single character, have %q", s)
	}
	return r, nil
}
