package fonttest

import "fmt"

// Published metrics of a Garamond font, used by Garamond().
const (
	GaramondGlyphCount      = 662
	GaramondHMetrics        = 600 // glyphs beyond repeat the last advance
	GaramondUnitsPerEm      = 2048
	GaramondWidthSpace      = 512
	GaramondWidthPeriod     = 448
	GaramondWidthA          = 1387
	GaramondWidthW          = 1813
	GaramondDefaultWidth    = 1024
	GaramondTailWidth       = 1100
	GaramondFirstCustomName = 258
)

// Glyph indices of Garamond(), following the standard Macintosh glyph order.
const (
	GlyphSpace  = 3
	GlyphPeriod = 17
	GlyphA      = 36
	GlyphW      = 58
	GlyphLowerA = 68
)

// GaramondBuilder returns a builder for a font carrying the identity and
// metrics of a Garamond font: family name "Garamond", 662 glyphs and the
// widths of space, period, A and W.
//
// Glyphs 0…257 carry the standard Macintosh names, glyphs from 258 on the
// custom names "g258", "g259", and so on. The cmap maps ASCII letters, space
// and period for (3,1) and (0,3) through one shared format 4 subtable, and
// for (1,0) through a format 0 subtable.
func GaramondBuilder() *Builder {
	advances := make([]uint16, GaramondHMetrics)
	for i := range advances {
		advances[i] = GaramondDefaultWidth
	}
	advances[GlyphSpace] = GaramondWidthSpace
	advances[GlyphPeriod] = GaramondWidthPeriod
	advances[GlyphA] = GaramondWidthA
	advances[GlyphW] = GaramondWidthW
	advances[GaramondHMetrics-1] = GaramondTailWidth
	//
	unicode := map[uint16]uint16{' ': GlyphSpace, '.': GlyphPeriod}
	mac := map[uint8]uint8{' ': GlyphSpace, '.': GlyphPeriod}
	for c := 'A'; c <= 'Z'; c++ {
		unicode[uint16(c)] = uint16(GlyphA + c - 'A')
		mac[uint8(c)] = uint8(GlyphA + c - 'A')
	}
	for c := 'a'; c <= 'z'; c++ {
		unicode[uint16(c)] = uint16(GlyphLowerA + c - 'a')
		mac[uint8(c)] = uint8(GlyphLowerA + c - 'a')
	}
	format4 := Format4(unicode)
	//
	return New().
		Table("head", Head(GaramondUnitsPerEm)).
		Table("hhea", HHea(1556, -492, GaramondHMetrics)).
		Table("maxp", MaxP(GaramondGlyphCount)).
		Table("hmtx", HMtx(advances, GaramondGlyphCount)).
		Table("cmap", CMap(
			Encoding{PlatformID: 0, EncodingID: 3, Subtable: format4},
			Encoding{PlatformID: 1, EncodingID: 0, Subtable: Format0(mac)},
			Encoding{PlatformID: 3, EncodingID: 1, Subtable: format4},
		)).
		Table("post", GaramondPost(GaramondGlyphCount, nil)).
		Table("name", Name(
			MacName(1, "Garamond"),
			MacName(2, "Regular"),
			WindowsName(1, "Garamond"),
			WindowsName(2, "Regular"),
			WindowsName(4, "Garamond Regular"),
			WindowsName(6, "Garamond-Regular"),
		))
}

// GaramondPost returns a version 2.0 table 'post' naming count glyphs the
// way Garamond() does. Glyphs listed in renamed carry the given custom name
// instead of "g<index>".
func GaramondPost(count int, renamed map[int]string) []byte {
	indices := make([]uint16, count)
	var custom []string
	for g := range indices {
		indices[g] = uint16(g)
		if g >= GaramondFirstCustomName {
			name, ok := renamed[g]
			if !ok {
				name = fmt.Sprintf("g%d", g)
			}
			custom = append(custom, name)
		}
	}
	return Post2(indices, custom)
}

// Garamond returns the binary of GaramondBuilder().
func Garamond() []byte {
	return GaramondBuilder().Bytes()
}
