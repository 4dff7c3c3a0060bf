package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/xtf"
	"github.com/npillmayer/xtf/internal/fontload"
	"github.com/npillmayer/xtf/ot"
	"github.com/npillmayer/xtf/otquery"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := fontArg(args)
	name := strings.TrimSpace(args["glyph"].Value)
	if name == "" {
		fatalf("glyph name is required")
	}
	key := mustEncoding(flags["encoding"])
	outPath, err := flags["output"].GetString()
	if err != nil {
		fatalf("invalid --output flag: %v", err)
	}
	if outPath = strings.TrimSpace(outPath); outPath == "" {
		fatalf("output path is empty")
	}
	ppem := mustFlagInt(flags["ppem"], "ppem")
	width := mustFlagInt(flags["width"], "width")
	height := mustFlagInt(flags["height"], "height")
	if ppem <= 0 {
		fatalf("--ppem must be > 0")
	}
	if width <= 0 || height <= 0 {
		fatalf("--width and --height must be > 0")
	}

	ff, err := fontload.Load(fontPath)
	if err != nil {
		fatalf("cannot load font %s: %v", fontPath, err)
	}
	r, err := xtf.Open(ff.Binary)
	if err != nil {
		fatalf("cannot parse font %s: %v", ff.Filepath, err)
	}
	otf, _ := r.Font()
	if !otf.CMap.HasEncoding(key.PlatformID, key.EncodingID) {
		fatalf("%v: %s", ot.ErrEncodingNotSupported, key)
	}
	g, err := otquery.GlyphIndexByName(otf, name, key.PlatformID, key.EncodingID,
		otquery.AdobeGlyphList{}, otquery.PostTableFirst)
	if err != nil {
		fatalf("%v", err)
	}
	if err := renderGlyphPNG(ff.Binary, g, outPath, width, height, ppem); err != nil {
		fatalf("render failed: %v", err)
	}
	fmt.Printf("wrote %s (glyph %q = %d)\n", outPath, name, g)
}

// renderGlyphPNG rasterizes the outline of glyph g, centered on a white
// canvas, and writes it as PNG.
func renderGlyphPNG(font []byte, g ot.GlyphIndex, outPath string, width, height, ppem int) error {
	sf, err := sfnt.Parse(font)
	if err != nil {
		return fmt.Errorf("cannot parse sfnt font for rasterization: %w", err)
	}
	if sf.UnitsPerEm() <= 0 {
		return errors.New("invalid units-per-em")
	}
	var buf sfnt.Buffer
	segs, err := sf.LoadGlyph(&buf, sfnt.GlyphIndex(g), fixed.I(ppem), nil)
	if err != nil {
		return fmt.Errorf("cannot load glyph %d: %w", g, err)
	}
	bounds := segs.Bounds()
	tx := float32(width)/2 - (float32(bounds.Min.X)+float32(bounds.Max.X))/128
	ty := float32(height)/2 - (float32(bounds.Min.Y)+float32(bounds.Max.Y))/128

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)
	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Over
	pt := func(p fixed.Point26_6) (float32, float32) {
		return tx + float32(p.X)/64, ty + float32(p.Y)/64
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			rast.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			rast.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			rast.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x3, y3 := pt(seg.Args[2])
			rast.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}
