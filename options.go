package xtf

import (
	"github.com/npillmayer/xtf/ot"
	"github.com/npillmayer/xtf/otquery"
)

// LookupOrder selects whether glyph names are resolved with table 'post'
// or with the glyph registry first.
type LookupOrder = otquery.LookupOrder

const (
	PostTableFirst = otquery.PostTableFirst
	RegistryFirst  = otquery.RegistryFirst
)

// Option configures a FontReader.
type Option func(*config)

type config struct {
	order      LookupOrder
	registry   otquery.GlyphRegistry
	collection int // font index within a collection
	parseOpts  []ot.ParseOption
}

func defaultConfig() config {
	return config{
		order:    PostTableFirst,
		registry: otquery.AdobeGlyphList{},
	}
}

// WithLookupOrder sets the order in which table 'post' and the glyph
// registry are consulted by MapCharCodeToWidth. Default is PostTableFirst.
func WithLookupOrder(order LookupOrder) Option {
	return func(c *config) {
		c.order = order
	}
}

// WithGlyphRegistry replaces the Adobe Glyph List as the registry of glyph
// names. A nil registry disables registry lookups.
func WithGlyphRegistry(reg otquery.GlyphRegistry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithChecksumVerification makes Open recompute table checksums. Mismatches
// do not fail the font; they are reported as warnings (see ot.Font.Warnings).
func WithChecksumVerification() Option {
	return func(c *config) {
		c.parseOpts = append(c.parseOpts, ot.VerifyChecksums)
	}
}

// WithStrictDirectory makes Open fail for table directories with unsorted
// or duplicate records, or with misaligned table offsets.
func WithStrictDirectory() Option {
	return func(c *config) {
		c.parseOpts = append(c.parseOpts, ot.StrictDirectory)
	}
}

// WithCollectionIndex selects a font of a TrueType collection. Default is
// the first font.
func WithCollectionIndex(i int) Option {
	return func(c *config) {
		c.collection = i
	}
}
