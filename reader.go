package xtf

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/npillmayer/xtf/ot"
	"github.com/npillmayer/xtf/otquery"
)

// Errors of the FontReader life cycle.
var (
	ErrNotOpened     = errors.New("font reader not opened")
	ErrAlreadyOpened = errors.New("font reader already opened")
)

// ReaderState is the life-cycle state of a FontReader.
type ReaderState int32

const (
	Unopened ReaderState = iota // zero value
	Parsing                     // Open is in progress
	Ready                       // font parsed, queries answer
	Failed                      // Open failed, queries return its error
)

func (s ReaderState) String() string {
	switch s {
	case Unopened:
		return "unopened"
	case Parsing:
		return "parsing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("ReaderState(%d)", int32(s))
}

// FontReader answers queries about a single font.
//
// The zero value is an unopened reader. Open moves it to state Ready, or to
// state Failed if the font cannot be parsed. A reader is opened at most once;
// after that it is read-only and safe for concurrent use.
type FontReader struct {
	mu    sync.RWMutex // held for writing while parsing
	state atomic.Int32
	conf  config
	otf   *ot.Font
	err   error // set in state Failed
}

// Open parses a font binary and returns a reader in state Ready. If the
// font cannot be parsed, the error is returned together with a reader in
// state Failed.
//
// The reader keeps a reference to font; the bytes must not be changed
// while the reader is in use.
func Open(font []byte, opts ...Option) (*FontReader, error) {
	r := &FontReader{}
	err := r.Open(font, opts...)
	return r, err
}

// Open parses a font binary. It may be called only on a reader in state
// Unopened; otherwise ErrAlreadyOpened is returned.
func (r *FontReader) Open(font []byte, opts ...Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.CompareAndSwap(int32(Unopened), int32(Parsing)) {
		return ErrAlreadyOpened
	}
	r.conf = defaultConfig()
	for _, opt := range opts {
		opt(&r.conf)
	}
	r.otf, r.err = ot.ParseCollection(font, r.conf.collection, r.conf.parseOpts...)
	if r.err != nil {
		tracer().Errorf("cannot open font: %v", r.err)
		r.otf = nil
		r.state.Store(int32(Failed))
		return r.err
	}
	for _, w := range r.otf.Warnings() {
		tracer().Infof("%s", w)
	}
	tracer().Debugf("opened font with %d tables, lookup order %s", r.otf.Directory.Len(), r.conf.order)
	r.state.Store(int32(Ready))
	return nil
}

// State returns the life-cycle state of the reader.
func (r *FontReader) State() ReaderState {
	return ReaderState(r.state.Load())
}

// ready returns the parsed font, or the error every query has to return.
// While Open is in progress it waits for it to finish.
func (r *FontReader) ready() (*ot.Font, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch r.State() {
	case Ready:
		return r.otf, nil
	case Failed:
		return nil, r.err
	}
	return nil, ErrNotOpened
}

// Font returns the parsed font for access to its tables.
func (r *FontReader) Font() (*ot.Font, error) {
	return r.ready()
}

// FamilyName returns the font's family name from table 'name'.
func (r *FontReader) FamilyName() (string, error) {
	otf, err := r.ready()
	if err != nil {
		return "", err
	}
	return otquery.FamilyName(otf)
}

// NumberOfGlyphs returns the number of glyphs as stated by table 'maxp'.
func (r *FontReader) NumberOfGlyphs() (uint32, error) {
	otf, err := r.ready()
	if err != nil {
		return 0, err
	}
	return uint32(otf.NumGlyphs()), nil
}

// MapCharCodeToWidth returns the advance width in font units of the glyph
// with a given PostScript name, for the cmap subtable selected by
// (platformID, encodingID).
//
// If the font has no subtable for the platform/encoding pair,
// ErrEncodingNotSupported is returned. The glyph name is then resolved
// through table 'post' and the glyph registry, in the configured order.
// If neither resolves the name, a GlyphNotFoundError is returned.
func (r *FontReader) MapCharCodeToWidth(glyphName string, platformID, encodingID uint16) (uint16, error) {
	otf, err := r.ready()
	if err != nil {
		return 0, err
	}
	if !otf.CMap.HasEncoding(platformID, encodingID) {
		return 0, fmt.Errorf("%w: platform %d, encoding %d", ot.ErrEncodingNotSupported, platformID, encodingID)
	}
	g, err := otquery.GlyphIndexByName(otf, glyphName, platformID, encodingID, r.conf.registry, r.conf.order)
	if err != nil {
		return 0, err
	}
	tracer().Debugf("glyph %q has index %d", glyphName, g)
	return otf.HMtx.AdvanceWidth(g)
}

// GlyphWidth returns the advance width in font units of a glyph given by
// index. Indices beyond the number of glyphs result in
// ErrGlyphIndexOutOfRange.
func (r *FontReader) GlyphWidth(g ot.GlyphIndex) (uint16, error) {
	otf, err := r.ready()
	if err != nil {
		return 0, err
	}
	return otf.HMtx.AdvanceWidth(g)
}
