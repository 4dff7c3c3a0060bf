package ot

import (
	"errors"
	"fmt"
)

// Errors reported by the font reader. Parameterized variants (see
// TableNotFoundError, CMapFormatError and GlyphNotFoundError) match their
// sentinel with errors.Is.
var (
	ErrOutOfBounds           = errors.New("read out of bounds")
	ErrMalformedDirectory    = errors.New("malformed table directory")
	ErrTableNotFound         = errors.New("table not found")
	ErrEncodingNotSupported  = errors.New("platform/encoding not supported by cmap")
	ErrUnsupportedCmapFormat = errors.New("unsupported cmap subtable format")
	ErrUnsupportedPostFormat = errors.New("post table carries no glyph names")
	ErrNameNotFound          = errors.New("name not found")
	ErrGlyphIndexOutOfRange  = errors.New("glyph index out of range")
	ErrGlyphNotFound         = errors.New("glyph not found")
	ErrChecksumMismatch      = errors.New("table checksum mismatch")
)

// errFontFormat produces user level errors for font parsing.
func errFontFormat(message string) error {
	return fmt.Errorf("OpenType font format: %s", message)
}

// outOfBounds reports a read of n bytes at offset in a buffer of the given size.
func outOfBounds(offset, n, size int) error {
	return fmt.Errorf("%w: %d bytes at offset %d, buffer size %d", ErrOutOfBounds, n, offset, size)
}

// TableNotFoundError is returned when a table is missing from the font.
type TableNotFoundError struct {
	Tag Tag
}

func (e TableNotFoundError) Error() string {
	return fmt.Sprintf("table not found: %s", e.Tag)
}

// Is makes TableNotFoundError match ErrTableNotFound.
func (e TableNotFoundError) Is(target error) bool {
	return target == ErrTableNotFound
}

// CMapFormatError is returned when a requested cmap subtable has a format
// this package does not decode.
type CMapFormatError struct {
	Format uint16
}

func (e CMapFormatError) Error() string {
	return fmt.Sprintf("unsupported cmap subtable format %d", e.Format)
}

// Is makes CMapFormatError match ErrUnsupportedCmapFormat.
func (e CMapFormatError) Is(target error) bool {
	return target == ErrUnsupportedCmapFormat
}

// GlyphNotFoundError is returned when a glyph name cannot be resolved.
type GlyphNotFoundError struct {
	Name string
}

func (e GlyphNotFoundError) Error() string {
	return fmt.Sprintf("glyph not found: %q", e.Name)
}

// Is makes GlyphNotFoundError match ErrGlyphNotFound.
func (e GlyphNotFoundError) Is(target error) bool {
	return target == ErrGlyphNotFound
}

// --- Diagnostics -----------------------------------------------------------

// ErrorSeverity represents the severity level of a font parsing error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the font unusable or unreliable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a significant error that may affect functionality but doesn't prevent usage.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered during font parsing.
// Errors are accumulated during initial parsing and can be inspected after parsing completes.
type FontError struct {
	Table    Tag           // The font table where the error occurred (e.g., "cmap", "post")
	Section  string        // Specific section within the table (e.g., "Subtable", "Header")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset in the font file where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// FontWarning represents a non-critical issue encountered during font parsing.
// Warnings indicate potential problems but do not prevent font usage.
type FontWarning struct {
	Table  Tag    // The font table where the warning occurred
	Issue  string // Human-readable description of the warning
	Offset uint32 // Byte offset in the font file where the warning occurred (0 if unknown)
	Err    error  // optional sentinel, e.g. ErrChecksumMismatch
}

// String returns a human-readable representation of the warning.
func (w FontWarning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("[WARNING] %s at offset %d: %s", w.Table, w.Offset, w.Issue)
	}
	return fmt.Sprintf("[WARNING] %s: %s", w.Table, w.Issue)
}

// Unwrap returns the sentinel error attached to the warning, if any.
func (w FontWarning) Unwrap() error {
	return w.Err
}

// errorCollector accumulates errors and warnings while a font is parsed.
// Every entry is traced as well.
type errorCollector struct {
	errors   []FontError
	warnings []FontWarning
}

func (ec *errorCollector) errorf(table Tag, section string, severity ErrorSeverity, offset uint32,
	format string, args ...any) {
	e := FontError{
		Table:    table,
		Section:  section,
		Issue:    fmt.Sprintf(format, args...),
		Severity: severity,
		Offset:   offset,
	}
	tracer().Debugf("%s", e)
	ec.errors = append(ec.errors, e)
}

func (ec *errorCollector) warnf(table Tag, offset uint32, format string, args ...any) {
	ec.warnErr(table, offset, nil, format, args...)
}

// warnErr records a warning which unwraps to err.
func (ec *errorCollector) warnErr(table Tag, offset uint32, err error, format string, args ...any) {
	w := FontWarning{
		Table:  table,
		Issue:  fmt.Sprintf(format, args...),
		Offset: offset,
		Err:    err,
	}
	tracer().Debugf("%s", w)
	ec.warnings = append(ec.warnings, w)
}

func filterSeverity(errs []FontError, severity ErrorSeverity) []FontError {
	var filtered []FontError
	for _, e := range errs {
		if e.Severity == severity {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
