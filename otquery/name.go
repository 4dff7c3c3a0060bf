package otquery

import (
	"fmt"
	"iter"

	"github.com/npillmayer/xtf/ot"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// PlatformID is the platform of a name record or cmap subtable.
type PlatformID uint16

const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1
	PlatformIDWindows   PlatformID = 3
)

// EncodingID is the platform specific encoding of a name record.
type EncodingID uint16

const (
	EncodingIDMacRoman      EncodingID = 0
	EncodingIDWindowsSymbol EncodingID = 0
	EncodingIDWindowsBMP    EncodingID = 1
	EncodingIDUnicodeBMP    EncodingID = 3
)

// languageEnglishUS is the Windows language ID for English (United States).
const languageEnglishUS = 0x0409

// FamilyName returns the font family name (name ID 1).
//
// Windows Unicode records are preferred, English (United States) first.
// Next come Macintosh Roman records, and finally the first family record of
// any platform which can be decoded. If the font carries no family name,
// ErrNameNotFound is returned.
func FamilyName(otf *ot.Font) (string, error) {
	return preferredName(otf, sfnt.NameIDFamily)
}

// preferredName selects and decodes the best record for a name ID.
func preferredName(otf *ot.Font, id sfnt.NameID) (string, error) {
	if otf == nil {
		return "", ot.ErrNameNotFound
	}
	if otf.Name == nil {
		if err := otf.NameTableError(); err != nil {
			return "", fmt.Errorf("%w: %w", ot.ErrNameNotFound, err)
		}
	}
	recs := otf.Name.RecordsFor(uint16(id))
	for _, match := range nameRecordPreference {
		for _, rec := range recs {
			if !match(rec) {
				continue
			}
			s, err := decodeNameValue(rec)
			if err != nil || s == "" {
				tracer().Debugf("cannot decode name record %d (%d/%d): %v",
					rec.NameID, rec.PlatformID, rec.EncodingID, err)
				continue
			}
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: name ID %d", ot.ErrNameNotFound, id)
}

// Name records, in order of preference.
var nameRecordPreference = []func(ot.NameRecord) bool{
	func(r ot.NameRecord) bool {
		return isWindowsUnicode(r) && r.LanguageID == languageEnglishUS
	},
	isWindowsUnicode,
	func(r ot.NameRecord) bool {
		return PlatformID(r.PlatformID) == PlatformIDMacintosh &&
			EncodingID(r.EncodingID) == EncodingIDMacRoman
	},
	func(ot.NameRecord) bool { return true },
}

func isWindowsUnicode(r ot.NameRecord) bool {
	return PlatformID(r.PlatformID) == PlatformIDWindows && EncodingID(r.EncodingID) == EncodingIDWindowsBMP
}

// NamesRange yields decoded `(nameID, value)` pairs from a font's OpenType
// `name` table, in table order.
//
// Records of an encoding which cannot be decoded are skipped, as are
// records with string data outside of the table.
func NamesRange(otf *ot.Font) iter.Seq2[sfnt.NameID, string] {
	return func(yield func(sfnt.NameID, string) bool) {
		if otf == nil {
			return
		}
		for _, rec := range otf.Name.Records() {
			s, err := decodeNameValue(rec)
			if err != nil || s == "" {
				continue
			}
			if !yield(sfnt.NameID(rec.NameID), s) {
				return
			}
		}
	}
}

// nameInfoKeys are the keys of NameInfo.
var nameInfoKeys = map[sfnt.NameID]string{
	sfnt.NameIDCopyright:            "copyright",
	sfnt.NameIDFamily:               "family",
	sfnt.NameIDSubfamily:            "subfamily",
	sfnt.NameIDUniqueIdentifier:     "id",
	sfnt.NameIDFull:                 "fullname",
	sfnt.NameIDVersion:              "version",
	sfnt.NameIDPostScript:           "postscript",
	sfnt.NameIDTrademark:            "trademark",
	sfnt.NameIDManufacturer:         "manufacturer",
	sfnt.NameIDDesigner:             "designer",
	sfnt.NameIDLicense:              "license",
	sfnt.NameIDTypographicFamily:    "typo-family",
	sfnt.NameIDTypographicSubfamily: "typo-subfamily",
}

// NameInfo returns a map with selected name entries of a font, keyed by
// "family", "subfamily", "fullname", "version", "postscript" and others.
// Each value is selected with the same preference as FamilyName.
func NameInfo(otf *ot.Font) map[string]string {
	info := make(map[string]string)
	for id, key := range nameInfoKeys {
		if s, err := preferredName(otf, id); err == nil {
			info[key] = s
		}
	}
	return info
}

func decodeNameValue(rec ot.NameRecord) (string, error) {
	switch PlatformID(rec.PlatformID) {
	case PlatformIDUnicode, PlatformIDWindows:
		return decodeNameUTF16(rec.Value)
	case PlatformIDMacintosh:
		if EncodingID(rec.EncodingID) != EncodingIDMacRoman {
			return "", fmt.Errorf("macintosh encoding %d not supported", rec.EncodingID)
		}
		s, err := charmap.Macintosh.NewDecoder().Bytes(rec.Value)
		if err != nil {
			return "", fmt.Errorf("decoding Mac Roman error: %v", err)
		}
		return string(s), nil
	}
	return "", fmt.Errorf("platform %d not supported", rec.PlatformID)
}

func decodeNameUTF16(str []byte) (string, error) {
	if len(str)%2 != 0 {
		return "", fmt.Errorf("odd length %d for UTF-16 string", len(str))
	}
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	decoder := enc.NewDecoder()
	s, err := decoder.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}
