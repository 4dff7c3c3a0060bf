package otquery

import (
	"github.com/npillmayer/xtf/ot"
)

// MaxPTableInfo is a typed query view over OpenType table 'maxp'.
// For version 1.0 tables, selected TrueType profile fields are decoded if
// present.
type MaxPTableInfo struct {
	VersionFixed uint32
	NumGlyphs    uint16

	// TrueType profile fields (version 1.0 only)
	HasExtendedProfile bool
	MaxPoints          uint16
	MaxContours        uint16
	MaxComponentDepth  uint16
}

const maxpV10Size = 32

// MaxPInfo decodes table 'maxp'.
// Returns (info, true) on success, or (zero, false) if table is missing.
func MaxPInfo(otf *ot.Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	if otf == nil || otf.MaxP == nil {
		return info, false
	}
	info.VersionFixed = otf.MaxP.Version
	info.NumGlyphs = uint16(otf.MaxP.NumGlyphs)
	b := otf.MaxP.Binary()
	if info.VersionFixed != 0x00010000 || len(b) < maxpV10Size {
		return info, true
	}
	info.HasExtendedProfile = true
	info.MaxPoints = u16(b[6:])
	info.MaxContours = u16(b[8:])
	info.MaxComponentDepth = u16(b[30:])
	return info, true
}
