package otquery

import (
	"github.com/npillmayer/otname/ot"
)

// OS2TableInfo contains the style fields of table 'OS/2'.
type OS2TableInfo struct {
	Version     uint16
	WeightClass uint16
	WidthClass  uint16
	FsType      uint16
	VendorID    string
	FsSelection uint16
}

// OS2Info returns the style fields of table 'OS/2'.
// Returns (info, true) on success, or (zero, false) if the font has no OS/2 table.
func OS2Info(otf *ot.Font) (OS2TableInfo, bool) {
	if otf == nil || otf.OS2 == nil {
		return OS2TableInfo{}, false
	}
	os2 := otf.OS2
	return OS2TableInfo{
		Version:     os2.Version,
		WeightClass: os2.WeightClass,
		WidthClass:  os2.WidthClass,
		FsType:      os2.FsType,
		VendorID:    os2.VendorID.String(),
		FsSelection: os2.FsSelection,
	}, true
}

var fsSelectionNames = [...]string{
	"ITALIC", "UNDERSCORE", "NEGATIVE", "OUTLINED", "STRIKEOUT",
	"BOLD", "REGULAR", "USE_TYPO_METRICS", "WWS", "OBLIQUE",
}

// FsSelectionFlags names the bits set in OS/2.fsSelection.
func FsSelectionFlags(fs uint16) []string {
	return flagNames(fs, fsSelectionNames[:])
}

// Embedding describes the embedding permissions of OS/2.fsType.
func Embedding(fsType uint16) string {
	switch {
	case fsType&0x000f == 0:
		return "Installable"
	case fsType&0x0002 != 0:
		return "Restricted License"
	case fsType&0x0004 != 0:
		return "Preview & Print"
	case fsType&0x0008 != 0:
		return "Editable"
	}
	return "Unknown"
}
