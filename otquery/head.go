package otquery

import (
	"time"

	"github.com/npillmayer/otname/ot"
)

// HeadTableInfo is a typed query view over OpenType table 'head'.
// Values are decoded directly from the raw table bytes.
type HeadTableInfo struct {
	MajorVersion  uint16
	MinorVersion  uint16
	FontRevision  float64
	Flags         uint16
	UnitsPerEm    uint16
	Created       time.Time
	Modified      time.Time
	MacStyle      uint16
	LowestRecPPEM uint16
}

const headTableSize = 54

// HeadInfo decodes table 'head'.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	if otf == nil {
		return info, false
	}
	table := otf.Table(ot.T("head"))
	if table == nil {
		return info, false
	}
	b := table.Binary()
	if len(b) < headTableSize {
		tracer().Debugf("head table too short: %d", len(b))
		return info, false
	}
	info.MajorVersion = u16(b[0:])
	info.MinorVersion = u16(b[2:])
	info.FontRevision = fixed(b[4:])
	info.Flags = u16(b[16:])
	info.UnitsPerEm = u16(b[18:])
	info.Created = ot.FromLongDateTime(i64(b[20:]))
	info.Modified = ot.FromLongDateTime(i64(b[28:]))
	info.MacStyle = u16(b[44:])
	info.LowestRecPPEM = u16(b[46:])
	return info, true
}

// MacStyleFlags names the bits set in head.macStyle.
func MacStyleFlags(macStyle uint16) []string {
	return flagNames(macStyle, macStyleNames[:])
}

var macStyleNames = [...]string{
	"BOLD", "ITALIC", "UNDERLINE", "OUTLINE", "SHADOW", "CONDENSED", "EXTENDED",
}

func flagNames(bits uint16, names []string) []string {
	var flags []string
	for i, name := range names {
		if bits&(1<<i) != 0 {
			flags = append(flags, name)
		}
	}
	return flags
}
