package otquery

import (
	"github.com/npillmayer/otname/names"
	"github.com/npillmayer/otname/ot"
	"golang.org/x/image/font/sfnt"
)

// FontInfo is a summary of a font's container and style information.
type FontInfo struct {
	Flavor       string // "TrueType" or "PostScript"
	Tables       []string
	NumGlyphs    int
	FullName     string
	Family       string
	Subfamily    string
	Head         HeadTableInfo
	OS2          OS2TableInfo
	HasOS2       bool
	ItalicAngle  float64
	IsFixedPitch bool
	NameRecords  int
}

// FontType returns "PostScript" for fonts with CFF outlines and "TrueType"
// otherwise.
func FontType(otf *ot.Font) string {
	if otf == nil {
		return ""
	}
	return otf.Flavor()
}

// Info collects a summary of a font.
func Info(otf *ot.Font, nt *names.Table) FontInfo {
	info := FontInfo{Flavor: FontType(otf)}
	if otf == nil {
		return info
	}
	for _, tag := range otf.TableTags() {
		info.Tables = append(info.Tables, tag.String())
	}
	if otf.MaxP != nil {
		info.NumGlyphs = otf.MaxP.NumGlyphs
	}
	if otf.Post != nil {
		info.ItalicAngle = otf.Post.ItalicAngle
		info.IsFixedPitch = otf.Post.IsFixedPitch
	}
	info.Head, _ = HeadInfo(otf)
	info.OS2, info.HasOS2 = OS2Info(otf)
	if nt != nil {
		info.Family, info.Subfamily = FamilyName(nt)
		info.FullName, _ = englishName(nt, sfnt.NameIDFull)
		info.NameRecords = nt.Len()
	}
	return info
}
