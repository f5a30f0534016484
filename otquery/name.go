package otquery

import (
	"fmt"

	"github.com/npillmayer/otname/names"
	"golang.org/x/image/font/sfnt"
)

// NameEntry is a name record prepared for display.
type NameEntry struct {
	ID          sfnt.NameID
	Description string
	Platform    names.PlatformID
	Encoding    names.EncodingID
	LanguageID  uint16
	Language    string // BCP 47 tag, or the language ID in hex if unknown
	Value       string
}

// NameEntries lists the decoded records of a name table in table order.
func NameEntries(nt *names.Table) []NameEntry {
	if nt == nil {
		return nil
	}
	recs := nt.Records()
	entries := make([]NameEntry, len(recs))
	for i, r := range recs {
		entries[i] = NameEntry{
			ID:          r.Name,
			Description: names.NameIDDescription(r.Name),
			Platform:    r.Platform,
			Encoding:    r.Encoding,
			LanguageID:  r.Language,
			Language:    languageLabel(nt, r.Key),
			Value:       r.Value,
		}
	}
	return entries
}

func languageLabel(nt *names.Table, k names.Key) string {
	if tag, ok := nt.LanguageTag(k.Language).Unwrap(); ok {
		return tag
	}
	if l, ok := names.LanguageOf(k).Unwrap(); ok {
		return l.Tag
	}
	return fmt.Sprintf("%#x", k.Language)
}

// nameInfoKeys are the keys of NameInfo.
var nameInfoKeys = map[string]sfnt.NameID{
	"copyright":             sfnt.NameIDCopyright,
	"family":                sfnt.NameIDFamily,
	"subfamily":             sfnt.NameIDSubfamily,
	"unique-id":             sfnt.NameIDUniqueIdentifier,
	"full-name":             sfnt.NameIDFull,
	"version":               sfnt.NameIDVersion,
	"postscript-name":       sfnt.NameIDPostScript,
	"manufacturer":          sfnt.NameIDManufacturer,
	"designer":              sfnt.NameIDDesigner,
	"typographic-family":    sfnt.NameIDTypographicFamily,
	"typographic-subfamily": sfnt.NameIDTypographicSubfamily,
}

// NameInfo returns the English names of a font by key, e.g. "family" or
// "postscript-name". Windows records are preferred over Macintosh records.
// Absent names have no entry.
func NameInfo(nt *names.Table) map[string]string {
	info := make(map[string]string)
	if nt == nil {
		return info
	}
	for key, id := range nameInfoKeys {
		if v, ok := englishName(nt, id); ok {
			info[key] = v
		}
	}
	return info
}

func englishName(nt *names.Table, id sfnt.NameID) (string, bool) {
	for _, p := range []names.PlatformID{names.PlatformWindows, names.PlatformMacintosh, names.PlatformUnicode} {
		if v, ok := nt.Name(id, p).Unwrap(); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// FamilyName returns the family and subfamily of a font, preferring the
// typographic names over the legacy ones.
//
// Returned values are empty if no matching records exist.
func FamilyName(nt *names.Table) (family, subfamily string) {
	if nt == nil {
		return
	}
	var ok bool
	if family, ok = englishName(nt, sfnt.NameIDTypographicFamily); !ok {
		family, _ = englishName(nt, sfnt.NameIDFamily)
	}
	if subfamily, ok = englishName(nt, sfnt.NameIDTypographicSubfamily); !ok {
		subfamily, _ = englishName(nt, sfnt.NameIDSubfamily)
	}
	return
}
