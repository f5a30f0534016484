package batch

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/otname/cff"
	"github.com/npillmayer/otname/names"
	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/style"
	"golang.org/x/image/font/sfnt"
)

// FontStrings gives access to the strings of a font a recalculation may
// start from.
type FontStrings interface {
	// Name returns a name record at the default (English) language.
	Name(id sfnt.NameID, platform names.PlatformID) ot.Option[string]
	// CFFField returns a field of the font's CFF table, if any.
	CFFField(field string) ot.Option[string]
}

// Font is what a batch needs to know about a font file.
type Font interface {
	FontStrings
	StyleBits() style.StyleBits
}

// Opener opens a font file.
type Opener func(path string) (Font, error)

// Source is the origin of the string from which a recalculation derives
// style attributes.
type Source interface {
	// Text returns the string to parse for a font file. font is nil for
	// sources which do not read the font.
	Text(path string, font FontStrings) (string, error)
	// NeedsFont is true if Text reads from the font.
	NeedsFont() bool
	String() string
}

// FilenameSource derives style attributes from the file name.
type FilenameSource struct{}

func (FilenameSource) Text(path string, _ FontStrings) (string, error) {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)), nil
}

func (FilenameSource) NeedsFont() bool { return false }
func (FilenameSource) String() string  { return "fname" }

// NameRecordSource derives style attributes from one or more name records of
// a platform. The records are joined with blanks, e.g. name IDs 16 and 17 to
// "Lato Light" + " " + "Italic".
type NameRecordSource struct {
	Platform names.PlatformID
	IDs      []sfnt.NameID
}

func (s NameRecordSource) Text(path string, font FontStrings) (string, error) {
	var parts []string
	for _, id := range s.IDs {
		if v, ok := font.Name(id, s.Platform).Unwrap(); ok {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "", ot.Errorf(ot.ErrNotFound, "%s: no name record for source %s", filepath.Base(path), s)
	}
	return strings.Join(parts, " "), nil
}

func (NameRecordSource) NeedsFont() bool { return true }

func (s NameRecordSource) String() string {
	parts := []string{strconv.Itoa(int(s.Platform))}
	for _, id := range s.IDs {
		parts = append(parts, strconv.Itoa(int(id)))
	}
	return strings.Join(parts, "_")
}

// CFFSource derives style attributes from a field of the CFF table.
type CFFSource struct {
	Field string
}

func (s CFFSource) Text(path string, font FontStrings) (string, error) {
	v, ok := font.CFFField(s.Field).Unwrap()
	if !ok || v == "" {
		return "", ot.Errorf(ot.ErrNotFound, "%s: no CFF field %s", filepath.Base(path), s.Field)
	}
	return v, nil
}

func (CFFSource) NeedsFont() bool { return true }

func (s CFFSource) String() string {
	switch s.Field {
	case cff.FullName:
		return "cff_1"
	case cff.FamilyName:
		return "cff_2"
	case cff.Weight:
		return "cff_3"
	}
	return "cff_" + s.Field
}

// SourceNames are the source names accepted by ParseSource.
var SourceNames = []string{
	"fname", "1_1_2", "1_4", "1_6", "1_16_17", "1_18",
	"3_1_2", "3_4", "3_6", "3_16_17", "cff_1", "cff_2", "cff_3",
}

// ParseSource parses a source name: "fname" for the file name,
// "<platform>_<id>[_<id>…]" for name records, "cff_1" for the CFF FullName,
// "cff_2" for the FamilyName and "cff_3" for the Weight field.
func ParseSource(s string) (Source, error) {
	switch s {
	case "fname", "filename", "":
		return FilenameSource{}, nil
	case "cff_1":
		return CFFSource{Field: cff.FullName}, nil
	case "cff_2":
		return CFFSource{Field: cff.FamilyName}, nil
	case "cff_3":
		return CFFSource{Field: cff.Weight}, nil
	}
	parts := strings.Split(s, "_")
	if len(parts) < 2 {
		return nil, ot.Errorf(ot.ErrInvalidArgument, "unknown source %q", s)
	}
	platform, err := strconv.Atoi(parts[0])
	if err != nil || (platform != int(names.PlatformMacintosh) && platform != int(names.PlatformWindows)) {
		return nil, ot.Errorf(ot.ErrInvalidArgument, "source %q: platform must be 1 or 3", s)
	}
	src := NameRecordSource{Platform: names.PlatformID(platform)}
	for _, p := range parts[1:] {
		id, err := strconv.Atoi(p)
		if err != nil || id < 0 || id > 32767 {
			return nil, ot.Errorf(ot.ErrInvalidArgument, "source %q: bad name ID %q", s, p)
		}
		src.IDs = append(src.IDs, sfnt.NameID(id))
	}
	return src, nil
}
