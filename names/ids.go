package names

import (
	"fmt"
	"strings"

	"github.com/npillmayer/otname/ot"
	"golang.org/x/image/font/sfnt"
)

// PlatformID is the platform of a name record.
type PlatformID uint16

const (
	PlatformUnicode   PlatformID = 0
	PlatformMacintosh PlatformID = 1
	PlatformISO       PlatformID = 2 // deprecated
	PlatformWindows   PlatformID = 3
	PlatformCustom    PlatformID = 4
)

func (p PlatformID) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Platform(%d)", uint16(p))
}

var platformNames = map[PlatformID]string{
	PlatformUnicode:   "Unicode",
	PlatformMacintosh: "Macintosh",
	PlatformISO:       "ISO (deprecated)",
	PlatformWindows:   "Windows",
	PlatformCustom:    "Custom",
}

// EncodingID is the platform specific encoding of a name record.
type EncodingID uint16

const (
	EncodingMacRoman      EncodingID = 0 // platform 1
	EncodingWindowsSymbol EncodingID = 0 // platform 3
	EncodingWindowsBMP    EncodingID = 1 // platform 3
	EncodingWindowsUCS4   EncodingID = 10
	EncodingUnicodeBMP    EncodingID = 3 // platform 0
)

// Default language IDs, i.e. English.
const (
	LanguageWindowsEnglish uint16 = 0x409
	LanguageMacEnglish     uint16 = 0
)

// nameIDs lists the predefined name IDs 0 … 25.
var nameIDs = [...]string{
	"Copyright notice",
	"Family name",
	"Subfamily name",
	"Unique identifier",
	"Full font name",
	"Version string",
	"PostScript name",
	"Trademark",
	"Manufacturer Name",
	"Designer",
	"Description",
	"URL Vendor",
	"URL Designer",
	"License Description",
	"License Info URL",
	"Reserved",
	"Typographic Family name",
	"Typographic Subfamily name",
	"Compatible Full (Macintosh only)",
	"Sample text",
	"PostScript CID findfont name",
	"WWS Family Name",
	"WWS Subfamily Name",
	"Light Background Palette",
	"Dark Background Palette",
	"Variations PostScript Name Prefix",
}

// NameIDDescription returns a short English description for a name ID.
// Name IDs 26 … 255 are reserved, 256 … 32767 are font-specific.
func NameIDDescription(id sfnt.NameID) string {
	switch {
	case int(id) < len(nameIDs):
		return nameIDs[id]
	case id < 256:
		return "Reserved"
	case id <= 32767:
		return "Font-specific name"
	}
	return "Invalid"
}

// Platforms selects the platforms an operation acts on.
type Platforms uint8

const (
	Windows Platforms = 1 << iota
	Macintosh
	BothPlatforms = Windows | Macintosh
)

// Has reports whether p includes platform id.
func (p Platforms) Has(id PlatformID) bool {
	switch id {
	case PlatformWindows:
		return p&Windows != 0
	case PlatformMacintosh:
		return p&Macintosh != 0
	}
	return false
}

func (p Platforms) String() string {
	switch p {
	case Windows:
		return "win"
	case Macintosh:
		return "mac"
	case BothPlatforms:
		return "win+mac"
	}
	return "none"
}

// ParsePlatforms interprets a platform choice as given on a command line:
// "win", "mac", or empty for both. Numeric platform IDs "3" and "1" are
// accepted as well.
func ParsePlatforms(s string) (Platforms, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "all":
		return BothPlatforms, nil
	case "win", "windows", "3":
		return Windows, nil
	case "mac", "macintosh", "1":
		return Macintosh, nil
	}
	return 0, ot.Errorf(ot.ErrInvalidArgument, "platform must be 'win' or 'mac', is %q", s)
}

// PlatformsFor returns the platform choice for a single platform ID.
func PlatformsFor(id PlatformID) (Platforms, error) {
	switch id {
	case PlatformWindows:
		return Windows, nil
	case PlatformMacintosh:
		return Macintosh, nil
	}
	return 0, ot.Errorf(ot.ErrInvalidArgument, "platform %d cannot be written", id)
}
