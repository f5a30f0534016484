package names

import (
	"strings"

	"github.com/npillmayer/otname/ot"
	"golang.org/x/text/language"
)

// Language maps a language tag to the language IDs of name records.
type Language struct {
	Tag       string // BCP 47
	Name      string // English name of the language
	WindowsID uint16 // Windows LCID
	MacID     uint16 // Macintosh language code
	MacRoman  bool   // Macintosh records may be written in Mac Roman encoding
}

var languages = []Language{
	{"en", "English", 0x0409, 0, true},
	{"fr", "French", 0x040C, 1, true},
	{"de", "German", 0x0407, 2, true},
	{"it", "Italian", 0x0410, 3, true},
	{"nl", "Dutch", 0x0413, 4, true},
	{"sv", "Swedish", 0x041D, 5, true},
	{"es", "Spanish", 0x0C0A, 6, true},
	{"da", "Danish", 0x0406, 7, true},
	{"pt", "Portuguese", 0x0416, 8, true},
	{"pt-PT", "Portuguese (Portugal)", 0x0816, 8, true},
	{"nb", "Norwegian", 0x0414, 9, true},
	{"fi", "Finnish", 0x040B, 13, true},
	{"is", "Icelandic", 0x040F, 15, true},
	{"ca", "Catalan", 0x0403, 130, true},
	{"ja", "Japanese", 0x0411, 11, false},
	{"zh-Hans", "Chinese (Simplified)", 0x0804, 33, false},
	{"zh-Hant", "Chinese (Traditional)", 0x0404, 19, false},
	{"ko", "Korean", 0x0412, 23, false},
	{"ru", "Russian", 0x0419, 32, false},
	{"pl", "Polish", 0x0415, 25, false},
	{"cs", "Czech", 0x0405, 38, false},
	{"hu", "Hungarian", 0x040E, 26, false},
	{"tr", "Turkish", 0x041F, 17, false},
	{"el", "Greek", 0x0408, 14, false},
	{"he", "Hebrew", 0x040D, 10, false},
	{"ar", "Arabic", 0x0401, 12, false},
	{"ro", "Romanian", 0x0418, 37, false},
	{"sk", "Slovak", 0x041B, 39, false},
	{"hr", "Croatian", 0x041A, 18, false},
	{"sl", "Slovenian", 0x0424, 40, false},
	{"et", "Estonian", 0x0425, 27, false},
	{"lv", "Latvian", 0x0426, 28, false},
	{"lt", "Lithuanian", 0x0427, 24, false},
	{"uk", "Ukrainian", 0x0422, 45, false},
	{"vi", "Vietnamese", 0x042A, 80, false},
	{"th", "Thai", 0x041E, 22, false},
	{"hi", "Hindi", 0x0439, 21, false},
}

var langMatcher language.Matcher

func init() {
	tags := make([]language.Tag, len(languages))
	for i, l := range languages {
		tags[i] = language.MustParse(l.Tag)
	}
	langMatcher = language.NewMatcher(tags)
}

// Languages returns the table of supported languages.
func Languages() []Language {
	l := make([]Language, len(languages))
	copy(l, languages)
	return l
}

// LookupLanguage resolves a BCP 47 language tag. An empty tag denotes English.
// Tags which do not match any supported language are rejected with an error
// of kind ot.ErrInvalidArgument.
func LookupLanguage(tag string) (Language, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return languages[0], nil
	}
	for _, l := range languages { // fast path and exact regional entries
		if strings.EqualFold(l.Tag, tag) {
			return l, nil
		}
	}
	t, err := language.Parse(tag)
	if err != nil {
		return Language{}, ot.Errorf(ot.ErrInvalidArgument, "language tag %q: %v", tag, err)
	}
	_, inx, conf := langMatcher.Match(t)
	if conf == language.No {
		return Language{}, ot.Errorf(ot.ErrInvalidArgument, "unsupported language %q", tag)
	}
	tracer().Debugf("language %q resolved to %s (%s)", tag, languages[inx].Tag, conf)
	return languages[inx], nil
}

// languageForWindowsID finds the language entry for a Windows LCID.
func languageForWindowsID(lcid uint16) (Language, bool) {
	for _, l := range languages {
		if l.WindowsID == lcid {
			return l, true
		}
	}
	return Language{}, false
}

// LanguageOf returns the language of a Windows or Macintosh record key.
// Unknown language IDs and other platforms yield None.
func LanguageOf(key Key) ot.Option[Language] {
	switch key.Platform {
	case PlatformWindows:
		l, ok := languageForWindowsID(key.Language)
		return ot.Maybe(l, ok)
	case PlatformMacintosh:
		for _, l := range languages {
			if l.MacID == key.Language {
				return ot.Some(l)
			}
		}
	}
	return ot.None[Language]()
}
