package style

import (
	"strings"

	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/wordlist"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/unicode/norm"
)

// MaxPostScriptNameLength is the maximum length of a PostScript name.
const MaxPostScriptNameLength = 63

// Names are the names derived from a family name and a set of style
// attributes. The typographic names are present only for styles which the
// legacy subfamily cannot represent.
type Names struct {
	LegacyFamily         string            // name ID 1
	LegacySubfamily      string            // name ID 2
	TypographicFamily    ot.Option[string] // name ID 16
	TypographicSubfamily ot.Option[string] // name ID 17
	FullName             string            // name ID 4
	PostScriptName       string            // name ID 6
}

// HasTypographicNames is true if name IDs 16 and 17 are present.
func (n Names) HasTypographicNames() bool {
	return n.TypographicFamily.IsSome()
}

// ByID returns the names keyed by name ID. Absent typographic names are
// included as None, signalling that existing records should be removed.
func (n Names) ByID() map[sfnt.NameID]ot.Option[string] {
	return map[sfnt.NameID]ot.Option[string]{
		sfnt.NameIDFamily:               ot.Some(n.LegacyFamily),
		sfnt.NameIDSubfamily:            ot.Some(n.LegacySubfamily),
		sfnt.NameIDFull:                 ot.Some(n.FullName),
		sfnt.NameIDPostScript:           ot.Some(n.PostScriptName),
		sfnt.NameIDTypographicFamily:    n.TypographicFamily,
		sfnt.NameIDTypographicSubfamily: n.TypographicSubfamily,
	}
}

// IsPureRIBBI is true if a style is fully described by its RIBBI bucket:
// the weight class is the bucket's canonical one (400 or 700), the width
// is normal, and a slanted style is a true italic. Oblique styles always
// need typographic names to carry the oblique word.
func IsPureRIBBI(a Attributes) bool {
	return a.WeightClass == a.Bucket().CanonicalWeight() &&
		a.WidthClass == wordlist.NormalWidthClass &&
		!a.IsOblique
}

// Words are the width, weight and slope words of a style, overriding the
// words of a dictionary. Empty words are taken from the dictionary.
type Words struct {
	Width  wordlist.Pair
	Weight wordlist.Pair
	Slope  wordlist.Pair
}

// DictionaryWords looks up the words of a style in a dictionary. Upright
// styles have no slope word, oblique styles get the oblique word even if
// they are italic, too.
func DictionaryWords(a Attributes, dict *wordlist.Dictionary) Words {
	var w Words
	w.Width, _ = dict.Width(a.WidthClass)
	w.Weight, _ = dict.Weight(a.WeightClass)
	switch {
	case a.IsOblique:
		w.Slope = dict.Oblique
	case a.IsItalic:
		w.Slope = dict.Italic
	}
	return w
}

// Or fills the empty words of w from d.
func (w Words) Or(d Words) Words {
	return Words{
		Width:  orPair(w.Width, d.Width),
		Weight: orPair(w.Weight, d.Weight),
		Slope:  orPair(w.Slope, d.Slope),
	}
}

func orPair(p, q wordlist.Pair) wordlist.Pair {
	if p.Short == "" {
		p.Short = q.Short
	}
	if p.Long == "" {
		p.Long = q.Long
	}
	return p
}

// Synthesize derives the names of a style from a family name.
//
// The legacy family is always the family name, the legacy subfamily is the
// RIBBI bucket. For styles outside the four buckets, the typographic family
// adds the width and weight words to the family name, and the typographic
// subfamily is the bucket with the slope word of the dictionary. If a style
// is both italic and oblique, the oblique word wins. The full name and the
// PostScript name are built from the legacy and the typographic names,
// respectively.
func Synthesize(family string, a Attributes, dict *wordlist.Dictionary) (Names, error) {
	return SynthesizeWords(family, a, dict, Words{})
}

// SynthesizeWords is like Synthesize, but prefers the given words over the
// words of the dictionary. Whether a word is part of the typographic names
// is still decided by the style classes.
func SynthesizeWords(family string, a Attributes, dict *wordlist.Dictionary, words Words) (Names, error) {
	if err := a.Validate(); err != nil {
		return Names{}, err
	}
	family = normalizeFamily(family)
	if family == "" {
		return Names{}, ot.Errorf(ot.ErrInvalidArgument, "family name must not be empty")
	}
	words = words.Or(DictionaryWords(a, dict))
	bucket := a.Bucket()
	names := Names{
		LegacyFamily:    family,
		LegacySubfamily: bucket.String(),
	}
	if !IsPureRIBBI(a) {
		names.TypographicFamily = ot.Some(typographicFamily(family, a, bucket, dict, words))
		names.TypographicSubfamily = ot.Some(typographicSubfamily(a, bucket, words))
	}
	names.FullName = names.LegacyFamily + " " + names.LegacySubfamily
	names.PostScriptName = PostScriptName(
		names.TypographicFamily.Or(names.LegacyFamily),
		names.TypographicSubfamily.Or(names.LegacySubfamily),
	)
	tracer().Debugf("synthesized %q / %q for %s", names.FullName, names.PostScriptName, a)
	return names, nil
}

// typographicFamily appends the width and weight words to the family name.
// The width word is omitted for normal widths, the weight word if it is
// implied by the bucket or denotes a regular weight. Classes missing from
// the dictionary are judged by their nearest neighbour.
func typographicFamily(family string, a Attributes, bucket Bucket, dict *wordlist.Dictionary, w Words) string {
	words := []string{family}
	_, class := dict.Width(a.WidthClass)
	if class == 0 {
		class = a.WidthClass
	}
	if w.Width.Long != "" && class != wordlist.NormalWidthClass {
		words = append(words, normalizeFamily(w.Width.Long))
	}
	_, class = dict.Weight(a.WeightClass)
	if class == 0 {
		class = a.WeightClass
	}
	if w.Weight.Long != "" && class != bucket.CanonicalWeight() && class != wordlist.RegularWeightClass {
		words = append(words, normalizeFamily(w.Weight.Long))
	}
	return strings.Join(words, " ")
}

func typographicSubfamily(a Attributes, bucket Bucket, w Words) string {
	slope := normalizeFamily(w.Slope.Long)
	if !a.IsSlanted() || slope == "" {
		return bucket.String()
	}
	if bucket.IsBold() {
		return "Bold " + slope
	}
	return slope
}

// normalizeFamily returns the NFC form of a family name, with runs of white
// space collapsed to a single blank.
func normalizeFamily(family string) string {
	return strings.Join(strings.Fields(norm.NFC.String(family)), " ")
}

// --- PostScript names -------------------------------------------------------

// fallbackPostScriptName is used if no legal character remains.
const fallbackPostScriptName = "Untitled"

// PostScriptName builds a PostScript name from a family and a subfamily
// name. Characters other than ASCII letters, digits and the hyphen are
// removed, runs of hyphens are collapsed. Names longer than 63 characters
// are truncated at the last word boundary.
func PostScriptName(family, subfamily string) string {
	name := stripPostScript(family) + "-" + stripPostScript(subfamily)
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	name = strings.Trim(name, "-")
	if len(name) > MaxPostScriptNameLength {
		name = strings.TrimRight(truncateAtBoundary(name, MaxPostScriptNameLength), "-")
	}
	if name == "" {
		return fallbackPostScriptName
	}
	return name
}

func stripPostScript(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isPostScriptChar(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isPostScriptChar(r rune) bool {
	return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-'
}

// truncateAtBoundary cuts an ASCII string to at most limit characters. The
// cut is placed at the last word boundary: before a hyphen, before an upper
// case letter following a lower case letter, or between letters and digits.
// If there is no boundary, the string is cut hard.
func truncateAtBoundary(s string, limit int) string {
	for i := limit; i > 0; i-- {
		if isWordBoundary(s[i-1], s[i]) {
			tracer().Debugf("PostScript name truncated to %q", s[:i])
			return s[:i]
		}
	}
	return s[:limit]
}

func isWordBoundary(prev, next byte) bool {
	isLower := func(c byte) bool { return c >= 'a' && c <= 'z' }
	isUpper := func(c byte) bool { return c >= 'A' && c <= 'Z' }
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	switch {
	case prev == '-' || next == '-':
		return true
	case isLower(prev) && isUpper(next):
		return true
	case isDigit(prev) != isDigit(next):
		return true
	}
	return false
}
