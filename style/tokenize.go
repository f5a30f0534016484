package style

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/wordlist"
	"golang.org/x/text/cases"
)

// minCompound is the minimum number of tokens a dictionary word is matched
// against, e.g. "Extra" "Bold" for "ExtraBold" or "Semi" "Condensed".
// Dictionaries with longer words raise the limit.
const minCompound = 3

// Tokenize splits a string into tokens at separators ('-', '_', '.' and
// white space) and at camel case transitions.
//
//	Tokenize("Lato-SemiBoldItalic") // => [Lato Semi Bold Italic]
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	var tokens []string
	for _, f := range fields {
		tokens = append(tokens, splitCamelCase(f)...)
	}
	return tokens
}

// splitCamelCase splits before an upper case letter which follows a lower
// case letter ("BoldItalic"), and before the last letter of a run of upper
// case letters followed by lower case ("XBd" => "X" "Bd").
func splitCamelCase(s string) []string {
	runes := []rune(s)
	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		split := unicode.IsLower(prev) && unicode.IsUpper(cur)
		if !split && unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) {
			split = unicode.IsLower(runes[i+1])
		}
		if split {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}

// Detected is the result of matching tokens against a word dictionary.
type Detected struct {
	Weight  ot.Option[int] // weight class of the first weight word
	Width   ot.Option[int] // width class of the first width word
	Italic  bool
	Oblique bool
	Rest    []string // tokens not matching any dictionary word
}

// Attributes converts the detected words to style attributes. A font is
// bold if its weight word denotes the bold weight class. Missing weight and
// width words default to regular weight and normal width.
func (d Detected) Attributes() Attributes {
	w := d.Weight.Or(wordlist.RegularWeightClass)
	return Attributes{
		IsBold:      w == wordlist.BoldWeightClass,
		IsItalic:    d.Italic,
		IsOblique:   d.Oblique,
		WeightClass: w,
		WidthClass:  d.Width.Or(wordlist.NormalWidthClass),
	}
}

// Overrides converts the detected words to style overrides which replace all
// of a font's style bits, except for oblique, which is only set if an
// oblique word has been found.
func (d Detected) Overrides() Overrides {
	a := d.Attributes()
	ov := Overrides{
		Bold:        ot.Some(a.IsBold),
		Italic:      ot.Some(a.IsItalic),
		WeightClass: ot.Some(a.WeightClass),
		WidthClass:  ot.Some(a.WidthClass),
	}
	if d.Oblique {
		ov.Oblique = ot.Some(true)
	}
	return ov
}

// Matcher matches tokens against the words of a dictionary.
type Matcher struct {
	words map[string]wordlist.Word
	fold  cases.Caser
	span  int // maximum number of tokens of a word
}

// NewMatcher creates a matcher for the words of a dictionary.
// Matching is case-insensitive and ignores separators within words, thus
// "Extra Bold", "Extra-Bold" and "ExtraBold" are the same word.
func NewMatcher(dict *wordlist.Dictionary) *Matcher {
	m := &Matcher{
		words: make(map[string]wordlist.Word),
		fold:  cases.Fold(),
		span:  minCompound,
	}
	for _, w := range dict.Words() {
		tokens := Tokenize(w.Text)
		key := m.key(tokens)
		if _, ok := m.words[key]; !ok && key != "" {
			m.words[key] = w
		}
		m.span = max(m.span, len(tokens))
	}
	return m
}

func (m *Matcher) key(tokens []string) string {
	return m.fold.String(strings.Join(tokens, ""))
}

// Match finds dictionary words in a list of tokens. Longer words win: at
// each position, concatenations of as many tokens as the longest word has
// are tried first. Thus "Extra" "Bold" matches "ExtraBold" rather than
// "Bold".
func (m *Matcher) Match(tokens []string) Detected {
	var d Detected
	for i := 0; i < len(tokens); {
		n, w, ok := m.longest(tokens[i:])
		if !ok {
			d.Rest = append(d.Rest, tokens[i])
			i++
			continue
		}
		switch w.Kind {
		case wordlist.WeightWord:
			if d.Weight.IsNone() {
				d.Weight = ot.Some(w.Class)
			}
		case wordlist.WidthWord:
			if d.Width.IsNone() {
				d.Width = ot.Some(w.Class)
			}
		case wordlist.ItalicWord:
			d.Italic = true
		case wordlist.ObliqueWord:
			d.Oblique = true
		}
		tracer().Debugf("token %q matches %s word", strings.Join(tokens[i:i+n], ""), w.Kind)
		i += n
	}
	return d
}

func (m *Matcher) longest(tokens []string) (int, wordlist.Word, bool) {
	for n := min(m.span, len(tokens)); n > 0; n-- {
		if w, ok := m.words[m.key(tokens[:n])]; ok {
			return n, w, true
		}
	}
	return 0, wordlist.Word{}, false
}

// TrimStyleWords removes trailing dictionary words from a family name,
// e.g. "Lato Light" => "Lato", "Lato Extra Bold" => "Lato". The first word
// is always kept.
func (m *Matcher) TrimStyleWords(family string) string {
	words := strings.Fields(family)
	for len(words) > 1 {
		n := m.trailingWord(words)
		if n == 0 {
			break
		}
		words = words[:len(words)-n]
	}
	return strings.Join(words, " ")
}

// trailingWord returns the number of trailing words of a name which form a
// dictionary word, preferring longer ones. The first word is never part
// of it.
func (m *Matcher) trailingWord(words []string) int {
	for n := min(m.span, len(words)-1); n > 0; n-- {
		tail := words[len(words)-n:]
		if _, ok := m.words[m.key(Tokenize(strings.Join(tail, " ")))]; ok {
			return n
		}
	}
	return 0
}

// Parse tokenizes a string and matches it against a dictionary.
func Parse(s string, dict *wordlist.Dictionary) Detected {
	return NewMatcher(dict).Match(Tokenize(s))
}

// ParseFilename is Parse for a file name. Directories and the file
// extension are stripped.
func ParseFilename(path string, dict *wordlist.Dictionary) Detected {
	base := filepath.Base(path)
	return Parse(strings.TrimSuffix(base, filepath.Ext(base)), dict)
}
