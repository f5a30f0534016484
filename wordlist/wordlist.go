/*
Package wordlist holds the words used to name weights, widths and slopes.

A Dictionary maps a weight class (1 … 1000) or width class (1 … 9) to a pair
of words, a short one for PostScript names ("Bd", "Cn") and a long one for
human readable names ("Bold", "Condensed"). Additionally it holds the word
pairs for italic and oblique styles.

Dictionaries are stored as YAML or JSON:

	italics: [It, Italic]
	obliques: [Obl, Oblique]
	weights:
	  "400": [Rg, Regular]
	  "700": [Bd, Bold]
	widths:
	  "5": [Nor, Normal]

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package wordlist

import (
	"sort"

	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otname.wordlist'
func tracer() tracing.Trace {
	return tracing.Select("otname.wordlist")
}

// Canonical classes of the RIBBI styles.
const (
	RegularWeightClass = 400
	BoldWeightClass    = 700
	NormalWidthClass   = 5
)

// Legal ranges of classes.
const (
	MinWeightClass = 1
	MaxWeightClass = 1000
	MinWidthClass  = 1
	MaxWidthClass  = 9
)

// Pair is a short and a long word for a style attribute.
type Pair struct {
	Short string
	Long  string
}

// makePair orders two words such that the shorter one comes first.
func makePair(a, b string) Pair {
	if len([]rune(b)) < len([]rune(a)) {
		a, b = b, a
	}
	return Pair{Short: a, Long: b}
}

// Dictionary holds the word pairs for weights, widths and slopes.
// A Dictionary must not be modified while a batch is processed.
type Dictionary struct {
	Weights map[int]Pair
	Widths  map[int]Pair
	Italic  Pair
	Oblique Pair
}

// Default returns the built-in dictionary.
func Default() *Dictionary {
	return &Dictionary{
		Weights: map[int]Pair{
			100: {"Th", "Thin"},
			200: {"XLt", "ExtraLight"},
			300: {"Lt", "Light"},
			400: {"Rg", "Regular"},
			500: {"Md", "Medium"},
			600: {"SBd", "SemiBold"},
			700: {"Bd", "Bold"},
			800: {"XBd", "ExtraBold"},
			900: {"Blk", "Black"},
			950: {"XBlk", "ExtraBlack"},
		},
		Widths: map[int]Pair{
			1: {"Cm", "Compressed"},
			2: {"XCn", "ExtraCondensed"},
			3: {"Cn", "Condensed"},
			4: {"SCn", "SemiCondensed"},
			5: {"Nor", "Normal"},
			6: {"SExp", "SemiExpanded"},
			7: {"Exp", "Expanded"},
			8: {"XExp", "ExtraExpanded"},
			9: {"Wd", "Wide"},
		},
		Italic:  Pair{"It", "Italic"},
		Oblique: Pair{"Obl", "Oblique"},
	}
}

// Clone returns a deep copy of d.
func (d *Dictionary) Clone() *Dictionary {
	c := &Dictionary{
		Weights: make(map[int]Pair, len(d.Weights)),
		Widths:  make(map[int]Pair, len(d.Widths)),
		Italic:  d.Italic,
		Oblique: d.Oblique,
	}
	for k, v := range d.Weights {
		c.Weights[k] = v
	}
	for k, v := range d.Widths {
		c.Widths[k] = v
	}
	return c
}

// Weight returns the words for a weight class. If the class is not defined,
// the words of the nearest defined class are returned; on a tie, the lower
// class wins. The class actually used is returned as well. For an empty
// dictionary, class 0 is returned.
func (d *Dictionary) Weight(class int) (Pair, int) {
	return nearest(d.Weights, class)
}

// Width returns the words for a width class, with the same fallback as Weight.
func (d *Dictionary) Width(class int) (Pair, int) {
	return nearest(d.Widths, class)
}

func nearest(m map[int]Pair, class int) (Pair, int) {
	if p, ok := m[class]; ok {
		return p, class
	}
	best, dist := 0, -1
	for _, c := range sortedClasses(m) {
		d := c - class
		if d < 0 {
			d = -d
		}
		if dist < 0 || d < dist {
			best, dist = c, d
		}
	}
	if dist < 0 {
		return Pair{}, 0
	}
	tracer().Debugf("class %d not in dictionary, using %d", class, best)
	return m[best], best
}

// WeightClasses returns the defined weight classes in ascending order.
func (d *Dictionary) WeightClasses() []int {
	return sortedClasses(d.Weights)
}

// WidthClasses returns the defined width classes in ascending order.
func (d *Dictionary) WidthClasses() []int {
	return sortedClasses(d.Widths)
}

func sortedClasses(m map[int]Pair) []int {
	classes := make([]int, 0, len(m))
	for c := range m {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes
}

// --- Editing ---------------------------------------------------------------

// SetWeight defines the words for a weight class. The shorter word is stored
// as the short one.
func (d *Dictionary) SetWeight(class int, a, b string) error {
	if class < MinWeightClass || class > MaxWeightClass {
		return ot.Errorf(ot.ErrValidation, "weight class %d out of range %d…%d", class, MinWeightClass, MaxWeightClass)
	}
	if a == "" || b == "" {
		return ot.Errorf(ot.ErrInvalidArgument, "weight words must not be empty")
	}
	d.Weights[class] = makePair(a, b)
	return nil
}

// DeleteWeight removes a weight class.
func (d *Dictionary) DeleteWeight(class int) error {
	if _, ok := d.Weights[class]; !ok {
		return ot.Errorf(ot.ErrNotFound, "weight class %d not defined", class)
	}
	delete(d.Weights, class)
	return nil
}

// SetWidth defines the words for a width class. The shorter word is stored
// as the short one.
func (d *Dictionary) SetWidth(class int, a, b string) error {
	if class < MinWidthClass || class > MaxWidthClass {
		return ot.Errorf(ot.ErrValidation, "width class %d out of range %d…%d", class, MinWidthClass, MaxWidthClass)
	}
	if a == "" || b == "" {
		return ot.Errorf(ot.ErrInvalidArgument, "width words must not be empty")
	}
	d.Widths[class] = makePair(a, b)
	return nil
}

// DeleteWidth removes a width class.
func (d *Dictionary) DeleteWidth(class int) error {
	if _, ok := d.Widths[class]; !ok {
		return ot.Errorf(ot.ErrNotFound, "width class %d not defined", class)
	}
	delete(d.Widths, class)
	return nil
}

// SetItalic sets the words for italic styles.
func (d *Dictionary) SetItalic(a, b string) error {
	if a == "" || b == "" {
		return ot.Errorf(ot.ErrInvalidArgument, "italic words must not be empty")
	}
	d.Italic = makePair(a, b)
	return nil
}

// SetOblique sets the words for oblique styles.
func (d *Dictionary) SetOblique(a, b string) error {
	if a == "" || b == "" {
		return ot.Errorf(ot.ErrInvalidArgument, "oblique words must not be empty")
	}
	d.Oblique = makePair(a, b)
	return nil
}

// Reset replaces all entries with the built-in defaults. All changes are
// lost, therefore the caller has to confirm the operation.
func (d *Dictionary) Reset(c ot.Confirmation) error {
	if err := c.Require("resetting the dictionary"); err != nil {
		return err
	}
	*d = *Default()
	return nil
}

// --- Words -----------------------------------------------------------------

// Kind is the style attribute a word stands for.
type Kind int

const (
	WeightWord Kind = iota
	WidthWord
	ItalicWord
	ObliqueWord
)

func (k Kind) String() string {
	return [...]string{"weight", "width", "italic", "oblique"}[k]
}

// Word is a single dictionary word, short or long.
type Word struct {
	Text  string
	Kind  Kind
	Class int // weight or width class; 0 for slopes
}

// Words lists every short and long word of the dictionary.
func (d *Dictionary) Words() []Word {
	var words []Word
	for _, c := range d.WeightClasses() {
		p := d.Weights[c]
		words = append(words, Word{p.Short, WeightWord, c}, Word{p.Long, WeightWord, c})
	}
	for _, c := range d.WidthClasses() {
		p := d.Widths[c]
		words = append(words, Word{p.Short, WidthWord, c}, Word{p.Long, WidthWord, c})
	}
	words = append(words,
		Word{d.Italic.Short, ItalicWord, 0}, Word{d.Italic.Long, ItalicWord, 0},
		Word{d.Oblique.Short, ObliqueWord, 0}, Word{d.Oblique.Long, ObliqueWord, 0},
	)
	return words
}
