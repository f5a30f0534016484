package batch

import (
	"fmt"

	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/style"
	"github.com/npillmayer/otname/wordlist"
)

// State is the processing state of a row.
type State int

const (
	Raw          State = iota // loaded from a font or a CSV file
	Edited                    // changed manually
	Recalculated              // recomputed from a source
	Persisted                 // written back to the font
)

func (s State) String() string {
	return [...]string{"RAW", "EDITED", "RECALCULATED", "PERSISTED"}[s]
}

// Row describes a single font file of a batch. The word columns default to
// the words of the dictionary for the style attributes, but may be edited.
// The names are derived from the family name, the style attributes and the
// word columns.
type Row struct {
	FileName   string // relative to the batch directory
	FamilyName string
	Style      style.Attributes
	Wdt        string // short width word
	Width      string // long width word
	Wgt        string // short weight word
	Weight     string // long weight word
	Slp        string // short slope word
	Slope      string // long slope word
	Names      style.Names
	State      State
}

func (r Row) String() string {
	return fmt.Sprintf("%s: %q %s (%s)", r.FileName, r.FamilyName, r.Style, r.State)
}

// Words returns the word columns of a row.
func (r Row) Words() style.Words {
	return style.Words{
		Width:  wordlist.Pair{Short: r.Wdt, Long: r.Width},
		Weight: wordlist.Pair{Short: r.Wgt, Long: r.Weight},
		Slope:  wordlist.Pair{Short: r.Slp, Long: r.Slope},
	}
}

func (r *Row) setWords(w style.Words) {
	r.Wdt, r.Width = w.Width.Short, w.Width.Long
	r.Wgt, r.Weight = w.Weight.Short, w.Weight.Long
	r.Slp, r.Slope = w.Slope.Short, w.Slope.Long
}

// synthesize fills empty word columns from the dictionary and recomputes
// the names. Upright styles lose their slope words.
func (r *Row) synthesize(dict *wordlist.Dictionary) error {
	if err := r.Style.Validate(); err != nil {
		return err
	}
	words := r.Words().Or(style.DictionaryWords(r.Style, dict))
	if !r.Style.IsSlanted() {
		words.Slope = wordlist.Pair{}
	}
	names, err := style.SynthesizeWords(r.FamilyName, r.Style, dict, words)
	if err != nil {
		return err
	}
	r.setWords(words)
	r.Names = names
	return nil
}

// refresh recomputes the word columns from the dictionary, then the names.
func (r *Row) refresh(dict *wordlist.Dictionary) error {
	r.setWords(style.Words{})
	return r.synthesize(dict)
}

// Edit is a manual change of a single row. Absent values are left as they
// are. Words replace the word columns; empty words keep the row's words,
// unless the edit changes the class or slope they belong to.
type Edit struct {
	FamilyName ot.Option[string]
	Style      style.Overrides
	Words      style.Words
}
