package style

import (
	"fmt"

	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/wordlist"
)

// Attributes are the style attributes of a font. IsItalic and IsOblique are
// independent: a font may be slanted synthetically without being flagged
// italic.
type Attributes struct {
	IsBold      bool
	IsItalic    bool
	IsOblique   bool
	WeightClass int // usWeightClass, 1 … 1000
	WidthClass  int // usWidthClass, 1 … 9
}

// Regular are the attributes of an upright font of normal weight and width.
var Regular = Attributes{
	WeightClass: wordlist.RegularWeightClass,
	WidthClass:  wordlist.NormalWidthClass,
}

// IsSlanted is true for italic and for oblique styles.
func (a Attributes) IsSlanted() bool {
	return a.IsItalic || a.IsOblique
}

// Validate checks the weight and width class against their legal ranges.
// Out of range values are an error of kind ErrValidation; they are never
// clamped.
func (a Attributes) Validate() error {
	if a.WeightClass < wordlist.MinWeightClass || a.WeightClass > wordlist.MaxWeightClass {
		return ot.Errorf(ot.ErrValidation, "usWeightClass %d out of range %d…%d",
			a.WeightClass, wordlist.MinWeightClass, wordlist.MaxWeightClass)
	}
	if a.WidthClass < wordlist.MinWidthClass || a.WidthClass > wordlist.MaxWidthClass {
		return ot.Errorf(ot.ErrValidation, "usWidthClass %d out of range %d…%d",
			a.WidthClass, wordlist.MinWidthClass, wordlist.MaxWidthClass)
	}
	return nil
}

// Bucket returns the RIBBI bucket of the attributes. Oblique styles are
// reported as italic, as there is no legacy oblique bucket.
func (a Attributes) Bucket() Bucket {
	switch {
	case a.IsBold && a.IsSlanted():
		return BoldItalic
	case a.IsBold:
		return Bold
	case a.IsSlanted():
		return Italic
	}
	return RegularBucket
}

func (a Attributes) String() string {
	return fmt.Sprintf("[%s wght=%d wdth=%d oblique=%v]", a.Bucket(), a.WeightClass, a.WidthClass, a.IsOblique)
}

// Bucket is one of the four legacy style buckets.
type Bucket int

const (
	RegularBucket Bucket = iota
	Bold
	Italic
	BoldItalic
)

// String returns the legacy subfamily name of the bucket.
func (b Bucket) String() string {
	return [...]string{"Regular", "Bold", "Italic", "Bold Italic"}[b]
}

// IsBold is true for the Bold and Bold Italic bucket.
func (b Bucket) IsBold() bool {
	return b == Bold || b == BoldItalic
}

// IsSlanted is true for the Italic and Bold Italic bucket.
func (b Bucket) IsSlanted() bool {
	return b == Italic || b == BoldItalic
}

// CanonicalWeight is the weight class a bucket implies: 700 for the bold
// buckets, 400 otherwise.
func (b Bucket) CanonicalWeight() int {
	if b.IsBold() {
		return wordlist.BoldWeightClass
	}
	return wordlist.RegularWeightClass
}

// --- Style bits -------------------------------------------------------------

// StyleBits are the style related fields of a font's OS/2 and head tables.
type StyleBits struct {
	OS2Version  uint16
	FsSelection uint16
	MacStyle    uint16
	WeightClass int
	WidthClass  int
}

// Overrides are explicit style values, e.g. from the command line or from a
// CSV row. Present values always win over the font's bits.
type Overrides struct {
	Bold        ot.Option[bool]
	Italic      ot.Option[bool]
	Oblique     ot.Option[bool]
	WeightClass ot.Option[int]
	WidthClass  ot.Option[int]
}

// WithDefaults fills the absent values of ov from a set of prior attributes.
// Resolving the result does not depend on a font's bits.
func (ov Overrides) WithDefaults(prior Attributes) Overrides {
	return Overrides{
		Bold:        ot.Some(ov.Bold.Or(prior.IsBold)),
		Italic:      ot.Some(ov.Italic.Or(prior.IsItalic)),
		Oblique:     ot.Some(ov.Oblique.Or(prior.IsOblique)),
		WeightClass: ot.Some(ov.WeightClass.Or(prior.WeightClass)),
		WidthClass:  ot.Some(ov.WidthClass.Or(prior.WidthClass)),
	}
}

// Resolve derives style attributes from a font's bits and explicit
// overrides.
//
// Bold is set if either fsSelection bit 5 or macStyle bit 0 is set, italic
// if either fsSelection bit 0 or macStyle bit 1 is set. Oblique is never
// derived from the bits (fsSelection bit 9 is not reliable in the wild), it
// must be supplied as an override, usually carried over from an earlier
// computation.
func Resolve(bits StyleBits, ov Overrides) (Attributes, error) {
	a := Attributes{
		IsBold: bits.FsSelection&ot.FsSelectionBold != 0 ||
			bits.MacStyle&ot.MacStyleBold != 0,
		IsItalic: bits.FsSelection&ot.FsSelectionItalic != 0 ||
			bits.MacStyle&ot.MacStyleItalic != 0,
		WeightClass: bits.WeightClass,
		WidthClass:  bits.WidthClass,
	}
	a.IsBold = ov.Bold.Or(a.IsBold)
	a.IsItalic = ov.Italic.Or(a.IsItalic)
	a.IsOblique = ov.Oblique.Or(false)
	a.WeightClass = ov.WeightClass.Or(a.WeightClass)
	a.WidthClass = ov.WidthClass.Or(a.WidthClass)
	if err := a.Validate(); err != nil {
		return a, err
	}
	tracer().Debugf("resolved style %s", a)
	return a, nil
}

// Apply returns the bits updated to reflect a set of attributes. Slanted
// styles set the italic bits, to agree with the legacy subfamily. The
// oblique bit of fsSelection is only defined for OS/2 version 4 and later.
func (bits StyleBits) Apply(a Attributes) StyleBits {
	fs := bits.FsSelection &^ (ot.FsSelectionItalic | ot.FsSelectionBold | ot.FsSelectionRegular)
	ms := bits.MacStyle &^ (ot.MacStyleBold | ot.MacStyleItalic)
	if a.IsBold {
		fs |= ot.FsSelectionBold
		ms |= ot.MacStyleBold
	}
	if a.IsSlanted() {
		fs |= ot.FsSelectionItalic
		ms |= ot.MacStyleItalic
	}
	if !a.IsBold && !a.IsSlanted() {
		fs |= ot.FsSelectionRegular
	}
	if bits.OS2Version >= 4 {
		fs &^= ot.FsSelectionOblique
		if a.IsOblique {
			fs |= ot.FsSelectionOblique
		}
	}
	bits.FsSelection, bits.MacStyle = fs, ms
	bits.WeightClass, bits.WidthClass = a.WeightClass, a.WidthClass
	return bits
}
