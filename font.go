package otname

import (
	"os"

	"github.com/npillmayer/otname/cff"
	"github.com/npillmayer/otname/internal/fontload"
	"github.com/npillmayer/otname/names"
	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/otname/style"
	"golang.org/x/image/font/sfnt"
)

var (
	tagName = ot.T("name")
	tagCFF  = ot.T("CFF ")
)

// Font is an OpenType font loaded for editing its names.
type Font struct {
	Path  string       // file path, empty for fonts parsed from memory
	OT    *ot.Font     // the font's container
	Names *names.Table // decoded 'name' table
	CFF   *cff.Font    // decoded 'CFF ' table, nil for TrueType fonts
	SFNT  *sfnt.Font   // cross-check by x/image, nil if it could not read the font
}

// Load loads an OpenType font (TTF or OTF) from a file.
func Load(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ot.Errorf(ot.ErrIO, "%v", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	f.Path = path
	return f, nil
}

// Parse reads an OpenType font from memory. data must not change while the
// font is in use.
func Parse(data []byte) (*Font, error) {
	otf, err := ot.Parse(data)
	if err != nil {
		return nil, err
	}
	f := &Font{OT: otf}
	if f.Names, err = names.Decode(otf.Table(tagName).Binary()); err != nil {
		return nil, err
	}
	if t := otf.Table(tagCFF); t != nil {
		if f.CFF, err = cff.Parse(t.Binary()); err != nil {
			return nil, err
		}
	}
	var fullname string
	if f.SFNT, fullname, err = fontload.Validate(data); err != nil {
		tracer().Infof("SFNT cross-check failed: %v", err)
	} else {
		tracer().Debugf("loaded and parsed font %s", fullname)
	}
	return f, nil
}

// Name returns the English name record for a name ID on a platform.
func (f *Font) Name(id sfnt.NameID, platform names.PlatformID) ot.Option[string] {
	return f.Names.Name(id, platform)
}

// CFFField returns a field of the CFF Top DICT. TrueType fonts have none.
func (f *Font) CFFField(field string) ot.Option[string] {
	if f.CFF == nil {
		return ot.None[string]()
	}
	return f.CFF.Field(field)
}

// SetCFFField replaces a field of the CFF Top DICT.
func (f *Font) SetCFFField(field, value string) error {
	if f.CFF == nil {
		return ot.Errorf(ot.ErrNotFound, "font has no CFF table")
	}
	return f.CFF.SetField(field, value)
}

// Compact returns the CFF table as secondary strings for find/replace, or
// nil for TrueType fonts and for CID-keyed fonts.
func (f *Font) Compact() names.CompactStrings {
	if f.CFF == nil || f.CFF.IsCIDKeyed() {
		return nil
	}
	return f.CFF
}

// StyleBits returns the style fields of the font. Without an OS/2 table,
// weight and width default to regular and normal.
func (f *Font) StyleBits() style.StyleBits {
	bits := style.StyleBits{WeightClass: 400, WidthClass: 5}
	if f.OT.Head != nil {
		bits.MacStyle = f.OT.Head.MacStyle
	}
	if os2 := f.OT.OS2; os2 != nil {
		bits.OS2Version = os2.Version
		bits.FsSelection = os2.FsSelection
		bits.WeightClass = int(os2.WeightClass)
		bits.WidthClass = int(os2.WidthClass)
	}
	return bits
}

// ApplyStyle writes style attributes to tables OS/2 and head.
func (f *Font) ApplyStyle(a style.Attributes) error {
	if err := a.Validate(); err != nil {
		return err
	}
	bits := f.StyleBits().Apply(a)
	if f.OT.Head != nil {
		f.OT.Head.MacStyle = bits.MacStyle
	}
	if os2 := f.OT.OS2; os2 != nil {
		os2.FsSelection = bits.FsSelection
		os2.WeightClass = uint16(bits.WeightClass)
		os2.WidthClass = uint16(bits.WidthClass)
	} else {
		tracer().Infof("font has no OS/2 table, only head.macStyle is set")
	}
	return nil
}

// ApplyNames writes synthesized names to the font. Each name replaces the
// records of its name ID in all languages on both platforms and is written
// in English. Absent typographic names are removed. The CFF names follow the
// PostScript name, the full name and the family name; CID-keyed fonts keep
// their CFF names.
func (f *Font) ApplyNames(n style.Names) error {
	for id, v := range n.ByID() {
		removed, err := f.Names.Delete(id, names.AllLanguages, names.BothPlatforms)
		if err != nil {
			return err
		}
		value, ok := v.Unwrap()
		if !ok {
			continue
		}
		tracer().Debugf("name %d: %d records replaced by %q", id, removed, value)
		if err := f.Names.Set(id, value, "", names.BothPlatforms); err != nil {
			return err
		}
	}
	if f.CFF == nil {
		return nil
	}
	if f.CFF.IsCIDKeyed() {
		tracer().Infof("CID-keyed CFF font, CFF names left unchanged")
		return nil
	}
	family := n.TypographicFamily.Or(n.LegacyFamily)
	for field, value := range map[string]string{
		cff.FontName:   n.PostScriptName,
		cff.FullName:   n.FullName,
		cff.FamilyName: family,
	} {
		if err := f.CFF.SetField(field, value); err != nil {
			return err
		}
	}
	return nil
}

// Bytes encodes the font, including changes to names and style.
func (f *Font) Bytes(opts ...ot.WriteOption) ([]byte, error) {
	nameData, err := f.Names.Encode()
	if err != nil {
		return nil, err
	}
	if err = f.OT.SetTable(tagName, nameData); err != nil {
		return nil, err
	}
	if f.CFF != nil {
		cffData, err := f.CFF.Bytes()
		if err != nil {
			return nil, err
		}
		if err = f.OT.SetTable(tagCFF, cffData); err != nil {
			return nil, err
		}
	}
	return f.OT.Bytes(opts...)
}

// Save writes the font to a file.
func (f *Font) Save(path string, opts ...ot.WriteOption) error {
	data, err := f.Bytes(opts...)
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return ot.Errorf(ot.ErrIO, "%v", err)
	}
	tracer().Infof("saved %s", path)
	return nil
}
