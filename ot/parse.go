package ot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// MaxTableCount limits the number of table records we are willing to read.
// Real fonts rarely carry more than 30 tables.
const MaxTableCount = 512

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(message string) error {
	return Errorf(ErrValidation, "OpenType font format: %s", message)
}

// ---------------------------------------------------------------------------

// Font types we are able to process.
const (
	fontTypeTrueType uint32 = 0x00010000
	fontTypeOTTO     uint32 = 0x4f54544f // OTTO
	fontTypeTrue     uint32 = 0x74727565 // true
	fontTypeTTC      uint32 = 0x74746366 // ttcf
)

// Parse parses an OpenType font from a byte slice.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
//
// Font collections are rejected with an error of kind ErrInvalidArgument.
// A font without tables 'head' or 'name' is rejected with an error of kind
// ErrValidation, unless IsTestfont is given.
func Parse(font []byte, opts ...ParseOption) (*Font, error) {
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	r := bytes.NewReader(font)
	h := FontHeader{}
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, errFontFormat("font header: " + err.Error())
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	isTest := false
	for _, o := range opts {
		if o == IsTestfont {
			isTest = true
		}
	}

	// Create error collector for accumulating errors during parsing
	ec := &errorCollector{}

	if h.FontType == fontTypeTTC {
		return nil, Errorf(ErrInvalidArgument, "font collections are not supported")
	}
	if !(h.FontType == fontTypeOTTO || h.FontType == fontTypeTrueType || h.FontType == fontTypeTrue) {
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	if h.TableCount > MaxTableCount {
		return nil, errFontFormat(fmt.Sprintf("table count too large: %d", h.TableCount))
	}
	otf := &Font{Header: &h, tables: make(map[Tag]Table)}
	src := binarySegm(font)
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	buf, err := src.view(12, 16*int(h.TableCount))
	if err != nil {
		return nil, errFontFormat("table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if tag < prevTag {
			// Some font tools write unsorted records; we re-sort on output.
			ec.addWarning(tag, "table records not sorted by tag", 12)
		}
		prevTag = tag
		off, size := u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 {
			// "all tables must begin on four byte boundries"
			ec.addError(tag, "Offset", "table offset not 4-byte aligned", SeverityMinor, off)
		}
		tableEnd, err := checkedAddUint32(off, size)
		if err != nil {
			return nil, errFontFormat(fmt.Sprintf("table %s: size calculation overflow: %v", tag, err))
		}
		if off > uint32(len(src)) || tableEnd > uint32(len(src)) {
			return nil, errFontFormat(fmt.Sprintf("table %s: bounds [%d:%d] exceed font size %d",
				tag, off, tableEnd, len(src)))
		}
		otf.tables[tag], err = parseTable(tag, src[off:tableEnd], off, size, ec)
		if err != nil {
			return nil, err
		}
	}
	if !isTest {
		for _, tag := range RequiredTables {
			if otf.tables[T(tag)] == nil {
				return nil, errFontFormat("missing required table " + tag)
			}
		}
	}
	otf.linkTypedTables()
	if otf.OS2 == nil {
		ec.addWarning(T("OS/2"), "font has no OS/2 table; weight and width default to 400/5", 0)
	}
	if ec.hasCriticalErrors() {
		return nil, errFontFormat(ec.errors[0].Error())
	}
	// Transfer accumulated errors and warnings to the Font
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings
	return otf, nil
}

// RequiredTables are the tables a font must contain to have its names edited.
var RequiredTables = []string{
	"head", "name",
}

func parseTable(t Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	switch t {
	case T("head"):
		return parseHead(t, b, offset, size, ec)
	case T("OS/2"):
		return parseOS2(t, b, offset, size, ec)
	case T("post"):
		return parsePost(t, b, offset, size, ec)
	case T("maxp"):
		return parseMaxP(t, b, offset, size, ec)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 54 {
		ec.addError(tag, "Size", fmt.Sprintf("head table too small: %d bytes (need 54)", size), SeverityCritical, offset)
		return nil, errFontFormat("size of head table")
	}
	t := newHeadTable(tag, b, offset, size)
	t.Flags, _ = b.u16(16)      // flags
	t.UnitsPerEm, _ = b.u16(18) // units per em
	t.Created = int64(uint64(u32(b[20:]))<<32 | uint64(u32(b[24:])))
	t.Modified = int64(uint64(u32(b[28:]))<<32 | uint64(u32(b[32:])))
	t.MacStyle, _ = b.u16(44)
	if magic, _ := b.u32(12); magic != 0x5F0F3CF5 {
		ec.addWarning(tag, fmt.Sprintf("bad magic number %#x", magic), offset+12)
	}
	return t, nil
}

// --- OS/2 table ------------------------------------------------------------

// The OS/2 table consists of a set of metrics and other data that are required
// in OpenType fonts. Version 0 has 78 bytes, which covers all the fields we
// interpret.
func parseOS2(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 68 {
		ec.addError(tag, "Size", fmt.Sprintf("OS/2 table too small: %d bytes", size), SeverityMajor, offset)
		return newTable(tag, b, offset, size), nil
	}
	t := newOS2Table(tag, b, offset, size)
	t.Version, _ = b.u16(0)
	t.WeightClass, _ = b.u16(4)
	t.WidthClass, _ = b.u16(6)
	t.FsType, _ = b.u16(8)
	vid, _ := b.view(58, 4)
	t.VendorID = MakeTag(vid)
	t.FsSelection, _ = b.u16(62)
	if t.WeightClass < 1 || t.WeightClass > 1000 {
		ec.addWarning(tag, fmt.Sprintf("usWeightClass %d out of range", t.WeightClass), offset+4)
	}
	if t.WidthClass < 1 || t.WidthClass > 9 {
		ec.addWarning(tag, fmt.Sprintf("usWidthClass %d out of range", t.WidthClass), offset+6)
	}
	return t, nil
}

// --- post table ------------------------------------------------------------

func parsePost(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 16 {
		ec.addError(tag, "Size", fmt.Sprintf("post table too small: %d bytes", size), SeverityMinor, offset)
		return newTable(tag, b, offset, size), nil
	}
	t := newPostTable(tag, b, offset, size)
	angle, _ := b.u32(4) // Fixed 16.16
	t.ItalicAngle = float64(int32(angle)) / 65536.0
	fixed, _ := b.u32(12)
	t.IsFixedPitch = fixed != 0
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with CFF data
// must use Version 0.5 of this table, specifying only the numGlyphs field. Fonts
// with TrueType outlines must use Version 1.0 of this table, where all data is required.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 6 {
		ec.addWarning(tag, "maxp table too small", offset)
		return newTable(tag, b, offset, size), nil
	}
	t := newMaxPTable(tag, b, offset, size)
	n, _ := b.u16(4)
	t.NumGlyphs = int(n)
	return t, nil
}
