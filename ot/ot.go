package ot

import (
	"sort"
	"time"
)

// Font represents the container structure of an OpenType font.
// It is used to read and replace the tables which carry a font's naming
// and style information.
//
// Tables not interpreted by this package are carried along as opaque binary
// data and written back unchanged.
type Font struct {
	Header        *FontHeader
	tables        map[Tag]Table
	Head          *HeadTable    // typed access to head
	OS2           *OS2Table     // typed access to OS/2, may be nil
	Post          *PostTable    // typed access to post, may be nil
	MaxP          *MaxPTable    // typed access to maxp, may be nil
	parseErrors   []FontError   // Errors accumulated during parsing
	parseWarnings []FontWarning // Warnings accumulated during parsing
}

// ParseOption guides and influences the parsing of the font.
type ParseOption int

const (
	IsTestfont ParseOption = iota // relaxes a number of cross-checks that are normally enforced
)

// FontHeader is the offset table at the start of a font file. FontType is
// 0x00010000 (or 'true') for TrueType outlines and 'OTTO' for CFF outlines.
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Flavor returns "PostScript" for fonts with CFF outlines and "TrueType" otherwise.
func (otf *Font) Flavor() string {
	if otf.Header != nil && otf.Header.FontType == 0x4f54544f {
		return "PostScript"
	}
	return "TrueType"
}

// Table returns the table for a tag, or nil. Tags are case-sensitive:
// "OS/2", "CFF ".
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in ascending order.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// SetTable replaces the data of a table, or adds a table if the font does not
// contain one for tag. Typed views for head, OS/2, post and maxp are refreshed.
// The font keeps a reference to data, which must not change afterwards.
func (otf *Font) SetTable(tag Tag, data []byte) error {
	var offset uint32
	if old, ok := otf.tables[tag]; ok {
		offset, _ = old.Extent()
	} else {
		offset = ^uint32(0) // new tables go to the end
	}
	ec := &errorCollector{}
	t, err := parseTable(tag, binarySegm(data), offset, uint32(len(data)), ec)
	if err != nil {
		return err
	}
	otf.tables[tag] = t
	otf.linkTypedTables()
	otf.parseWarnings = append(otf.parseWarnings, ec.warnings...)
	return nil
}

// RemoveTable deletes a table from the font. It is not an error to remove
// a table which is not present.
func (otf *Font) RemoveTable(tag Tag) {
	delete(otf.tables, tag)
	otf.linkTypedTables()
}

func (otf *Font) linkTypedTables() {
	otf.Head, otf.OS2, otf.Post, otf.MaxP = nil, nil, nil, nil
	if t := otf.tables[T("head")]; t != nil {
		otf.Head = t.Self().AsHead()
	}
	if t := otf.tables[T("OS/2")]; t != nil {
		otf.OS2 = t.Self().AsOS2()
	}
	if t := otf.tables[T("post")]; t != nil {
		otf.Post = t.Self().AsPost()
	}
	if t := otf.tables[T("maxp")]; t != nil {
		otf.MaxP = t.Self().AsMaxP()
	}
}

// Errors returns the non-fatal errors found by Parse.
func (otf *Font) Errors() []FontError {
	if otf.parseErrors == nil {
		return []FontError{}
	}
	return otf.parseErrors
}

// Warnings returns the warnings collected by Parse and SetTable.
func (otf *Font) Warnings() []FontWarning {
	if otf.parseWarnings == nil {
		return []FontWarning{}
	}
	return otf.parseWarnings
}

// --- Tag -------------------------------------------------------------------

// Tag is the four-byte identifier of a table, e.g. 'name' or 'OS/2'.
type Tag uint32

// MakeTag creates a Tag from 4 bytes. Shorter input is padded with leading
// zeros, longer input is cut.
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a string, padded with spaces or cut to 4 letters:
//
//	T("CFF") == T("CFF ")
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
//
// Tables relevant for naming: 'name' (Naming table), 'OS/2' (weight and width
// class, fsSelection), 'head' (macStyle), 'post' (italic angle) and, for fonts
// based on CFF outlines, 'CFF ' (Compact Font Format 1.0, containing a second copy
// of the font's names).
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; read-only
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	},
	}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   any
}

// Extent returns offset and byte size of this table within the OpenType font.
// Tables added after parsing report an offset of 0xffffffff.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. They are a view into the font data
// and must not be modified.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf converts a Table to its concrete type.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) any {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if k, ok := safeSelf(tself).(*HeadTable); ok {
		return k
	}
	return nil
}

// AsOS2 returns this table as an OS/2 table, or nil.
func (tself TableSelf) AsOS2() *OS2Table {
	if k, ok := safeSelf(tself).(*OS2Table); ok {
		return k
	}
	return nil
}

// AsPost returns this table as a post table, or nil.
func (tself TableSelf) AsPost() *PostTable {
	if k, ok := safeSelf(tself).(*PostTable); ok {
		return k
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if k, ok := safeSelf(tself).(*MaxPTable); ok {
		return k
	}
	return nil
}

// --- Concrete table implementations ----------------------------------------

// macStyle bits of table 'head'.
const (
	MacStyleBold   uint16 = 1 << 0
	MacStyleItalic uint16 = 1 << 1
)

// HeadTable gives global information about the font.
// Only the fields relevant for font naming and for writing the font are
// made public. Changes to the public fields are written back by Encode.
type HeadTable struct {
	tableBase
	Flags      uint16 // see https://docs.microsoft.com/en-us/typography/opentype/spec/head
	UnitsPerEm uint16 // values 16 … 16384 are valid
	Created    int64  // seconds since 1904-01-01 00:00 UTC
	Modified   int64  // seconds since 1904-01-01 00:00 UTC
	MacStyle   uint16 // bit 0 bold, bit 1 italic
}

func newHeadTable(tag Tag, b binarySegm, offset, size uint32) *HeadTable {
	t := &HeadTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// Encode returns a copy of the table's bytes with the public fields written back.
func (t *HeadTable) Encode() []byte {
	b := t.data.clone()
	putU32(b[20:], uint32(uint64(t.Created)>>32))
	putU32(b[24:], uint32(uint64(t.Created)))
	putU32(b[28:], uint32(uint64(t.Modified)>>32))
	putU32(b[32:], uint32(uint64(t.Modified)))
	putU16(b[44:], t.MacStyle)
	return b
}

// ModifiedTime returns head.modified as a time value.
func (t *HeadTable) ModifiedTime() time.Time {
	return FromLongDateTime(t.Modified)
}

var epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// LongDateTime converts a time value to the OpenType LONGDATETIME format,
// i.e. seconds since 1904-01-01 00:00 UTC.
func LongDateTime(tm time.Time) int64 {
	return int64(tm.UTC().Sub(epoch1904) / time.Second)
}

// FromLongDateTime converts an OpenType LONGDATETIME to a time value.
func FromLongDateTime(secs int64) time.Time {
	return epoch1904.Add(time.Duration(secs) * time.Second)
}

// fsSelection bits of table 'OS/2'.
const (
	FsSelectionItalic  uint16 = 1 << 0
	FsSelectionBold    uint16 = 1 << 5
	FsSelectionRegular uint16 = 1 << 6
	FsSelectionWWS     uint16 = 1 << 8
	FsSelectionOblique uint16 = 1 << 9 // OS/2 version 4 and up
)

// OS2Table contains the fields from table 'OS/2' which determine the style of
// a font. Changes to the public fields are written back by Encode.
type OS2Table struct {
	tableBase
	Version     uint16
	WeightClass uint16 // 1 … 1000
	WidthClass  uint16 // 1 … 9
	FsType      uint16 // embedding permissions
	VendorID    Tag
	FsSelection uint16
}

func newOS2Table(tag Tag, b binarySegm, offset, size uint32) *OS2Table {
	t := &OS2Table{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// Encode returns a copy of the table's bytes with the public fields written back.
func (t *OS2Table) Encode() []byte {
	b := t.data.clone()
	putU16(b[4:], t.WeightClass)
	putU16(b[6:], t.WidthClass)
	putU16(b[8:], t.FsType)
	putU16(b[62:], t.FsSelection)
	return b
}

// PostTable contains the italic angle from table 'post'.
type PostTable struct {
	tableBase
	ItalicAngle  float64 // degrees counter-clockwise from the vertical
	IsFixedPitch bool
}

func newPostTable(tag Tag, b binarySegm, offset, size uint32) *PostTable {
	t := &PostTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// MaxPTable holds the glyph count from table 'maxp'.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}
