/*
Package fonttest synthesizes minimal OpenType fonts for tests.

The fonts contain just enough structure for the naming tables to be read and
written: 'head', 'name', 'OS/2', 'post', 'maxp' and, for CFF-flavoured fonts,
a 'CFF ' table with a single Top DICT. Glyph data is absent.
*/
package fonttest

import (
	"sort"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Record is a name record to be put into a test font.
type Record struct {
	Platform, Encoding, Language, NameID uint16
	Value                                string
}

// Style carries the style fields of a test font.
type Style struct {
	OS2Version  uint16
	WeightClass uint16
	WidthClass  uint16
	FsSelection uint16
	MacStyle    uint16
	ItalicAngle float64
}

// Regular is the style of an upright regular face.
var Regular = Style{OS2Version: 4, WeightClass: 400, WidthClass: 5, FsSelection: 1 << 6}

// Params describes a test font.
type Params struct {
	Records []Record
	Style   Style
	CFF     *CFFNames // if set, the font is CFF-flavoured
	NoOS2   bool
}

// CFFNames are the strings of a CFF Top DICT.
type CFFNames struct {
	FontName   string
	FullName   string
	FamilyName string
	Weight     string
	Notice     string
}

// Family returns name records for a family with Windows and Macintosh
// entries for IDs 1, 2, 4 and 6.
func Family(family, subfamily, psname string) []Record {
	full := family + " " + subfamily
	var recs []Record
	for _, pe := range [][3]uint16{{3, 1, 0x409}, {1, 0, 0}} {
		recs = append(recs,
			Record{pe[0], pe[1], pe[2], 1, family},
			Record{pe[0], pe[1], pe[2], 2, subfamily},
			Record{pe[0], pe[1], pe[2], 4, full},
			Record{pe[0], pe[1], pe[2], 6, psname},
		)
	}
	return recs
}

// Build returns the binary data of a font described by p.
func Build(p Params) []byte {
	tables := map[string][]byte{
		"head": Head(p.Style.MacStyle),
		"name": Name(p.Records),
		"post": Post(p.Style.ItalicAngle),
		"maxp": MaxP(3),
	}
	if !p.NoOS2 {
		tables["OS/2"] = OS2(p.Style)
	}
	flavor := uint32(0x00010000)
	if p.CFF != nil {
		tables["CFF "] = CFF(*p.CFF)
		flavor = 0x4f54544f
	}
	return Assemble(flavor, tables)
}

// Assemble builds a font file from raw tables. Checksums are not computed.
func Assemble(flavor uint32, tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	n := len(tags)
	out := make([]byte, 12+16*n)
	putU32(out[0:], flavor)
	putU16(out[4:], uint16(n))
	offset := len(out)
	for i, tag := range tags {
		data := tables[tag]
		rec := out[12+16*i:]
		copy(rec[0:4], []byte(tag))
		putU32(rec[8:], uint32(offset))
		putU32(rec[12:], uint32(len(data)))
		padded := make([]byte, (len(data)+3)&^3)
		copy(padded, data)
		out = append(out, padded...)
		offset += len(padded)
	}
	return out
}

// Head returns a version 1.0 head table.
func Head(macStyle uint16) []byte {
	b := make([]byte, 54)
	putU16(b[0:], 1)
	putU32(b[4:], 0x00010000)
	putU32(b[12:], 0x5F0F3CF5)
	putU16(b[18:], 1000)
	putU32(b[24:], 3600000000) // created
	putU32(b[32:], 3600000000) // modified
	putU16(b[44:], macStyle)
	return b
}

// OS2 returns an OS/2 table of version st.OS2Version.
func OS2(st Style) []byte {
	size := 96
	if st.OS2Version == 0 {
		size = 78
	}
	b := make([]byte, size)
	putU16(b[0:], st.OS2Version)
	putU16(b[4:], st.WeightClass)
	putU16(b[6:], st.WidthClass)
	copy(b[58:62], []byte("TEST"))
	putU16(b[62:], st.FsSelection)
	return b
}

// Post returns a version 3.0 post table.
func Post(italicAngle float64) []byte {
	b := make([]byte, 32)
	putU32(b[0:], 0x00030000)
	putU32(b[4:], uint32(int32(italicAngle*65536)))
	return b
}

// MaxP returns a version 0.5 maxp table.
func MaxP(numGlyphs uint16) []byte {
	b := make([]byte, 6)
	putU32(b[0:], 0x00005000)
	putU16(b[4:], numGlyphs)
	return b
}

// Name returns a format 0 name table. Records are written in the order given.
func Name(recs []Record) []byte {
	head := make([]byte, 6+12*len(recs))
	putU16(head[2:], uint16(len(recs)))
	putU16(head[4:], uint16(len(head)))
	var storage []byte
	for i, r := range recs {
		var enc []byte
		if r.Platform == 1 {
			enc, _ = charmap.Macintosh.NewEncoder().Bytes([]byte(r.Value))
		} else {
			enc, _ = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(r.Value))
		}
		rec := head[6+12*i:]
		putU16(rec[0:], r.Platform)
		putU16(rec[2:], r.Encoding)
		putU16(rec[4:], r.Language)
		putU16(rec[6:], r.NameID)
		putU16(rec[8:], uint16(len(enc)))
		putU16(rec[10:], uint16(len(storage)))
		storage = append(storage, enc...)
	}
	return append(head, storage...)
}

func putU16(b []byte, n uint16) {
	b[0], b[1] = byte(n>>8), byte(n)
}

func putU32(b []byte, n uint32) {
	b[0], b[1], b[2], b[3] = byte(n>>24), byte(n>>16), byte(n>>8), byte(n)
}
