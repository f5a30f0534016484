package names

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/otname/ot"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
	langTagBase    = 0x8000 // language IDs ≥ 0x8000 refer to language-tag records
)

// Decode reads the binary data of an OpenType 'name' table, format 0 or 1.
//
// Records which are out of bounds are skipped and traced. Records in encodings
// which cannot be decoded are kept as opaque bytes.
func Decode(b []byte) (*Table, error) {
	if len(b) < nameHeaderSize {
		return nil, ot.Errorf(ot.ErrValidation, "name table too short: %d bytes", len(b))
	}
	format := u16(b[0:])
	count := int(u16(b[2:]))
	storage := int(u16(b[4:]))
	if format > 1 {
		return nil, ot.Errorf(ot.ErrValidation, "name table format %d not supported", format)
	}
	recordsEnd := nameHeaderSize + count*nameRecordSize
	if recordsEnd > len(b) || storage > len(b) {
		return nil, ot.Errorf(ot.ErrValidation, "name table record section out of bounds: count=%d", count)
	}
	t := NewTable()
	if format == 1 && recordsEnd+2 <= len(b) {
		n := int(u16(b[recordsEnd:]))
		for i := 0; i < n; i++ {
			at := recordsEnd + 2 + 4*i
			if at+4 > len(b) {
				tracer().Errorf("name table: language-tag record %d out of bounds", i)
				break
			}
			length, offset := int(u16(b[at:])), int(u16(b[at+2:]))
			start := storage + offset
			if start+length > len(b) {
				tracer().Errorf("name table: language-tag %d out of bounds", i)
				t.langTags = append(t.langTags, "")
				continue
			}
			tag, _ := decodeUTF16(b[start : start+length])
			t.langTags = append(t.langTags, tag)
		}
	}
	for i := 0; i < count; i++ {
		rec := b[nameHeaderSize+i*nameRecordSize:]
		key := Key{
			Platform: PlatformID(u16(rec[0:])),
			Encoding: EncodingID(u16(rec[2:])),
			Language: u16(rec[4:]),
			Name:     sfnt.NameID(u16(rec[6:])),
		}
		length := int(u16(rec[8:]))
		start := storage + int(u16(rec[10:]))
		if start+length > len(b) {
			tracer().Errorf("name table: record %v out of bounds, skipped", key)
			continue
		}
		raw := b[start : start+length]
		if s, ok := decodeString(key, raw); ok {
			t.records[key] = s
		} else {
			t.opaque[key] = append([]byte(nil), raw...)
		}
	}
	tracer().Debugf("decoded name table: %d records, %d opaque", len(t.records), len(t.opaque))
	return t, nil
}

// Encode writes the table in binary format. Records are sorted by platform,
// encoding, language and name ID, and identical strings share storage.
// Format 1 is written if the table carries language-tag records.
func (t *Table) Encode() ([]byte, error) {
	type entry struct {
		key  Key
		data []byte
	}
	entries := make([]entry, 0, len(t.records)+len(t.opaque))
	for k, v := range t.records {
		entries = append(entries, entry{k, encodeString(k, v)})
	}
	for k, v := range t.opaque {
		entries = append(entries, entry{k, v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key.less(entries[j].key) })
	format := uint16(0)
	if len(t.langTags) > 0 {
		format = 1
	}
	headerSize := nameHeaderSize + len(entries)*nameRecordSize
	if format == 1 {
		headerSize += 2 + 4*len(t.langTags)
	}
	out := make([]byte, headerSize)
	putU16(out[0:], format)
	putU16(out[2:], uint16(len(entries)))
	putU16(out[4:], uint16(headerSize))
	var storage []byte
	shared := make(map[string]int)
	store := func(data []byte) (int, error) {
		if off, ok := shared[string(data)]; ok {
			return off, nil
		}
		off := len(storage)
		if off > 0xffff || len(data) > 0xffff {
			return 0, ot.Errorf(ot.ErrValidation, "name table string storage exceeds 64K")
		}
		storage = append(storage, data...)
		shared[string(data)] = off
		return off, nil
	}
	for i, e := range entries {
		off, err := store(e.data)
		if err != nil {
			return nil, err
		}
		rec := out[nameHeaderSize+i*nameRecordSize:]
		putU16(rec[0:], uint16(e.key.Platform))
		putU16(rec[2:], uint16(e.key.Encoding))
		putU16(rec[4:], e.key.Language)
		putU16(rec[6:], uint16(e.key.Name))
		putU16(rec[8:], uint16(len(e.data)))
		putU16(rec[10:], uint16(off))
	}
	if format == 1 {
		at := nameHeaderSize + len(entries)*nameRecordSize
		putU16(out[at:], uint16(len(t.langTags)))
		for i, tag := range t.langTags {
			data := encodeUTF16(tag)
			off, err := store(data)
			if err != nil {
				return nil, err
			}
			putU16(out[at+2+4*i:], uint16(len(data)))
			putU16(out[at+4+4*i:], uint16(off))
		}
	}
	return append(out, storage...), nil
}

// --- String encodings ------------------------------------------------------

func isUTF16(key Key) bool {
	switch key.Platform {
	case PlatformUnicode:
		return true
	case PlatformWindows:
		return key.Encoding == EncodingWindowsSymbol || key.Encoding == EncodingWindowsBMP ||
			key.Encoding == EncodingWindowsUCS4
	}
	return false
}

func isMacRoman(key Key) bool {
	return key.Platform == PlatformMacintosh && key.Encoding == EncodingMacRoman
}

func decodeString(key Key, raw []byte) (string, bool) {
	switch {
	case isUTF16(key):
		s, err := decodeUTF16(raw)
		if err != nil {
			tracer().Errorf("name record %v: %v", key, err)
			return "", false
		}
		return s, true
	case isMacRoman(key):
		var sb strings.Builder
		for _, c := range raw {
			sb.WriteRune(charmap.Macintosh.DecodeByte(c))
		}
		return sb.String(), true
	}
	return "", false
}

func encodeString(key Key, s string) []byte {
	if isMacRoman(key) {
		return encodeMacRoman(s)
	}
	return encodeUTF16(s)
}

func decodeUTF16(raw []byte) (string, error) {
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	s, err := dec.Bytes(raw)
	if err != nil {
		return "", ot.Errorf(ot.ErrValidation, "decoding UTF-16: %v", err)
	}
	return string(s), nil
}

func encodeUTF16(s string) []byte {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	b, err := enc.Bytes([]byte(strings.ToValidUTF8(s, "�")))
	if err != nil { // cannot happen for valid UTF-8
		tracer().Errorf("encoding UTF-16: %v", err)
	}
	return b
}

// encodeMacRoman encodes s in Mac Roman. Characters without a Mac Roman
// representation are replaced by '?'.
func encodeMacRoman(s string) []byte {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		c, ok := charmap.Macintosh.EncodeRune(r)
		if !ok || r == utf8.RuneError {
			tracer().Infof("character %q has no Mac Roman representation, replaced by '?'", r)
			c = '?'
		}
		b = append(b, c)
	}
	return b
}

// MacRomanSafe reports whether s can be written to a Macintosh record
// without loss.
func MacRomanSafe(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Macintosh.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func putU16(b []byte, n uint16) {
	b[0], b[1] = byte(n>>8), byte(n)
}
