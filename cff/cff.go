/*
Package cff reads and replaces the strings of a font's 'CFF ' table.

A CFF font carries a second copy of a font's names: the PostScript font name
in the Name INDEX, and the FullName, FamilyName, Weight, Notice, Copyright
and version strings in the Top DICT, which refers to them by string ID (SID).
Package cff exposes these as named fields. Replacing a field appends a new
string to the String INDEX and repoints the SID; existing strings are never
modified, as they may be shared with glyph names.

Charstrings, subroutines and private dictionaries are not interpreted. When
writing the table back, offsets in the Top DICT are shifted by the change in
size of the data preceding them.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package cff

import (
	"strings"

	"github.com/npillmayer/otname/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'otname.cff'
func tracer() tracing.Trace {
	return tracing.Select("otname.cff")
}

// Field names.
const (
	FontName   = "FontName"
	FullName   = "FullName"
	FamilyName = "FamilyName"
	Weight     = "Weight"
	Notice     = "Notice"
	Copyright  = "Copyright"
	Version    = "Version"
)

var fieldOps = map[string]int{
	FullName:   opFullName,
	FamilyName: opFamilyName,
	Weight:     opWeight,
	Notice:     opNotice,
	Copyright:  opCopyright,
	Version:    opVersion,
}

// fieldOrder is the order of fields for listing.
var fieldOrder = []string{FontName, Version, Notice, Copyright, FullName, FamilyName, Weight}

// Font is a parsed CFF table with a single font.
type Font struct {
	orig       []byte
	header     []byte
	name       string
	topDict    []dictEntry
	strings    [][]byte
	gsubrs     []byte
	restOffset int // start of the data following the Global Subr INDEX
	cidKeyed   bool
	dirty      bool
}

// Parse reads the binary data of a 'CFF ' table. Only CFF version 1 with
// exactly one font is supported.
func Parse(data []byte) (*Font, error) {
	if len(data) < 4 {
		return nil, ot.Errorf(ot.ErrValidation, "CFF header too short")
	}
	if data[0] != 1 {
		return nil, ot.Errorf(ot.ErrValidation, "CFF major version %d not supported", data[0])
	}
	hdrSize := int(data[2])
	if hdrSize < 4 || hdrSize > len(data) {
		return nil, ot.Errorf(ot.ErrValidation, "CFF header size %d invalid", hdrSize)
	}
	f := &Font{orig: data, header: data[:hdrSize]}
	names, next, err := readIndex(data, hdrSize)
	if err != nil {
		return nil, err
	}
	if len(names) != 1 {
		return nil, ot.Errorf(ot.ErrValidation, "CFF Name INDEX has %d entries, need 1", len(names))
	}
	f.name = string(names[0])
	dicts, next, err := readIndex(data, next)
	if err != nil {
		return nil, err
	}
	if len(dicts) != 1 {
		return nil, ot.Errorf(ot.ErrValidation, "CFF Top DICT INDEX has %d entries, need 1", len(dicts))
	}
	if f.topDict, err = parseDict(dicts[0]); err != nil {
		return nil, err
	}
	if f.strings, next, err = readIndex(data, next); err != nil {
		return nil, err
	}
	gsStart := next
	if _, next, err = readIndex(data, next); err != nil {
		return nil, err
	}
	f.gsubrs = data[gsStart:next]
	f.restOffset = next
	for _, e := range f.topDict {
		if e.op == opROS {
			f.cidKeyed = true
		}
	}
	tracer().Debugf("CFF font %q: %d strings, CID-keyed=%v", f.name, len(f.strings), f.cidKeyed)
	return f, nil
}

// IsCIDKeyed reports whether the font is a CID-keyed font. Fields of
// CID-keyed fonts may be read, but not replaced.
func (f *Font) IsCIDKeyed() bool {
	return f.cidKeyed
}

// SID returns the string for a string ID.
func (f *Font) SID(sid int) ot.Option[string] {
	if sid < 0 {
		return ot.None[string]()
	}
	if sid < len(standardStrings) {
		return ot.Some(standardStrings[sid])
	}
	if i := sid - len(standardStrings); i < len(f.strings) {
		return ot.Some(string(f.strings[i]))
	}
	return ot.None[string]()
}

func (f *Font) entry(op int) (int, bool) {
	for i, e := range f.topDict {
		if e.op == op {
			return i, true
		}
	}
	return -1, false
}

// Field returns the value of a named field. Fields not present in the font
// yield None.
func (f *Font) Field(name string) ot.Option[string] {
	if name == FontName {
		return ot.Some(f.name)
	}
	op, ok := fieldOps[name]
	if !ok {
		return ot.None[string]()
	}
	i, ok := f.entry(op)
	if !ok || len(f.topDict[i].operands) != 1 {
		return ot.None[string]()
	}
	return f.SID(int(f.topDict[i].operands[0].value))
}

// FieldNames lists the fields present in the font.
func (f *Font) FieldNames() []string {
	var fields []string
	for _, name := range fieldOrder {
		if f.Field(name).IsSome() {
			fields = append(fields, name)
		}
	}
	return fields
}

// SetField replaces the value of a named field, adding the field to the
// Top DICT if it is not present.
func (f *Font) SetField(name, value string) error {
	if f.cidKeyed {
		return ot.Errorf(ot.ErrInvalidArgument, "CID-keyed CFF fonts cannot be modified")
	}
	if name == FontName {
		f.name = value
		f.dirty = true
		return nil
	}
	op, ok := fieldOps[name]
	if !ok {
		return ot.Errorf(ot.ErrNotFound, "no CFF field %q", name)
	}
	sid := f.addString(value)
	o := operand{raw: encodeInt(sid), value: float64(sid)}
	if i, ok := f.entry(op); ok {
		f.topDict[i].operands = []operand{o}
	} else {
		f.topDict = append([]dictEntry{{op: op, operands: []operand{o}}}, f.topDict...)
	}
	f.dirty = true
	return nil
}

// addString returns the SID of a string, appending it to the String INDEX
// if neither a standard string nor an existing custom string matches.
func (f *Font) addString(s string) int {
	for i, std := range standardStrings {
		if std == s {
			return i
		}
	}
	for i, str := range f.strings {
		if string(str) == s {
			return len(standardStrings) + i
		}
	}
	f.strings = append(f.strings, []byte(s))
	return len(standardStrings) + len(f.strings) - 1
}

// ReplaceInField replaces every occurrence of old in a field with new.
// It reports whether the field has been changed.
func (f *Font) ReplaceInField(field, old, new string) (bool, error) {
	v, ok := f.Field(field).Unwrap()
	if !ok || old == "" || !strings.Contains(v, old) {
		return false, nil
	}
	if err := f.SetField(field, strings.ReplaceAll(v, old, new)); err != nil {
		return false, err
	}
	return true, nil
}

// Bytes returns the binary data of the table. If no field has been changed,
// the original data is returned.
func (f *Font) Bytes() ([]byte, error) {
	if !f.dirty {
		return f.orig, nil
	}
	if f.cidKeyed {
		return nil, ot.Errorf(ot.ErrInvalidArgument, "CID-keyed CFF fonts cannot be rewritten")
	}
	for _, e := range f.topDict {
		for i, o := range e.operands {
			if isOffsetOperand(e.op, i, o.value) && int(o.value) < f.restOffset {
				return nil, ot.Errorf(ot.ErrValidation, "CFF offset %d for operator %d points into header data",
					int(o.value), e.op)
			}
		}
	}
	nameIdx := encodeIndex([][]byte{[]byte(f.name)})
	strIdx := encodeIndex(f.strings)
	// offset operands have a fixed size, so the DICT length does not depend on delta
	topIdxLen := len(encodeIndex([][]byte{encodeDict(f.topDict, 0)}))
	prefix := len(f.header) + len(nameIdx) + topIdxLen + len(strIdx) + len(f.gsubrs)
	delta := prefix - f.restOffset
	topIdx := encodeIndex([][]byte{encodeDict(f.topDict, delta)})
	out := make([]byte, 0, prefix+len(f.orig)-f.restOffset)
	out = append(out, f.header...)
	out = append(out, nameIdx...)
	out = append(out, topIdx...)
	out = append(out, strIdx...)
	out = append(out, f.gsubrs...)
	out = append(out, f.orig[f.restOffset:]...)
	tracer().Debugf("CFF rewritten, offsets shifted by %d", delta)
	return out, nil
}
