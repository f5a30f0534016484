package fonttest

// CFF returns a name-keyed CFF table with one font and a single glyph.
// The strings of names are put into the String INDEX in the order Notice,
// FullName, FamilyName, Weight; empty strings are omitted from the Top DICT.
func CFF(names CFFNames) []byte {
	var strs [][]byte
	var dict []byte
	sid := 391
	for _, f := range []struct {
		op  byte
		val string
	}{{1, names.Notice}, {2, names.FullName}, {3, names.FamilyName}, {4, names.Weight}} {
		if f.val == "" {
			continue
		}
		strs = append(strs, []byte(f.val))
		dict = append(dict, 28, byte(sid>>8), byte(sid), f.op)
		sid++
	}
	charStrings := Index([][]byte{{14}}) // endchar
	private := []byte{0x8b, 20}          // defaultWidthX 0
	// offsets are patched below; 5-byte integers keep the dict length stable
	dict = append(dict, 29, 0, 0, 0, 0, 17)
	dict = append(dict, 29, 0, 0, 0, 0, 29, 0, 0, 0, 0, 18)
	header := []byte{1, 0, 4, 4}
	nameIdx := Index([][]byte{[]byte(names.FontName)})
	strIdx := Index(strs)
	gsubrs := Index(nil)
	topLen := len(Index([][]byte{dict}))
	csOffset := len(header) + len(nameIdx) + topLen + len(strIdx) + len(gsubrs)
	privOffset := csOffset + len(charStrings)
	n := len(dict)
	putU32(dict[n-16:], uint32(csOffset))
	putU32(dict[n-10:], uint32(len(private)))
	putU32(dict[n-5:], uint32(privOffset))
	var out []byte
	out = append(out, header...)
	out = append(out, nameIdx...)
	out = append(out, Index([][]byte{dict})...)
	out = append(out, strIdx...)
	out = append(out, gsubrs...)
	out = append(out, charStrings...)
	out = append(out, private...)
	return out
}

// Index encodes a CFF INDEX structure.
func Index(items [][]byte) []byte {
	if len(items) == 0 {
		return []byte{0, 0}
	}
	total := 1
	for _, it := range items {
		total += len(it)
	}
	offSize := 1
	for lim := 0xff; total > lim; lim = lim<<8 | 0xff {
		offSize++
	}
	out := []byte{byte(len(items) >> 8), byte(len(items)), byte(offSize)}
	off := 1
	writeOff := func(o int) {
		for i := offSize - 1; i >= 0; i-- {
			out = append(out, byte(o>>(8*i)))
		}
	}
	writeOff(off)
	for _, it := range items {
		off += len(it)
		writeOff(off)
	}
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}
