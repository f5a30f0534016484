package cff

import (
	"github.com/npillmayer/otname/ot"
)

// readIndex reads a CFF INDEX at offset and returns its items and the offset
// following the INDEX. Items are sub-slices of data.
func readIndex(data []byte, offset int) ([][]byte, int, error) {
	if offset+2 > len(data) {
		return nil, 0, ot.Errorf(ot.ErrValidation, "CFF INDEX at %d: out of bounds", offset)
	}
	count := int(data[offset])<<8 | int(data[offset+1])
	if count == 0 {
		return nil, offset + 2, nil
	}
	if offset+3 > len(data) {
		return nil, 0, ot.Errorf(ot.ErrValidation, "CFF INDEX at %d: out of bounds", offset)
	}
	offSize := int(data[offset+2])
	if offSize < 1 || offSize > 4 {
		return nil, 0, ot.Errorf(ot.ErrValidation, "CFF INDEX at %d: invalid offset size %d", offset, offSize)
	}
	offsets := offset + 3
	base := offsets + (count+1)*offSize - 1 // offsets are 1-based
	if base+1 > len(data) {
		return nil, 0, ot.Errorf(ot.ErrValidation, "CFF INDEX at %d: offset array out of bounds", offset)
	}
	items := make([][]byte, count)
	prev := readOffset(data, offsets, offSize)
	for i := 0; i < count; i++ {
		next := readOffset(data, offsets+(i+1)*offSize, offSize)
		if prev < 1 || next < prev || base+next > len(data) {
			return nil, 0, ot.Errorf(ot.ErrValidation, "CFF INDEX at %d: item %d out of bounds", offset, i)
		}
		items[i] = data[base+prev : base+next]
		prev = next
	}
	return items, base + prev, nil
}

func readOffset(data []byte, pos, size int) int {
	v := 0
	for i := 0; i < size; i++ {
		v = v<<8 | int(data[pos+i])
	}
	return v
}

// encodeIndex encodes items as a CFF INDEX, choosing the smallest offset size.
func encodeIndex(items [][]byte) []byte {
	count := len(items)
	if count == 0 {
		return []byte{0, 0}
	}
	total := 1
	for _, item := range items {
		total += len(item)
	}
	offSize := 1
	for lim := 0xff; total > lim && offSize < 4; lim = lim<<8 | 0xff {
		offSize++
	}
	out := make([]byte, 0, 3+(count+1)*offSize+total)
	out = append(out, byte(count>>8), byte(count), byte(offSize))
	putOffset := func(v int) {
		for i := offSize - 1; i >= 0; i-- {
			out = append(out, byte(v>>(8*i)))
		}
	}
	offset := 1
	putOffset(offset)
	for _, item := range items {
		offset += len(item)
		putOffset(offset)
	}
	for _, item := range items {
		out = append(out, item...)
	}
	return out
}
