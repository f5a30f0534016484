package ot

import (
	"time"
)

// WriteOption influences the re-assembly of a font's binary data.
type WriteOption func(*writeConfig)

type writeConfig struct {
	recalcTimestamp bool
	now             func() time.Time
}

// RecalcTimestamp sets head.modified to the current time when writing the font.
func RecalcTimestamp(on bool) WriteOption {
	return func(c *writeConfig) {
		c.recalcTimestamp = on
	}
}

// WithClock replaces the clock used by RecalcTimestamp. Intended for testing.
func WithClock(now func() time.Time) WriteOption {
	return func(c *writeConfig) {
		c.now = now
	}
}

const checksumMagic uint32 = 0xB1B0AFBA

// Bytes re-assembles the font into its binary representation.
//
// Tables are written in ascending tag order, each starting at a 4-byte
// boundary. Table checksums are recalculated, and head.checkSumAdjustment is
// set such that the whole font sums up to 0xB1B0AFBA.
// The font itself is not modified; in particular, a recalculated timestamp
// is written to the output only.
func (otf *Font) Bytes(opts ...WriteOption) ([]byte, error) {
	cfg := writeConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	tags := otf.TableTags()
	if len(tags) == 0 {
		return nil, Errorf(ErrInvalidArgument, "font has no tables")
	}
	datas := make([][]byte, len(tags))
	headInx := -1
	for i, tag := range tags {
		t := otf.tables[tag]
		switch tag {
		case T("head"):
			head := t.Self().AsHead()
			if head == nil {
				return nil, errFontFormat("head table not interpreted")
			}
			b := head.Encode()
			putU32(b[8:], 0) // checkSumAdjustment
			if cfg.recalcTimestamp {
				secs := LongDateTime(cfg.now())
				putU32(b[28:], uint32(uint64(secs)>>32))
				putU32(b[32:], uint32(uint64(secs)))
			}
			datas[i] = b
			headInx = i
		case T("OS/2"):
			if os2 := t.Self().AsOS2(); os2 != nil {
				datas[i] = os2.Encode()
			} else {
				datas[i] = t.Binary()
			}
		default:
			datas[i] = t.Binary()
		}
	}
	numTables := len(tags)
	searchRange, entrySelector := 1, 0
	for searchRange*2 <= numTables {
		searchRange *= 2
		entrySelector++
	}
	searchRange *= 16
	rangeShift := numTables*16 - searchRange

	size := 12 + 16*numTables
	for _, d := range datas {
		size += (len(d) + 3) &^ 3
	}
	out := make([]byte, size)
	putU32(out[0:], otf.Header.FontType)
	putU16(out[4:], uint16(numTables))
	putU16(out[6:], uint16(searchRange))
	putU16(out[8:], uint16(entrySelector))
	putU16(out[10:], uint16(rangeShift))

	offset := 12 + 16*numTables
	headOffset := 0
	for i, tag := range tags {
		rec := out[12+16*i:]
		putU32(rec[0:], uint32(tag))
		putU32(rec[4:], Checksum(datas[i]))
		putU32(rec[8:], uint32(offset))
		putU32(rec[12:], uint32(len(datas[i])))
		copy(out[offset:], datas[i])
		if i == headInx {
			headOffset = offset
		}
		offset += (len(datas[i]) + 3) &^ 3
	}
	if headInx >= 0 {
		adj := checksumMagic - Checksum(out)
		putU32(out[headOffset+8:], adj)
	}
	tracer().Debugf("wrote font with %d tables, %d bytes", numTables, len(out))
	return out, nil
}
