package cff

import (
	"strconv"
	"strings"

	"github.com/npillmayer/otname/ot"
)

// DICT operators we care about. Two-byte operators are 1200 + second byte.
const (
	opVersion     = 0
	opNotice      = 1
	opFullName    = 2
	opFamilyName  = 3
	opWeight      = 4
	opCharset     = 15
	opEncoding    = 16
	opCharStrings = 17
	opPrivate     = 18
	opCopyright   = 1200
	opROS         = 1230
	opFDArray     = 1236
	opFDSelect    = 1237
)

type operand struct {
	raw   []byte  // encoded form, written back unless the value changes
	value float64 // numeric value
}

type dictEntry struct {
	op       int
	operands []operand
}

// parseDict decodes a DICT into its operator entries, in order of appearance.
func parseDict(data []byte) ([]dictEntry, error) {
	var entries []dictEntry
	var operands []operand
	i := 0
	for i < len(data) {
		start := i
		b := data[i]
		i++
		switch {
		case b <= 21:
			op := int(b)
			if b == 12 {
				if i >= len(data) {
					return nil, ot.Errorf(ot.ErrValidation, "CFF DICT: truncated escape operator")
				}
				op = 1200 + int(data[i])
				i++
			}
			entries = append(entries, dictEntry{op: op, operands: operands})
			operands = nil
			continue
		case b == 28:
			if i+2 > len(data) {
				return nil, ot.Errorf(ot.ErrValidation, "CFF DICT: truncated operand")
			}
			v := int16(uint16(data[i])<<8 | uint16(data[i+1]))
			i += 2
			operands = append(operands, operand{raw: data[start:i], value: float64(v)})
		case b == 29:
			if i+4 > len(data) {
				return nil, ot.Errorf(ot.ErrValidation, "CFF DICT: truncated operand")
			}
			v := int32(uint32(data[i])<<24 | uint32(data[i+1])<<16 | uint32(data[i+2])<<8 | uint32(data[i+3]))
			i += 4
			operands = append(operands, operand{raw: data[start:i], value: float64(v)})
		case b == 30:
			s, n := parseReal(data[i:])
			i += n
			f, _ := strconv.ParseFloat(s, 64)
			operands = append(operands, operand{raw: data[start:i], value: f})
		case b >= 32 && b <= 246:
			operands = append(operands, operand{raw: data[start:i], value: float64(int(b) - 139)})
		case b >= 247 && b <= 254:
			if i >= len(data) {
				return nil, ot.Errorf(ot.ErrValidation, "CFF DICT: truncated operand")
			}
			b1 := int(data[i])
			i++
			v := (int(b)-247)*256 + b1 + 108
			if b >= 251 {
				v = -(int(b)-251)*256 - b1 - 108
			}
			operands = append(operands, operand{raw: data[start:i], value: float64(v)})
		default:
			return nil, ot.Errorf(ot.ErrValidation, "CFF DICT: reserved byte %d", b)
		}
	}
	if len(operands) > 0 {
		return nil, ot.Errorf(ot.ErrValidation, "CFF DICT: operands without operator")
	}
	return entries, nil
}

// parseReal decodes the nibbles of a real number operand.
func parseReal(data []byte) (string, int) {
	var sb strings.Builder
	i := 0
	for i < len(data) {
		b := data[i]
		i++
		for _, n := range [2]byte{b >> 4, b & 0x0f} {
			switch {
			case n <= 9:
				sb.WriteByte('0' + n)
			case n == 0xa:
				sb.WriteByte('.')
			case n == 0xb:
				sb.WriteByte('E')
			case n == 0xc:
				sb.WriteString("E-")
			case n == 0xe:
				sb.WriteByte('-')
			case n == 0xf:
				return sb.String(), i
			}
		}
	}
	return sb.String(), i
}

// encodeInt encodes an integer operand in its shortest form.
func encodeInt(v int) []byte {
	switch {
	case v >= -107 && v <= 107:
		return []byte{byte(v + 139)}
	case v >= 108 && v <= 1131:
		v -= 108
		return []byte{byte(v>>8+247), byte(v)}
	case v >= -1131 && v <= -108:
		v = -v - 108
		return []byte{byte(v>>8+251), byte(v)}
	case v >= -32768 && v <= 32767:
		return []byte{28, byte(v >> 8), byte(v)}
	}
	return encodeInt32(v)
}

// encodeInt32 encodes an integer operand in 5-byte form. Offsets are written
// this way to keep the size of a DICT independent of the offset values.
func encodeInt32(v int) []byte {
	return []byte{29, byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func encodeOperator(op int) []byte {
	if op >= 1200 {
		return []byte{12, byte(op - 1200)}
	}
	return []byte{byte(op)}
}

// isOffsetOperand reports whether operand i of operator op is an offset
// relative to the start of the CFF data.
func isOffsetOperand(op int, i int, value float64) bool {
	switch op {
	case opCharset:
		return value > 2 // 0 … 2 denote predefined charsets
	case opEncoding:
		return value > 1 // 0 and 1 denote predefined encodings
	case opCharStrings, opFDArray, opFDSelect:
		return true
	case opPrivate:
		return i == 1 // size, offset
	}
	return false
}

// encodeDict writes DICT entries, with offset operands shifted by delta.
func encodeDict(entries []dictEntry, delta int) []byte {
	var out []byte
	for _, e := range entries {
		for i, o := range e.operands {
			if isOffsetOperand(e.op, i, o.value) {
				out = append(out, encodeInt32(int(o.value)+delta)...)
			} else {
				out = append(out, o.raw...)
			}
		}
		out = append(out, encodeOperator(e.op)...)
	}
	return out
}
