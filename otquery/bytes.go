package otquery

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	return uint32(u16(b))<<16 | uint32(u16(b[2:]))
}

func i64(b []byte) int64 {
	return int64(uint64(u32(b))<<32 | uint64(u32(b[4:])))
}

// fixed converts a 16.16 fixed point number.
func fixed(b []byte) float64 {
	return float64(int32(u32(b))) / 65536
}
