package core

import "encoding/binary"

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func bytesToUint64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// uint64Key renders v as a fixed-width, lexicographically-ordered decimal
// key suffix so IteratePrefix scans epochs/buckets in numeric order.
func uint64Key(v uint64) string {
	const digits = "0123456789"
	buf := make([]byte, 20)
	for i := 19; i >= 0; i-- {
		buf[i] = digits[v%10]
		v /= 10
	}
	return string(buf)
}
