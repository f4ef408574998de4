package core

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

// abi.go implements the subset of Solidity ABI encoding spec.md §4.4
// requires: 32-byte words, left-padded unsigned integers, and
// length-prefixed, 32-byte-aligned dynamic types (bytes/string). This
// keeps ITS payloads wire-compatible with EVM-hosted hubs.

const abiWordSize = 32

func abiPadLeft32(b []byte) [32]byte {
	var w [32]byte
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(w[32-len(b):], b)
	return w
}

func abiEncodeDynamic(b []byte) []byte {
	var out []byte
	var lenWord [32]byte
	binary.BigEndian.PutUint64(lenWord[24:], uint64(len(b)))
	out = append(out, lenWord[:]...)
	out = append(out, b...)
	if pad := (abiWordSize - len(b)%abiWordSize) % abiWordSize; pad != 0 {
		out = append(out, make([]byte, pad)...)
	}
	return out
}

// abiEncoder accumulates a sequence of ABI "head" words (one per field, in
// field order) plus a "tail" of dynamic-type payloads, and stitches them
// together with offset pointers on Finish, matching Solidity's
// head/tail tuple layout.
type abiEncoder struct {
	heads    [][]byte
	dynIndex []int
	dynData  [][]byte
}

func (e *abiEncoder) uint256Word(v *uint256.Int) {
	w := v.Bytes32()
	e.heads = append(e.heads, append([]byte{}, w[:]...))
}

func (e *abiEncoder) uint8Word(v uint8) {
	var w [32]byte
	w[31] = v
	e.heads = append(e.heads, w[:])
}

func (e *abiEncoder) bytes32Word(b [32]byte) {
	e.heads = append(e.heads, append([]byte{}, b[:]...))
}

func (e *abiEncoder) dynamicBytes(b []byte) {
	idx := len(e.heads)
	e.heads = append(e.heads, nil)
	e.dynIndex = append(e.dynIndex, idx)
	e.dynData = append(e.dynData, abiEncodeDynamic(b))
}

func (e *abiEncoder) dynamicString(s string) { e.dynamicBytes([]byte(s)) }

func (e *abiEncoder) finish() []byte {
	headLen := uint64(len(e.heads)) * abiWordSize
	offsets := make([]uint64, len(e.heads))
	tailOffset := headLen
	di := 0
	for i := range e.heads {
		if di < len(e.dynIndex) && e.dynIndex[di] == i {
			offsets[i] = tailOffset
			tailOffset += uint64(len(e.dynData[di]))
			di++
		}
	}
	buf := make([]byte, 0, tailOffset)
	di = 0
	for i, h := range e.heads {
		if di < len(e.dynIndex) && e.dynIndex[di] == i {
			var w [32]byte
			binary.BigEndian.PutUint64(w[24:], offsets[i])
			buf = append(buf, w[:]...)
			di++
		} else {
			buf = append(buf, h...)
		}
	}
	for _, d := range e.dynData {
		buf = append(buf, d...)
	}
	return buf
}

// abiDecoder reads fixed-position head words and offset-addressed dynamic
// tails from a flat ABI buffer.
type abiDecoder struct {
	buf  []byte
	word int // next head word index to read
}

func newAbiDecoder(buf []byte) *abiDecoder { return &abiDecoder{buf: buf} }

func (d *abiDecoder) headWord() ([]byte, error) {
	start := d.word * abiWordSize
	end := start + abiWordSize
	if end > len(d.buf) {
		return nil, ErrInsufficientMessageLength
	}
	d.word++
	return d.buf[start:end], nil
}

func (d *abiDecoder) uint256() (*uint256.Int, error) {
	w, err := d.headWord()
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(w), nil
}

func (d *abiDecoder) uint8() (uint8, error) {
	w, err := d.headWord()
	if err != nil {
		return 0, err
	}
	for _, b := range w[:31] {
		if b != 0 {
			return 0, ErrAbiDecodeFailed
		}
	}
	return w[31], nil
}

func (d *abiDecoder) bytes32() ([32]byte, error) {
	w, err := d.headWord()
	if err != nil {
		return [32]byte{}, err
	}
	var out [32]byte
	copy(out[:], w)
	return out, nil
}

func (d *abiDecoder) dynamicBytes() ([]byte, error) {
	offW, err := d.headWord()
	if err != nil {
		return nil, err
	}
	offset := binary.BigEndian.Uint64(offW[24:])
	if offset+abiWordSize > uint64(len(d.buf)) {
		return nil, ErrInsufficientMessageLength
	}
	length := binary.BigEndian.Uint64(d.buf[offset+24 : offset+abiWordSize])
	start := offset + abiWordSize
	end := start + length
	if end > uint64(len(d.buf)) {
		return nil, ErrInsufficientMessageLength
	}
	return d.buf[start:end], nil
}

func (d *abiDecoder) dynamicString() (string, error) {
	b, err := d.dynamicBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUtf8
	}
	return string(b), nil
}
