package core

import (
	"encoding/binary"
)

// This file implements the "host's deterministic XDR-like serialization"
// spec.md §6 refers to for hash preimages (signer sets, message batches).
// It is deliberately simple and fixed-width per field: the only
// requirement is that encode(x) is a pure, injective function of x, not
// that it match any specific host's wire format byte-for-byte.

func putUint64(buf *[]byte, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	*buf = append(*buf, b[:]...)
}

func putString(buf *[]byte, s string) {
	putUint64(buf, uint64(len(s)))
	*buf = append(*buf, s...)
}

func putBytes(buf *[]byte, b []byte) {
	putUint64(buf, uint64(len(b)))
	*buf = append(*buf, b...)
}

// takeUint64 and takeBytes decode the putUint64/putBytes encoding above,
// used by the ITS token_id registry (core/its.go) to store TokenIdConfig
// values in a Store.
func takeUint64(b []byte) (v uint64, rest []byte, ok bool) {
	if len(b) < 8 {
		return 0, nil, false
	}
	return binary.BigEndian.Uint64(b[:8]), b[8:], true
}

func takeBytes(b []byte) (data []byte, rest []byte, ok bool) {
	n, rest, ok := takeUint64(b)
	if !ok || uint64(len(rest)) < n {
		return nil, nil, false
	}
	return rest[:n], rest[n:], true
}

// serializeWeightedSigners canonically encodes a WeightedSigners for
// hashing. Assumes ws has already passed Validate (ascending, deduped).
func serializeWeightedSigners(ws WeightedSigners) []byte {
	var buf []byte
	putUint64(&buf, uint64(len(ws.Signers)))
	for _, s := range ws.Signers {
		buf = append(buf, s.PubKey[:]...)
		w := s.Weight.Bytes32()
		buf = append(buf, w[:]...)
	}
	t := ws.Threshold.Bytes32()
	buf = append(buf, t[:]...)
	buf = append(buf, ws.Nonce[:]...)
	return buf
}

// serializeMessages canonically encodes a batch of messages for hashing,
// as used by approve_messages_data_hash in spec.md §6.
func serializeMessages(msgs []Message) []byte {
	var buf []byte
	putUint64(&buf, uint64(len(msgs)))
	for _, m := range msgs {
		putString(&buf, m.SourceChain)
		putString(&buf, m.MessageID)
		putString(&buf, m.SourceAddress)
		buf = append(buf, m.ContractAddress[:]...)
		buf = append(buf, m.PayloadHash[:]...)
	}
	return buf
}
