package core

import (
	"crypto/ed25519"

	"golang.org/x/crypto/sha3"
)

// keccak256 hashes data with Keccak-256, matching the teacher's opKECCAK256
// opcode handler (core/utility_functions.go) so preimages here stay
// byte-compatible with EVM-hosted relayers per spec.md §4.4.
func keccak256(chunks ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	var out Hash
	h.Sum(out[:0])
	return out
}

// HashPayload is the keccak256 hash of an arbitrary payload, exported so
// callers constructing Gateway messages (relayers, test fixtures) can
// compute the same PayloadHash the Gateway itself derives in
// CallContract/ITS.Execute.
func HashPayload(payload []byte) Hash { return keccak256(payload) }

// verifyEd25519 checks sig against msg for the given public key, mirroring
// the teacher's ed25519 verify wrapper in core/security.go.
func verifyEd25519(pub PublicKey, msg []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig[:])
}
