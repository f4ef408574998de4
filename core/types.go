// Package core implements the Gateway and Interchain Token Service (ITS)
// described by the specification: weighted-threshold signer rotation,
// exactly-once message approval, and token bridging with a sliding-window
// flow limiter.
package core

import (
	"bytes"
	"encoding/hex"
	"errors"

	"github.com/holiman/uint256"
)

// Hash is a 32-byte keccak256 digest.
type Hash [32]byte

func (h Hash) Bytes() []byte  { return h[:] }
func (h Hash) String() string { return hex.EncodeToString(h[:]) }
func (h Hash) IsZero() bool   { return h == Hash{} }

// Address is this core's local account/contract address format. The host
// ledger's real address encoding (e.g. Stellar StrKey) is an external
// collaborator per spec.md §1; this is a minimal, round-trippable stand-in
// sufficient to exercise InvalidDestinationAddress validation.
type Address [32]byte

var ZeroAddress = Address{}

func (a Address) Bytes() []byte  { return a[:] }
func (a Address) String() string { return hex.EncodeToString(a[:]) }
func (a Address) IsZero() bool   { return a == Address{} }

// ParseAddress decodes a hex-encoded 32-byte address.
func ParseAddress(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return Address{}, errInvalidAddress
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

var errInvalidAddress = errors.New("core: address must be 32 bytes hex-encoded")

// PublicKey is a 32-byte ed25519 verification key.
type PublicKey [32]byte

// Signature is a 64-byte ed25519 signature.
type Signature [64]byte

// Signer pairs a verification key with its voting weight.
type Signer struct {
	PubKey PublicKey
	Weight *uint256.Int
}

// WeightedSigners is an ordered, deduplicated signer set with a threshold.
//
// Invariants enforced by Validate: signers strictly ascending by PubKey, no
// duplicates, every weight > 0, 0 < Threshold <= sum(weights).
type WeightedSigners struct {
	Signers   []Signer
	Threshold *uint256.Int
	Nonce     [32]byte
}

// Validate checks the well-formedness invariants spec.md §3 requires of a
// WeightedSigners value before it may be hashed or rotated into history.
func (ws WeightedSigners) Validate() error {
	if len(ws.Signers) == 0 {
		return ErrInvalidSignersOrdering
	}
	if ws.Nonce == ([32]byte{}) {
		return ErrInvalidSignersOrdering
	}
	sum := new(uint256.Int)
	for i, s := range ws.Signers {
		if s.Weight == nil || s.Weight.IsZero() {
			return ErrInvalidSignersOrdering
		}
		if i > 0 && bytes.Compare(ws.Signers[i-1].PubKey[:], s.PubKey[:]) >= 0 {
			return ErrInvalidSignersOrdering
		}
		sum.Add(sum, s.Weight)
	}
	if ws.Threshold == nil || ws.Threshold.IsZero() || ws.Threshold.Gt(sum) {
		return ErrInvalidSignersOrdering
	}
	return nil
}

// SignatureSlot is one entry of a Proof, positionally aligned with the
// WeightedSigners.Signers it accompanies. A nil Signature marks an absent
// slot: the corresponding signer did not contribute a signature to this
// proof, which is permitted as long as the present signatures reach
// threshold weight.
type SignatureSlot struct {
	Signature *Signature
}

// Proof is a weighted-threshold signature bundle over some data_hash.
type Proof struct {
	Signers    WeightedSigners
	Signatures []SignatureSlot
}

// Message is one inbound cross-chain message as approved by the Gateway.
type Message struct {
	SourceChain     string
	MessageID       string
	SourceAddress   string
	ContractAddress Address
	PayloadHash     Hash
}

// TokenManagerType selects the local custody model for a registered token.
type TokenManagerType int

const (
	LockUnlock TokenManagerType = iota
	NativeInterchainToken
)

// TokenIdConfig is the write-once registration record for a token_id.
type TokenIdConfig struct {
	TokenAddress        Address
	TokenManagerAddress Address
	ManagerType         TokenManagerType
}
