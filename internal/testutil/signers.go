package testutil

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/holiman/uint256"

	"gatewaycore/core"
)

// KeyPair bundles an ed25519 private key with the core.Signer it votes as,
// for building WeightedSigners/Proof fixtures in tests.
type KeyPair struct {
	Private ed25519.PrivateKey
	Signer  core.Signer
}

// GenerateSigners generates n fresh random signers of equal weight 1 from
// rand.Reader (different keys on every call), sorted ascending by public
// key as core.WeightedSigners requires.
func GenerateSigners(n int) []KeyPair {
	out := make([]KeyPair, n)
	for i := 0; i < n; i++ {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			panic(err)
		}
		var pk core.PublicKey
		copy(pk[:], pub)
		out[i] = KeyPair{Private: priv, Signer: core.Signer{PubKey: pk, Weight: uint256.NewInt(1)}}
	}
	return sortKeyPairs(out)
}

func sortKeyPairs(kps []KeyPair) []KeyPair {
	for i := 1; i < len(kps); i++ {
		for j := i; j > 0; j-- {
			if string(kps[j-1].Signer.PubKey[:]) > string(kps[j].Signer.PubKey[:]) {
				kps[j-1], kps[j] = kps[j], kps[j-1]
			} else {
				break
			}
		}
	}
	return kps
}

// WeightedSigners builds a core.WeightedSigners from kps with the given
// threshold and nonce.
func WeightedSigners(kps []KeyPair, threshold uint64, nonce [32]byte) core.WeightedSigners {
	signers := make([]core.Signer, len(kps))
	for i, kp := range kps {
		signers[i] = kp.Signer
	}
	return core.WeightedSigners{Signers: signers, Threshold: uint256.NewInt(threshold), Nonce: nonce}
}

// SignAll produces a core.Proof over dataHash signed by every key in kps,
// in the same order as ws.Signers (kps must be the same set used to build
// ws via WeightedSigners).
func SignAll(ws core.WeightedSigners, kps []KeyPair, domainSeparator core.Hash, dataHash core.Hash) core.Proof {
	msg := core.SigningMessage(domainSeparator, ws, dataHash).Bytes()
	slots := make([]core.SignatureSlot, len(kps))
	for i, kp := range kps {
		var sig core.Signature
		copy(sig[:], ed25519.Sign(kp.Private, msg))
		slots[i] = core.SignatureSlot{Signature: &sig}
	}
	return core.Proof{Signers: ws, Signatures: slots}
}

// SignSubset produces a proof where only the signers at the given indices
// contribute a signature; the rest are absent slots, exercising the
// threshold-weight short-circuit (spec.md §4.2).
func SignSubset(ws core.WeightedSigners, kps []KeyPair, domainSeparator core.Hash, dataHash core.Hash, present []int) core.Proof {
	msg := core.SigningMessage(domainSeparator, ws, dataHash).Bytes()
	presentSet := make(map[int]bool, len(present))
	for _, i := range present {
		presentSet[i] = true
	}
	slots := make([]core.SignatureSlot, len(kps))
	for i, kp := range kps {
		if !presentSet[i] {
			continue
		}
		var sig core.Signature
		copy(sig[:], ed25519.Sign(kp.Private, msg))
		slots[i] = core.SignatureSlot{Signature: &sig}
	}
	return core.Proof{Signers: ws, Signatures: slots}
}
