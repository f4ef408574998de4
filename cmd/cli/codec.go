package cli

// codec.go holds the JSON wire shapes the gateway/its subcommands accept on
// disk (signer sets, proofs, message batches) and the hex/uint256 parsing
// glue between them and core's binary types.

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/holiman/uint256"

	"gatewaycore/core"
)

type signerJSON struct {
	PubKey string `json:"pub_key"`
	Weight string `json:"weight"`
}

type weightedSignersJSON struct {
	Signers   []signerJSON `json:"signers"`
	Threshold string       `json:"threshold"`
	Nonce     string       `json:"nonce"`
}

type signatureSlotJSON struct {
	Signature string `json:"signature,omitempty"`
}

type proofJSON struct {
	Signers    weightedSignersJSON `json:"signers"`
	Signatures []signatureSlotJSON `json:"signatures"`
}

type messageJSON struct {
	SourceChain     string `json:"source_chain"`
	MessageID       string `json:"message_id"`
	SourceAddress   string `json:"source_address"`
	ContractAddress string `json:"contract_address"`
	PayloadHash     string `json:"payload_hash"`
}

func hexDecode(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

func parseHash(s string) (core.Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return core.Hash{}, fmt.Errorf("invalid 32-byte hex %q", s)
	}
	var h core.Hash
	copy(h[:], b)
	return h, nil
}

func parsePubKey(s string) (core.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return core.PublicKey{}, fmt.Errorf("invalid 32-byte pubkey hex %q", s)
	}
	var pk core.PublicKey
	copy(pk[:], b)
	return pk, nil
}

func parseSignature(s string) (core.Signature, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 64 {
		return core.Signature{}, fmt.Errorf("invalid 64-byte signature hex %q", s)
	}
	var sig core.Signature
	copy(sig[:], b)
	return sig, nil
}

func parseUint256(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	return v, nil
}

func toWeightedSigners(in weightedSignersJSON) (core.WeightedSigners, error) {
	ws := core.WeightedSigners{Signers: make([]core.Signer, len(in.Signers))}
	for i, s := range in.Signers {
		pk, err := parsePubKey(s.PubKey)
		if err != nil {
			return ws, err
		}
		w, err := parseUint256(s.Weight)
		if err != nil {
			return ws, err
		}
		ws.Signers[i] = core.Signer{PubKey: pk, Weight: w}
	}
	threshold, err := parseUint256(in.Threshold)
	if err != nil {
		return ws, err
	}
	ws.Threshold = threshold
	nonce, err := hex.DecodeString(in.Nonce)
	if err != nil || len(nonce) != 32 {
		return ws, fmt.Errorf("invalid 32-byte nonce hex %q", in.Nonce)
	}
	copy(ws.Nonce[:], nonce)
	return ws, nil
}

func toProof(in proofJSON) (core.Proof, error) {
	signers, err := toWeightedSigners(in.Signers)
	if err != nil {
		return core.Proof{}, err
	}
	proof := core.Proof{Signers: signers, Signatures: make([]core.SignatureSlot, len(in.Signatures))}
	for i, slot := range in.Signatures {
		if slot.Signature == "" {
			continue
		}
		sig, err := parseSignature(slot.Signature)
		if err != nil {
			return core.Proof{}, err
		}
		proof.Signatures[i] = core.SignatureSlot{Signature: &sig}
	}
	return proof, nil
}

func toMessage(in messageJSON) (core.Message, error) {
	addr, err := core.ParseAddress(in.ContractAddress)
	if err != nil {
		return core.Message{}, err
	}
	hash, err := parseHash(in.PayloadHash)
	if err != nil {
		return core.Message{}, err
	}
	return core.Message{
		SourceChain:     in.SourceChain,
		MessageID:       in.MessageID,
		SourceAddress:   in.SourceAddress,
		ContractAddress: addr,
		PayloadHash:     hash,
	}, nil
}

func readJSONFile(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func loadWeightedSigners(path string) (core.WeightedSigners, error) {
	var in weightedSignersJSON
	if err := readJSONFile(path, &in); err != nil {
		return core.WeightedSigners{}, err
	}
	return toWeightedSigners(in)
}

func loadProof(path string) (core.Proof, error) {
	var in proofJSON
	if err := readJSONFile(path, &in); err != nil {
		return core.Proof{}, err
	}
	return toProof(in)
}

func loadMessages(path string) ([]core.Message, error) {
	var in []messageJSON
	if err := readJSONFile(path, &in); err != nil {
		return nil, err
	}
	out := make([]core.Message, len(in))
	for i, m := range in {
		msg, err := toMessage(m)
		if err != nil {
			return nil, err
		}
		out[i] = msg
	}
	return out, nil
}
