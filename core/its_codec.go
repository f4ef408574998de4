package core

import (
	"math"

	"github.com/holiman/uint256"
)

// its_codec.go implements C4: bit-exact encode/decode of Hub-wrapped ITS
// payloads (spec.md §4.4). All four message kinds share a leading u256
// discriminator; LinkToken (kind 2) is accepted on decode but rejected
// with InvalidMessageType, matching the spec's explicit scope cut.

type MessageType uint8

const (
	MessageTypeInterchainTransfer MessageType = iota
	MessageTypeDeployInterchainToken
	MessageTypeLinkToken
	MessageTypeRegisterTokenMetadata
)

// InterchainTransfer is ITS message kind 0.
type InterchainTransfer struct {
	TokenID            [32]byte
	SourceAddress      []byte
	DestinationAddress []byte
	Amount             *uint256.Int
	Data               []byte
}

// DeployInterchainToken is ITS message kind 1.
type DeployInterchainToken struct {
	TokenID  [32]byte
	Name     string
	Symbol   string
	Decimals uint8
	Minter   []byte
}

// RegisterTokenMetadata is ITS message kind 3 (outbound only).
type RegisterTokenMetadata struct {
	TokenAddress []byte
	Decimals     uint8
}

// i128Max is the largest amount this core accepts, per spec.md §4.4:
// "amounts exceeding i128::MAX" are rejected.
var i128Max = func() *uint256.Int {
	v, _ := uint256.FromHex("0x7fffffffffffffffffffffffffffffff")
	return v
}()

func checkAmount(v *uint256.Int) error {
	if v.Gt(i128Max) {
		return ErrInvalidAmount
	}
	return nil
}

// EncodeInterchainTransfer ABI-encodes an InterchainTransfer payload.
func EncodeInterchainTransfer(m InterchainTransfer) []byte {
	e := &abiEncoder{}
	e.uint256Word(uint256.NewInt(uint64(MessageTypeInterchainTransfer)))
	e.bytes32Word(m.TokenID)
	e.dynamicBytes(m.SourceAddress)
	e.dynamicBytes(m.DestinationAddress)
	e.uint256Word(m.Amount)
	e.dynamicBytes(m.Data)
	return e.finish()
}

// decodeInterchainTransferBody decodes and validates an InterchainTransfer
// payload (the discriminator word must already have been consumed by the
// caller, DecodeITSPayload).
func decodeInterchainTransferBody(d *abiDecoder) (InterchainTransfer, error) {
	var m InterchainTransfer
	tokenID, err := d.bytes32()
	if err != nil {
		return m, err
	}
	if tokenID == ([32]byte{}) {
		return m, ErrInvalidTokenId
	}
	src, err := d.dynamicBytes()
	if err != nil {
		return m, err
	}
	dst, err := d.dynamicBytes()
	if err != nil {
		return m, err
	}
	if len(dst) != 32 {
		return m, ErrInvalidDestinationAddress
	}
	amount, err := d.uint256()
	if err != nil {
		return m, err
	}
	if err := checkAmount(amount); err != nil {
		return m, err
	}
	data, err := d.dynamicBytes()
	if err != nil {
		return m, err
	}
	m.TokenID = tokenID
	m.SourceAddress = src
	m.DestinationAddress = dst
	m.Amount = amount
	m.Data = data
	return m, nil
}

// EncodeDeployInterchainToken ABI-encodes a DeployInterchainToken payload.
func EncodeDeployInterchainToken(m DeployInterchainToken) []byte {
	e := &abiEncoder{}
	e.uint256Word(uint256.NewInt(uint64(MessageTypeDeployInterchainToken)))
	e.bytes32Word(m.TokenID)
	e.dynamicString(m.Name)
	e.dynamicString(m.Symbol)
	e.uint8Word(m.Decimals)
	e.dynamicBytes(m.Minter)
	return e.finish()
}

func decodeDeployInterchainTokenBody(d *abiDecoder) (DeployInterchainToken, error) {
	var m DeployInterchainToken
	tokenID, err := d.bytes32()
	if err != nil {
		return m, err
	}
	if tokenID == ([32]byte{}) {
		return m, ErrInvalidTokenId
	}
	name, err := d.dynamicString()
	if err != nil {
		return m, err
	}
	symbol, err := d.dynamicString()
	if err != nil {
		return m, err
	}
	decimals, err := d.uint8()
	if err != nil {
		return m, err
	}
	minter, err := d.dynamicBytes()
	if err != nil {
		return m, err
	}
	m.TokenID = tokenID
	m.Name = name
	m.Symbol = symbol
	m.Decimals = decimals
	m.Minter = minter
	return m, nil
}

// EncodeRegisterTokenMetadata ABI-encodes a RegisterTokenMetadata payload
// (outbound only per spec.md §4.4, but decode is provided symmetrically
// for round-trip testing, invariant I6).
func EncodeRegisterTokenMetadata(m RegisterTokenMetadata) []byte {
	e := &abiEncoder{}
	e.uint256Word(uint256.NewInt(uint64(MessageTypeRegisterTokenMetadata)))
	e.dynamicBytes(m.TokenAddress)
	e.uint8Word(m.Decimals)
	return e.finish()
}

func decodeRegisterTokenMetadataBody(d *abiDecoder) (RegisterTokenMetadata, error) {
	var m RegisterTokenMetadata
	addr, err := d.dynamicBytes()
	if err != nil {
		return m, err
	}
	decimals, err := d.uint8()
	if err != nil {
		return m, err
	}
	m.TokenAddress = addr
	m.Decimals = decimals
	return m, nil
}

// ITSPayload is the decoded, tagged union of an ITS message body.
type ITSPayload struct {
	Type                   MessageType
	InterchainTransfer     *InterchainTransfer
	DeployInterchainToken  *DeployInterchainToken
	RegisterTokenMetadata  *RegisterTokenMetadata
}

// DecodeITSPayload decodes the leading discriminator and dispatches to the
// matching body decoder, enforcing the error taxonomy of spec.md §4.4.
func DecodeITSPayload(payload []byte) (ITSPayload, error) {
	if len(payload) < abiWordSize {
		return ITSPayload{}, ErrInsufficientMessageLength
	}
	d := newAbiDecoder(payload)
	typeWord, err := d.uint256()
	if err != nil {
		return ITSPayload{}, err
	}
	if !typeWord.IsUint64() || typeWord.Uint64() > math.MaxUint8 {
		return ITSPayload{}, ErrInvalidMessageType
	}
	switch MessageType(typeWord.Uint64()) {
	case MessageTypeInterchainTransfer:
		m, err := decodeInterchainTransferBody(d)
		if err != nil {
			return ITSPayload{}, err
		}
		return ITSPayload{Type: MessageTypeInterchainTransfer, InterchainTransfer: &m}, nil
	case MessageTypeDeployInterchainToken:
		m, err := decodeDeployInterchainTokenBody(d)
		if err != nil {
			return ITSPayload{}, err
		}
		return ITSPayload{Type: MessageTypeDeployInterchainToken, DeployInterchainToken: &m}, nil
	case MessageTypeLinkToken:
		return ITSPayload{}, ErrInvalidMessageType
	case MessageTypeRegisterTokenMetadata:
		m, err := decodeRegisterTokenMetadataBody(d)
		if err != nil {
			return ITSPayload{}, err
		}
		return ITSPayload{Type: MessageTypeRegisterTokenMetadata, RegisterTokenMetadata: &m}, nil
	default:
		return ITSPayload{}, ErrInvalidMessageType
	}
}

// EncodeSendToHub wraps an outbound inner payload for the Hub (spec.md
// §4.4): SendToHub{destination_chain, payload}.
func EncodeSendToHub(destinationChain string, payload []byte) []byte {
	e := &abiEncoder{}
	e.dynamicString(destinationChain)
	e.dynamicBytes(payload)
	return e.finish()
}

// DecodeReceiveFromHub unwraps an inbound Hub envelope:
// ReceiveFromHub{source_chain, payload}.
func DecodeReceiveFromHub(envelope []byte) (sourceChain string, payload []byte, err error) {
	if len(envelope) < 2*abiWordSize {
		return "", nil, ErrInsufficientMessageLength
	}
	d := newAbiDecoder(envelope)
	sourceChain, err = d.dynamicString()
	if err != nil {
		return "", nil, err
	}
	payload, err = d.dynamicBytes()
	if err != nil {
		return "", nil, err
	}
	return sourceChain, payload, nil
}
