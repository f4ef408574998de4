package core

import (
	"errors"
	"fmt"
)

// Code is a stable numeric error code, per spec.md §7: "errors surface as
// typed numeric codes; no string-based error parsing."
type Code uint32

const (
	// Auth errors (C1).
	CodeInvalidSignersHash Code = iota + 1
	CodeOutdatedSigners
	CodeLowSignaturesWeight
	CodeInvalidSignature
	CodeInvalidSignersOrdering
	CodeDuplicateSigners
	CodeInsufficientRotationDelay
	CodeNotLatestSigners

	// Gateway errors (C2/C3), continuing the auth space per spec.md §7.
	CodeEmptyMessages
	CodeMessageAlreadyExecuted

	// ITS errors (C4-C8).
	CodeTrustedChainAlreadySet
	CodeTrustedChainNotSet
	CodeUntrustedChain
	CodeInvalidMessageType
	CodeInvalidPayload
	CodeInsufficientMessageLength
	CodeAbiDecodeFailed
	CodeInvalidAmount
	CodeInvalidUtf8
	CodeInvalidMinter
	CodeInvalidDestinationAddress
	CodeInvalidTokenId
	CodeTokenAlreadyRegistered
	CodeInvalidFlowLimit
	CodeFlowLimitExceeded
	CodeFlowAmountOverflow
	CodeNotApproved
	CodeContractPaused

	// Supplemented beyond spec.md's abridged list, restored from
	// original_source/contracts/stellar-interchain-token-service/src/error.rs.
	CodeNotHubChain
	CodeNotHubAddress
	CodeInvalidTokenName
	CodeInvalidTokenSymbol
	CodeInvalidTokenDecimals
	CodeTokenInvocationError
	CodeNotOwner
	CodeNotOperator
	CodeMigrationNotAllowed
	CodeAlreadyInitialized
)

var codeNames = map[Code]string{
	CodeInvalidSignersHash:        "InvalidSignersHash",
	CodeOutdatedSigners:           "OutdatedSigners",
	CodeLowSignaturesWeight:       "LowSignaturesWeight",
	CodeInvalidSignature:          "InvalidSignature",
	CodeInvalidSignersOrdering:    "InvalidSignersOrdering",
	CodeDuplicateSigners:          "DuplicateSigners",
	CodeInsufficientRotationDelay: "InsufficientRotationDelay",
	CodeNotLatestSigners:          "NotLatestSigners",
	CodeEmptyMessages:             "EmptyMessages",
	CodeMessageAlreadyExecuted:    "MessageAlreadyExecuted",
	CodeTrustedChainAlreadySet:    "TrustedChainAlreadySet",
	CodeTrustedChainNotSet:        "TrustedChainNotSet",
	CodeUntrustedChain:            "UntrustedChain",
	CodeInvalidMessageType:        "InvalidMessageType",
	CodeInvalidPayload:            "InvalidPayload",
	CodeInsufficientMessageLength: "InsufficientMessageLength",
	CodeAbiDecodeFailed:           "AbiDecodeFailed",
	CodeInvalidAmount:             "InvalidAmount",
	CodeInvalidUtf8:               "InvalidUtf8",
	CodeInvalidMinter:             "InvalidMinter",
	CodeInvalidDestinationAddress: "InvalidDestinationAddress",
	CodeInvalidTokenId:            "InvalidTokenId",
	CodeTokenAlreadyRegistered:    "TokenAlreadyRegistered",
	CodeInvalidFlowLimit:          "InvalidFlowLimit",
	CodeFlowLimitExceeded:         "FlowLimitExceeded",
	CodeFlowAmountOverflow:        "FlowAmountOverflow",
	CodeNotApproved:               "NotApproved",
	CodeContractPaused:            "ContractPaused",
	CodeNotHubChain:               "NotHubChain",
	CodeNotHubAddress:             "NotHubAddress",
	CodeInvalidTokenName:          "InvalidTokenName",
	CodeInvalidTokenSymbol:        "InvalidTokenSymbol",
	CodeInvalidTokenDecimals:      "InvalidTokenDecimals",
	CodeTokenInvocationError:      "TokenInvocationError",
	CodeNotOwner:                  "NotOwner",
	CodeNotOperator:               "NotOperator",
	CodeMigrationNotAllowed:       "MigrationNotAllowed",
	CodeAlreadyInitialized:        "AlreadyInitialized",
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", uint32(c))
}

// Error is the single typed error returned by every state-mutating
// operation in this package. Every error is fatal to the calling
// transaction per spec.md §7: there is no local recovery.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code.String()
}

func (e *Error) Unwrap() error { return e.Err }

// newErr builds an *Error, optionally wrapping a lower-level cause.
func newErr(code Code, cause error) *Error {
	return &Error{Code: code, Err: cause}
}

// CodeOf extracts the Code from err if it (or something it wraps) is an
// *Error produced by this package.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
