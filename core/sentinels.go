package core

// Sentinel errors for the common case where no further wrapped cause is
// useful. Call sites that do have a cause use newErr(code, cause) directly.
var (
	ErrInvalidSignersHash        = newErr(CodeInvalidSignersHash, nil)
	ErrOutdatedSigners           = newErr(CodeOutdatedSigners, nil)
	ErrLowSignaturesWeight       = newErr(CodeLowSignaturesWeight, nil)
	ErrInvalidSignature          = newErr(CodeInvalidSignature, nil)
	ErrInvalidSignersOrdering    = newErr(CodeInvalidSignersOrdering, nil)
	ErrDuplicateSigners          = newErr(CodeDuplicateSigners, nil)
	ErrInsufficientRotationDelay = newErr(CodeInsufficientRotationDelay, nil)
	ErrNotLatestSigners          = newErr(CodeNotLatestSigners, nil)

	ErrEmptyMessages          = newErr(CodeEmptyMessages, nil)
	ErrMessageAlreadyExecuted = newErr(CodeMessageAlreadyExecuted, nil)

	ErrTrustedChainAlreadySet    = newErr(CodeTrustedChainAlreadySet, nil)
	ErrTrustedChainNotSet        = newErr(CodeTrustedChainNotSet, nil)
	ErrUntrustedChain            = newErr(CodeUntrustedChain, nil)
	ErrInvalidMessageType        = newErr(CodeInvalidMessageType, nil)
	ErrInvalidPayload            = newErr(CodeInvalidPayload, nil)
	ErrInsufficientMessageLength = newErr(CodeInsufficientMessageLength, nil)
	ErrAbiDecodeFailed           = newErr(CodeAbiDecodeFailed, nil)
	ErrInvalidAmount             = newErr(CodeInvalidAmount, nil)
	ErrInvalidUtf8               = newErr(CodeInvalidUtf8, nil)
	ErrInvalidMinter             = newErr(CodeInvalidMinter, nil)
	ErrInvalidDestinationAddress = newErr(CodeInvalidDestinationAddress, nil)
	ErrInvalidTokenId            = newErr(CodeInvalidTokenId, nil)
	ErrTokenAlreadyRegistered    = newErr(CodeTokenAlreadyRegistered, nil)
	ErrInvalidFlowLimit          = newErr(CodeInvalidFlowLimit, nil)
	ErrFlowLimitExceeded         = newErr(CodeFlowLimitExceeded, nil)
	ErrFlowAmountOverflow        = newErr(CodeFlowAmountOverflow, nil)
	ErrNotApproved               = newErr(CodeNotApproved, nil)
	ErrContractPaused            = newErr(CodeContractPaused, nil)

	ErrNotHubChain          = newErr(CodeNotHubChain, nil)
	ErrNotHubAddress        = newErr(CodeNotHubAddress, nil)
	ErrInvalidTokenName     = newErr(CodeInvalidTokenName, nil)
	ErrInvalidTokenSymbol   = newErr(CodeInvalidTokenSymbol, nil)
	ErrInvalidTokenDecimals = newErr(CodeInvalidTokenDecimals, nil)
	ErrTokenInvocationError = newErr(CodeTokenInvocationError, nil)
	ErrNotOwner             = newErr(CodeNotOwner, nil)
	ErrNotOperator          = newErr(CodeNotOperator, nil)
	ErrMigrationNotAllowed  = newErr(CodeMigrationNotAllowed, nil)
)
