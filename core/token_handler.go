package core

import "github.com/holiman/uint256"

// token_handler.go implements C7: local take/give side effects for a
// registered token, dispatching on TokenManagerType (spec.md §4.7).
// Grounded on core/token_management.go's TokenManager.{Transfer,Mint,Burn}
// dispatch against a token registry; here the registry key is the
// token_id and the dispatch target is the token/manager pair an ITS
// registration points at.

// TokenContract is the external token-contract standard this core
// consumes (spec.md §1: "assumed to provide transfer, mint, burn,
// decimals, name, symbol").
type TokenContract interface {
	Transfer(from, to Address, amount *uint256.Int) error
	Mint(to Address, amount *uint256.Int) error
	Burn(from Address, amount *uint256.Int) error
	Decimals() uint8
	Name() string
	Symbol() string
}

// TokenLookup resolves a registered token_id to the token contract and
// its manager contract. For LockUnlock tokens the manager custodies
// locked balance; for NativeInterchainToken the manager is the mint/burn
// authority.
type TokenLookup func(tokenID Hash) (token, manager TokenContract, ok bool)

// TokenHandler dispatches take (outbound) and give (inbound) side
// effects against the registered token/manager pair for a token_id.
type TokenHandler struct {
	lookup TokenLookup
}

func NewTokenHandler(lookup TokenLookup) *TokenHandler {
	return &TokenHandler{lookup: lookup}
}

// Take debits amount from sender on the outbound side: burn for
// NativeInterchainToken, lock (transfer to the manager) for LockUnlock.
func (th *TokenHandler) Take(tokenID Hash, cfg TokenIdConfig, sender Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	token, manager, ok := th.lookup(tokenID)
	if !ok {
		return ErrInvalidTokenId
	}
	var err error
	switch cfg.ManagerType {
	case NativeInterchainToken:
		err = token.Burn(sender, amount)
	case LockUnlock:
		err = token.Transfer(sender, cfg.TokenManagerAddress, amount)
	}
	_ = manager
	if err != nil {
		return newErr(CodeTokenInvocationError, err)
	}
	return nil
}

// Give credits amount to recipient on the inbound side: mint for
// NativeInterchainToken, unlock (transfer from the manager) for
// LockUnlock.
func (th *TokenHandler) Give(tokenID Hash, cfg TokenIdConfig, recipient Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return ErrInvalidAmount
	}
	token, manager, ok := th.lookup(tokenID)
	if !ok {
		return ErrInvalidTokenId
	}
	var err error
	switch cfg.ManagerType {
	case NativeInterchainToken:
		err = manager.Mint(recipient, amount)
	case LockUnlock:
		err = manager.Transfer(cfg.TokenManagerAddress, recipient, amount)
	}
	_ = token
	if err != nil {
		return newErr(CodeTokenInvocationError, err)
	}
	return nil
}
