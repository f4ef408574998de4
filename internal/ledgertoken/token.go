// Package ledgertoken is a demo TokenContract implementation: an
// in-memory mint/burn/transfer ledger so cmd/cli and cmd/gatewayd have a
// concrete collaborator to hand core.NewTokenHandler, grounded on the
// teacher's BalanceTable (core/Tokens/base.go) balance-map pattern,
// generalized from uint64 to uint256.Int to match this core's amounts.
package ledgertoken

import (
	"sync"

	"github.com/holiman/uint256"

	"gatewaycore/core"
)

// Token is one mintable/burnable/transferable balance table.
type Token struct {
	mu       sync.RWMutex
	name     string
	symbol   string
	decimals uint8
	balances map[core.Address]*uint256.Int
}

// NewToken creates an empty-balance token.
func NewToken(name, symbol string, decimals uint8) *Token {
	return &Token{name: name, symbol: symbol, decimals: decimals, balances: make(map[core.Address]*uint256.Int)}
}

func (t *Token) Name() string    { return t.name }
func (t *Token) Symbol() string  { return t.symbol }
func (t *Token) Decimals() uint8 { return t.decimals }

func (t *Token) Balance(addr core.Address) *uint256.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if b, ok := t.balances[addr]; ok {
		return new(uint256.Int).Set(b)
	}
	return uint256.NewInt(0)
}

func (t *Token) Transfer(from, to core.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	bal := t.balances[from]
	if bal == nil || bal.Lt(amount) {
		return errInsufficientBalance
	}
	t.balances[from] = new(uint256.Int).Sub(bal, amount)
	t.credit(to, amount)
	return nil
}

func (t *Token) Mint(to core.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(to, amount)
	return nil
}

func (t *Token) Burn(from core.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	bal := t.balances[from]
	if bal == nil || bal.Lt(amount) {
		return errInsufficientBalance
	}
	t.balances[from] = new(uint256.Int).Sub(bal, amount)
	return nil
}

// credit assumes the caller already holds t.mu.
func (t *Token) credit(addr core.Address, amount *uint256.Int) {
	bal, ok := t.balances[addr]
	if !ok {
		bal = uint256.NewInt(0)
	}
	t.balances[addr] = new(uint256.Int).Add(bal, amount)
}

type insufficientBalanceError struct{}

func (insufficientBalanceError) Error() string { return "ledgertoken: insufficient balance" }

var errInsufficientBalance = insufficientBalanceError{}

// Registry binds token_id values to a (token, manager) TokenContract pair,
// implementing core.TokenLookup via Lookup. One Token plays both roles for
// NativeInterchainToken custody; LockUnlock custody uses two distinct
// Tokens (the wrapped asset and its manager's custody balance).
type Registry struct {
	mu    sync.RWMutex
	pairs map[core.Hash]pair
}

type pair struct {
	token, manager *Token
}

func NewRegistry() *Registry {
	return &Registry{pairs: make(map[core.Hash]pair)}
}

func (r *Registry) Register(tokenID core.Hash, token, manager *Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[tokenID] = pair{token: token, manager: manager}
}

func (r *Registry) Token(tokenID core.Hash) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pairs[tokenID]
	if !ok {
		return nil, false
	}
	return p.token, true
}

// Lookup implements core.TokenLookup.
func (r *Registry) Lookup(tokenID core.Hash) (token, manager core.TokenContract, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pairs[tokenID]
	if !ok {
		return nil, nil, false
	}
	return p.token, p.manager, true
}
