package core_test

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"gatewaycore/core"
)

type fakeToken struct {
	name, symbol string
	decimals     uint8
	failTransfer bool
	failMint     bool
	failBurn     bool

	transfers []string
	minted    []string
	burned    []string
}

func (f *fakeToken) Transfer(from, to core.Address, amount *uint256.Int) error {
	if f.failTransfer {
		return errors.New("transfer failed")
	}
	f.transfers = append(f.transfers, from.String()+"->"+to.String()+":"+amount.String())
	return nil
}

func (f *fakeToken) Mint(to core.Address, amount *uint256.Int) error {
	if f.failMint {
		return errors.New("mint failed")
	}
	f.minted = append(f.minted, to.String()+":"+amount.String())
	return nil
}

func (f *fakeToken) Burn(from core.Address, amount *uint256.Int) error {
	if f.failBurn {
		return errors.New("burn failed")
	}
	f.burned = append(f.burned, from.String()+":"+amount.String())
	return nil
}

func (f *fakeToken) Decimals() uint8  { return f.decimals }
func (f *fakeToken) Name() string     { return f.name }
func (f *fakeToken) Symbol() string   { return f.symbol }

func TestTokenHandlerTakeGiveLockUnlock(t *testing.T) {
	tokenID := core.Hash{1}
	token := &fakeToken{name: "Wrapped", symbol: "WRP"}
	manager := &fakeToken{name: "Manager", symbol: "MGR"}
	th := core.NewTokenHandler(func(id core.Hash) (core.TokenContract, core.TokenContract, bool) {
		if id != tokenID {
			return nil, nil, false
		}
		return token, manager, true
	})
	cfg := core.TokenIdConfig{ManagerType: core.LockUnlock, TokenManagerAddress: core.Address{9}}

	sender := core.Address{1}
	require.NoError(t, th.Take(tokenID, cfg, sender, uint256.NewInt(10)))
	require.Len(t, token.transfers, 1)

	recipient := core.Address{2}
	require.NoError(t, th.Give(tokenID, cfg, recipient, uint256.NewInt(10)))
	require.Len(t, manager.transfers, 1)
}

func TestTokenHandlerTakeGiveNativeInterchain(t *testing.T) {
	tokenID := core.Hash{2}
	token := &fakeToken{}
	manager := &fakeToken{}
	th := core.NewTokenHandler(func(id core.Hash) (core.TokenContract, core.TokenContract, bool) {
		return token, manager, true
	})
	cfg := core.TokenIdConfig{ManagerType: core.NativeInterchainToken}

	require.NoError(t, th.Take(tokenID, cfg, core.Address{1}, uint256.NewInt(5)))
	require.Len(t, token.burned, 1)

	require.NoError(t, th.Give(tokenID, cfg, core.Address{2}, uint256.NewInt(5)))
	require.Len(t, manager.minted, 1)
}

func TestTokenHandlerRejectsZeroAmount(t *testing.T) {
	th := core.NewTokenHandler(func(core.Hash) (core.TokenContract, core.TokenContract, bool) {
		return &fakeToken{}, &fakeToken{}, true
	})
	err := th.Take(core.Hash{1}, core.TokenIdConfig{}, core.Address{1}, uint256.NewInt(0))
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeInvalidAmount, code)
}

func TestTokenHandlerUnknownTokenID(t *testing.T) {
	th := core.NewTokenHandler(func(core.Hash) (core.TokenContract, core.TokenContract, bool) {
		return nil, nil, false
	})
	err := th.Take(core.Hash{1}, core.TokenIdConfig{}, core.Address{1}, uint256.NewInt(1))
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeInvalidTokenId, code)
}

func TestTokenHandlerWrapsInvocationFailure(t *testing.T) {
	token := &fakeToken{failBurn: true}
	th := core.NewTokenHandler(func(core.Hash) (core.TokenContract, core.TokenContract, bool) {
		return token, &fakeToken{}, true
	})
	cfg := core.TokenIdConfig{ManagerType: core.NativeInterchainToken}
	err := th.Take(core.Hash{1}, cfg, core.Address{1}, uint256.NewInt(1))
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeTokenInvocationError, code)
}
