package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gatewaycore/core"
)

func TestCanonicalInterchainTokenIDIsDeterministic(t *testing.T) {
	chainHash := core.ChainNameHash("ethereum")
	tokenAddr := core.Address{0x11, 0x22}

	id1 := core.CanonicalInterchainTokenID(chainHash, tokenAddr)
	id2 := core.CanonicalInterchainTokenID(chainHash, tokenAddr)
	require.Equal(t, id1, id2, "token_id derivation must be a pure function of its inputs")
	require.NotEqual(t, core.Hash{}, id1)
}

func TestCanonicalInterchainTokenIDDiffersByChain(t *testing.T) {
	tokenAddr := core.Address{0x33}
	id1 := core.CanonicalInterchainTokenID(core.ChainNameHash("ethereum"), tokenAddr)
	id2 := core.CanonicalInterchainTokenID(core.ChainNameHash("avalanche"), tokenAddr)
	require.NotEqual(t, id1, id2)
}

func TestInterchainTokenIDDependsOnDeployerAndSalt(t *testing.T) {
	chainHash := core.ChainNameHash("ethereum")
	deployer := core.Address{0x01}
	salt1 := [32]byte{1}
	salt2 := [32]byte{2}

	id1 := core.InterchainTokenID(chainHash, deployer, salt1)
	id2 := core.InterchainTokenID(chainHash, deployer, salt2)
	require.NotEqual(t, id1, id2, "different salts must derive different token ids")

	other := core.Address{0x02}
	id3 := core.InterchainTokenID(chainHash, other, salt1)
	require.NotEqual(t, id1, id3, "different deployers must derive different token ids")
}

func TestCanonicalAndInterchainTokenIDsNeverCollide(t *testing.T) {
	chainHash := core.ChainNameHash("ethereum")
	addr := core.Address{0x05}
	canonical := core.CanonicalInterchainTokenID(chainHash, addr)
	interchain := core.InterchainTokenID(chainHash, addr, [32]byte{})
	require.NotEqual(t, canonical, interchain, "the salt-prefix separation must keep the two derivations disjoint")
}

type fixedDeriver struct{}

func (fixedDeriver) DeriveAddress(wasmHash core.Hash, salt core.Hash) core.Address {
	var a core.Address
	copy(a[:], wasmHash.Bytes())
	a[0] ^= salt[0]
	return a
}

func TestDeriveDeployedAddresses(t *testing.T) {
	tokenID := core.CanonicalInterchainTokenID(core.ChainNameHash("ethereum"), core.Address{1})
	addrs := core.DeriveDeployedAddresses(fixedDeriver{}, tokenID, core.Hash{0xA}, core.Hash{0xB})
	require.NotEqual(t, addrs.TokenAddress, addrs.TokenManagerAddress)
}
