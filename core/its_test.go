package core_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"gatewaycore/core"
	"gatewaycore/internal/testutil"
)

type itsFixture struct {
	its     *core.ITS
	gateway *core.Gateway
	sink    *recordingSink
	owner   core.Address
	kps     []testutil.KeyPair
	ws      core.WeightedSigners
	tokens  map[core.Hash]struct{ token, manager *fakeToken }
}

func newITSFixture(t *testing.T, clock *testutil.Clock) *itsFixture {
	t.Helper()
	store := testutil.NewStore(clock)
	sink := &recordingSink{}
	owner := core.Address{1}
	operator := core.Address{2}

	gw := core.NewGateway(core.GatewayConfig{
		Store:    store,
		Events:   sink,
		Owner:    core.NewOwnable(owner),
		Operator: core.NewOperatable(operator),
		Clock:    clock.Now,
	})
	kps := testutil.GenerateSigners(1)
	ws := testutil.WeightedSigners(kps, 1, [32]byte{1})
	require.NoError(t, gw.Initialize(ws, 5, 0, core.Hash{0x55}))

	tokensByID := make(map[core.Hash]struct{ token, manager *fakeToken })
	th := core.NewTokenHandler(func(id core.Hash) (core.TokenContract, core.TokenContract, bool) {
		pair, ok := tokensByID[id]
		if !ok {
			return nil, nil, false
		}
		return pair.token, pair.manager, true
	})
	fl := core.NewFlowLimiter(store, clock.Now, core.NewOwnable(owner), sink)

	its := core.NewITS(core.ITSConfig{
		Store:           store,
		Gateway:         gw,
		TokenHandler:    th,
		FlowLimiter:     fl,
		Events:          sink,
		Owner:           core.NewOwnable(owner),
		ChainName:       "stellar",
		HubChainName:    "axelar",
		HubChainAddress: "hub-contract",
	})

	return &itsFixture{its: its, gateway: gw, sink: sink, owner: owner, kps: kps, ws: ws, tokens: tokensByID}
}

func (f *itsFixture) approveInbound(t *testing.T, caller core.Address, messageID string, envelope []byte) {
	t.Helper()
	msg := core.Message{
		SourceChain:     "axelar",
		MessageID:       messageID,
		SourceAddress:   "hub-contract",
		ContractAddress: caller,
		PayloadHash:     coreKeccak(envelope),
	}
	dataHash := core.HashApproveMessages([]core.Message{msg})
	proof := testutil.SignAll(f.ws, f.kps, f.gateway.DomainSeparator(), dataHash)
	require.NoError(t, f.gateway.ApproveMessages([]core.Message{msg}, proof))
}

func TestITSRegisterCanonicalTokenRejectsDuplicate(t *testing.T) {
	clock := testutil.NewClock(0)
	f := newITSFixture(t, clock)
	tokenAddr := core.Address{7}
	_, err := f.its.RegisterCanonicalToken(f.owner, tokenAddr, core.Address{8})
	require.NoError(t, err)

	_, err = f.its.RegisterCanonicalToken(f.owner, tokenAddr, core.Address{8})
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeTokenAlreadyRegistered, code)
}

func TestITSTrustedChainRequiresOwner(t *testing.T) {
	clock := testutil.NewClock(0)
	f := newITSFixture(t, clock)
	err := f.its.SetTrustedChain(core.Address{99}, "ethereum")
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeNotOwner, code)

	require.NoError(t, f.its.SetTrustedChain(f.owner, "ethereum"))
	require.True(t, f.its.IsTrustedChain("ethereum"))

	err = f.its.SetTrustedChain(f.owner, "ethereum")
	code, ok = core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeTrustedChainAlreadySet, code)

	require.NoError(t, f.its.RemoveTrustedChain(f.owner, "ethereum"))
	require.False(t, f.its.IsTrustedChain("ethereum"))
}

func TestITSInterchainTransferOutbound(t *testing.T) {
	clock := testutil.NewClock(0)
	f := newITSFixture(t, clock)
	require.NoError(t, f.its.SetTrustedChain(f.owner, "ethereum"))

	tokenID, err := f.its.RegisterCanonicalToken(f.owner, core.Address{7}, core.Address{8})
	require.NoError(t, err)

	token := &fakeToken{}
	manager := &fakeToken{}
	f.tokens[tokenID] = struct{ token, manager *fakeToken }{token, manager}

	sender := core.Address{3}
	dest := make([]byte, 32)
	dest[31] = 0x42

	require.NoError(t, f.its.InterchainTransfer(sender, tokenID, "ethereum", dest, uint256.NewInt(500), nil))
	require.Len(t, token.transfers, 1, "lock-unlock take transfers to the manager")
	require.Contains(t, f.sink.events, "interchain_transfer_sent")
	require.Contains(t, f.sink.events, "contract_called")
}

func TestITSInterchainTransferRejectsUntrustedChain(t *testing.T) {
	clock := testutil.NewClock(0)
	f := newITSFixture(t, clock)
	tokenID, err := f.its.RegisterCanonicalToken(f.owner, core.Address{7}, core.Address{8})
	require.NoError(t, err)
	f.tokens[tokenID] = struct{ token, manager *fakeToken }{&fakeToken{}, &fakeToken{}}

	err = f.its.InterchainTransfer(core.Address{3}, tokenID, "unknown-chain", make([]byte, 32), uint256.NewInt(1), nil)
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeUntrustedChain, code)
}

func TestITSInterchainTransferRejectsHubChainAsDestinationEvenIfTrusted(t *testing.T) {
	clock := testutil.NewClock(0)
	f := newITSFixture(t, clock)
	// An owner mistakenly trusting the Hub chain name itself must not
	// make it a valid destination (spec.md §4.8 scenario 6).
	require.NoError(t, f.its.SetTrustedChain(f.owner, "axelar"))

	tokenID, err := f.its.RegisterCanonicalToken(f.owner, core.Address{7}, core.Address{8})
	require.NoError(t, err)
	f.tokens[tokenID] = struct{ token, manager *fakeToken }{&fakeToken{}, &fakeToken{}}

	err = f.its.InterchainTransfer(core.Address{3}, tokenID, "axelar", make([]byte, 32), uint256.NewInt(1), nil)
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeUntrustedChain, code)

	err = f.its.DeployRemoteInterchainToken(core.Address{3}, [32]byte{9}, "Example", "EXM", 8, nil, "axelar")
	code, ok = core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeUntrustedChain, code)
}

func TestITSPausedBlocksStateMutatingOps(t *testing.T) {
	clock := testutil.NewClock(0)
	f := newITSFixture(t, clock)
	require.NoError(t, f.its.Pause(f.owner))
	require.True(t, f.its.Paused())

	_, err := f.its.RegisterCanonicalToken(f.owner, core.Address{1}, core.Address{2})
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeContractPaused, code)

	require.NoError(t, f.its.Unpause(f.owner))
	_, err = f.its.RegisterCanonicalToken(f.owner, core.Address{1}, core.Address{2})
	require.NoError(t, err)
}

func TestITSExecuteInboundTransfer(t *testing.T) {
	clock := testutil.NewClock(0)
	f := newITSFixture(t, clock)
	require.NoError(t, f.its.SetTrustedChain(f.owner, "ethereum"))

	tokenID, err := f.its.RegisterCanonicalToken(f.owner, core.Address{7}, core.Address{8})
	require.NoError(t, err)
	token := &fakeToken{}
	manager := &fakeToken{}
	f.tokens[tokenID] = struct{ token, manager *fakeToken }{token, manager}

	recipient := make([]byte, 32)
	recipient[31] = 0x09
	inner := core.EncodeInterchainTransfer(core.InterchainTransfer{
		TokenID:            tokenID,
		SourceAddress:      []byte("remote-sender"),
		DestinationAddress: recipient,
		Amount:             uint256.NewInt(250),
	})
	envelope := core.EncodeSendToHub("ethereum", inner)

	caller := core.Address{4}
	f.approveInbound(t, caller, "inbound-1", envelope)

	require.NoError(t, f.its.Execute(caller, "axelar", "inbound-1", "hub-contract", envelope))
	require.Len(t, manager.transfers, 1, "lock-unlock give transfers from the manager")
	require.Contains(t, f.sink.events, "interchain_transfer_received")
}

func TestITSExecuteRejectsWrongHubAddress(t *testing.T) {
	clock := testutil.NewClock(0)
	f := newITSFixture(t, clock)
	err := f.its.Execute(core.Address{1}, "axelar", "m1", "not-the-hub", []byte{1, 2, 3})
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeNotHubAddress, code)
}

func TestITSExecuteRejectsWrongHubChain(t *testing.T) {
	clock := testutil.NewClock(0)
	f := newITSFixture(t, clock)
	err := f.its.Execute(core.Address{1}, "not-axelar", "m1", "hub-contract", []byte{1, 2, 3})
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeNotHubChain, code)
}

func coreKeccak(payload []byte) core.Hash {
	// Mirrors Gateway.ValidateMessage's own hash of the payload; exercised
	// indirectly through its.Execute in production, recomputed here only to
	// build the matching approval record for the fixture.
	return core.HashPayload(payload)
}
