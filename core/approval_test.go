package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gatewaycore/core"
	"gatewaycore/internal/testutil"
)

func sampleMessage() core.Message {
	return core.Message{
		SourceChain:     "ethereum",
		MessageID:       "0x1",
		SourceAddress:   "0xSourceContract",
		ContractAddress: core.Address{42},
		PayloadHash:     core.Hash{0x01},
	}
}

func TestApprovalLifecycle(t *testing.T) {
	clock := testutil.NewClock(0)
	store := testutil.NewStore(clock)
	as := core.NewApprovalStore(store)

	msg := sampleMessage()
	require.True(t, as.Approve(msg))
	require.False(t, as.Approve(msg), "second approval is a no-op")

	require.False(t, as.IsExecuted(msg.SourceChain, msg.MessageID))
	require.True(t, as.Consume(msg.SourceChain, msg.MessageID, msg.SourceAddress, msg.PayloadHash))
	require.True(t, as.IsExecuted(msg.SourceChain, msg.MessageID))

	require.False(t, as.Consume(msg.SourceChain, msg.MessageID, msg.SourceAddress, msg.PayloadHash), "executed is terminal")
}

func TestApprovalConsumeRejectsMismatch(t *testing.T) {
	clock := testutil.NewClock(0)
	store := testutil.NewStore(clock)
	as := core.NewApprovalStore(store)

	msg := sampleMessage()
	require.True(t, as.Approve(msg))
	require.False(t, as.Consume(msg.SourceChain, msg.MessageID, msg.SourceAddress, core.Hash{0xFF}))
	require.False(t, as.Consume(msg.SourceChain, msg.MessageID, "someone-else", msg.PayloadHash))
}

func TestApprovalConsumeWithoutApprovalFails(t *testing.T) {
	clock := testutil.NewClock(0)
	store := testutil.NewStore(clock)
	as := core.NewApprovalStore(store)
	require.False(t, as.Consume("ethereum", "0x2", "addr", core.Hash{}))
}

func TestApprovalDestination(t *testing.T) {
	clock := testutil.NewClock(0)
	store := testutil.NewStore(clock)
	as := core.NewApprovalStore(store)

	msg := sampleMessage()
	_, ok := as.Destination(msg.SourceChain, msg.MessageID)
	require.False(t, ok)

	as.Approve(msg)
	dest, ok := as.Destination(msg.SourceChain, msg.MessageID)
	require.True(t, ok)
	require.Equal(t, msg.ContractAddress, dest)
}
