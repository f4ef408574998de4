package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gatewaycore/core"
	"gatewaycore/internal/testutil"
)

type recordingSink struct {
	events []string
	fields []map[string]any
}

func (r *recordingSink) Emit(topic string, fields map[string]any) {
	r.events = append(r.events, topic)
	r.fields = append(r.fields, fields)
}

func newTestGateway(t *testing.T, clock *testutil.Clock, owner, operator core.Address) (*core.Gateway, *recordingSink) {
	t.Helper()
	store := testutil.NewStore(clock)
	sink := &recordingSink{}
	gw := core.NewGateway(core.GatewayConfig{
		Store:    store,
		Events:   sink,
		Owner:    core.NewOwnable(owner),
		Operator: core.NewOperatable(operator),
		Clock:    clock.Now,
	})
	return gw, sink
}

func TestGatewayApproveAndValidateMessage(t *testing.T) {
	clock := testutil.NewClock(0)
	owner := core.Address{1}
	operator := core.Address{2}
	gw, sink := newTestGateway(t, clock, owner, operator)

	kps := testutil.GenerateSigners(3)
	ws := testutil.WeightedSigners(kps, 2, [32]byte{1})
	require.NoError(t, gw.Initialize(ws, 1, 0, core.Hash{0x01}))

	dest := core.Address{9}
	msg := core.Message{
		SourceChain:     "ethereum",
		MessageID:       "msg-1",
		SourceAddress:   "0xabc",
		ContractAddress: dest,
		PayloadHash:     core.Hash{0x77},
	}
	dataHash := core.HashApproveMessages([]core.Message{msg})
	proof := testutil.SignAll(ws, kps, gw.DomainSeparator(), dataHash)

	require.NoError(t, gw.ApproveMessages([]core.Message{msg}, proof))
	require.Contains(t, sink.events, "message_approved")

	ok := gw.ValidateMessage(dest, msg.SourceChain, msg.MessageID, msg.SourceAddress, msg.PayloadHash)
	require.True(t, ok)
	require.Contains(t, sink.events, "message_executed")

	// Wrong caller does not consume.
	msg2 := msg
	msg2.MessageID = "msg-2"
	dataHash2 := core.HashApproveMessages([]core.Message{msg2})
	proof2 := testutil.SignAll(ws, kps, gw.DomainSeparator(), dataHash2)
	require.NoError(t, gw.ApproveMessages([]core.Message{msg2}, proof2))
	require.False(t, gw.ValidateMessage(core.Address{99}, msg2.SourceChain, msg2.MessageID, msg2.SourceAddress, msg2.PayloadHash))
}

func TestGatewayApproveMessagesRejectsEmpty(t *testing.T) {
	clock := testutil.NewClock(0)
	gw, _ := newTestGateway(t, clock, core.Address{1}, core.Address{2})
	kps := testutil.GenerateSigners(1)
	ws := testutil.WeightedSigners(kps, 1, [32]byte{1})
	require.NoError(t, gw.Initialize(ws, 0, 0, core.Hash{1}))

	err := gw.ApproveMessages(nil, core.Proof{})
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeEmptyMessages, code)
}

func TestGatewayRotateSignersBypassRequiresOperator(t *testing.T) {
	clock := testutil.NewClock(0)
	owner := core.Address{1}
	operator := core.Address{2}
	gw, _ := newTestGateway(t, clock, owner, operator)

	kps1 := testutil.GenerateSigners(1)
	ws1 := testutil.WeightedSigners(kps1, 1, [32]byte{1})
	require.NoError(t, gw.Initialize(ws1, 1, 10_000, core.Hash{1}))

	kps2 := testutil.GenerateSigners(1)
	ws2 := testutil.WeightedSigners(kps2, 1, [32]byte{2})
	dataHash := core.HashRotateSigners(ws2)
	proof := testutil.SignAll(ws1, kps1, gw.DomainSeparator(), dataHash)

	err := gw.RotateSigners(core.Address{77}, ws2, proof, true)
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeNotOperator, code)

	require.NoError(t, gw.RotateSigners(operator, ws2, proof, true))
	require.Equal(t, uint64(2), gw.Epoch())
}

func TestGatewayCallContractEmitsEvent(t *testing.T) {
	clock := testutil.NewClock(0)
	gw, sink := newTestGateway(t, clock, core.Address{1}, core.Address{2})
	gw.CallContract(core.Address{5}, "avalanche", "0xdead", []byte("payload"))
	require.Contains(t, sink.events, "contract_called")
}
