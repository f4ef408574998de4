package core

import "go.uber.org/zap"

// Event topic names, literal per spec.md §6.
const (
	TopicContractCalled               = "contract_called"
	TopicMessageApproved               = "message_approved"
	TopicMessageExecuted                = "message_executed"
	TopicSignersRotated                = "signers_rotated"
	TopicTrustedChainSet                = "trusted_chain_set"
	TopicTrustedChainRemoved            = "trusted_chain_removed"
	TopicTokenIdClaimed                 = "token_id_claimed"
	TopicInterchainTokenDeployed         = "interchain_token_deployed"
	TopicInterchainTokenDeploymentStarted = "interchain_token_deployment_started"
	TopicInterchainTransferSent          = "interchain_transfer_sent"
	TopicInterchainTransferReceived      = "interchain_transfer_received"
	TopicFlowLimitSet                   = "flow_limit_set"
	TopicPaused                         = "paused"
	TopicUnpaused                       = "unpaused"
)

// EventSink receives events emitted by Gateway/ITS operations. The core
// does not persist outbound events itself (spec.md §4.3: "the emitted
// event is the sole outbound artifact"); it only hands them to a sink. The
// host's event bus is an external collaborator per spec.md §1.
type EventSink interface {
	Emit(topic string, fields map[string]any)
}

// ZapEventSink emits events as structured log lines, grounded on
// core/cross_chain.go's zap.L().Sugar() logging convention.
type ZapEventSink struct {
	log *zap.SugaredLogger
}

func NewZapEventSink(log *zap.SugaredLogger) *ZapEventSink {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ZapEventSink{log: log}
}

func (z *ZapEventSink) Emit(topic string, fields map[string]any) {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	z.log.Infow(topic, args...)
}

// NopEventSink discards events; used in tests that only assert state.
type NopEventSink struct{}

func (NopEventSink) Emit(string, map[string]any) {}
