package core

import "go.uber.org/zap"

// Gateway is the public facade (C3): outbound call emission, inbound
// approval, execution validation, and signer rotation. It composes Auth
// (C1) and ApprovalStore (C2) behind the single surface applications and
// relayers call.
type Gateway struct {
	auth      *Auth
	approval  *ApprovalStore
	events    EventSink
	owner     *Ownable
	operator  *Operatable
	operators OperatorRegistry
	log       *zap.SugaredLogger
}

type GatewayConfig struct {
	Store    Store
	Events   EventSink
	Owner    *Ownable
	Operator *Operatable
	Clock    func() uint64
	Log      *zap.SugaredLogger

	// Operators is an optional multi-operator ACL collaborator (spec.md §1).
	// When set, its IsOperator is consulted alongside Operator for the
	// bypass_rotation_delay privilege check, letting a deployment delegate
	// "is this caller an operator" to an external registry instead of the
	// single Operatable address.
	Operators OperatorRegistry
}

func NewGateway(cfg GatewayConfig) *Gateway {
	if cfg.Events == nil {
		cfg.Events = NopEventSink{}
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Gateway{
		auth:      NewAuth(cfg.Store, log, cfg.Clock),
		approval:  NewApprovalStore(cfg.Store),
		events:    cfg.Events,
		owner:     cfg.Owner,
		operator:  cfg.Operator,
		operators: cfg.Operators,
		log:       log,
	}
}

// isOperator reports whether caller is an operator per either the single
// Operatable address or the optional OperatorRegistry collaborator.
func (g *Gateway) isOperator(caller Address) bool {
	if g.operator != nil && g.operator.IsOperator(caller) {
		return true
	}
	return g.operators != nil && g.operators.IsOperator(caller)
}

// Initialize seeds the signer history. See Auth.Initialize.
func (g *Gateway) Initialize(initialSigners WeightedSigners, previousSignersRetention, minimumRotationDelay uint64, domainSeparator Hash) error {
	return g.auth.Initialize(initialSigners, previousSignersRetention, minimumRotationDelay, domainSeparator)
}

// CallContract emits an outbound contract-call message. The core does not
// persist outbound state (spec.md §4.3): the event is the sole artifact.
func (g *Gateway) CallContract(caller Address, destinationChain, destinationAddress string, payload []byte) {
	payloadHash := keccak256(payload)
	g.events.Emit(TopicContractCalled, map[string]any{
		"caller":              caller.String(),
		"destination_chain":   destinationChain,
		"destination_address": destinationAddress,
		"payload_hash":        payloadHash.String(),
	})
}

// ApproveMessages validates proof against the current epoch's signer set
// and transitions each message Absent -> Approved, emitting
// MessageApproved only for messages that actually transitioned.
func (g *Gateway) ApproveMessages(messages []Message, proof Proof) error {
	if len(messages) == 0 {
		return ErrEmptyMessages
	}
	dataHash := HashApproveMessages(messages)
	isLatest, err := g.auth.ValidateProof(dataHash, proof)
	if err != nil {
		return err
	}
	if !isLatest {
		return ErrNotLatestSigners
	}

	for _, m := range messages {
		if g.approval.Approve(m) {
			g.events.Emit(TopicMessageApproved, map[string]any{
				"source_chain":     m.SourceChain,
				"message_id":       m.MessageID,
				"source_address":   m.SourceAddress,
				"contract_address": m.ContractAddress.String(),
				"payload_hash":     m.PayloadHash.String(),
			})
		}
	}
	return nil
}

// RotateSigners validates proof and delegates to Auth.RotateSigners.
// bypassRotationDelay is honored only when the proof was produced by the
// CURRENT signer set AND caller is an operator — either the configured
// Operatable address or, if set, the OperatorRegistry collaborator
// (spec.md §4.3, §9 Open Question — resolved operator-only in DESIGN.md).
func (g *Gateway) RotateSigners(caller Address, newSigners WeightedSigners, proof Proof, bypassRotationDelay bool) error {
	dataHash := HashRotateSigners(newSigners)
	isLatest, err := g.auth.ValidateProof(dataHash, proof)
	if err != nil {
		return err
	}

	enforceDelay := true
	if bypassRotationDelay {
		if !isLatest {
			return ErrNotLatestSigners
		}
		if !g.isOperator(caller) {
			return ErrNotOperator
		}
		enforceDelay = false
	}

	if err := g.auth.RotateSigners(newSigners, enforceDelay); err != nil {
		return err
	}
	hash := g.auth.signerSetHash(newSigners)
	g.events.Emit(TopicSignersRotated, map[string]any{
		"epoch":        g.auth.Epoch(),
		"signers_hash": hash.String(),
	})
	return nil
}

// ValidateMessage implements the "check before use" pattern an executable
// application calls from its own execute(): returns true iff caller
// matches the stored destination and the approval transitions to
// Executed.
func (g *Gateway) ValidateMessage(caller Address, sourceChain, messageID, sourceAddress string, payloadHash Hash) bool {
	dest, ok := g.approval.Destination(sourceChain, messageID)
	if !ok || dest != caller {
		return false
	}
	if !g.approval.Consume(sourceChain, messageID, sourceAddress, payloadHash) {
		return false
	}
	g.events.Emit(TopicMessageExecuted, map[string]any{
		"source_chain":   sourceChain,
		"message_id":     messageID,
		"source_address": sourceAddress,
		"payload_hash":   payloadHash.String(),
	})
	return true
}

func (g *Gateway) Epoch() uint64                               { return g.auth.Epoch() }
func (g *Gateway) EpochBySignersHash(h Hash) (uint64, bool)     { return g.auth.EpochBySignersHash(h) }
func (g *Gateway) SignersHashByEpoch(e uint64) (Hash, bool)     { return g.auth.SignersHashByEpoch(e) }
func (g *Gateway) ValidateProof(dataHash Hash, proof Proof) (bool, error) {
	return g.auth.ValidateProof(dataHash, proof)
}
func (g *Gateway) DomainSeparator() Hash            { return g.auth.DomainSeparator() }
func (g *Gateway) PreviousSignersRetention() uint64 { return g.auth.PreviousSignersRetention() }
func (g *Gateway) MinimumRotationDelay() uint64     { return g.auth.MinimumRotationDelay() }

// Auth exposes C1 for callers (e.g. ITS facade) that need raw proof
// validation without going through message approval.
func (g *Gateway) Auth() *Auth { return g.auth }

// HashApproveMessages is the data_hash a proof for ApproveMessages must
// cover, exported so callers (relayers, test fixtures) can build a proof
// without depending on package-internal hashing.
func HashApproveMessages(messages []Message) Hash {
	return keccak256([]byte("approve_messages"), serializeMessages(messages))
}

// HashRotateSigners is the data_hash a proof for RotateSigners must cover.
func HashRotateSigners(newSigners WeightedSigners) Hash {
	return keccak256([]byte("rotate_signers"), serializeWeightedSigners(newSigners))
}
