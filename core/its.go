package core

import (
	"encoding/hex"

	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// its.go implements C8: the Interchain Token Service facade (spec.md §4.8),
// routing every cross-chain operation through the Gateway (C3) and gating
// state-mutating calls on Pausable and the trusted-chain allowlist. The
// Hub chain/address check (NotHubChain/NotHubAddress) is supplemented from
// original_source/contracts/stellar-interchain-token-service/src/error.rs:
// this ITS only accepts inbound messages relayed by its configured Hub.

const (
	prefixTrustedChain = "its:trusted_chain:"
	prefixTokenConfig  = "its:token_config:"
)

// ITSConfig wires an ITS facade to its collaborators. Gateway, TokenHandler
// and FlowLimiter are constructed independently and passed in, matching
// spec.md §1's "composed of independently testable components" framing.
type ITSConfig struct {
	Store        Store
	Gateway      *Gateway
	TokenHandler *TokenHandler
	FlowLimiter  *FlowLimiter
	Events       EventSink
	Owner        *Ownable
	Log          *zap.SugaredLogger

	// Gas is the gas-payment accounting collaborator (spec.md §6). Optional:
	// when nil, outbound transfers are not metered. When set, a failed
	// PayGas aborts the transfer before any token custody is moved.
	Gas GasService
	// Upgrader performs the host-side contract upgrade (spec.md §9's
	// Upgradable surface); optional, consulted only by Upgrade.
	Upgrader Upgrader

	// ChainName is this ITS's own chain name, hashed into canonical and
	// interchain token_id derivation (spec.md §4.5).
	ChainName string
	// HubChainName/HubChainAddress identify the Axelar-style Hub this ITS
	// exchanges messages through; every inbound message must originate
	// from this chain/address pair, and every outbound message is routed
	// there wrapped in a SendToHub envelope (spec.md §4.4).
	HubChainName    string
	HubChainAddress string
}

// ITS is the Interchain Token Service facade (C8).
type ITS struct {
	store    Store
	gateway  *Gateway
	tokens   *TokenHandler
	flow     *FlowLimiter
	events   EventSink
	owner    *Ownable
	pausable *Pausable
	log      *zap.SugaredLogger

	chainNameHash   Hash
	hubChainName    string
	hubChainAddress string

	gas      GasService
	upgrader Upgrader
}

func NewITS(cfg ITSConfig) *ITS {
	if cfg.Events == nil {
		cfg.Events = NopEventSink{}
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ITS{
		store:           cfg.Store,
		gateway:         cfg.Gateway,
		tokens:          cfg.TokenHandler,
		flow:            cfg.FlowLimiter,
		events:          cfg.Events,
		owner:           cfg.Owner,
		pausable:        NewPausable(cfg.Events),
		log:             log,
		chainNameHash:   ChainNameHash(cfg.ChainName),
		hubChainName:    cfg.HubChainName,
		hubChainAddress: cfg.HubChainAddress,
		gas:             cfg.Gas,
		upgrader:        cfg.Upgrader,
	}
}

// Upgrade delegates to the configured Upgrader collaborator (spec.md §9's
// Upgradable surface); owner-gated like every other administrative ITS
// operation. Returns ErrNotApproved if no Upgrader was configured.
func (s *ITS) Upgrade(caller Address, target Address, newWasmHash Hash) error {
	if err := s.owner.RequireOwner(caller); err != nil {
		return err
	}
	if s.upgrader == nil {
		return ErrNotApproved
	}
	return s.upgrader.Upgrade(target, newWasmHash)
}

func (s *ITS) Paused() bool       { return s.pausable.Paused() }
func (s *ITS) Pause(caller Address) error {
	if err := s.owner.RequireOwner(caller); err != nil {
		return err
	}
	s.pausable.Pause()
	return nil
}
func (s *ITS) Unpause(caller Address) error {
	if err := s.owner.RequireOwner(caller); err != nil {
		return err
	}
	s.pausable.Unpause()
	return nil
}

// --- trusted chains ---

func trustedChainKey(chain string) []byte { return []byte(prefixTrustedChain + chain) }

func (s *ITS) IsTrustedChain(chain string) bool {
	_, ok := s.store.Get(trustedChainKey(chain))
	return ok
}

// isValidDestination is the gate every outbound-routing operation must
// pass before it calls the Hub: the destination must be on the trusted
// allowlist AND must not be the Hub chain itself, even if an owner has
// (incorrectly) added the Hub chain name to that allowlist (spec.md §4.8
// scenario 6 — "rejected even if the chain is listed as trusted").
func (s *ITS) isValidDestination(chain string) bool {
	if chain == s.hubChainName {
		return false
	}
	return s.IsTrustedChain(chain)
}

func (s *ITS) SetTrustedChain(caller Address, chain string) error {
	if err := s.owner.RequireOwner(caller); err != nil {
		return err
	}
	if s.IsTrustedChain(chain) {
		return ErrTrustedChainAlreadySet
	}
	s.store.Set(trustedChainKey(chain), []byte{1})
	s.events.Emit(TopicTrustedChainSet, map[string]any{"chain": chain})
	return nil
}

func (s *ITS) RemoveTrustedChain(caller Address, chain string) error {
	if err := s.owner.RequireOwner(caller); err != nil {
		return err
	}
	if !s.IsTrustedChain(chain) {
		return ErrTrustedChainNotSet
	}
	s.store.Delete(trustedChainKey(chain))
	s.events.Emit(TopicTrustedChainRemoved, map[string]any{"chain": chain})
	return nil
}

// --- token_id registry ---

func tokenConfigKey(tokenID Hash) []byte { return []byte(prefixTokenConfig + tokenID.String()) }

func encodeTokenConfig(cfg TokenIdConfig) []byte {
	var buf []byte
	putBytes(&buf, cfg.TokenAddress.Bytes())
	putBytes(&buf, cfg.TokenManagerAddress.Bytes())
	putUint64(&buf, uint64(cfg.ManagerType))
	return buf
}

func decodeTokenConfig(b []byte) (TokenIdConfig, bool) {
	var cfg TokenIdConfig
	tokenAddr, rest, ok := takeBytes(b)
	if !ok {
		return cfg, false
	}
	mgrAddr, rest, ok := takeBytes(rest)
	if !ok {
		return cfg, false
	}
	mgrType, _, ok := takeUint64(rest)
	if !ok {
		return cfg, false
	}
	copy(cfg.TokenAddress[:], tokenAddr)
	copy(cfg.TokenManagerAddress[:], mgrAddr)
	cfg.ManagerType = TokenManagerType(mgrType)
	return cfg, true
}

func (s *ITS) TokenConfig(tokenID Hash) (TokenIdConfig, bool) {
	b, ok := s.store.Get(tokenConfigKey(tokenID))
	if !ok {
		return TokenIdConfig{}, false
	}
	return decodeTokenConfig(b)
}

func (s *ITS) registerTokenConfig(tokenID Hash, cfg TokenIdConfig) error {
	if _, exists := s.TokenConfig(tokenID); exists {
		return ErrTokenAlreadyRegistered
	}
	s.store.Set(tokenConfigKey(tokenID), encodeTokenConfig(cfg))
	return nil
}

// --- token registration/deployment ---

// RegisterCanonicalToken claims the token_id for an existing chain-native
// token under LockUnlock custody (spec.md §4.5's canonical derivation).
func (s *ITS) RegisterCanonicalToken(caller Address, tokenAddress, tokenManagerAddress Address) (Hash, error) {
	if err := s.pausable.RequireNotPaused(); err != nil {
		return Hash{}, err
	}
	tokenID := CanonicalInterchainTokenID(s.chainNameHash, tokenAddress)
	cfg := TokenIdConfig{TokenAddress: tokenAddress, TokenManagerAddress: tokenManagerAddress, ManagerType: LockUnlock}
	if err := s.registerTokenConfig(tokenID, cfg); err != nil {
		return Hash{}, err
	}
	s.events.Emit(TopicTokenIdClaimed, map[string]any{
		"token_id":      tokenID.String(),
		"token_address": tokenAddress.String(),
	})
	return tokenID, nil
}

// DeployInterchainToken claims the token_id for a user-deployed native
// interchain token under NativeInterchainToken custody (mint/burn).
func (s *ITS) DeployInterchainToken(caller Address, salt [32]byte, name, symbol string, decimals uint8, tokenAddress, tokenManagerAddress Address) (Hash, error) {
	if err := s.pausable.RequireNotPaused(); err != nil {
		return Hash{}, err
	}
	if name == "" {
		return Hash{}, ErrInvalidTokenName
	}
	if symbol == "" {
		return Hash{}, ErrInvalidTokenSymbol
	}
	tokenID := InterchainTokenID(s.chainNameHash, caller, salt)
	cfg := TokenIdConfig{TokenAddress: tokenAddress, TokenManagerAddress: tokenManagerAddress, ManagerType: NativeInterchainToken}
	if err := s.registerTokenConfig(tokenID, cfg); err != nil {
		return Hash{}, err
	}
	s.events.Emit(TopicInterchainTokenDeployed, map[string]any{
		"token_id": tokenID.String(),
		"name":     name,
		"symbol":   symbol,
		"decimals": decimals,
	})
	return tokenID, nil
}

// DeployRemoteInterchainToken announces an already-deployed native
// interchain token to a trusted remote chain via the Hub.
func (s *ITS) DeployRemoteInterchainToken(caller Address, salt [32]byte, name, symbol string, decimals uint8, minter []byte, destinationChain string) error {
	if err := s.pausable.RequireNotPaused(); err != nil {
		return err
	}
	if !s.isValidDestination(destinationChain) {
		return ErrUntrustedChain
	}
	tokenID := InterchainTokenID(s.chainNameHash, caller, salt)
	payload := EncodeDeployInterchainToken(DeployInterchainToken{
		TokenID:  tokenID,
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
		Minter:   minter,
	})
	envelope := EncodeSendToHub(destinationChain, payload)
	s.gateway.CallContract(caller, s.hubChainName, s.hubChainAddress, envelope)
	s.events.Emit(TopicInterchainTokenDeploymentStarted, map[string]any{
		"token_id":          tokenID.String(),
		"destination_chain": destinationChain,
	})
	return nil
}

// --- transfers ---

// InterchainTransfer takes amount from caller and routes a transfer
// message to destinationChain through the Hub (spec.md §4.6, §4.8).
func (s *ITS) InterchainTransfer(caller Address, tokenID Hash, destinationChain string, destinationAddress []byte, amount *uint256.Int, data []byte) error {
	if err := s.pausable.RequireNotPaused(); err != nil {
		return err
	}
	if !s.isValidDestination(destinationChain) {
		return ErrUntrustedChain
	}
	cfg, ok := s.TokenConfig(tokenID)
	if !ok {
		return ErrInvalidTokenId
	}
	if s.gas != nil {
		if err := s.gas.PayGas(caller, destinationChain, hex.EncodeToString(destinationAddress), data, caller, cfg.TokenAddress); err != nil {
			return newErr(CodeTokenInvocationError, err)
		}
	}
	if err := s.tokens.Take(tokenID, cfg, caller, amount); err != nil {
		return err
	}
	if err := s.flow.AddFlowOut(tokenID, amount); err != nil {
		return err
	}
	payload := EncodeInterchainTransfer(InterchainTransfer{
		TokenID:            tokenID,
		SourceAddress:      caller.Bytes(),
		DestinationAddress: destinationAddress,
		Amount:             amount,
		Data:               data,
	})
	envelope := EncodeSendToHub(destinationChain, payload)
	s.gateway.CallContract(caller, s.hubChainName, s.hubChainAddress, envelope)
	s.events.Emit(TopicInterchainTransferSent, map[string]any{
		"token_id":          tokenID.String(),
		"destination_chain": destinationChain,
		"amount":            amount.String(),
	})
	return nil
}

// --- inbound execution ---

// Execute is the entry point a relayer calls with an approved Gateway
// message: it validates the message against the Gateway, enforces the
// Hub chain/address check, unwraps the ReceiveFromHub envelope, checks
// the inner source chain is trusted, and dispatches the ITS payload.
func (s *ITS) Execute(caller Address, sourceChain, messageID, sourceAddress string, payload []byte) error {
	if err := s.pausable.RequireNotPaused(); err != nil {
		return err
	}
	if sourceChain != s.hubChainName {
		return ErrNotHubChain
	}
	if sourceAddress != s.hubChainAddress {
		return ErrNotHubAddress
	}
	if !s.gateway.ValidateMessage(caller, sourceChain, messageID, sourceAddress, keccak256(payload)) {
		return ErrNotApproved
	}

	innerChain, innerPayload, err := DecodeReceiveFromHub(payload)
	if err != nil {
		return err
	}
	if !s.IsTrustedChain(innerChain) {
		return ErrUntrustedChain
	}

	its, err := DecodeITSPayload(innerPayload)
	if err != nil {
		return err
	}

	switch its.Type {
	case MessageTypeInterchainTransfer:
		return s.handleInboundTransfer(*its.InterchainTransfer)
	case MessageTypeDeployInterchainToken:
		return s.handleInboundDeploy(*its.DeployInterchainToken)
	default:
		return ErrInvalidMessageType
	}
}

func (s *ITS) handleInboundTransfer(m InterchainTransfer) error {
	cfg, ok := s.TokenConfig(m.TokenID)
	if !ok {
		return ErrInvalidTokenId
	}
	if len(m.DestinationAddress) != 32 {
		return ErrInvalidDestinationAddress
	}
	var recipient Address
	copy(recipient[:], m.DestinationAddress)

	if err := s.tokens.Give(m.TokenID, cfg, recipient, m.Amount); err != nil {
		return err
	}
	if err := s.flow.AddFlowIn(m.TokenID, m.Amount); err != nil {
		return err
	}
	s.events.Emit(TopicInterchainTransferReceived, map[string]any{
		"token_id":  m.TokenID.String(),
		"recipient": recipient.String(),
		"amount":    m.Amount.String(),
	})
	return nil
}

func (s *ITS) handleInboundDeploy(m DeployInterchainToken) error {
	if _, exists := s.TokenConfig(m.TokenID); exists {
		return ErrTokenAlreadyRegistered
	}
	// Only the token_id and its NativeInterchainToken manager type are
	// recorded: the token and manager addresses in the stored config are
	// left zero, and DeriveDeployedAddresses is not called here.
	cfg := TokenIdConfig{ManagerType: NativeInterchainToken}
	if err := s.registerTokenConfig(m.TokenID, cfg); err != nil {
		return err
	}
	s.events.Emit(TopicInterchainTokenDeployed, map[string]any{
		"token_id": m.TokenID.String(),
		"name":     m.Name,
		"symbol":   m.Symbol,
		"decimals": m.Decimals,
	})
	return nil
}

// --- flow limit passthrough ---

func (s *ITS) SetFlowLimit(caller Address, tokenID Hash, limit int64) error {
	return s.flow.SetFlowLimit(caller, tokenID, limit)
}

func (s *ITS) ClearFlowLimit(caller Address, tokenID Hash) error {
	return s.flow.ClearFlowLimit(caller, tokenID)
}
