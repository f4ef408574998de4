package core

import "sync"

// mixins.go implements the cross-cutting owner/operator/pausable/upgradable
// capability interfaces spec.md §9 Design Notes names but leaves
// unspecified, grounded on core/access_control.go's ledger-backed role
// cache from the teacher.

// Ownable tracks a single owner address, authorizing owner-only
// operations (e.g. set_trusted_chain, set_flow_limit).
type Ownable struct {
	mu    sync.RWMutex
	owner Address
}

func NewOwnable(initialOwner Address) *Ownable {
	return &Ownable{owner: initialOwner}
}

func (o *Ownable) Owner() Address {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.owner
}

func (o *Ownable) RequireOwner(caller Address) error {
	if o.Owner() != caller {
		return ErrNotOwner
	}
	return nil
}

func (o *Ownable) TransferOwnership(caller, newOwner Address) error {
	if err := o.RequireOwner(caller); err != nil {
		return err
	}
	o.mu.Lock()
	o.owner = newOwner
	o.mu.Unlock()
	return nil
}

// Operatable tracks a single operator address, used for the
// bypass_rotation_delay privilege check (spec.md §4.3).
type Operatable struct {
	mu       sync.RWMutex
	operator Address
}

func NewOperatable(initialOperator Address) *Operatable {
	return &Operatable{operator: initialOperator}
}

func (op *Operatable) Operator() Address {
	op.mu.RLock()
	defer op.mu.RUnlock()
	return op.operator
}

func (op *Operatable) IsOperator(caller Address) bool {
	return op.Operator() == caller
}

func (op *Operatable) RequireOperator(caller Address) error {
	if !op.IsOperator(caller) {
		return ErrNotOperator
	}
	return nil
}

func (op *Operatable) TransferOperatorship(caller, newOperator Address) error {
	if err := op.RequireOperator(caller); err != nil {
		return err
	}
	op.mu.Lock()
	op.operator = newOperator
	op.mu.Unlock()
	return nil
}

// Pausable gates state-mutating operations behind a paused flag. When
// paused, the ITS operations that call RequireNotPaused (token
// registration and deployment, remote deployment, InterchainTransfer and
// Execute) fail with ContractPaused. The owner-only administrative ITS
// operations (trusted-chain and flow-limit changes, Upgrade) do not check
// the flag and still succeed while paused.
type Pausable struct {
	mu     sync.RWMutex
	paused bool
	events EventSink
}

func NewPausable(events EventSink) *Pausable {
	if events == nil {
		events = NopEventSink{}
	}
	return &Pausable{events: events}
}

func (p *Pausable) Paused() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.paused
}

func (p *Pausable) RequireNotPaused() error {
	if p.Paused() {
		return ErrContractPaused
	}
	return nil
}

func (p *Pausable) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
	p.events.Emit(TopicPaused, nil)
}

func (p *Pausable) Unpause() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
	p.events.Emit(TopicUnpaused, nil)
}

// Upgradable names the version/upgrade/migrate surface of spec.md §9
// without prescribing an implementation — the host's contract-upgrade
// mechanism (WASM replacement) is an external collaborator per spec.md §1.
type Upgradable interface {
	Version() string
	Upgrade(newWasmHash Hash) error
	Migrate(data MigrationData) error
}
