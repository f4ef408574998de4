package core

import "github.com/holiman/uint256"

// flow_limiter.go implements C6: a sliding-window, symmetric in/out flow
// limiter per spec.md §4.6, with overflow-safe 128-bit arithmetic.

const EpochSeconds = 6 * 3600

const (
	prefixFlowLimit = "its:flow_limit:"
	prefixFlowOut   = "its:flow_out:"
	prefixFlowIn    = "its:flow_in:"
)

type flowDirection int

const (
	flowOut flowDirection = iota
	flowIn
)

// FlowLimiter tracks per-token flow limits and the temporary in/out
// counters that enforce them.
type FlowLimiter struct {
	store Store
	now   func() uint64
	owner *Ownable
	events EventSink
}

func NewFlowLimiter(store Store, now func() uint64, owner *Ownable, events EventSink) *FlowLimiter {
	if events == nil {
		events = NopEventSink{}
	}
	return &FlowLimiter{store: store, now: now, owner: owner, events: events}
}

func (f *FlowLimiter) bucket() uint64 { return f.now() / EpochSeconds }

func flowLimitKey(tokenID Hash) []byte { return []byte(prefixFlowLimit + tokenID.String()) }

func flowCounterKey(prefix string, tokenID Hash, bucket uint64) []byte {
	return []byte(prefix + tokenID.String() + ":" + uint64Key(bucket))
}

// FlowLimit returns the configured limit for a token, and whether one is
// set at all (absent means checks are disabled).
func (f *FlowLimiter) FlowLimit(tokenID Hash) (limit *uint256I128, set bool) {
	b, ok := f.store.Get(flowLimitKey(tokenID))
	if !ok {
		return nil, false
	}
	return decodeI128(b), true
}

// SetFlowLimit is owner-only: the caller is checked against the Ownable the
// limiter was built with (no check when that is nil); the operator role is
// not consulted. L < 0 is rejected with InvalidFlowLimit; absent (via
// ClearFlowLimit) disables checks.
func (f *FlowLimiter) SetFlowLimit(caller Address, tokenID Hash, limit int64) error {
	if f.owner != nil {
		if err := f.owner.RequireOwner(caller); err != nil {
			return err
		}
	}
	if limit < 0 {
		return ErrInvalidFlowLimit
	}
	f.store.Set(flowLimitKey(tokenID), encodeI128FromInt64(limit))
	f.events.Emit(TopicFlowLimitSet, map[string]any{
		"token_id":   tokenID.String(),
		"flow_limit": limit,
	})
	return nil
}

// ClearFlowLimit removes the limit for a token, disabling flow checks.
func (f *FlowLimiter) ClearFlowLimit(caller Address, tokenID Hash) error {
	if f.owner != nil {
		if err := f.owner.RequireOwner(caller); err != nil {
			return err
		}
	}
	f.store.Delete(flowLimitKey(tokenID))
	f.events.Emit(TopicFlowLimitSet, map[string]any{
		"token_id":   tokenID.String(),
		"flow_limit": nil,
	})
	return nil
}

func (f *FlowLimiter) counter(prefix string, tokenID Hash, bucket uint64) *uint256I128 {
	b, ok := f.store.Get(flowCounterKey(prefix, tokenID, bucket))
	if !ok {
		return zeroI128()
	}
	return decodeI128(b)
}

func (f *FlowLimiter) setCounter(prefix string, tokenID Hash, bucket uint64, v *uint256I128) {
	f.store.SetTTL(flowCounterKey(prefix, tokenID, bucket), encodeI128(v), bucket+2)
}

// addFlow implements the per-direction algorithm of spec.md §4.6 step 1-3.
func (f *FlowLimiter) addFlow(tokenID Hash, amount *uint256I128, dir flowDirection) error {
	limit, set := f.FlowLimit(tokenID)
	if !set {
		return nil
	}
	if limit.IsZero() {
		return ErrFlowLimitExceeded
	}

	bucket := f.bucket()
	ownPrefix, oppPrefix := prefixFlowOut, prefixFlowIn
	if dir == flowIn {
		ownPrefix, oppPrefix = prefixFlowIn, prefixFlowOut
	}

	own := f.counter(ownPrefix, tokenID, bucket)
	newOwn, overflowed := saturatingAddI128(own, amount)
	if overflowed {
		return ErrFlowAmountOverflow
	}

	opposite := f.counter(oppPrefix, tokenID, bucket)
	net := subI128(newOwn, opposite)
	if net.Gt(limit) {
		return ErrFlowLimitExceeded
	}

	f.setCounter(ownPrefix, tokenID, bucket, newOwn)
	return nil
}

// AddFlowOut accounts an outbound transfer of amount for tokenID.
func (f *FlowLimiter) AddFlowOut(tokenID Hash, amount *uint256.Int) error {
	return f.addFlow(tokenID, fromUint256(amount), flowOut)
}

// AddFlowIn accounts an inbound transfer of amount for tokenID.
func (f *FlowLimiter) AddFlowIn(tokenID Hash, amount *uint256.Int) error {
	return f.addFlow(tokenID, fromUint256(amount), flowIn)
}
