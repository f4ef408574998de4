package core

// Message-approval store (C2): a finite-state machine per
// (source_chain, message_id) with transitions strictly
// Absent -> Approved(hash) -> Executed (spec.md §3, §4.2).

const prefixMessageApproval = "gw:message_approval:"

type approvalState int

const (
	stateAbsent approvalState = iota
	stateApproved
	stateExecuted
)

// approvalRecord is the persisted value for one message-approval entry.
type approvalRecord struct {
	State           approvalState
	PayloadHash     Hash
	SourceAddress   string
	ContractAddress Address
}

func approvalKey(sourceChain, messageID string) []byte {
	return []byte(prefixMessageApproval + sourceChain + "\x00" + messageID)
}

func encodeApprovalRecord(r approvalRecord) []byte {
	var buf []byte
	buf = append(buf, byte(r.State))
	buf = append(buf, r.PayloadHash[:]...)
	buf = append(buf, r.ContractAddress[:]...)
	putString(&buf, r.SourceAddress)
	return buf
}

func decodeApprovalRecord(b []byte) (approvalRecord, bool) {
	if len(b) < 1+32+32 {
		return approvalRecord{}, false
	}
	var r approvalRecord
	r.State = approvalState(b[0])
	copy(r.PayloadHash[:], b[1:33])
	copy(r.ContractAddress[:], b[33:65])
	rest := b[65:]
	if len(rest) < 8 {
		return approvalRecord{}, false
	}
	n := bytesToUint64(rest[:8])
	rest = rest[8:]
	if uint64(len(rest)) < n {
		return approvalRecord{}, false
	}
	r.SourceAddress = string(rest[:n])
	return r, true
}

// ApprovalStore is C2's storage-backed state machine.
type ApprovalStore struct {
	store Store
}

func NewApprovalStore(store Store) *ApprovalStore {
	return &ApprovalStore{store: store}
}

func (as *ApprovalStore) get(sourceChain, messageID string) (approvalRecord, bool) {
	b, ok := as.store.Get(approvalKey(sourceChain, messageID))
	if !ok {
		return approvalRecord{}, false
	}
	return decodeApprovalRecord(b)
}

// Approve transitions Absent -> Approved(msg.PayloadHash). If the entry is
// already Approved or Executed, this is a silent idempotent no-op (spec.md
// §4.2) and transitioned reports false so the caller knows not to emit an
// event.
func (as *ApprovalStore) Approve(msg Message) (transitioned bool) {
	if _, exists := as.get(msg.SourceChain, msg.MessageID); exists {
		return false
	}
	rec := approvalRecord{
		State:           stateApproved,
		PayloadHash:     msg.PayloadHash,
		SourceAddress:   msg.SourceAddress,
		ContractAddress: msg.ContractAddress,
	}
	as.store.Set(approvalKey(msg.SourceChain, msg.MessageID), encodeApprovalRecord(rec))
	return true
}

// Consume transitions Approved(h) -> Executed iff the stored hash and
// source address match. Executed is terminal: calling Consume again
// always returns false (spec.md §4.2, §8 scenario 2).
func (as *ApprovalStore) Consume(sourceChain, messageID, sourceAddress string, payloadHash Hash) bool {
	rec, exists := as.get(sourceChain, messageID)
	if !exists || rec.State != stateApproved {
		return false
	}
	if rec.PayloadHash != payloadHash || rec.SourceAddress != sourceAddress {
		return false
	}
	rec.State = stateExecuted
	as.store.Set(approvalKey(sourceChain, messageID), encodeApprovalRecord(rec))
	return true
}

// IsExecuted reports whether the given key has already reached the
// terminal Executed state.
func (as *ApprovalStore) IsExecuted(sourceChain, messageID string) bool {
	rec, exists := as.get(sourceChain, messageID)
	return exists && rec.State == stateExecuted
}

// Destination returns the stored destination contract address for an
// Approved or Executed entry, so the Gateway facade can check "caller
// matches the stored destination" (spec.md §4.3) before consuming.
func (as *ApprovalStore) Destination(sourceChain, messageID string) (Address, bool) {
	rec, exists := as.get(sourceChain, messageID)
	if !exists {
		return Address{}, false
	}
	return rec.ContractAddress, true
}
