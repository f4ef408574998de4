package core

import (
	"strconv"

	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// storage key prefixes, matching the logical layout of spec.md §6.
const (
	keyEpoch                  = "auth:epoch"
	keyLastRotationTimestamp  = "auth:last_rotation_ts"
	keyDomainSeparator        = "auth:domain_separator"
	keyPreviousSignerRetention = "auth:previous_signer_retention"
	keyMinimumRotationDelay   = "auth:minimum_rotation_delay"
	prefixSignersHashByEpoch  = "auth:signers_hash_by_epoch:"
	prefixEpochBySignersHash  = "auth:epoch_by_signers_hash:"
)

// Auth implements the Gateway's signer-set authentication protocol (C1):
// weighted-threshold signature verification against an epoch-indexed
// signer history, with a retention window and rotation delay.
type Auth struct {
	store Store
	log   *zap.SugaredLogger

	// Clock returns the current time as a unix-seconds-like counter; the
	// host's ledger timestamp is an external collaborator, so tests supply
	// a deterministic clock.
	Clock func() uint64
}

func NewAuth(store Store, log *zap.SugaredLogger, clock func() uint64) *Auth {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Auth{store: store, log: log, Clock: clock}
}

// Initialize stores the immutable configuration, seeds epoch 1 with
// initial_signers, and records the rotation timestamp. Fails if already
// initialized.
func (a *Auth) Initialize(initialSigners WeightedSigners, previousSignersRetention uint64, minimumRotationDelay uint64, domainSeparator Hash) error {
	if _, ok := a.store.Get([]byte(keyDomainSeparator)); ok {
		return newErr(CodeAlreadyInitialized, errAlreadyInitialized)
	}
	if err := initialSigners.Validate(); err != nil {
		return err
	}
	a.store.Set([]byte(keyDomainSeparator), domainSeparator[:])
	a.store.Set([]byte(keyPreviousSignerRetention), uint64ToBytes(previousSignersRetention))
	a.store.Set([]byte(keyMinimumRotationDelay), uint64ToBytes(minimumRotationDelay))

	hash := a.signerSetHash(initialSigners)
	a.writeEpoch(1, hash)
	a.store.Set([]byte(keyEpoch), uint64ToBytes(1))
	a.store.Set([]byte(keyLastRotationTimestamp), uint64ToBytes(a.now()))

	a.log.Infow("auth initialized", "epoch", 1, "signers_hash", hash.String())
	return nil
}

var errAlreadyInitialized = &simpleErr{"auth already initialized"}

type simpleErr struct{ s string }

func (e *simpleErr) Error() string { return e.s }

func (a *Auth) now() uint64 {
	if a.Clock != nil {
		return a.Clock()
	}
	return 0
}

func (a *Auth) domainSeparator() Hash {
	b, _ := a.store.Get([]byte(keyDomainSeparator))
	var h Hash
	copy(h[:], b)
	return h
}

func (a *Auth) Epoch() uint64 {
	b, _ := a.store.Get([]byte(keyEpoch))
	return bytesToUint64(b)
}

func (a *Auth) PreviousSignersRetention() uint64 {
	b, _ := a.store.Get([]byte(keyPreviousSignerRetention))
	return bytesToUint64(b)
}

func (a *Auth) MinimumRotationDelay() uint64 {
	b, _ := a.store.Get([]byte(keyMinimumRotationDelay))
	return bytesToUint64(b)
}

func (a *Auth) DomainSeparator() Hash { return a.domainSeparator() }

func (a *Auth) LastRotationTimestamp() uint64 {
	b, _ := a.store.Get([]byte(keyLastRotationTimestamp))
	return bytesToUint64(b)
}

func (a *Auth) signerSetHash(ws WeightedSigners) Hash {
	return SignerSetHash(a.domainSeparator(), ws)
}

// SignerSetHash is the domain-separated hash identifying a signer set,
// exported so proof-building test fixtures (internal/testutil) can
// reconstruct exactly what a signer must sign without duplicating the
// protocol's hashing logic.
func SignerSetHash(domainSeparator Hash, ws WeightedSigners) Hash {
	return keccak256(domainSeparator.Bytes(), serializeWeightedSigners(ws))
}

// SigningMessage is the exact message each signer in a Proof signs: the
// domain-separated hash of (signer_set_hash, data_hash).
func SigningMessage(domainSeparator Hash, ws WeightedSigners, dataHash Hash) Hash {
	return keccak256(domainSeparator.Bytes(), SignerSetHash(domainSeparator, ws).Bytes(), dataHash.Bytes())
}

func (a *Auth) writeEpoch(epoch uint64, hash Hash) {
	a.store.Set([]byte(prefixSignersHashByEpoch+uint64Key(epoch)), hash[:])
	a.store.Set([]byte(prefixEpochBySignersHash+hash.String()), uint64ToBytes(epoch))
}

// EpochBySignersHash looks up the epoch at which a signer-set hash was
// installed. ok is false if the hash has never been written (or has been
// pruned).
func (a *Auth) EpochBySignersHash(hash Hash) (uint64, bool) {
	b, ok := a.store.Get([]byte(prefixEpochBySignersHash + hash.String()))
	if !ok {
		return 0, false
	}
	return bytesToUint64(b), true
}

// SignersHashByEpoch looks up the signer-set hash installed at a given
// epoch. ok is false if the epoch was never written (or has been pruned).
func (a *Auth) SignersHashByEpoch(epoch uint64) (Hash, bool) {
	b, ok := a.store.Get([]byte(prefixSignersHashByEpoch + uint64Key(epoch)))
	if !ok {
		return Hash{}, false
	}
	var h Hash
	copy(h[:], b)
	return h, true
}

// ValidateProof implements the validate_proof algorithm of spec.md §4.1.
// It returns true iff proof was produced by the CURRENT epoch's signer
// set, false if by a historical-but-retained set, and a fatal *Error
// otherwise.
func (a *Auth) ValidateProof(dataHash Hash, proof Proof) (bool, error) {
	signerSetHash := a.signerSetHash(proof.Signers)
	epoch, ok := a.EpochBySignersHash(signerSetHash)
	if !ok {
		return false, ErrInvalidSignersHash
	}
	current := a.Epoch()
	if current-epoch > a.PreviousSignersRetention() {
		return false, ErrOutdatedSigners
	}

	signedMessage := SigningMessage(a.domainSeparator(), proof.Signers, dataHash)

	if len(proof.Signatures) != len(proof.Signers.Signers) {
		return false, newErr(CodeInvalidSignature, nil)
	}

	running := new(uint256.Int)
	threshold := proof.Signers.Threshold
	reached := false
	for i, slot := range proof.Signatures {
		if slot.Signature == nil {
			continue
		}
		signer := proof.Signers.Signers[i]
		if !verifyEd25519(signer.PubKey, signedMessage.Bytes(), *slot.Signature) {
			return false, ErrInvalidSignature
		}
		running.Add(running, signer.Weight)
		if running.Cmp(threshold) >= 0 {
			reached = true
			break
		}
	}
	if !reached {
		return false, ErrLowSignaturesWeight
	}

	return epoch == current, nil
}

// RotateSigners installs newSigners as the next epoch's signer set.
// enforceDelay controls whether minimum_rotation_delay is checked; callers
// (Gateway.RotateSigners) decide that policy.
func (a *Auth) RotateSigners(newSigners WeightedSigners, enforceDelay bool) error {
	if err := newSigners.Validate(); err != nil {
		return err
	}
	hash := a.signerSetHash(newSigners)
	if _, exists := a.EpochBySignersHash(hash); exists {
		return ErrDuplicateSigners
	}
	if enforceDelay {
		if a.now()-a.LastRotationTimestamp() < a.MinimumRotationDelay() {
			return ErrInsufficientRotationDelay
		}
	}

	newEpoch := a.Epoch() + 1
	a.writeEpoch(newEpoch, hash)
	a.store.Set([]byte(keyEpoch), uint64ToBytes(newEpoch))
	a.store.Set([]byte(keyLastRotationTimestamp), uint64ToBytes(a.now()))
	a.PruneOldEpochs()

	a.log.Infow("signers rotated", "epoch", newEpoch, "signers_hash", hash.String())
	return nil
}

// PruneOldEpochs deletes signer-history entries well outside the retention
// window (beyond 2x previous_signers_retention). ValidateProof already
// rejects any proof older than one retention window (ErrOutdatedSigners
// while the entry exists, ErrInvalidSignersHash once it is pruned), so entries this far back are
// pure dead weight; spec.md §3 allows such entries to be "pruned lazily"
// rather than kept forever. The extra margin over the bare retention window
// keeps ValidateProof's ErrOutdatedSigners-vs-ErrInvalidSignersHash
// distinction observable for a while after an epoch ages out, instead of
// flipping to ErrInvalidSignersHash the instant it does.
// RotateSigners calls this after installing each new epoch.
func (a *Auth) PruneOldEpochs() {
	current := a.Epoch()
	retention := a.PreviousSignersRetention()
	margin := 2 * retention
	if current <= margin {
		return
	}
	cutoff := current - margin

	var staleEpochKeys []string
	a.store.IteratePrefix([]byte(prefixSignersHashByEpoch), func(key, value []byte) bool {
		epoch, err := strconv.ParseUint(string(key[len(prefixSignersHashByEpoch):]), 10, 64)
		if err != nil || epoch >= cutoff {
			return true
		}
		staleEpochKeys = append(staleEpochKeys, string(key))
		var h Hash
		copy(h[:], value)
		a.store.Delete([]byte(prefixEpochBySignersHash + h.String()))
		return true
	})
	for _, k := range staleEpochKeys {
		a.store.Delete([]byte(k))
	}
}
