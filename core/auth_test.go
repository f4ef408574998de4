package core_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"gatewaycore/core"
	"gatewaycore/internal/testutil"
)

func newAuth(t *testing.T, clock *testutil.Clock) *core.Auth {
	t.Helper()
	store := testutil.NewStore(clock)
	return core.NewAuth(store, nil, clock.Now)
}

func domainSep(t *testing.T) core.Hash {
	t.Helper()
	return core.Hash{1, 2, 3}
}

func TestAuthInitializeAndValidateProof(t *testing.T) {
	clock := testutil.NewClock(1000)
	auth := newAuth(t, clock)
	kps := testutil.GenerateSigners(3)
	ws := testutil.WeightedSigners(kps, 2, [32]byte{9})

	require.NoError(t, auth.Initialize(ws, 1, 3600, domainSep(t)))
	require.Equal(t, uint64(1), auth.Epoch())

	dataHash := core.Hash{0xAA}
	proof := testutil.SignAll(ws, kps, auth.DomainSeparator(), dataHash)

	isLatest, err := auth.ValidateProof(dataHash, proof)
	require.NoError(t, err)
	require.True(t, isLatest)
}

func TestAuthInitializeTwiceFails(t *testing.T) {
	clock := testutil.NewClock(0)
	auth := newAuth(t, clock)
	kps := testutil.GenerateSigners(1)
	ws := testutil.WeightedSigners(kps, 1, [32]byte{1})
	require.NoError(t, auth.Initialize(ws, 0, 0, domainSep(t)))
	require.Error(t, auth.Initialize(ws, 0, 0, domainSep(t)))
}

func TestValidateProofBelowThreshold(t *testing.T) {
	clock := testutil.NewClock(0)
	auth := newAuth(t, clock)
	kps := testutil.GenerateSigners(3)
	ws := testutil.WeightedSigners(kps, 3, [32]byte{7})
	require.NoError(t, auth.Initialize(ws, 0, 0, domainSep(t)))

	dataHash := core.Hash{0xBB}
	proof := testutil.SignSubset(ws, kps, auth.DomainSeparator(), dataHash, []int{0})

	_, err := auth.ValidateProof(dataHash, proof)
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeLowSignaturesWeight, code)
}

func TestValidateProofBadSignatureRejected(t *testing.T) {
	clock := testutil.NewClock(0)
	auth := newAuth(t, clock)
	kps := testutil.GenerateSigners(2)
	ws := testutil.WeightedSigners(kps, 2, [32]byte{3})
	require.NoError(t, auth.Initialize(ws, 0, 0, domainSep(t)))

	dataHash := core.Hash{0xCC}
	proof := testutil.SignAll(ws, kps, auth.DomainSeparator(), core.Hash{0xDD})

	_, err := auth.ValidateProof(dataHash, proof)
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeInvalidSignature, code)
}

func TestRotateSignersAndRetentionWindow(t *testing.T) {
	clock := testutil.NewClock(0)
	auth := newAuth(t, clock)
	kps1 := testutil.GenerateSigners(1)
	ws1 := testutil.WeightedSigners(kps1, 1, [32]byte{1})
	require.NoError(t, auth.Initialize(ws1, 1, 100, domainSep(t)))

	clock.Advance(200)
	kps2 := testutil.GenerateSigners(1)
	ws2 := testutil.WeightedSigners(kps2, 1, [32]byte{2})
	require.NoError(t, auth.RotateSigners(ws2, true))
	require.Equal(t, uint64(2), auth.Epoch())

	dataHash := core.Hash{0xEE}
	proofOld := testutil.SignAll(ws1, kps1, auth.DomainSeparator(), dataHash)
	isLatest, err := auth.ValidateProof(dataHash, proofOld)
	require.NoError(t, err)
	require.False(t, isLatest, "epoch 1 proof still valid within retention window but not latest")

	clock.Advance(200)
	kps3 := testutil.GenerateSigners(1)
	ws3 := testutil.WeightedSigners(kps3, 1, [32]byte{3})
	require.NoError(t, auth.RotateSigners(ws3, true))
	require.Equal(t, uint64(3), auth.Epoch())

	_, err = auth.ValidateProof(dataHash, proofOld)
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeOutdatedSigners, code, "epoch 1 proof now outside the retention window of 1")
}

func TestRotateSignersEnforcesDelay(t *testing.T) {
	clock := testutil.NewClock(0)
	auth := newAuth(t, clock)
	kps1 := testutil.GenerateSigners(1)
	ws1 := testutil.WeightedSigners(kps1, 1, [32]byte{1})
	require.NoError(t, auth.Initialize(ws1, 1, 1000, domainSep(t)))

	kps2 := testutil.GenerateSigners(1)
	ws2 := testutil.WeightedSigners(kps2, 1, [32]byte{2})
	err := auth.RotateSigners(ws2, true)
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeInsufficientRotationDelay, code)
}

func TestRotateSignersPrunesEpochsBeyondRetentionMargin(t *testing.T) {
	clock := testutil.NewClock(0)
	auth := newAuth(t, clock)
	kps1 := testutil.GenerateSigners(1)
	ws1 := testutil.WeightedSigners(kps1, 1, [32]byte{1})
	require.NoError(t, auth.Initialize(ws1, 1, 0, domainSep(t)))
	firstHash := ws1

	// Rotate past epoch 1 + 2*retention (1 + 2 = 3): epoch 1's signer-history
	// entry is now far enough outside the retention window to be pruned.
	for i := 2; i <= 4; i++ {
		kps := testutil.GenerateSigners(1)
		ws := testutil.WeightedSigners(kps, 1, [32]byte{byte(i)})
		require.NoError(t, auth.RotateSigners(ws, false))
	}
	require.Equal(t, uint64(4), auth.Epoch())

	_, ok := auth.EpochBySignersHash(core.SignerSetHash(auth.DomainSeparator(), firstHash))
	require.False(t, ok, "epoch 1 entry should have been pruned once 2x retention epochs have passed")
}

func TestRotateSignersRejectsDuplicateSet(t *testing.T) {
	clock := testutil.NewClock(0)
	auth := newAuth(t, clock)
	kps1 := testutil.GenerateSigners(1)
	ws1 := testutil.WeightedSigners(kps1, 1, [32]byte{1})
	require.NoError(t, auth.Initialize(ws1, 5, 0, domainSep(t)))

	err := auth.RotateSigners(ws1, false)
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeDuplicateSigners, code)
}

func TestWeightedSignersValidateRejectsBadOrdering(t *testing.T) {
	kps := testutil.GenerateSigners(2)
	ws := testutil.WeightedSigners(kps, 1, [32]byte{1})
	ws.Signers[0], ws.Signers[1] = ws.Signers[1], ws.Signers[0]
	require.Error(t, ws.Validate())
}

func TestWeightedSignersValidateRejectsThresholdAboveSum(t *testing.T) {
	kps := testutil.GenerateSigners(2)
	ws := testutil.WeightedSigners(kps, 10, [32]byte{1})
	ws.Threshold = uint256.NewInt(1000)
	require.Error(t, ws.Validate())
}
