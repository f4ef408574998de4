package core_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"gatewaycore/core"
	"gatewaycore/internal/testutil"
)

func newFlowLimiter(t *testing.T, clock *testutil.Clock, owner core.Address) *core.FlowLimiter {
	t.Helper()
	store := testutil.NewStore(clock)
	return core.NewFlowLimiter(store, clock.Now, core.NewOwnable(owner), nil)
}

func TestFlowLimiterNoLimitMeansNoCheck(t *testing.T) {
	clock := testutil.NewClock(0)
	fl := newFlowLimiter(t, clock, core.Address{1})
	tokenID := core.Hash{1}
	require.NoError(t, fl.AddFlowOut(tokenID, uint256.NewInt(1_000_000)))
}

func TestFlowLimiterZeroLimitAlwaysExceeds(t *testing.T) {
	clock := testutil.NewClock(0)
	owner := core.Address{1}
	fl := newFlowLimiter(t, clock, owner)
	tokenID := core.Hash{1}
	require.NoError(t, fl.SetFlowLimit(owner, tokenID, 0))

	err := fl.AddFlowOut(tokenID, uint256.NewInt(1))
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeFlowLimitExceeded, code)
}

func TestFlowLimiterSetRequiresOwner(t *testing.T) {
	clock := testutil.NewClock(0)
	fl := newFlowLimiter(t, clock, core.Address{1})
	err := fl.SetFlowLimit(core.Address{2}, core.Hash{1}, 10)
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeNotOwner, code)
}

func TestFlowLimiterRejectsNegativeLimit(t *testing.T) {
	clock := testutil.NewClock(0)
	owner := core.Address{1}
	fl := newFlowLimiter(t, clock, owner)
	err := fl.SetFlowLimit(owner, core.Hash{1}, -1)
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeInvalidFlowLimit, code)
}

func TestFlowLimiterEnforcesNetLimitWithinBucket(t *testing.T) {
	clock := testutil.NewClock(0)
	owner := core.Address{1}
	fl := newFlowLimiter(t, clock, owner)
	tokenID := core.Hash{1}
	require.NoError(t, fl.SetFlowLimit(owner, tokenID, 100))

	require.NoError(t, fl.AddFlowOut(tokenID, uint256.NewInt(100)))
	err := fl.AddFlowOut(tokenID, uint256.NewInt(1))
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeFlowLimitExceeded, code)
}

func TestFlowLimiterOppositeDirectionOffsetsNet(t *testing.T) {
	clock := testutil.NewClock(0)
	owner := core.Address{1}
	fl := newFlowLimiter(t, clock, owner)
	tokenID := core.Hash{1}
	require.NoError(t, fl.SetFlowLimit(owner, tokenID, 100))

	require.NoError(t, fl.AddFlowOut(tokenID, uint256.NewInt(100)))
	require.NoError(t, fl.AddFlowIn(tokenID, uint256.NewInt(50)))
	// net out is now 100 - 50 = 50, so another 100 out would net to 150 > limit, fails.
	err := fl.AddFlowOut(tokenID, uint256.NewInt(100))
	code, ok := core.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, core.CodeFlowLimitExceeded, code)
	// But 50 more out only nets to 100, within limit.
	require.NoError(t, fl.AddFlowOut(tokenID, uint256.NewInt(50)))
}

func TestFlowLimiterResetsAcrossEpochBuckets(t *testing.T) {
	clock := testutil.NewClock(0)
	owner := core.Address{1}
	fl := newFlowLimiter(t, clock, owner)
	tokenID := core.Hash{1}
	require.NoError(t, fl.SetFlowLimit(owner, tokenID, 10))

	require.NoError(t, fl.AddFlowOut(tokenID, uint256.NewInt(10)))
	err := fl.AddFlowOut(tokenID, uint256.NewInt(1))
	require.Error(t, err)

	clock.Advance(core.EpochSeconds)
	require.NoError(t, fl.AddFlowOut(tokenID, uint256.NewInt(10)), "new bucket starts with fresh counters")
}

func TestFlowLimiterClearDisablesChecks(t *testing.T) {
	clock := testutil.NewClock(0)
	owner := core.Address{1}
	fl := newFlowLimiter(t, clock, owner)
	tokenID := core.Hash{1}
	require.NoError(t, fl.SetFlowLimit(owner, tokenID, 1))
	require.NoError(t, fl.ClearFlowLimit(owner, tokenID))
	require.NoError(t, fl.AddFlowOut(tokenID, uint256.NewInt(1_000_000)))
}
