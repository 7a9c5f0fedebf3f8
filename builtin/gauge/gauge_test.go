// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/thor"
)

func assertBig(t *testing.T, expected, actual *big.Int, msgAndArgs ...any) {
	t.Helper()
	assert.Zero(t, expected.Cmp(actual), append([]any{"expected %v, got %v", expected, actual}, msgAndArgs...)...)
}

func TestInitialize(t *testing.T) {
	h := newHarness(t)
	gc := h.view()

	a, err := gc.Admin()
	require.NoError(t, err)
	assert.Equal(t, admin, a)
	ve, err := gc.VotingEscrow()
	require.NoError(t, err)
	assert.Equal(t, veAddr, ve)
	tok, err := gc.Token()
	require.NoError(t, err)
	assert.Equal(t, tokenAddr, tok)
	tt, err := gc.TimeTotal()
	require.NoError(t, err)
	assert.Equal(t, T0, tt)

	err = h.call(admin, func(gc *GaugeController) error { return gc.Initialize(tokenAddr, veAddr) })
	assert.ErrorIs(t, err, errAlreadyInitialized)
	err = h.call(admin, func(gc *GaugeController) error { return gc.Initialize(tokenAddr, thor.Address{}) })
	assert.ErrorIs(t, err, errZeroAddress)
}

func TestRegistry(t *testing.T) {
	h := newHarness(t)

	err := h.call(alice, func(gc *GaugeController) error { return gc.AddType("Liquidity", nil) })
	assert.Equal(t, reverts.Auth, reverts.KindOf(err))

	err = h.call(admin, func(gc *GaugeController) error { return gc.AddGauge(gauge1, 0, nil) })
	assert.ErrorIs(t, err, errUnknownType)

	h.setupGauges()
	gc := h.view()

	n, err := gc.NGaugeTypes()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	name, err := gc.GaugeTypeNames(0)
	require.NoError(t, err)
	assert.Equal(t, "Liquidity", name)

	n, err = gc.NGauges()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	g, err := gc.Gauges(1)
	require.NoError(t, err)
	assert.Equal(t, gauge2, g)

	typeID, err := gc.GaugeTypes(gauge2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), typeID)
	_, err = gc.GaugeTypes(gauge3)
	assert.ErrorIs(t, err, errGaugeNotAdded)

	err = h.call(admin, func(gc *GaugeController) error { return gc.AddGauge(gauge1, 0, e18(1)) })
	assert.ErrorIs(t, err, errGaugeExists)
	err = h.call(admin, func(gc *GaugeController) error { return gc.AddGauge(gauge3, 1, nil) })
	assert.ErrorIs(t, err, errUnknownType)
	err = h.call(alice, func(gc *GaugeController) error { return gc.AddGauge(gauge3, 0, nil) })
	assert.ErrorIs(t, err, errNotAdmin)

	tw, err := gc.GetTypeWeight(0)
	require.NoError(t, err)
	assertBig(t, e18(1), tw)

	assert.Len(t, h.events.Filter(gcAddr, addTypeEvent.ID()), 1)
	assert.Len(t, h.events.Filter(gcAddr, newTypeWeightEvent.ID()), 1)
	assert.Len(t, h.events.Filter(gcAddr, newGaugeEvent.ID()), 2)
}

// A single voter giving all power to one gauge, then splitting it.
func TestVoteAllocation(t *testing.T) {
	h := newHarness(t)
	h.setupGauges()
	h.lock(alice, e18(10), T0+52*thor.Week)

	require.NoError(t, h.vote(alice, gauge1, MaxPower))
	next := T0 + thor.Week

	h.advance(thor.Week + 1)
	require.NoError(t, h.call(bob, func(gc *GaugeController) error { return gc.CheckpointGauge(gauge1) }))
	assertBig(t, e18(1), h.relativeWeight(gauge1, next))
	assert.Zero(t, h.relativeWeight(gauge2, next).Sign())

	// all power is used by gauge1
	err := h.vote(alice, gauge2, MaxPower)
	assert.ErrorIs(t, err, errTooMuchPower)

	h.advance(3*thor.Day - 2)
	err = h.vote(alice, gauge1, 5000)
	assert.ErrorIs(t, err, errVoteTooOften)

	// exactly ten days after the first vote
	h.advance(1)
	require.Equal(t, T0+WeightVoteDelay, h.now)
	require.NoError(t, h.vote(alice, gauge1, 5000))
	require.NoError(t, h.vote(alice, gauge2, 5000))

	power, err := h.view().VoteUserPower(alice)
	require.NoError(t, err)
	assertBig(t, big.NewInt(10_000), power)

	next = T0 + 2*thor.Week
	half := big.NewInt(5e17)
	assertBig(t, half, h.relativeWeight(gauge1, next))
	assertBig(t, half, h.relativeWeight(gauge2, next))

	vs, err := h.view().VoteUserSlopes(alice, gauge1)
	require.NoError(t, err)
	assertBig(t, big.NewInt(5000), vs.Power)
	assert.Equal(t, T0+52*thor.Week, vs.End)

	last, err := h.view().LastUserVote(alice, gauge2)
	require.NoError(t, err)
	assert.Equal(t, h.now, last)

	assert.Len(t, h.events.Filter(gcAddr, voteForGaugeEvent.ID()), 3)
}

func TestVoteGuards(t *testing.T) {
	h := newHarness(t)
	h.setupGauges()

	// no lock at all
	err := h.vote(alice, gauge1, 100)
	assert.ErrorIs(t, err, errLockExpiresSoon)

	// a lock ending exactly at the next week start
	h.lock(bob, e18(1), T0+thor.Week)
	err = h.vote(bob, gauge1, 100)
	assert.ErrorIs(t, err, errLockExpiresSoon)

	h.lock(alice, e18(1), T0+2*thor.Week)
	err = h.vote(alice, gauge1, MaxPower+1)
	assert.ErrorIs(t, err, errInvalidWeight)
	err = h.vote(alice, gauge3, 100)
	assert.ErrorIs(t, err, errGaugeNotAdded)
	require.NoError(t, h.vote(alice, gauge1, 6000))

	err = h.vote(alice, gauge2, 5000)
	assert.ErrorIs(t, err, errTooMuchPower)
	assert.Equal(t, reverts.Precondition, reverts.KindOf(err))
	require.NoError(t, h.vote(alice, gauge2, 4000))

	power, err := h.view().VoteUserPower(alice)
	require.NoError(t, err)
	assertBig(t, big.NewInt(10_000), power)
}

func TestVoteDecay(t *testing.T) {
	h := newHarness(t)
	h.setupGauges()
	h.lock(alice, e18(10), T0+4*thor.Week)
	require.NoError(t, h.vote(alice, gauge1, MaxPower))

	slope, err := h.escrowSlope(alice)
	require.NoError(t, err)

	gc := h.view()
	p, err := gc.PointsWeight(gauge1, T0+thor.Week)
	require.NoError(t, err)
	assertBig(t, new(big.Int).Mul(slope, big.NewInt(int64(3*thor.Week))), p.Bias)
	assertBig(t, slope, p.Slope)
	change, err := gc.ChangesWeight(gauge1, T0+4*thor.Week)
	require.NoError(t, err)
	assertBig(t, slope, change)

	h.advance(5 * thor.Week)
	require.NoError(t, h.call(bob, func(gc *GaugeController) error { return gc.CheckpointGauge(gauge1) }))

	gc = h.view()
	p, err = gc.PointsWeight(gauge1, T0+3*thor.Week)
	require.NoError(t, err)
	assertBig(t, new(big.Int).Mul(slope, big.NewInt(int64(thor.Week))), p.Bias)

	w, err := gc.GetGaugeWeight(gauge1)
	require.NoError(t, err)
	assert.Zero(t, w.Sign())
	sum, err := gc.GetWeightsSumPerType(0)
	require.NoError(t, err)
	assert.Zero(t, sum.Sign())
	total, err := gc.GetTotalWeight()
	require.NoError(t, err)
	assert.Zero(t, total.Sign())

	assertBig(t, e18(1), h.relativeWeight(gauge1, T0+3*thor.Week))
	assert.Zero(t, h.relativeWeight(gauge1, T0+4*thor.Week).Sign())
	tw, err := gc.TimeWeight(gauge1)
	require.NoError(t, err)
	assert.Equal(t, T0+6*thor.Week, tw)
}

func TestRevote(t *testing.T) {
	h := newHarness(t)
	h.setupGauges()
	h.lock(alice, e18(10), T0+52*thor.Week)
	require.NoError(t, h.vote(alice, gauge1, 6000))

	h.advance(WeightVoteDelay)
	require.NoError(t, h.vote(alice, gauge1, 4000))

	gc := h.view()
	power, err := gc.VoteUserPower(alice)
	require.NoError(t, err)
	assertBig(t, big.NewInt(4000), power)

	slope, err := h.escrowSlope(alice)
	require.NoError(t, err)
	voted := new(big.Int).Div(new(big.Int).Mul(slope, big.NewInt(4000)), big.NewInt(10_000))

	next := nextWeek(h.now)
	p, err := gc.PointsWeight(gauge1, next)
	require.NoError(t, err)
	assertBig(t, voted, p.Slope)
	assertBig(t, new(big.Int).Mul(voted, big.NewInt(int64(T0+52*thor.Week-next))), p.Bias)

	change, err := gc.ChangesWeight(gauge1, T0+52*thor.Week)
	require.NoError(t, err)
	assertBig(t, voted, change)

	// only the gauge carries weight
	assertBig(t, e18(1), h.relativeWeight(gauge1, next))
}

func TestAdminWeights(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.call(admin, func(gc *GaugeController) error {
		if err := gc.AddType("Liquidity", e18(1)); err != nil {
			return err
		}
		if err := gc.AddGauge(gauge1, 0, e18(1)); err != nil {
			return err
		}
		return gc.AddGauge(gauge2, 0, e18(3))
	}))
	next := T0 + thor.Week
	assertBig(t, big.NewInt(25e16), h.relativeWeight(gauge1, next))
	assertBig(t, big.NewInt(75e16), h.relativeWeight(gauge2, next))

	require.NoError(t, h.call(admin, func(gc *GaugeController) error {
		if err := gc.AddType("Stable", e18(2)); err != nil {
			return err
		}
		return gc.AddGauge(gauge3, 1, e18(1))
	}))
	total, err := h.view().GetTotalWeight()
	require.NoError(t, err)
	assertBig(t, new(big.Int).Mul(e18(6), e18(1)), total)
	assertBig(t, big.NewInt(166666666666666666), h.relativeWeight(gauge1, next))
	assertBig(t, big.NewInt(5e17), h.relativeWeight(gauge2, next))
	assertBig(t, big.NewInt(333333333333333333), h.relativeWeight(gauge3, next))

	// next week, gauge1 is overridden
	h.advance(thor.Week + 1)
	require.NoError(t, h.call(admin, func(gc *GaugeController) error {
		return gc.ChangeGaugeWeight(gauge1, e18(5))
	}))
	next = T0 + 2*thor.Week

	// gauge2 and gauge3 are filled in by their own checkpoints
	var w *big.Int
	require.NoError(t, h.call(bob, func(gc *GaugeController) (err error) {
		w, err = gc.GaugeRelativeWeightWrite(gauge2, next)
		return
	}))
	assertBig(t, big.NewInt(3e17), w)
	assertBig(t, w, h.relativeWeight(gauge2, next))

	require.NoError(t, h.call(bob, func(gc *GaugeController) error { return gc.CheckpointGauge(gauge3) }))
	assertBig(t, big.NewInt(5e17), h.relativeWeight(gauge1, next))
	assertBig(t, big.NewInt(2e17), h.relativeWeight(gauge3, next))

	assert.Len(t, h.events.Filter(gcAddr, newGaugeWeightEvent.ID()), 1)

	err = h.call(admin, func(gc *GaugeController) error { return gc.ChangeGaugeWeight(thor.BytesToAddress([]byte("x")), e18(1)) })
	assert.ErrorIs(t, err, errGaugeNotAdded)
	err = h.call(admin, func(gc *GaugeController) error { return gc.ChangeTypeWeight(5, e18(1)) })
	assert.ErrorIs(t, err, errUnknownType)

	require.NoError(t, h.call(admin, func(gc *GaugeController) error { return gc.ChangeTypeWeight(1, e18(4)) }))
	tw, err := h.view().GetTypeWeight(1)
	require.NoError(t, err)
	assertBig(t, e18(4), tw)
	tw, err = h.view().PointsTypeWeight(1, next)
	require.NoError(t, err)
	assertBig(t, e18(4), tw)
}

func TestOwnership(t *testing.T) {
	h := newHarness(t)
	err := h.call(admin, func(gc *GaugeController) error { return gc.ApplyTransferOwnership() })
	assert.ErrorIs(t, err, errAdminNotSet)

	require.NoError(t, h.call(admin, func(gc *GaugeController) error { return gc.CommitTransferOwnership(bob) }))
	err = h.call(bob, func(gc *GaugeController) error { return gc.ApplyTransferOwnership() })
	assert.ErrorIs(t, err, errNotAdmin)
	require.NoError(t, h.call(admin, func(gc *GaugeController) error { return gc.ApplyTransferOwnership() }))

	a, err := h.view().Admin()
	require.NoError(t, err)
	assert.Equal(t, bob, a)
	assert.Len(t, h.events.Filter(gcAddr, applyOwnershipEvent.ID()), 1)
	assert.Len(t, h.events.Filter(gcAddr, commitOwnershipEvent.ID()), 1)
}
