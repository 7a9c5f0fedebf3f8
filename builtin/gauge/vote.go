// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"math/big"

	"github.com/vechain/vedao/builtin/safemath"
	"github.com/vechain/vedao/thor"
)

func maxBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// VoteForGaugeWeights allocates userWeight basis points of the caller's
// voting power to a gauge, replacing the previous vote on that gauge.
// The vote takes effect from next week and decays with the caller's lock.
func (g *GaugeController) VoteForGaugeWeights(gauge thor.Address, userWeight uint64) error {
	caller := g.env.Caller()
	now := g.env.Now()
	next := nextWeek(now)

	escrowAddr, err := g.storage.votingEscrow.Get()
	if err != nil {
		return err
	}
	escrow := g.escrows(escrowAddr)
	slope, err := escrow.GetLastUserSlope(caller)
	if err != nil {
		return external(err)
	}
	if slope.Sign() < 0 {
		return errNegativeSlope
	}
	lockEnd, err := escrow.LockedEnd(caller)
	if err != nil {
		return external(err)
	}

	if lockEnd <= next {
		return errLockExpiresSoon
	}
	if userWeight > MaxPower {
		return errInvalidWeight
	}
	key := voteKey(caller, gauge)
	lastVote, err := g.storage.lastUserVote.Get(key)
	if err != nil {
		return err
	}
	if now < lastVote+WeightVoteDelay {
		return errVoteTooOften
	}
	typeID, ok, err := g.storage.GetGaugeType(gauge)
	if err != nil {
		return err
	}
	if !ok {
		return errGaugeNotAdded
	}

	var c safemath.Calc
	old, err := g.storage.GetVotedSlope(caller, gauge)
	if err != nil {
		return err
	}
	oldBias := new(big.Int)
	if old.End > next {
		oldBias = c.Mul(old.Slope, safemath.Uint64(old.End-next))
	}
	vote := &VotedSlope{
		Slope: c.Div(c.Mul(slope, safemath.Uint64(userWeight)), safemath.Uint64(MaxPower)),
		Power: safemath.Uint64(userWeight),
		End:   lockEnd,
	}
	newBias := c.Mul(vote.Slope, safemath.Uint64(lockEnd-next))

	powerUsed, err := g.storage.voteUserPower.Get(caller)
	if err != nil {
		return err
	}
	powerUsed = c.Sub(c.Add(powerUsed, vote.Power), old.Power)
	if err := c.Err(); err != nil {
		return err
	}
	if powerUsed.Cmp(safemath.Uint64(MaxPower)) > 0 {
		return errTooMuchPower
	}
	if err := g.storage.voteUserPower.Set(caller, powerUsed); err != nil {
		return err
	}

	// replace the old vote in the point of next week
	oldWeightBias, err := g.weight(gauge)
	if err != nil {
		return err
	}
	pw, err := g.storage.GetPointWeight(gauge, next)
	if err != nil {
		return err
	}
	oldSumBias, err := g.sum(typeID)
	if err != nil {
		return err
	}
	ps, err := g.storage.GetPointSum(typeID, next)
	if err != nil {
		return err
	}

	pw.Bias = c.Sub(maxBig(c.Add(oldWeightBias, newBias), oldBias), oldBias)
	ps.Bias = c.Sub(maxBig(c.Add(oldSumBias, newBias), oldBias), oldBias)
	if old.End > next {
		pw.Slope = c.Sub(maxBig(c.Add(pw.Slope, vote.Slope), old.Slope), old.Slope)
		ps.Slope = c.Sub(maxBig(c.Add(ps.Slope, vote.Slope), old.Slope), old.Slope)
	} else {
		pw.Slope = c.Add(pw.Slope, vote.Slope)
		ps.Slope = c.Add(ps.Slope, vote.Slope)
	}
	if err := c.Err(); err != nil {
		return err
	}
	if err := g.storage.SetPointWeight(gauge, next, pw); err != nil {
		return err
	}
	if err := g.storage.SetPointSum(typeID, next, ps); err != nil {
		return err
	}

	// cancel the pending slope change of the old vote, schedule the new one
	if old.End > now {
		if err := g.addChanges(gauge, typeID, old.End, old.Slope, true); err != nil {
			return err
		}
	}
	if err := g.addChanges(gauge, typeID, vote.End, vote.Slope, false); err != nil {
		return err
	}

	if _, err := g.total(); err != nil {
		return err
	}
	if err := g.storage.SetVotedSlope(caller, gauge, vote); err != nil {
		return err
	}
	if err := g.storage.lastUserVote.Set(key, now); err != nil {
		return err
	}

	g.env.Log(voteForGaugeEvent, g.addr, nil, now, caller, gauge, userWeight)
	logger.Debug("vote", "user", caller, "gauge", gauge, "weight", userWeight)
	return nil
}

// addChanges adds delta to, or removes it from, the slope changes of a gauge and its type at week.
func (g *GaugeController) addChanges(gauge thor.Address, typeID, week uint64, delta *big.Int, remove bool) error {
	var c safemath.Calc
	cw, err := g.storage.GetChangeWeight(gauge, week)
	if err != nil {
		return err
	}
	cs, err := g.storage.GetChangeSum(typeID, week)
	if err != nil {
		return err
	}
	if remove {
		cw, cs = c.Sub(cw, delta), c.Sub(cs, delta)
	} else {
		cw, cs = c.Add(cw, delta), c.Add(cs, delta)
	}
	if err := c.Err(); err != nil {
		return err
	}
	if err := g.storage.SetChangeWeight(gauge, week, cw); err != nil {
		return err
	}
	return g.storage.SetChangeSum(typeID, week, cs)
}
