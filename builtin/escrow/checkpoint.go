// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"

	"github.com/vechain/vedao/builtin/safemath"
	"github.com/vechain/vedao/thor"
)

// userPoint derives the point of a lock at now. Expired or empty locks yield a zero point.
func userPoint(c *safemath.Calc, l *LockedBalance, now uint64) *Point {
	p := newPoint(0, 0)
	if l.End > now && l.Amount.Sign() > 0 {
		p.Slope = c.DivInt128(l.Amount, maxTime)
		p.Bias = c.MulInt128(p.Slope, safemath.Uint64(l.End-now))
	}
	return p
}

// checkpoint records global data to the checkpoint history, and the user
// point of addr when addr is not zero.
//
// The global history is caught up week by week, at most maxCheckpointWeeks
// per call. Slope changes scheduled at week boundaries are applied on the way.
// A second checkpoint within the same second overwrites the latest point.
func (v *VotingEscrow) checkpoint(addr thor.Address, oldLocked, newLocked *LockedBalance) error {
	var (
		c         safemath.Calc
		now       = v.env.Now()
		blockNum  = uint64(v.env.BlockContext().Number)
		uOld      = newPoint(0, 0)
		uNew      = newPoint(0, 0)
		oldDSlope = new(big.Int)
		newDSlope = new(big.Int)
		err       error
	)

	epoch, err := v.storage.epoch.Get()
	if err != nil {
		return err
	}

	if !addr.IsZero() {
		uOld = userPoint(&c, oldLocked, now)
		uNew = userPoint(&c, newLocked, now)
		if err := c.Err(); err != nil {
			return err
		}

		if oldDSlope, err = v.storage.GetSlopeChange(oldLocked.End); err != nil {
			return err
		}
		if newLocked.End != 0 {
			if newLocked.End == oldLocked.End {
				newDSlope = new(big.Int).Set(oldDSlope)
			} else if newDSlope, err = v.storage.GetSlopeChange(newLocked.End); err != nil {
				return err
			}
		}
	}

	lastPoint := newPoint(now, blockNum)
	if epoch > 0 {
		if lastPoint, err = v.storage.GetPoint(epoch); err != nil {
			return err
		}
	}
	lastCheckpoint := lastPoint.Ts
	initialLastPoint := lastPoint.Copy()

	// blocks per second, scaled, to extrapolate block numbers of weekly points
	blockSlope := new(big.Int)
	if now > lastPoint.Ts {
		blocks, err := safemath.SubUint64(blockNum, lastPoint.Blk)
		if err != nil {
			return err
		}
		blockSlope = c.Div(c.Mul(thor.Multiplier, safemath.Uint64(blocks)), safemath.Uint64(now-lastPoint.Ts))
	}

	ti := thor.FloorWeek(lastCheckpoint)
	for range maxCheckpointWeeks {
		ti += thor.Week
		dSlope := new(big.Int)
		if ti > now {
			ti = now
		} else if dSlope, err = v.storage.GetSlopeChange(ti); err != nil {
			return err
		}
		lastPoint.Bias = c.SubInt128(lastPoint.Bias, c.MulInt128(lastPoint.Slope, safemath.Uint64(ti-lastCheckpoint)))
		lastPoint.Slope = c.AddInt128(lastPoint.Slope, dSlope)
		lastPoint.Bias = safemath.NonNegative(lastPoint.Bias)
		lastPoint.Slope = safemath.NonNegative(lastPoint.Slope)

		lastCheckpoint = ti
		lastPoint.Ts = ti
		elapsed := c.Div(c.Mul(blockSlope, safemath.Uint64(ti-initialLastPoint.Ts)), thor.Multiplier)
		lastPoint.Blk = initialLastPoint.Blk + elapsed.Uint64()
		if err := c.Err(); err != nil {
			return err
		}

		if ti == now {
			lastPoint.Blk = blockNum
			if epoch == 0 || initialLastPoint.Ts < now {
				epoch++
			}
			break
		}
		epoch++
		if err := v.storage.SetPoint(epoch, lastPoint); err != nil {
			return err
		}
	}

	if err := v.storage.epoch.Set(epoch); err != nil {
		return err
	}

	if !addr.IsZero() {
		// the global point follows the change of the user point
		lastPoint.Slope = c.AddInt128(lastPoint.Slope, c.SubInt128(uNew.Slope, uOld.Slope))
		lastPoint.Bias = c.AddInt128(lastPoint.Bias, c.SubInt128(uNew.Bias, uOld.Bias))
		lastPoint.Slope = safemath.NonNegative(lastPoint.Slope)
		lastPoint.Bias = safemath.NonNegative(lastPoint.Bias)
		if err := c.Err(); err != nil {
			return err
		}
	}

	if err := v.storage.SetPoint(epoch, lastPoint); err != nil {
		return err
	}

	if addr.IsZero() {
		return nil
	}

	// schedule the slope changes, cancelling the contribution of the old lock
	if oldLocked.End > now {
		oldDSlope = c.AddInt128(oldDSlope, uOld.Slope)
		if newLocked.End == oldLocked.End {
			oldDSlope = c.SubInt128(oldDSlope, uNew.Slope)
		}
		if err := c.Err(); err != nil {
			return err
		}
		if err := v.storage.SetSlopeChange(oldLocked.End, oldDSlope); err != nil {
			return err
		}
	}
	if newLocked.End > now && newLocked.End > oldLocked.End {
		newDSlope = c.SubInt128(newDSlope, uNew.Slope)
		if err := c.Err(); err != nil {
			return err
		}
		if err := v.storage.SetSlopeChange(newLocked.End, newDSlope); err != nil {
			return err
		}
	}

	userEpoch, err := v.storage.GetUserPointEpoch(addr)
	if err != nil {
		return err
	}
	userEpoch++
	if err := v.storage.SetUserPointEpoch(addr, userEpoch); err != nil {
		return err
	}
	uNew.Ts = now
	uNew.Blk = blockNum
	return v.storage.SetUserPoint(addr, userEpoch, uNew)
}
