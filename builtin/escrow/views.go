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

// findUserEpochByTime returns the latest user epoch whose point has ts <= t.
func (v *VotingEscrow) findUserEpochByTime(addr thor.Address, t uint64, maxEpoch uint64) (uint64, error) {
	return search(maxEpoch, func(mid uint64) (bool, error) {
		p, err := v.storage.GetUserPoint(addr, mid)
		if err != nil {
			return false, err
		}
		return p.Ts <= t, nil
	})
}

// findUserEpochByBlock returns the latest user epoch whose point has blk <= block.
func (v *VotingEscrow) findUserEpochByBlock(addr thor.Address, block uint64, maxEpoch uint64) (uint64, error) {
	return search(maxEpoch, func(mid uint64) (bool, error) {
		p, err := v.storage.GetUserPoint(addr, mid)
		if err != nil {
			return false, err
		}
		return p.Blk <= block, nil
	})
}

// findEpochByTime returns the latest global epoch whose point has ts <= t.
func (v *VotingEscrow) findEpochByTime(t uint64, maxEpoch uint64) (uint64, error) {
	return search(maxEpoch, func(mid uint64) (bool, error) {
		p, err := v.storage.GetPoint(mid)
		if err != nil {
			return false, err
		}
		return p.Ts <= t, nil
	})
}

// findEpochByBlock returns the latest global epoch whose point has blk <= block.
func (v *VotingEscrow) findEpochByBlock(block uint64, maxEpoch uint64) (uint64, error) {
	return search(maxEpoch, func(mid uint64) (bool, error) {
		p, err := v.storage.GetPoint(mid)
		if err != nil {
			return false, err
		}
		return p.Blk <= block, nil
	})
}

// search returns the largest index in [0, hi] for which ok holds, assuming ok is
// monotonically true then false. It gives up after maxSearchIterations.
func search(hi uint64, ok func(mid uint64) (bool, error)) (uint64, error) {
	var lo uint64
	for range maxSearchIterations {
		if lo >= hi {
			break
		}
		mid := lo + (hi-lo+1)/2
		found, err := ok(mid)
		if err != nil {
			return 0, err
		}
		if found {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// BalanceOf returns the voting power of addr at time t.
func (v *VotingEscrow) BalanceOf(addr thor.Address, t uint64) (*big.Int, error) {
	userEpoch, err := v.storage.GetUserPointEpoch(addr)
	if err != nil {
		return nil, err
	}
	if userEpoch == 0 {
		return new(big.Int), nil
	}
	epoch, err := v.findUserEpochByTime(addr, t, userEpoch)
	if err != nil {
		return nil, err
	}
	p, err := v.storage.GetUserPoint(addr, epoch)
	if err != nil {
		return nil, err
	}
	if epoch == 0 || p.Ts > t {
		return new(big.Int), nil
	}
	return p.ValueAt(t)
}

// blockTime interpolates the time of a past block from the global history.
func (v *VotingEscrow) blockTime(block uint64) (*Point, uint64, error) {
	maxEpoch, err := v.storage.epoch.Get()
	if err != nil {
		return nil, 0, err
	}
	epoch, err := v.findEpochByBlock(block, maxEpoch)
	if err != nil {
		return nil, 0, err
	}
	p0, err := v.storage.GetPoint(epoch)
	if err != nil {
		return nil, 0, err
	}

	var dBlock, dt uint64
	if epoch < maxEpoch {
		p1, err := v.storage.GetPoint(epoch + 1)
		if err != nil {
			return nil, 0, err
		}
		dBlock, dt = p1.Blk-p0.Blk, p1.Ts-p0.Ts
	} else {
		dBlock = uint64(v.env.BlockContext().Number) - p0.Blk
		dt = v.env.Now() - p0.Ts
	}

	t := p0.Ts
	if dBlock != 0 && block > p0.Blk {
		var c safemath.Calc
		offset := c.Div(c.Mul(safemath.Uint64(dt), safemath.Uint64(block-p0.Blk)), safemath.Uint64(dBlock))
		if err := c.Err(); err != nil {
			return nil, 0, err
		}
		t += offset.Uint64()
	}
	return p0, t, nil
}

// BalanceOfAt returns the voting power of addr at a past block.
func (v *VotingEscrow) BalanceOfAt(addr thor.Address, block uint64) (*big.Int, error) {
	if block > uint64(v.env.BlockContext().Number) {
		return nil, errFutureBlock
	}
	userEpoch, err := v.storage.GetUserPointEpoch(addr)
	if err != nil {
		return nil, err
	}
	epoch, err := v.findUserEpochByBlock(addr, block, userEpoch)
	if err != nil {
		return nil, err
	}
	if epoch == 0 {
		return new(big.Int), nil
	}
	upoint, err := v.storage.GetUserPoint(addr, epoch)
	if err != nil {
		return nil, err
	}
	_, t, err := v.blockTime(block)
	if err != nil {
		return nil, err
	}
	if t < upoint.Ts {
		t = upoint.Ts
	}
	return upoint.ValueAt(t)
}

// supplyAt walks the slope changes from point to t and evaluates the total bias.
func (v *VotingEscrow) supplyAt(point *Point, t uint64) (*big.Int, error) {
	if t < point.Ts {
		return new(big.Int), nil
	}
	var c safemath.Calc
	last := point.Copy()
	ti := thor.FloorWeek(last.Ts)
	for range maxCheckpointWeeks {
		ti += thor.Week
		dSlope := new(big.Int)
		if ti > t {
			ti = t
		} else {
			var err error
			if dSlope, err = v.storage.GetSlopeChange(ti); err != nil {
				return nil, err
			}
		}
		last.Bias = c.SubInt128(last.Bias, c.MulInt128(last.Slope, safemath.Uint64(ti-last.Ts)))
		if ti == t {
			break
		}
		last.Slope = c.AddInt128(last.Slope, dSlope)
		last.Ts = ti
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return safemath.NonNegative(last.Bias), nil
}

// TotalSupply returns the total voting power at time t.
func (v *VotingEscrow) TotalSupply(t uint64) (*big.Int, error) {
	maxEpoch, err := v.storage.epoch.Get()
	if err != nil {
		return nil, err
	}
	epoch, err := v.findEpochByTime(t, maxEpoch)
	if err != nil {
		return nil, err
	}
	p, err := v.storage.GetPoint(epoch)
	if err != nil {
		return nil, err
	}
	return v.supplyAt(p, t)
}

// TotalSupplyAt returns the total voting power at a past block.
func (v *VotingEscrow) TotalSupplyAt(block uint64) (*big.Int, error) {
	if block > uint64(v.env.BlockContext().Number) {
		return nil, errFutureBlock
	}
	p, t, err := v.blockTime(block)
	if err != nil {
		return nil, err
	}
	return v.supplyAt(p, t)
}

// GetLastUserSlope returns the slope of the most recent user point.
func (v *VotingEscrow) GetLastUserSlope(addr thor.Address) (*big.Int, error) {
	epoch, err := v.storage.GetUserPointEpoch(addr)
	if err != nil {
		return nil, err
	}
	p, err := v.storage.GetUserPoint(addr, epoch)
	if err != nil {
		return nil, err
	}
	return p.Slope, nil
}

// UserPointHistoryTs returns the timestamp of the user point at epoch.
func (v *VotingEscrow) UserPointHistoryTs(addr thor.Address, epoch uint64) (uint64, error) {
	p, err := v.storage.GetUserPoint(addr, epoch)
	if err != nil {
		return 0, err
	}
	return p.Ts, nil
}

// LockedEnd returns the unlock time of addr.
func (v *VotingEscrow) LockedEnd(addr thor.Address) (uint64, error) {
	l, err := v.storage.GetLocked(addr)
	if err != nil {
		return 0, err
	}
	return l.End, nil
}

func (v *VotingEscrow) Locked(addr thor.Address) (*LockedBalance, error) {
	return v.storage.GetLocked(addr)
}

func (v *VotingEscrow) UserPointEpoch(addr thor.Address) (uint64, error) {
	return v.storage.GetUserPointEpoch(addr)
}

func (v *VotingEscrow) UserPointHistory(addr thor.Address, epoch uint64) (*Point, error) {
	return v.storage.GetUserPoint(addr, epoch)
}

func (v *VotingEscrow) Epoch() (uint64, error) {
	return v.storage.epoch.Get()
}

func (v *VotingEscrow) PointHistory(epoch uint64) (*Point, error) {
	return v.storage.GetPoint(epoch)
}

func (v *VotingEscrow) SlopeChanges(week uint64) (*big.Int, error) {
	return v.storage.GetSlopeChange(week)
}

func (v *VotingEscrow) Supply() (*big.Int, error)          { return v.storage.supply.Get() }
func (v *VotingEscrow) Token() (thor.Address, error)       { return v.storage.token.Get() }
func (v *VotingEscrow) Admin() (thor.Address, error)       { return v.storage.admin.Get() }
func (v *VotingEscrow) FutureAdmin() (thor.Address, error) { return v.storage.futureAdmin.Get() }
func (v *VotingEscrow) Controller() (thor.Address, error)  { return v.storage.controller.Get() }
func (v *VotingEscrow) TransfersEnabled() (bool, error)    { return v.storage.transfersEnabled.Get() }
func (v *VotingEscrow) Name() (string, error)              { return v.storage.name.Get() }
func (v *VotingEscrow) Symbol() (string, error)            { return v.storage.symbol.Get() }
func (v *VotingEscrow) Version() (string, error)           { return v.storage.version.Get() }

func (v *VotingEscrow) Decimals() (uint8, error) {
	d, err := v.storage.decimals.Get()
	if err != nil {
		return 0, err
	}
	return uint8(d), nil
}
