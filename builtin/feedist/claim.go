// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feedist

import (
	"math/big"

	"github.com/vechain/vedao/abi"
	"github.com/vechain/vedao/builtin/escrow"
	"github.com/vechain/vedao/builtin/safemath"
	"github.com/vechain/vedao/thor"
)

// findUserEpoch returns the latest user epoch with a point at or before t.
func findUserEpoch(ve Escrow, user thor.Address, t, maxEpoch uint64) (uint64, error) {
	var lo, hi uint64 = 0, maxEpoch
	for range maxSearchIterations {
		if lo >= hi {
			break
		}
		mid := lo + (hi-lo+1)/2
		p, err := ve.UserPointHistory(user, mid)
		if err != nil {
			return 0, external(err)
		}
		if p.Ts <= t {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

// VeForAt returns the voting power of user at ts, read from the user history.
func (f *FeeDistributor) VeForAt(user thor.Address, ts uint64) (*big.Int, error) {
	ve, err := f.escrow()
	if err != nil {
		return nil, err
	}
	maxEpoch, err := ve.UserPointEpoch(user)
	if err != nil {
		return nil, external(err)
	}
	epoch, err := findUserEpoch(ve, user, ts, maxEpoch)
	if err != nil {
		return nil, err
	}
	p, err := ve.UserPointHistory(user, epoch)
	if err != nil {
		return nil, external(err)
	}
	if epoch == 0 {
		return new(big.Int), nil
	}
	return p.ValueAt(ts)
}

// Claim transfers the fees claimable by addr, the caller when addr is zero.
// At most 50 weeks are claimed per call.
func (f *FeeDistributor) Claim(addr thor.Address) (*big.Int, error) {
	release, err := f.env.Lock()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := f.notKilled(); err != nil {
		return nil, err
	}
	if addr.IsZero() {
		addr = f.env.Caller()
	}
	lastTokenTime, err := f.prepareClaim()
	if err != nil {
		return nil, err
	}
	ve, err := f.escrow()
	if err != nil {
		return nil, err
	}
	amount, err := f.claim(addr, ve, lastTokenTime)
	if err != nil {
		return nil, err
	}
	if err := f.payout(addr, amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// ClaimMany claims for up to MaxReceivers addresses, stopping at the first zero address.
func (f *FeeDistributor) ClaimMany(receivers []thor.Address) (*big.Int, error) {
	release, err := f.env.Lock()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := f.notKilled(); err != nil {
		return nil, err
	}
	if len(receivers) > MaxReceivers {
		return nil, errTooManyReceivers
	}
	lastTokenTime, err := f.prepareClaim()
	if err != nil {
		return nil, err
	}
	ve, err := f.escrow()
	if err != nil {
		return nil, err
	}

	total := new(big.Int)
	for _, addr := range receivers {
		if addr.IsZero() {
			break
		}
		amount, err := f.claim(addr, ve, lastTokenTime)
		if err != nil {
			return nil, err
		}
		if err := f.payout(addr, amount); err != nil {
			return nil, err
		}
		total.Add(total, amount)
	}
	return total, nil
}

// prepareClaim brings the supply and token checkpoints up to date and
// returns the week up to which fees can be claimed.
func (f *FeeDistributor) prepareClaim() (uint64, error) {
	now := f.env.Now()
	cursor, err := f.storage.timeCursor.Get()
	if err != nil {
		return 0, err
	}
	if now >= cursor {
		if err := f.checkpointTotalSupply(); err != nil {
			return 0, err
		}
	}
	lastTokenTime, err := f.storage.lastTokenTime.Get()
	if err != nil {
		return 0, err
	}
	done, err := f.checkpointTokenIfDue()
	if err != nil {
		return 0, err
	}
	if done {
		lastTokenTime = now
	}
	return thor.FloorWeek(lastTokenTime), nil
}

func (f *FeeDistributor) payout(addr thor.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	token, err := f.token()
	if err != nil {
		return err
	}
	if err := token.Transfer(addr, amount); err != nil {
		return external(err)
	}
	return f.storage.tokenLastBalance.Sub(amount)
}

// claim walks the weeks from the user's cursor to lastTokenTime, summing the
// user's share of each week's fees. The user history is followed epoch by
// epoch as the weeks pass its points.
func (f *FeeDistributor) claim(addr thor.Address, ve Escrow, lastTokenTime uint64) (*big.Int, error) {
	toDistribute := new(big.Int)
	maxUserEpoch, err := ve.UserPointEpoch(addr)
	if err != nil {
		return nil, external(err)
	}
	if maxUserEpoch == 0 {
		return toDistribute, nil
	}
	startTime, err := f.storage.startTime.Get()
	if err != nil {
		return nil, err
	}

	weekCursor, err := f.storage.timeCursorOf.Get(addr)
	if err != nil {
		return nil, err
	}
	var userEpoch uint64
	if weekCursor == 0 {
		if userEpoch, err = findUserEpoch(ve, addr, startTime, maxUserEpoch); err != nil {
			return nil, err
		}
	} else if userEpoch, err = f.storage.userEpochOf.Get(addr); err != nil {
		return nil, err
	}
	if userEpoch == 0 {
		userEpoch = 1
	}
	userPoint, err := ve.UserPointHistory(addr, userEpoch)
	if err != nil {
		return nil, external(err)
	}
	if weekCursor == 0 {
		weekCursor = thor.FloorWeek(userPoint.Ts + thor.Week - 1)
	}
	if weekCursor >= lastTokenTime {
		return toDistribute, nil
	}
	weekCursor = max(weekCursor, startTime)

	var c safemath.Calc
	oldUserPoint := &escrow.Point{Bias: new(big.Int), Slope: new(big.Int)}
	for range maxClaimWeeks {
		if weekCursor >= lastTokenTime {
			break
		}
		if weekCursor >= userPoint.Ts && userEpoch <= maxUserEpoch {
			userEpoch++
			oldUserPoint = userPoint
			if userEpoch > maxUserEpoch {
				userPoint = &escrow.Point{Bias: new(big.Int), Slope: new(big.Int)}
			} else if userPoint, err = ve.UserPointHistory(addr, userEpoch); err != nil {
				return nil, external(err)
			}
			continue
		}

		balance, err := oldUserPoint.ValueAt(weekCursor)
		if err != nil {
			return nil, err
		}
		if balance.Sign() == 0 && userEpoch > maxUserEpoch {
			break
		}
		if balance.Sign() > 0 {
			supply, err := f.storage.GetVeSupply(weekCursor)
			if err != nil {
				return nil, err
			}
			// an empty week is skipped
			if supply.Sign() > 0 {
				tokens, err := f.storage.GetTokensPerWeek(weekCursor)
				if err != nil {
					return nil, err
				}
				toDistribute = c.Add(toDistribute, c.Div(c.Mul(balance, tokens), supply))
				if err := c.Err(); err != nil {
					return nil, err
				}
			}
		}
		weekCursor += thor.Week
	}

	userEpoch = min(maxUserEpoch, userEpoch-1)
	if err := f.storage.userEpochOf.Set(addr, userEpoch); err != nil {
		return nil, err
	}
	if err := f.storage.timeCursorOf.Set(addr, weekCursor); err != nil {
		return nil, err
	}
	f.env.Log(claimedEvent, f.addr, []thor.Bytes32{abi.AddressTopic(addr)}, toDistribute, userEpoch, maxUserEpoch)
	logger.Debug("claim", "recipient", addr, "amount", toDistribute, "epoch", userEpoch)
	return toDistribute, nil
}
