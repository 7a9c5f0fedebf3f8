// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feedist

import (
	"math/big"

	"github.com/vechain/vedao/builtin/safemath"
	"github.com/vechain/vedao/thor"
)

// CheckpointToken distributes the fee token received since the last token
// checkpoint over the weeks elapsed, pro rata to time. The admin can always
// checkpoint, anyone else only when allowed and once a day.
func (f *FeeDistributor) CheckpointToken() error {
	if err := f.notKilled(); err != nil {
		return err
	}
	admin, err := f.storage.admin.Get()
	if err != nil {
		return err
	}
	if f.env.Caller() != admin {
		due, err := f.tokenCheckpointDue()
		if err != nil {
			return err
		}
		if !due {
			return errCheckpointDenied
		}
	}
	return f.checkpointToken()
}

func (f *FeeDistributor) tokenCheckpointDue() (bool, error) {
	allowed, err := f.storage.canCheckpointToken.Get()
	if err != nil || !allowed {
		return false, err
	}
	last, err := f.storage.lastTokenTime.Get()
	if err != nil {
		return false, err
	}
	return f.env.Now() > last+TokenCheckpointDeadline, nil
}

// checkpointTokenIfDue runs a permissionless token checkpoint when one is due.
func (f *FeeDistributor) checkpointTokenIfDue() (bool, error) {
	due, err := f.tokenCheckpointDue()
	if err != nil || !due {
		return false, err
	}
	return true, f.checkpointToken()
}

func (f *FeeDistributor) checkpointToken() error {
	token, err := f.token()
	if err != nil {
		return err
	}
	balance, err := token.BalanceOf(f.addr)
	if err != nil {
		return external(err)
	}
	lastBalance, err := f.storage.tokenLastBalance.Get()
	if err != nil {
		return err
	}
	toDistribute, err := safemath.Sub(balance, lastBalance)
	if err != nil {
		return err
	}
	if err := f.storage.tokenLastBalance.Set(balance); err != nil {
		return err
	}
	if err := f.storage.totalReceived.Add(toDistribute); err != nil {
		return err
	}

	now := f.env.Now()
	t, err := f.storage.lastTokenTime.Get()
	if err != nil {
		return err
	}
	sinceLast, err := safemath.SubUint64(now, t)
	if err != nil {
		return err
	}
	if err := f.storage.lastTokenTime.Set(now); err != nil {
		return err
	}

	var c safemath.Calc
	share := func(dt uint64) *big.Int {
		if sinceLast == 0 {
			return toDistribute
		}
		return c.Div(c.Mul(toDistribute, safemath.Uint64(dt)), safemath.Uint64(sinceLast))
	}

	thisWeek := thor.FloorWeek(t)
	for range maxTokenWeeks {
		nextWeek := thisWeek + thor.Week
		amount := share(min(now, nextWeek) - t)
		tokens, err := f.storage.GetTokensPerWeek(thisWeek)
		if err != nil {
			return err
		}
		tokens = c.Add(tokens, amount)
		if err := c.Err(); err != nil {
			return err
		}
		if err := f.storage.SetTokensPerWeek(thisWeek, tokens); err != nil {
			return err
		}
		if now < nextWeek {
			break
		}
		t = nextWeek
		thisWeek = nextWeek
	}

	f.env.Log(checkpointTokenEvent, f.addr, nil, now, toDistribute)
	logger.Debug("checkpoint token", "time", now, "tokens", toDistribute)
	return nil
}

// CheckpointTotalSupply caches the total voting power at each week start
// up to the current week.
func (f *FeeDistributor) CheckpointTotalSupply() error {
	if err := f.notKilled(); err != nil {
		return err
	}
	return f.checkpointTotalSupply()
}

func (f *FeeDistributor) checkpointTotalSupply() error {
	ve, err := f.escrow()
	if err != nil {
		return err
	}
	t, err := f.storage.timeCursor.Get()
	if err != nil {
		return err
	}
	rounded := thor.FloorWeek(f.env.Now())
	if err := ve.Checkpoint(); err != nil {
		return external(err)
	}
	for range maxSupplyWeeks {
		if t > rounded {
			break
		}
		supply, err := ve.TotalSupply(t)
		if err != nil {
			return external(err)
		}
		if err := f.storage.SetVeSupply(t, supply); err != nil {
			return err
		}
		t += thor.Week
	}
	return f.storage.timeCursor.Set(t)
}
