// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"math/big"

	"github.com/vechain/vedao/builtin/safemath"
	"github.com/vechain/vedao/builtin/solidity"
	"github.com/vechain/vedao/thor"
)

const (
	// maxCheckpointWeeks bounds the weekly catch up of a single series.
	maxCheckpointWeeks = 500
	// maxGaugeTypes bounds the types walked when totals are computed.
	maxGaugeTypes = 100
)

var week = safemath.Uint64(thor.Week)

// nextWeek returns the first week start after now.
func nextWeek(now uint64) uint64 {
	return thor.FloorWeek(now + thor.Week)
}

// decay moves p forward by one week and applies the slope change of the new week.
// Once the bias is used up the point is zeroed.
func decay(c *safemath.Calc, p *Point, change *big.Int) *Point {
	dBias := c.Mul(p.Slope, week)
	if p.Bias.Cmp(dBias) > 0 {
		return &Point{Bias: c.Sub(p.Bias, dBias), Slope: c.Sub(p.Slope, change)}
	}
	return newPoint()
}

// typeWeight fills the weekly type weight up to the week after now and returns the current one.
func (g *GaugeController) typeWeight(typeID uint64) (*big.Int, error) {
	t, err := g.storage.timeTypeWeight.Get(solidity.Uint64Key(typeID))
	if err != nil {
		return nil, err
	}
	if t == 0 {
		return new(big.Int), nil
	}
	w, err := g.storage.GetTypeWeight(typeID, t)
	if err != nil {
		return nil, err
	}
	now := g.env.Now()
	for range maxCheckpointWeeks {
		if t > now {
			break
		}
		t += thor.Week
		if err := g.storage.SetTypeWeight(typeID, t, w); err != nil {
			return nil, err
		}
		if t > now {
			if err := g.storage.timeTypeWeight.Set(solidity.Uint64Key(typeID), t); err != nil {
				return nil, err
			}
		}
	}
	return w, nil
}

// sum fills the weekly weight sum of a type and returns the current one.
func (g *GaugeController) sum(typeID uint64) (*big.Int, error) {
	t, err := g.storage.timeSum.Get(solidity.Uint64Key(typeID))
	if err != nil {
		return nil, err
	}
	if t == 0 {
		return new(big.Int), nil
	}
	pt, err := g.storage.GetPointSum(typeID, t)
	if err != nil {
		return nil, err
	}
	now := g.env.Now()
	var c safemath.Calc
	for range maxCheckpointWeeks {
		if t > now {
			break
		}
		t += thor.Week
		change, err := g.storage.GetChangeSum(typeID, t)
		if err != nil {
			return nil, err
		}
		if pt = decay(&c, pt, change); c.Err() != nil {
			return nil, c.Err()
		}
		if err := g.storage.SetPointSum(typeID, t, pt); err != nil {
			return nil, err
		}
		if t > now {
			if err := g.storage.timeSum.Set(solidity.Uint64Key(typeID), t); err != nil {
				return nil, err
			}
		}
	}
	return pt.Bias, nil
}

// weight fills the weekly weight of a gauge and returns the current one.
func (g *GaugeController) weight(gauge thor.Address) (*big.Int, error) {
	t, err := g.storage.timeWeight.Get(gauge)
	if err != nil {
		return nil, err
	}
	if t == 0 {
		return new(big.Int), nil
	}
	pt, err := g.storage.GetPointWeight(gauge, t)
	if err != nil {
		return nil, err
	}
	now := g.env.Now()
	var c safemath.Calc
	for range maxCheckpointWeeks {
		if t > now {
			break
		}
		t += thor.Week
		change, err := g.storage.GetChangeWeight(gauge, t)
		if err != nil {
			return nil, err
		}
		if pt = decay(&c, pt, change); c.Err() != nil {
			return nil, c.Err()
		}
		if err := g.storage.SetPointWeight(gauge, t, pt); err != nil {
			return nil, err
		}
		if t > now {
			if err := g.storage.timeWeight.Set(gauge, t); err != nil {
				return nil, err
			}
		}
	}
	return pt.Bias, nil
}

// total fills the weekly total weight, every type sum and type weight
// included, and returns the current total.
func (g *GaugeController) total() (*big.Int, error) {
	t, err := g.storage.timeTotal.Get()
	if err != nil {
		return nil, err
	}
	nTypes, err := g.storage.nGaugeTypes.Get()
	if err != nil {
		return nil, err
	}
	now := g.env.Now()
	// already checkpointed, the current week still has to be refreshed
	if t > now {
		t -= thor.Week
	}
	pt, err := g.storage.GetTotal(t)
	if err != nil {
		return nil, err
	}

	for typeID := range min(nTypes, maxGaugeTypes) {
		if _, err := g.sum(typeID); err != nil {
			return nil, err
		}
		if _, err := g.typeWeight(typeID); err != nil {
			return nil, err
		}
	}

	var c safemath.Calc
	for range maxCheckpointWeeks {
		if t > now {
			break
		}
		t += thor.Week
		pt = new(big.Int)
		for typeID := range min(nTypes, maxGaugeTypes) {
			typeSum, err := g.storage.GetPointSum(typeID, t)
			if err != nil {
				return nil, err
			}
			typeWeight, err := g.storage.GetTypeWeight(typeID, t)
			if err != nil {
				return nil, err
			}
			pt = c.Add(pt, c.Mul(typeSum.Bias, typeWeight))
		}
		if err := c.Err(); err != nil {
			return nil, err
		}
		if err := g.storage.SetTotal(t, pt); err != nil {
			return nil, err
		}
		if t > now {
			if err := g.storage.timeTotal.Set(t); err != nil {
				return nil, err
			}
		}
	}
	return pt, nil
}

// relativeWeight evaluates the share of a gauge at the week of t, scaled by 1e18.
func (g *GaugeController) relativeWeight(gauge thor.Address, t uint64) (*big.Int, error) {
	t = thor.FloorWeek(t)
	totalWeight, err := g.storage.GetTotal(t)
	if err != nil {
		return nil, err
	}
	if totalWeight.Sign() == 0 {
		return new(big.Int), nil
	}
	typeID, _, err := g.storage.GetGaugeType(gauge)
	if err != nil {
		return nil, err
	}
	typeWeight, err := g.storage.GetTypeWeight(typeID, t)
	if err != nil {
		return nil, err
	}
	p, err := g.storage.GetPointWeight(gauge, t)
	if err != nil {
		return nil, err
	}
	var c safemath.Calc
	v := c.Div(c.Mul(c.Mul(thor.Multiplier, typeWeight), p.Bias), totalWeight)
	return v, c.Err()
}
