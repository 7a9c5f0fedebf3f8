// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"math/big"

	"github.com/vechain/vedao/builtin/solidity"
	"github.com/vechain/vedao/thor"
)

// GaugeTypes returns the type id of a registered gauge.
func (g *GaugeController) GaugeTypes(addr thor.Address) (uint64, error) {
	typeID, ok, err := g.storage.GetGaugeType(addr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errGaugeNotAdded
	}
	return typeID, nil
}

// GetGaugeWeight returns the latest checkpointed weight of a gauge.
func (g *GaugeController) GetGaugeWeight(addr thor.Address) (*big.Int, error) {
	t, err := g.storage.timeWeight.Get(addr)
	if err != nil {
		return nil, err
	}
	p, err := g.storage.GetPointWeight(addr, t)
	if err != nil {
		return nil, err
	}
	return p.Bias, nil
}

// GetTypeWeight returns the latest checkpointed weight of a type.
func (g *GaugeController) GetTypeWeight(typeID uint64) (*big.Int, error) {
	t, err := g.storage.timeTypeWeight.Get(solidity.Uint64Key(typeID))
	if err != nil {
		return nil, err
	}
	return g.storage.GetTypeWeight(typeID, t)
}

// GetTotalWeight returns the latest checkpointed total weight.
func (g *GaugeController) GetTotalWeight() (*big.Int, error) {
	t, err := g.storage.timeTotal.Get()
	if err != nil {
		return nil, err
	}
	return g.storage.GetTotal(t)
}

// GetWeightsSumPerType returns the latest checkpointed sum of gauge weights of a type.
func (g *GaugeController) GetWeightsSumPerType(typeID uint64) (*big.Int, error) {
	t, err := g.storage.timeSum.Get(solidity.Uint64Key(typeID))
	if err != nil {
		return nil, err
	}
	p, err := g.storage.GetPointSum(typeID, t)
	if err != nil {
		return nil, err
	}
	return p.Bias, nil
}

func (g *GaugeController) VoteUserSlopes(user, gauge thor.Address) (*VotedSlope, error) {
	return g.storage.GetVotedSlope(user, gauge)
}

func (g *GaugeController) VoteUserPower(user thor.Address) (*big.Int, error) {
	return g.storage.voteUserPower.Get(user)
}

func (g *GaugeController) LastUserVote(user, gauge thor.Address) (uint64, error) {
	return g.storage.lastUserVote.Get(voteKey(user, gauge))
}

func (g *GaugeController) PointsWeight(gauge thor.Address, week uint64) (*Point, error) {
	return g.storage.GetPointWeight(gauge, week)
}

func (g *GaugeController) PointsSum(typeID, week uint64) (*Point, error) {
	return g.storage.GetPointSum(typeID, week)
}

func (g *GaugeController) PointsTotal(week uint64) (*big.Int, error) {
	return g.storage.GetTotal(week)
}

func (g *GaugeController) PointsTypeWeight(typeID, week uint64) (*big.Int, error) {
	return g.storage.GetTypeWeight(typeID, week)
}

func (g *GaugeController) ChangesWeight(gauge thor.Address, week uint64) (*big.Int, error) {
	return g.storage.GetChangeWeight(gauge, week)
}

func (g *GaugeController) TimeWeight(gauge thor.Address) (uint64, error) {
	return g.storage.timeWeight.Get(gauge)
}

func (g *GaugeController) GaugeTypeNames(typeID uint64) (string, error) {
	return g.storage.gaugeTypeNames.Get(solidity.Uint64Key(typeID))
}

func (g *GaugeController) Gauges(i uint64) (thor.Address, error) {
	return g.storage.gauges.Get(solidity.Uint64Key(i))
}

func (g *GaugeController) NGaugeTypes() (uint64, error)        { return g.storage.nGaugeTypes.Get() }
func (g *GaugeController) NGauges() (uint64, error)            { return g.storage.nGauges.Get() }
func (g *GaugeController) TimeTotal() (uint64, error)          { return g.storage.timeTotal.Get() }
func (g *GaugeController) Admin() (thor.Address, error)        { return g.storage.admin.Get() }
func (g *GaugeController) FutureAdmin() (thor.Address, error)  { return g.storage.futureAdmin.Get() }
func (g *GaugeController) Token() (thor.Address, error)        { return g.storage.token.Get() }
func (g *GaugeController) VotingEscrow() (thor.Address, error) { return g.storage.votingEscrow.Get() }
