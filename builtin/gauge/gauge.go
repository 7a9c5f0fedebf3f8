// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gauge implements the GaugeController contract. Gauges are grouped
// into weighted types, and vote-escrow holders allocate their voting power
// across gauges to set the relative weight of each gauge per week.
package gauge

import (
	"math/big"

	"github.com/vechain/vedao/builtin/gascharger"
	"github.com/vechain/vedao/builtin/gen"
	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/builtin/safemath"
	"github.com/vechain/vedao/builtin/solidity"
	"github.com/vechain/vedao/log"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

var logger = log.WithContext("pkg", "gauge")

var (
	controllerABI        = gen.MustParse("GaugeController")
	commitOwnershipEvent = controllerABI.MustEventByName("CommitOwnership")
	applyOwnershipEvent  = controllerABI.MustEventByName("ApplyOwnership")
	addTypeEvent         = controllerABI.MustEventByName("AddType")
	newTypeWeightEvent   = controllerABI.MustEventByName("NewTypeWeight")
	newGaugeWeightEvent  = controllerABI.MustEventByName("NewGaugeWeight")
	voteForGaugeEvent    = controllerABI.MustEventByName("VoteForGauge")
	newGaugeEvent        = controllerABI.MustEventByName("NewGauge")
)

var (
	errNotAdmin           = reverts.NewAuth("admin only")
	errZeroAddress        = reverts.NewPrecondition("zero address")
	errAlreadyInitialized = reverts.NewPrecondition("already initialized")
	errAdminNotSet        = reverts.NewPrecondition("admin not set")
	errUnknownType        = reverts.NewPrecondition("unknown gauge type")
	errGaugeExists        = reverts.NewPrecondition("cannot add the same gauge twice")
	errGaugeNotAdded      = reverts.NewPrecondition("gauge not added")
	errLockExpiresSoon    = reverts.NewPrecondition("your token lock expires too soon")
	errInvalidWeight      = reverts.NewPrecondition("you used all your voting power")
	errVoteTooOften       = reverts.NewPrecondition("cannot vote so often")
	errTooMuchPower       = reverts.NewPrecondition("used too much power")
	errNegativeSlope      = reverts.NewArithmetic("negative user slope")
)

const (
	// MaxPower is the full voting power of a user, in basis points.
	MaxPower uint64 = 10_000
	// WeightVoteDelay is the cooldown between two votes of a user on the same gauge.
	WeightVoteDelay = 10 * thor.Day
)

// Escrow is the part of the VotingEscrow the controller reads.
type Escrow interface {
	GetLastUserSlope(addr thor.Address) (*big.Int, error)
	LockedEnd(addr thor.Address) (uint64, error)
}

// EscrowResolver binds the escrow contract at addr, with the controller as caller.
type EscrowResolver func(addr thor.Address) Escrow

// GaugeController is the contract bound to one invocation environment.
type GaugeController struct {
	addr    thor.Address
	env     *xenv.Environment
	escrows EscrowResolver
	storage *storage
}

// New binds the controller stored at addr to the environment.
func New(addr thor.Address, env *xenv.Environment, escrows EscrowResolver) *GaugeController {
	return &GaugeController{
		addr:    addr,
		env:     env,
		escrows: escrows,
		storage: newStorage(addr, env.State(), gascharger.New(env)),
	}
}

// Address returns the controller contract address.
func (g *GaugeController) Address() thor.Address {
	return g.addr
}

// Initialize deploys the controller. The caller becomes admin.
func (g *GaugeController) Initialize(token, votingEscrow thor.Address) error {
	if token.IsZero() || votingEscrow.IsZero() {
		return errZeroAddress
	}
	current, err := g.storage.votingEscrow.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errAlreadyInitialized
	}
	if err := g.storage.admin.Set(g.env.Caller()); err != nil {
		return err
	}
	if err := g.storage.token.Set(token); err != nil {
		return err
	}
	if err := g.storage.votingEscrow.Set(votingEscrow); err != nil {
		return err
	}
	return g.storage.timeTotal.Set(thor.FloorWeek(g.env.Now()))
}

func (g *GaugeController) onlyAdmin() error {
	admin, err := g.storage.admin.Get()
	if err != nil {
		return err
	}
	if g.env.Caller() != admin {
		return errNotAdmin
	}
	return nil
}

// CommitTransferOwnership sets the future admin. Admin only.
func (g *GaugeController) CommitTransferOwnership(addr thor.Address) error {
	if err := g.onlyAdmin(); err != nil {
		return err
	}
	if err := g.storage.futureAdmin.Set(addr); err != nil {
		return err
	}
	g.env.Log(commitOwnershipEvent, g.addr, nil, addr)
	return nil
}

// ApplyTransferOwnership makes the future admin the admin. Admin only.
func (g *GaugeController) ApplyTransferOwnership() error {
	if err := g.onlyAdmin(); err != nil {
		return err
	}
	future, err := g.storage.futureAdmin.Get()
	if err != nil {
		return err
	}
	if future.IsZero() {
		return errAdminNotSet
	}
	if err := g.storage.admin.Set(future); err != nil {
		return err
	}
	g.env.Log(applyOwnershipEvent, g.addr, nil, future)
	return nil
}

// AddType appends a gauge type. A non-zero weight is applied from next week.
func (g *GaugeController) AddType(name string, weight *big.Int) error {
	if err := g.onlyAdmin(); err != nil {
		return err
	}
	typeID, err := g.storage.nGaugeTypes.Get()
	if err != nil {
		return err
	}
	if err := g.storage.gaugeTypeNames.Set(solidity.Uint64Key(typeID), name); err != nil {
		return err
	}
	if err := g.storage.nGaugeTypes.Set(typeID + 1); err != nil {
		return err
	}
	if weight != nil && weight.Sign() != 0 {
		if err := g.changeTypeWeight(typeID, weight); err != nil {
			return err
		}
	}
	g.env.Log(addTypeEvent, g.addr, nil, name, typeID)
	logger.Debug("add type", "name", name, "id", typeID, "weight", weight)
	return nil
}

// AddGauge registers a gauge of an existing type. A registration is permanent.
func (g *GaugeController) AddGauge(addr thor.Address, typeID uint64, weight *big.Int) error {
	if err := g.onlyAdmin(); err != nil {
		return err
	}
	if addr.IsZero() {
		return errZeroAddress
	}
	if weight == nil {
		weight = new(big.Int)
	}
	nTypes, err := g.storage.nGaugeTypes.Get()
	if err != nil {
		return err
	}
	if typeID >= nTypes {
		return errUnknownType
	}
	if _, ok, err := g.storage.GetGaugeType(addr); err != nil {
		return err
	} else if ok {
		return errGaugeExists
	}

	n, err := g.storage.nGauges.Get()
	if err != nil {
		return err
	}
	if err := g.storage.nGauges.Set(n + 1); err != nil {
		return err
	}
	if err := g.storage.gauges.Set(solidity.Uint64Key(n), addr); err != nil {
		return err
	}
	if err := g.storage.gaugeTypes.Set(addr, typeID+1); err != nil {
		return err
	}

	next := nextWeek(g.env.Now())
	if weight.Sign() > 0 {
		typeWeight, err := g.typeWeight(typeID)
		if err != nil {
			return err
		}
		oldSum, err := g.sum(typeID)
		if err != nil {
			return err
		}
		oldTotal, err := g.total()
		if err != nil {
			return err
		}

		var c safemath.Calc
		ps, err := g.storage.GetPointSum(typeID, next)
		if err != nil {
			return err
		}
		ps.Bias = c.Add(weight, oldSum)
		total := c.Add(oldTotal, c.Mul(typeWeight, weight))
		if err := c.Err(); err != nil {
			return err
		}
		if err := g.storage.SetPointSum(typeID, next, ps); err != nil {
			return err
		}
		if err := g.storage.timeSum.Set(solidity.Uint64Key(typeID), next); err != nil {
			return err
		}
		if err := g.storage.SetTotal(next, total); err != nil {
			return err
		}
		if err := g.storage.timeTotal.Set(next); err != nil {
			return err
		}
		pw, err := g.storage.GetPointWeight(addr, next)
		if err != nil {
			return err
		}
		pw.Bias = new(big.Int).Set(weight)
		if err := g.storage.SetPointWeight(addr, next, pw); err != nil {
			return err
		}
	}

	timeSum, err := g.storage.timeSum.Get(solidity.Uint64Key(typeID))
	if err != nil {
		return err
	}
	if timeSum == 0 {
		if err := g.storage.timeSum.Set(solidity.Uint64Key(typeID), next); err != nil {
			return err
		}
	}
	if err := g.storage.timeWeight.Set(addr, next); err != nil {
		return err
	}

	g.env.Log(newGaugeEvent, g.addr, nil, addr, typeID, weight)
	logger.Debug("add gauge", "addr", addr, "type", typeID, "weight", weight)
	return nil
}

// ChangeTypeWeight sets the weight of a type from next week. Admin only.
func (g *GaugeController) ChangeTypeWeight(typeID uint64, weight *big.Int) error {
	if err := g.onlyAdmin(); err != nil {
		return err
	}
	nTypes, err := g.storage.nGaugeTypes.Get()
	if err != nil {
		return err
	}
	if typeID >= nTypes {
		return errUnknownType
	}
	return g.changeTypeWeight(typeID, weight)
}

func (g *GaugeController) changeTypeWeight(typeID uint64, weight *big.Int) error {
	oldWeight, err := g.typeWeight(typeID)
	if err != nil {
		return err
	}
	oldSum, err := g.sum(typeID)
	if err != nil {
		return err
	}
	total, err := g.total()
	if err != nil {
		return err
	}
	next := nextWeek(g.env.Now())

	var c safemath.Calc
	total = c.Sub(c.Add(total, c.Mul(oldSum, weight)), c.Mul(oldSum, oldWeight))
	if err := c.Err(); err != nil {
		return err
	}
	if err := g.storage.SetTotal(next, total); err != nil {
		return err
	}
	if err := g.storage.SetTypeWeight(typeID, next, weight); err != nil {
		return err
	}
	if err := g.storage.timeTotal.Set(next); err != nil {
		return err
	}
	if err := g.storage.timeTypeWeight.Set(solidity.Uint64Key(typeID), next); err != nil {
		return err
	}
	g.env.Log(newTypeWeightEvent, g.addr, nil, typeID, next, weight, total)
	return nil
}

// ChangeGaugeWeight overrides the weight of a gauge from next week. Admin only.
func (g *GaugeController) ChangeGaugeWeight(addr thor.Address, weight *big.Int) error {
	if err := g.onlyAdmin(); err != nil {
		return err
	}
	typeID, ok, err := g.storage.GetGaugeType(addr)
	if err != nil {
		return err
	}
	if !ok {
		return errGaugeNotAdded
	}

	oldGaugeWeight, err := g.weight(addr)
	if err != nil {
		return err
	}
	typeWeight, err := g.typeWeight(typeID)
	if err != nil {
		return err
	}
	oldSum, err := g.sum(typeID)
	if err != nil {
		return err
	}
	total, err := g.total()
	if err != nil {
		return err
	}
	next := nextWeek(g.env.Now())

	pw, err := g.storage.GetPointWeight(addr, next)
	if err != nil {
		return err
	}
	pw.Bias = new(big.Int).Set(weight)
	if err := g.storage.SetPointWeight(addr, next, pw); err != nil {
		return err
	}
	if err := g.storage.timeWeight.Set(addr, next); err != nil {
		return err
	}

	var c safemath.Calc
	newSum := c.Sub(c.Add(oldSum, weight), oldGaugeWeight)
	total = c.Sub(c.Add(total, c.Mul(newSum, typeWeight)), c.Mul(oldSum, typeWeight))
	if err := c.Err(); err != nil {
		return err
	}
	ps, err := g.storage.GetPointSum(typeID, next)
	if err != nil {
		return err
	}
	ps.Bias = newSum
	if err := g.storage.SetPointSum(typeID, next, ps); err != nil {
		return err
	}
	if err := g.storage.timeSum.Set(solidity.Uint64Key(typeID), next); err != nil {
		return err
	}
	if err := g.storage.SetTotal(next, total); err != nil {
		return err
	}
	if err := g.storage.timeTotal.Set(next); err != nil {
		return err
	}
	g.env.Log(newGaugeWeightEvent, g.addr, nil, addr, g.env.Now(), weight, total)
	return nil
}

// Checkpoint fills the weekly totals up to the week after now.
func (g *GaugeController) Checkpoint() error {
	_, err := g.total()
	return err
}

// CheckpointGauge fills the weekly weights of a gauge and the totals.
func (g *GaugeController) CheckpointGauge(addr thor.Address) error {
	if _, err := g.weight(addr); err != nil {
		return err
	}
	_, err := g.total()
	return err
}

// GaugeRelativeWeight returns the share of a gauge in the week of t, scaled by 1e18.
// The weekly series are read as they are stored.
func (g *GaugeController) GaugeRelativeWeight(addr thor.Address, t uint64) (*big.Int, error) {
	return g.relativeWeight(addr, t)
}

// GaugeRelativeWeightWrite checkpoints the gauge and totals, then returns its relative weight.
func (g *GaugeController) GaugeRelativeWeightWrite(addr thor.Address, t uint64) (*big.Int, error) {
	if err := g.CheckpointGauge(addr); err != nil {
		return nil, err
	}
	return g.relativeWeight(addr, t)
}

// external maps a failed escrow call to an external revert.
func external(err error) error {
	if reverts.IsRevertErr(err) {
		return reverts.NewExternal("voting escrow call failed: " + err.Error())
	}
	return err
}
