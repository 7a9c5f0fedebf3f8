// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vedao/builtin/gascharger"
	"github.com/vechain/vedao/builtin/solidity"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
)

var (
	slotToken            = nameToSlot("token")
	slotSupply           = nameToSlot("supply")
	slotLocked           = nameToSlot("locked")
	slotEpoch            = nameToSlot("epoch")
	slotPointHistory     = nameToSlot("point-history")
	slotUserPointHistory = nameToSlot("user-point-history")
	slotUserPointEpoch   = nameToSlot("user-point-epoch")
	slotSlopeChanges     = nameToSlot("slope-changes")
	// ownership
	slotAdmin            = nameToSlot("admin")
	slotFutureAdmin      = nameToSlot("future-admin")
	slotController       = nameToSlot("controller")
	slotTransfersEnabled = nameToSlot("transfers-enabled")
	// metadata
	slotName     = nameToSlot("name")
	slotSymbol   = nameToSlot("symbol")
	slotVersion  = nameToSlot("version")
	slotDecimals = nameToSlot("decimals")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// storage represents the root storage for the VotingEscrow contract.
type storage struct {
	context          *solidity.Context
	token            *solidity.Address
	supply           *solidity.Uint256
	locked           *solidity.Mapping[thor.Address, *LockedBalance]
	epoch            *solidity.Uint64
	pointHistory     *solidity.Mapping[solidity.Uint64Key, *Point]
	userPointHistory *solidity.Mapping[solidity.BytesKey, *Point]
	userPointEpoch   *solidity.Mapping[thor.Address, uint64]
	slopeChanges     *solidity.Mapping[solidity.Uint64Key, solidity.SignedInt]

	admin            *solidity.Address
	futureAdmin      *solidity.Address
	controller       *solidity.Address
	transfersEnabled *solidity.Bool

	name     *solidity.String
	symbol   *solidity.String
	version  *solidity.String
	decimals *solidity.Uint64
}

func newStorage(addr thor.Address, state *state.State, charger *gascharger.Charger) *storage {
	context := solidity.NewContext(addr, state, charger)
	return &storage{
		context:          context,
		token:            solidity.NewAddress(context, slotToken),
		supply:           solidity.NewUint256(context, slotSupply),
		locked:           solidity.NewMapping[thor.Address, *LockedBalance](context, slotLocked),
		epoch:            solidity.NewUint64(context, slotEpoch),
		pointHistory:     solidity.NewMapping[solidity.Uint64Key, *Point](context, slotPointHistory),
		userPointHistory: solidity.NewMapping[solidity.BytesKey, *Point](context, slotUserPointHistory),
		userPointEpoch:   solidity.NewMapping[thor.Address, uint64](context, slotUserPointEpoch),
		slopeChanges:     solidity.NewMapping[solidity.Uint64Key, solidity.SignedInt](context, slotSlopeChanges),
		admin:            solidity.NewAddress(context, slotAdmin),
		futureAdmin:      solidity.NewAddress(context, slotFutureAdmin),
		controller:       solidity.NewAddress(context, slotController),
		transfersEnabled: solidity.NewBool(context, slotTransfersEnabled),
		name:             solidity.NewString(context, slotName),
		symbol:           solidity.NewString(context, slotSymbol),
		version:          solidity.NewString(context, slotVersion),
		decimals:         solidity.NewUint64(context, slotDecimals),
	}
}

func normalizePoint(p *Point) *Point {
	if p.Bias == nil {
		p.Bias = new(big.Int)
	}
	if p.Slope == nil {
		p.Slope = new(big.Int)
	}
	return p
}

func (s *storage) GetLocked(addr thor.Address) (*LockedBalance, error) {
	l, err := s.locked.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get locked balance")
	}
	if l.Amount == nil {
		l.Amount = new(big.Int)
	}
	return l, nil
}

func (s *storage) SetLocked(addr thor.Address, l *LockedBalance) error {
	if err := s.locked.Set(addr, l); err != nil {
		return errors.Wrap(err, "failed to set locked balance")
	}
	return nil
}

func (s *storage) GetPoint(epoch uint64) (*Point, error) {
	p, err := s.pointHistory.Get(solidity.Uint64Key(epoch))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get point")
	}
	return normalizePoint(p), nil
}

func (s *storage) SetPoint(epoch uint64, p *Point) error {
	if err := s.pointHistory.Set(solidity.Uint64Key(epoch), p); err != nil {
		return errors.Wrap(err, "failed to set point")
	}
	return nil
}

func userPointKey(addr thor.Address, epoch uint64) solidity.BytesKey {
	return solidity.Compose(addr, solidity.Uint64Key(epoch))
}

func (s *storage) GetUserPoint(addr thor.Address, epoch uint64) (*Point, error) {
	p, err := s.userPointHistory.Get(userPointKey(addr, epoch))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user point")
	}
	return normalizePoint(p), nil
}

func (s *storage) SetUserPoint(addr thor.Address, epoch uint64, p *Point) error {
	if err := s.userPointHistory.Set(userPointKey(addr, epoch), p); err != nil {
		return errors.Wrap(err, "failed to set user point")
	}
	return nil
}

func (s *storage) GetUserPointEpoch(addr thor.Address) (uint64, error) {
	e, err := s.userPointEpoch.Get(addr)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get user point epoch")
	}
	return e, nil
}

func (s *storage) SetUserPointEpoch(addr thor.Address, epoch uint64) error {
	if err := s.userPointEpoch.Set(addr, epoch); err != nil {
		return errors.Wrap(err, "failed to set user point epoch")
	}
	return nil
}

func (s *storage) GetSlopeChange(week uint64) (*big.Int, error) {
	v, err := s.slopeChanges.Get(solidity.Uint64Key(week))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get slope change")
	}
	return v.Big(), nil
}

func (s *storage) SetSlopeChange(week uint64, v *big.Int) error {
	if err := s.slopeChanges.Set(solidity.Uint64Key(week), solidity.NewSignedInt(v)); err != nil {
		return errors.Wrap(err, "failed to set slope change")
	}
	return nil
}
