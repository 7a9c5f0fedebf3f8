// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feedist

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vedao/builtin/gascharger"
	"github.com/vechain/vedao/builtin/solidity"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
)

var (
	slotStartTime     = nameToSlot("start-time")
	slotTimeCursor    = nameToSlot("time-cursor")
	slotTimeCursorOf  = nameToSlot("time-cursor-of")
	slotUserEpochOf   = nameToSlot("user-epoch-of")
	slotLastTokenTime = nameToSlot("last-token-time")
	slotTokensPerWeek = nameToSlot("tokens-per-week")
	slotVeSupply      = nameToSlot("ve-supply")
	// balances
	slotVotingEscrow     = nameToSlot("voting-escrow")
	slotToken            = nameToSlot("token")
	slotTotalReceived    = nameToSlot("total-received")
	slotTokenLastBalance = nameToSlot("token-last-balance")
	// admin
	slotAdmin              = nameToSlot("admin")
	slotFutureAdmin        = nameToSlot("future-admin")
	slotCanCheckpointToken = nameToSlot("can-checkpoint-token")
	slotEmergencyReturn    = nameToSlot("emergency-return")
	slotIsKilled           = nameToSlot("is-killed")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// storage represents the root storage for the FeeDistributor contract.
type storage struct {
	context       *solidity.Context
	startTime     *solidity.Uint64
	timeCursor    *solidity.Uint64
	timeCursorOf  *solidity.Mapping[thor.Address, uint64]
	userEpochOf   *solidity.Mapping[thor.Address, uint64]
	lastTokenTime *solidity.Uint64
	tokensPerWeek *solidity.Mapping[solidity.Uint64Key, *big.Int]
	veSupply      *solidity.Mapping[solidity.Uint64Key, *big.Int]

	votingEscrow     *solidity.Address
	token            *solidity.Address
	totalReceived    *solidity.Uint256
	tokenLastBalance *solidity.Uint256

	admin              *solidity.Address
	futureAdmin        *solidity.Address
	canCheckpointToken *solidity.Bool
	emergencyReturn    *solidity.Address
	isKilled           *solidity.Bool
}

func newStorage(addr thor.Address, state *state.State, charger *gascharger.Charger) *storage {
	context := solidity.NewContext(addr, state, charger)
	return &storage{
		context:            context,
		startTime:          solidity.NewUint64(context, slotStartTime),
		timeCursor:         solidity.NewUint64(context, slotTimeCursor),
		timeCursorOf:       solidity.NewMapping[thor.Address, uint64](context, slotTimeCursorOf),
		userEpochOf:        solidity.NewMapping[thor.Address, uint64](context, slotUserEpochOf),
		lastTokenTime:      solidity.NewUint64(context, slotLastTokenTime),
		tokensPerWeek:      solidity.NewMapping[solidity.Uint64Key, *big.Int](context, slotTokensPerWeek),
		veSupply:           solidity.NewMapping[solidity.Uint64Key, *big.Int](context, slotVeSupply),
		votingEscrow:       solidity.NewAddress(context, slotVotingEscrow),
		token:              solidity.NewAddress(context, slotToken),
		totalReceived:      solidity.NewUint256(context, slotTotalReceived),
		tokenLastBalance:   solidity.NewUint256(context, slotTokenLastBalance),
		admin:              solidity.NewAddress(context, slotAdmin),
		futureAdmin:        solidity.NewAddress(context, slotFutureAdmin),
		canCheckpointToken: solidity.NewBool(context, slotCanCheckpointToken),
		emergencyReturn:    solidity.NewAddress(context, slotEmergencyReturn),
		isKilled:           solidity.NewBool(context, slotIsKilled),
	}
}

func (s *storage) GetTokensPerWeek(week uint64) (*big.Int, error) {
	v, err := s.tokensPerWeek.Get(solidity.Uint64Key(week))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get tokens per week")
	}
	return v, nil
}

func (s *storage) SetTokensPerWeek(week uint64, v *big.Int) error {
	if err := s.tokensPerWeek.Set(solidity.Uint64Key(week), v); err != nil {
		return errors.Wrap(err, "failed to set tokens per week")
	}
	return nil
}

func (s *storage) GetVeSupply(week uint64) (*big.Int, error) {
	v, err := s.veSupply.Get(solidity.Uint64Key(week))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get ve supply")
	}
	return v, nil
}

func (s *storage) SetVeSupply(week uint64, v *big.Int) error {
	if err := s.veSupply.Set(solidity.Uint64Key(week), v); err != nil {
		return errors.Wrap(err, "failed to set ve supply")
	}
	return nil
}
