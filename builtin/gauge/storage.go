// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vedao/builtin/gascharger"
	"github.com/vechain/vedao/builtin/solidity"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
)

var (
	slotAdmin        = nameToSlot("admin")
	slotFutureAdmin  = nameToSlot("future-admin")
	slotToken        = nameToSlot("token")
	slotVotingEscrow = nameToSlot("voting-escrow")
	// registry
	slotNGaugeTypes    = nameToSlot("n-gauge-types")
	slotNGauges        = nameToSlot("n-gauges")
	slotGaugeTypeNames = nameToSlot("gauge-type-names")
	slotGauges         = nameToSlot("gauges")
	slotGaugeTypes     = nameToSlot("gauge-types")
	// votes
	slotVoteUserSlopes = nameToSlot("vote-user-slopes")
	slotVoteUserPower  = nameToSlot("vote-user-power")
	slotLastUserVote   = nameToSlot("last-user-vote")
	// weights
	slotPointsWeight     = nameToSlot("points-weight")
	slotChangesWeight    = nameToSlot("changes-weight")
	slotTimeWeight       = nameToSlot("time-weight")
	slotPointsSum        = nameToSlot("points-sum")
	slotChangesSum       = nameToSlot("changes-sum")
	slotTimeSum          = nameToSlot("time-sum")
	slotPointsTotal      = nameToSlot("points-total")
	slotTimeTotal        = nameToSlot("time-total")
	slotPointsTypeWeight = nameToSlot("points-type-weight")
	slotTimeTypeWeight   = nameToSlot("time-type-weight")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

func weekKey(k solidity.Key, week uint64) solidity.BytesKey {
	return solidity.Compose(k, solidity.Uint64Key(week))
}

// storage represents the root storage for the GaugeController contract.
type storage struct {
	context      *solidity.Context
	admin        *solidity.Address
	futureAdmin  *solidity.Address
	token        *solidity.Address
	votingEscrow *solidity.Address

	nGaugeTypes    *solidity.Uint64
	nGauges        *solidity.Uint64
	gaugeTypeNames *solidity.Mapping[solidity.Uint64Key, string]
	gauges         *solidity.Mapping[solidity.Uint64Key, thor.Address]
	gaugeTypes     *solidity.Mapping[thor.Address, uint64] // type id + 1, zero when not registered

	voteUserSlopes *solidity.Mapping[solidity.BytesKey, *VotedSlope]
	voteUserPower  *solidity.Mapping[thor.Address, *big.Int]
	lastUserVote   *solidity.Mapping[solidity.BytesKey, uint64]

	pointsWeight     *solidity.Mapping[solidity.BytesKey, *Point]
	changesWeight    *solidity.Mapping[solidity.BytesKey, *big.Int]
	timeWeight       *solidity.Mapping[thor.Address, uint64]
	pointsSum        *solidity.Mapping[solidity.BytesKey, *Point]
	changesSum       *solidity.Mapping[solidity.BytesKey, *big.Int]
	timeSum          *solidity.Mapping[solidity.Uint64Key, uint64]
	pointsTotal      *solidity.Mapping[solidity.Uint64Key, *big.Int]
	timeTotal        *solidity.Uint64
	pointsTypeWeight *solidity.Mapping[solidity.BytesKey, *big.Int]
	timeTypeWeight   *solidity.Mapping[solidity.Uint64Key, uint64]
}

func newStorage(addr thor.Address, state *state.State, charger *gascharger.Charger) *storage {
	context := solidity.NewContext(addr, state, charger)
	return &storage{
		context:          context,
		admin:            solidity.NewAddress(context, slotAdmin),
		futureAdmin:      solidity.NewAddress(context, slotFutureAdmin),
		token:            solidity.NewAddress(context, slotToken),
		votingEscrow:     solidity.NewAddress(context, slotVotingEscrow),
		nGaugeTypes:      solidity.NewUint64(context, slotNGaugeTypes),
		nGauges:          solidity.NewUint64(context, slotNGauges),
		gaugeTypeNames:   solidity.NewMapping[solidity.Uint64Key, string](context, slotGaugeTypeNames),
		gauges:           solidity.NewMapping[solidity.Uint64Key, thor.Address](context, slotGauges),
		gaugeTypes:       solidity.NewMapping[thor.Address, uint64](context, slotGaugeTypes),
		voteUserSlopes:   solidity.NewMapping[solidity.BytesKey, *VotedSlope](context, slotVoteUserSlopes),
		voteUserPower:    solidity.NewMapping[thor.Address, *big.Int](context, slotVoteUserPower),
		lastUserVote:     solidity.NewMapping[solidity.BytesKey, uint64](context, slotLastUserVote),
		pointsWeight:     solidity.NewMapping[solidity.BytesKey, *Point](context, slotPointsWeight),
		changesWeight:    solidity.NewMapping[solidity.BytesKey, *big.Int](context, slotChangesWeight),
		timeWeight:       solidity.NewMapping[thor.Address, uint64](context, slotTimeWeight),
		pointsSum:        solidity.NewMapping[solidity.BytesKey, *Point](context, slotPointsSum),
		changesSum:       solidity.NewMapping[solidity.BytesKey, *big.Int](context, slotChangesSum),
		timeSum:          solidity.NewMapping[solidity.Uint64Key, uint64](context, slotTimeSum),
		pointsTotal:      solidity.NewMapping[solidity.Uint64Key, *big.Int](context, slotPointsTotal),
		timeTotal:        solidity.NewUint64(context, slotTimeTotal),
		pointsTypeWeight: solidity.NewMapping[solidity.BytesKey, *big.Int](context, slotPointsTypeWeight),
		timeTypeWeight:   solidity.NewMapping[solidity.Uint64Key, uint64](context, slotTimeTypeWeight),
	}
}

// GetGaugeType returns the type id of a gauge, ok is false for an unregistered gauge.
func (s *storage) GetGaugeType(gauge thor.Address) (typeID uint64, ok bool, err error) {
	v, err := s.gaugeTypes.Get(gauge)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to get gauge type")
	}
	if v == 0 {
		return 0, false, nil
	}
	return v - 1, true, nil
}

func (s *storage) GetPointWeight(gauge thor.Address, week uint64) (*Point, error) {
	p, err := s.pointsWeight.Get(weekKey(gauge, week))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get gauge point")
	}
	return normalizePoint(p), nil
}

func (s *storage) SetPointWeight(gauge thor.Address, week uint64, p *Point) error {
	if err := s.pointsWeight.Set(weekKey(gauge, week), p); err != nil {
		return errors.Wrap(err, "failed to set gauge point")
	}
	return nil
}

func (s *storage) GetChangeWeight(gauge thor.Address, week uint64) (*big.Int, error) {
	v, err := s.changesWeight.Get(weekKey(gauge, week))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get gauge slope change")
	}
	return v, nil
}

func (s *storage) SetChangeWeight(gauge thor.Address, week uint64, v *big.Int) error {
	if err := s.changesWeight.Set(weekKey(gauge, week), v); err != nil {
		return errors.Wrap(err, "failed to set gauge slope change")
	}
	return nil
}

func (s *storage) GetPointSum(typeID, week uint64) (*Point, error) {
	p, err := s.pointsSum.Get(weekKey(solidity.Uint64Key(typeID), week))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get type sum")
	}
	return normalizePoint(p), nil
}

func (s *storage) SetPointSum(typeID, week uint64, p *Point) error {
	if err := s.pointsSum.Set(weekKey(solidity.Uint64Key(typeID), week), p); err != nil {
		return errors.Wrap(err, "failed to set type sum")
	}
	return nil
}

func (s *storage) GetChangeSum(typeID, week uint64) (*big.Int, error) {
	v, err := s.changesSum.Get(weekKey(solidity.Uint64Key(typeID), week))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get type slope change")
	}
	return v, nil
}

func (s *storage) SetChangeSum(typeID, week uint64, v *big.Int) error {
	if err := s.changesSum.Set(weekKey(solidity.Uint64Key(typeID), week), v); err != nil {
		return errors.Wrap(err, "failed to set type slope change")
	}
	return nil
}

func (s *storage) GetTypeWeight(typeID, week uint64) (*big.Int, error) {
	v, err := s.pointsTypeWeight.Get(weekKey(solidity.Uint64Key(typeID), week))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get type weight")
	}
	return v, nil
}

func (s *storage) SetTypeWeight(typeID, week uint64, v *big.Int) error {
	if err := s.pointsTypeWeight.Set(weekKey(solidity.Uint64Key(typeID), week), v); err != nil {
		return errors.Wrap(err, "failed to set type weight")
	}
	return nil
}

func (s *storage) GetTotal(week uint64) (*big.Int, error) {
	v, err := s.pointsTotal.Get(solidity.Uint64Key(week))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total weight")
	}
	return v, nil
}

func (s *storage) SetTotal(week uint64, v *big.Int) error {
	if err := s.pointsTotal.Set(solidity.Uint64Key(week), v); err != nil {
		return errors.Wrap(err, "failed to set total weight")
	}
	return nil
}

func voteKey(user, gauge thor.Address) solidity.BytesKey {
	return solidity.Compose(user, gauge)
}

func (s *storage) GetVotedSlope(user, gauge thor.Address) (*VotedSlope, error) {
	v, err := s.voteUserSlopes.Get(voteKey(user, gauge))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get voted slope")
	}
	return normalizeSlope(v), nil
}

func (s *storage) SetVotedSlope(user, gauge thor.Address, v *VotedSlope) error {
	if err := s.voteUserSlopes.Set(voteKey(user, gauge), v); err != nil {
		return errors.Wrap(err, "failed to set voted slope")
	}
	return nil
}
