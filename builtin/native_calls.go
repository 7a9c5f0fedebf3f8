// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/vechain/vedao/builtin/escrow"
	"github.com/vechain/vedao/builtin/feedist"
	"github.com/vechain/vedao/builtin/gauge"
	"github.com/vechain/vedao/builtin/token"
	"github.com/vechain/vedao/xenv"
)

// define binds an abi method name to its implementation. Overloads without
// the trailing time argument are named with a numeric suffix and read at the
// block time.
type define struct {
	name string
	run  func(env *xenv.Environment, args callArgs) ([]any, error)
}

func tokenAt(env *xenv.Environment) *token.Token           { return token.New(env.To(), env) }
func escrowAt(env *xenv.Environment) *escrow.VotingEscrow  { return newEscrow(env.To(), env) }
func gaugeAt(env *xenv.Environment) *gauge.GaugeController { return newGauge(env.To(), env) }
func distributorAt(env *xenv.Environment) *feedist.FeeDistributor {
	return newFeeDistributor(env.To(), env)
}

func tokenMethods() []define {
	return []define{
		{"initialize", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(tokenAt(env).Initialize(a.str(0), a.str(1), a.u8(2), a.addr(3)))
		}},
		{"mint", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(tokenAt(env).Mint(a.addr(0), a.big(1)))
		}},
		{"transfer", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(tokenAt(env).Transfer(a.addr(0), a.big(1)))
		}},
		{"transferFrom", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(tokenAt(env).TransferFrom(a.addr(0), a.addr(1), a.big(2)))
		}},
		{"approve", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(tokenAt(env).Approve(a.addr(0), a.big(1)))
		}},
		{"name", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(tokenAt(env).Name()) }},
		{"symbol", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(tokenAt(env).Symbol()) }},
		{"decimals", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(tokenAt(env).Decimals()) }},
		{"totalSupply", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(tokenAt(env).TotalSupply()) }},
		{"admin", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(tokenAt(env).Admin()) }},
		{"balanceOf", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(tokenAt(env).BalanceOf(a.addr(0)))
		}},
		{"allowance", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(tokenAt(env).Allowance(a.addr(0), a.addr(1)))
		}},
	}
}

func pointOutput(p *escrow.Point, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	return []any{p.Bias, p.Slope, p.Ts, p.Blk}, nil
}

func escrowMethods() []define {
	return []define{
		{"initialize", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(escrowAt(env).Initialize(a.addr(0), a.str(1), a.str(2), a.str(3)))
		}},
		{"commit_transfer_ownership", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(escrowAt(env).CommitTransferOwnership(a.addr(0)))
		}},
		{"apply_transfer_ownership", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return none(escrowAt(env).ApplyTransferOwnership())
		}},
		{"change_controller", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(escrowAt(env).ChangeController(a.addr(0)))
		}},
		{"checkpoint", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return none(escrowAt(env).Checkpoint())
		}},
		{"deposit_for", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(escrowAt(env).DepositFor(a.addr(0), a.big(1)))
		}},
		{"create_lock", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(escrowAt(env).CreateLock(a.big(0), a.u64(1)))
		}},
		{"increase_amount", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(escrowAt(env).IncreaseAmount(a.big(0)))
		}},
		{"increase_unlock_time", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(escrowAt(env).IncreaseUnlockTime(a.u64(0)))
		}},
		{"withdraw", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return none(escrowAt(env).Withdraw())
		}},
		{"balanceOf", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(escrowAt(env).BalanceOf(a.addr(0), a.u64(1)))
		}},
		{"balanceOf0", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(escrowAt(env).BalanceOf(a.addr(0), env.BlockContext().Time))
		}},
		{"balanceOfAt", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(escrowAt(env).BalanceOfAt(a.addr(0), a.u64(1)))
		}},
		{"totalSupply", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(escrowAt(env).TotalSupply(a.u64(0)))
		}},
		{"totalSupply0", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return one(escrowAt(env).TotalSupply(env.BlockContext().Time))
		}},
		{"totalSupplyAt", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(escrowAt(env).TotalSupplyAt(a.u64(0)))
		}},
		{"get_last_user_slope", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(escrowAt(env).GetLastUserSlope(a.addr(0)))
		}},
		{"user_point_history__ts", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(escrowAt(env).UserPointHistoryTs(a.addr(0), a.u64(1)))
		}},
		{"locked__end", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(escrowAt(env).LockedEnd(a.addr(0)))
		}},
		{"locked", func(env *xenv.Environment, a callArgs) ([]any, error) {
			l, err := escrowAt(env).Locked(a.addr(0))
			if err != nil {
				return nil, err
			}
			return []any{l.Amount, l.End}, nil
		}},
		{"user_point_epoch", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(escrowAt(env).UserPointEpoch(a.addr(0)))
		}},
		{"user_point_history", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return pointOutput(escrowAt(env).UserPointHistory(a.addr(0), a.u64(1)))
		}},
		{"epoch", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(escrowAt(env).Epoch()) }},
		{"point_history", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return pointOutput(escrowAt(env).PointHistory(a.u64(0)))
		}},
		{"slope_changes", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(escrowAt(env).SlopeChanges(a.u64(0)))
		}},
		{"supply", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(escrowAt(env).Supply()) }},
		{"token", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(escrowAt(env).Token()) }},
		{"admin", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(escrowAt(env).Admin()) }},
		{"future_admin", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(escrowAt(env).FutureAdmin()) }},
		{"controller", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(escrowAt(env).Controller()) }},
		{"transfersEnabled", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return one(escrowAt(env).TransfersEnabled())
		}},
		{"name", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(escrowAt(env).Name()) }},
		{"symbol", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(escrowAt(env).Symbol()) }},
		{"version", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(escrowAt(env).Version()) }},
		{"decimals", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(escrowAt(env).Decimals()) }},
	}
}

func gaugePointOutput(p *gauge.Point, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	return []any{p.Bias, p.Slope}, nil
}

func gaugeMethods() []define {
	return []define{
		{"initialize", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(gaugeAt(env).Initialize(a.addr(0), a.addr(1)))
		}},
		{"commit_transfer_ownership", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(gaugeAt(env).CommitTransferOwnership(a.addr(0)))
		}},
		{"apply_transfer_ownership", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return none(gaugeAt(env).ApplyTransferOwnership())
		}},
		{"add_type", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(gaugeAt(env).AddType(a.str(0), a.big(1)))
		}},
		{"add_gauge", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(gaugeAt(env).AddGauge(a.addr(0), a.u64(1), a.big(2)))
		}},
		{"change_type_weight", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(gaugeAt(env).ChangeTypeWeight(a.u64(0), a.big(1)))
		}},
		{"change_gauge_weight", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(gaugeAt(env).ChangeGaugeWeight(a.addr(0), a.big(1)))
		}},
		{"checkpoint", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return none(gaugeAt(env).Checkpoint())
		}},
		{"checkpoint_gauge", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(gaugeAt(env).CheckpointGauge(a.addr(0)))
		}},
		{"gauge_relative_weight_write", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).GaugeRelativeWeightWrite(a.addr(0), a.u64(1)))
		}},
		{"gauge_relative_weight_write0", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).GaugeRelativeWeightWrite(a.addr(0), env.BlockContext().Time))
		}},
		{"vote_for_gauge_weights", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(gaugeAt(env).VoteForGaugeWeights(a.addr(0), a.u64(1)))
		}},
		{"gauge_relative_weight", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).GaugeRelativeWeight(a.addr(0), a.u64(1)))
		}},
		{"gauge_relative_weight0", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).GaugeRelativeWeight(a.addr(0), env.BlockContext().Time))
		}},
		{"gauge_types", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).GaugeTypes(a.addr(0)))
		}},
		{"get_gauge_weight", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).GetGaugeWeight(a.addr(0)))
		}},
		{"get_type_weight", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).GetTypeWeight(a.u64(0)))
		}},
		{"get_total_weight", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return one(gaugeAt(env).GetTotalWeight())
		}},
		{"get_weights_sum_per_type", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).GetWeightsSumPerType(a.u64(0)))
		}},
		{"vote_user_slopes", func(env *xenv.Environment, a callArgs) ([]any, error) {
			vs, err := gaugeAt(env).VoteUserSlopes(a.addr(0), a.addr(1))
			if err != nil {
				return nil, err
			}
			return []any{vs.Slope, vs.Power, vs.End}, nil
		}},
		{"vote_user_power", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).VoteUserPower(a.addr(0)))
		}},
		{"last_user_vote", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).LastUserVote(a.addr(0), a.addr(1)))
		}},
		{"points_weight", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return gaugePointOutput(gaugeAt(env).PointsWeight(a.addr(0), a.u64(1)))
		}},
		{"points_sum", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return gaugePointOutput(gaugeAt(env).PointsSum(a.u64(0), a.u64(1)))
		}},
		{"points_total", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).PointsTotal(a.u64(0)))
		}},
		{"points_type_weight", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).PointsTypeWeight(a.u64(0), a.u64(1)))
		}},
		{"changes_weight", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).ChangesWeight(a.addr(0), a.u64(1)))
		}},
		{"time_weight", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).TimeWeight(a.addr(0)))
		}},
		{"gauge_type_names", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(gaugeAt(env).GaugeTypeNames(a.u64(0)))
		}},
		{"gauges", func(env *xenv.Environment, a callArgs) ([]any, error) { return one(gaugeAt(env).Gauges(a.u64(0))) }},
		{"n_gauge_types", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(gaugeAt(env).NGaugeTypes()) }},
		{"n_gauges", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(gaugeAt(env).NGauges()) }},
		{"time_total", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(gaugeAt(env).TimeTotal()) }},
		{"admin", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(gaugeAt(env).Admin()) }},
		{"future_admin", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(gaugeAt(env).FutureAdmin()) }},
		{"token", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(gaugeAt(env).Token()) }},
		{"voting_escrow", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(gaugeAt(env).VotingEscrow()) }},
	}
}

func distributorMethods() []define {
	return []define{
		{"initialize", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(distributorAt(env).Initialize(a.addr(0), a.u64(1), a.addr(2), a.addr(3), a.addr(4)))
		}},
		{"checkpoint_token", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return none(distributorAt(env).CheckpointToken())
		}},
		{"checkpoint_total_supply", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return none(distributorAt(env).CheckpointTotalSupply())
		}},
		{"claim", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(distributorAt(env).Claim(a.addr(0)))
		}},
		{"claim_many", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(distributorAt(env).ClaimMany(a.addrs(0)))
		}},
		{"burn", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(distributorAt(env).Burn(a.addr(0)))
		}},
		{"commit_admin", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(distributorAt(env).CommitAdmin(a.addr(0)))
		}},
		{"apply_admin", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return none(distributorAt(env).ApplyAdmin())
		}},
		{"toggle_allow_checkpoint_token", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return none(distributorAt(env).ToggleAllowCheckpointToken())
		}},
		{"kill_me", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return none(distributorAt(env).KillMe())
		}},
		{"recover_balance", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return none(distributorAt(env).RecoverBalance(a.addr(0)))
		}},
		{"ve_for_at", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(distributorAt(env).VeForAt(a.addr(0), a.u64(1)))
		}},
		{"start_time", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(distributorAt(env).StartTime()) }},
		{"time_cursor", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(distributorAt(env).TimeCursor()) }},
		{"time_cursor_of", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(distributorAt(env).TimeCursorOf(a.addr(0)))
		}},
		{"user_epoch_of", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(distributorAt(env).UserEpochOf(a.addr(0)))
		}},
		{"last_token_time", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return one(distributorAt(env).LastTokenTime())
		}},
		{"tokens_per_week", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(distributorAt(env).TokensPerWeek(a.u64(0)))
		}},
		{"ve_supply", func(env *xenv.Environment, a callArgs) ([]any, error) {
			return one(distributorAt(env).VeSupply(a.u64(0)))
		}},
		{"total_received", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return one(distributorAt(env).TotalReceived())
		}},
		{"token_last_balance", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return one(distributorAt(env).TokenLastBalance())
		}},
		{"admin", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(distributorAt(env).Admin()) }},
		{"future_admin", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return one(distributorAt(env).FutureAdmin())
		}},
		{"can_checkpoint_token", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return one(distributorAt(env).CanCheckpointToken())
		}},
		{"emergency_return", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return one(distributorAt(env).EmergencyReturn())
		}},
		{"is_killed", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(distributorAt(env).IsKilled()) }},
		{"token", func(env *xenv.Environment, _ callArgs) ([]any, error) { return one(distributorAt(env).Token()) }},
		{"voting_escrow", func(env *xenv.Environment, _ callArgs) ([]any, error) {
			return one(distributorAt(env).VotingEscrow())
		}},
	}
}

func register(c *Contract, defines []define) {
	for _, def := range defines {
		method, found := c.ABI.MethodByName(def.name)
		if !found {
			panic(fmt.Sprintf("method %s not found in %s abi", def.name, c.name))
		}
		c.methods[method.ID()] = &nativeMethod{method: method, run: def.run}
	}
	if len(c.methods) != len(c.ABI.Methods()) {
		panic(fmt.Sprintf("%s: %d of %d methods implemented", c.name, len(c.methods), len(c.ABI.Methods())))
	}
}

func init() {
	register(Token.Contract, tokenMethods())
	register(FeeToken.Contract, tokenMethods())
	register(VotingEscrow.Contract, escrowMethods())
	register(GaugeController.Contract, gaugeMethods())
	register(FeeDistributor.Contract, distributorMethods())
}
