// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/vechain/vedao/builtin"
	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/log"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/tx"
	"github.com/vechain/vedao/xenv"
)

var logger = log.WithContext("pkg", "runtime")

// ErrClockRewind is returned when a block context goes back in time.
var ErrClockRewind = errors.New("block context is older than the last executed one")

// Invocation is a top level call into a builtin contract.
type Invocation struct {
	Caller thor.Address
	To     thor.Address
	Data   []byte
}

// Output is the result of an invocation.
type Output struct {
	// abi encoded return data, nil if reverted
	Data    []byte
	Receipt *tx.Receipt
	// the revert error, nil on success
	RevertErr error
}

// Runtime executes invocations against a state.
type Runtime struct {
	state    *state.State
	gasLimit uint64

	lastNumber uint32
	lastTime   uint64
}

// New create a Runtime object.
func New(state *state.State, gasLimit uint64) *Runtime {
	if gasLimit == 0 {
		gasLimit = thor.DefaultCallGasLimit
	}
	return &Runtime{
		state:    state,
		gasLimit: gasLimit,
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) GasLimit() uint64    { return rt.gasLimit }

// LastBlock returns the block context of the last execution.
func (rt *Runtime) LastBlock() xenv.BlockContext {
	return xenv.BlockContext{Number: rt.lastNumber, Time: rt.lastTime}
}

// SetLastBlock sets the clock, usually from the persisted chain head.
func (rt *Runtime) SetLastBlock(number uint32, time uint64) *Runtime {
	rt.lastNumber = number
	rt.lastTime = time
	return rt
}

// Execute runs the invocation in the given block context.
// A reverted invocation leaves no state change and emits no event, it is
// reported through the receipt. The returned error is for failures of the
// runtime itself, the state is reverted in that case too.
func (rt *Runtime) Execute(blockCtx *xenv.BlockContext, inv *Invocation) (*Output, error) {
	if blockCtx.Time < rt.lastTime || blockCtx.Number < rt.lastNumber {
		return nil, errors.WithMessagef(ErrClockRewind, "got #%d@%d, last #%d@%d",
			blockCtx.Number, blockCtx.Time, rt.lastNumber, rt.lastTime)
	}

	out, err := rt.run(blockCtx, inv, false)
	if err != nil {
		return nil, err
	}
	rt.lastNumber = blockCtx.Number
	rt.lastTime = blockCtx.Time
	return out, nil
}

// Call runs the invocation and always discards its changes.
// It serves read only calls and dry runs.
func (rt *Runtime) Call(blockCtx *xenv.BlockContext, inv *Invocation) (*Output, error) {
	return rt.run(blockCtx, inv, true)
}

func (rt *Runtime) run(blockCtx *xenv.BlockContext, inv *Invocation, static bool) (*Output, error) {
	contract := "unknown"
	if c, ok := builtin.Lookup(inv.To); ok {
		contract = c.Name()
	}

	checkpoint := rt.state.NewCheckpoint()
	env := xenv.New(rt.state, blockCtx, inv.Caller, inv.To, rt.gasLimit)

	var data []byte
	err := env.Run(func() (err error) {
		data, err = builtin.Call(env, inv.Data)
		return
	})

	receipt := &tx.Receipt{
		BlockNumber: blockCtx.Number,
		BlockTime:   blockCtx.Time,
		GasUsed:     env.GasUsed(),
	}
	if err != nil {
		rt.state.RevertTo(checkpoint)
		if !isRevert(err) {
			return nil, errors.WithMessagef(err, "execute %v", contract)
		}
		receipt.Reverted = true
		receipt.RevertReason = err.Error()
		if !static {
			logger.Debug("invocation reverted", "contract", contract, "caller", inv.Caller, "reason", err)
			metricsHandleReceipt(contract, receipt, err)
		}
		return &Output{Receipt: receipt, RevertErr: err}, nil
	}

	if static {
		rt.state.RevertTo(checkpoint)
		return &Output{Data: data, Receipt: receipt}, nil
	}
	receipt.Events = env.Events()
	metricsHandleReceipt(contract, receipt, nil)
	return &Output{Data: data, Receipt: receipt}, nil
}

func isRevert(err error) bool {
	return reverts.IsRevertErr(err) || errors.Is(err, xenv.ErrOutOfGas)
}
