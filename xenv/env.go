// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/pkg/errors"

	"github.com/vechain/vedao/abi"
	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/tx"
)

// ErrOutOfGas is returned when an invocation exceeds its gas limit.
var ErrOutOfGas = errors.New("out of gas")

var slotReentrancyLock = thor.BytesToBytes32([]byte("reentrancy-lock"))

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

type vmError struct {
	cause error
}

type frame struct {
	caller thor.Address
	to     thor.Address
}

// Environment an env to execute native contract methods.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	origin   thor.Address
	frames   []frame
	gasLimit uint64
	gasUsed  uint64
	events   tx.Events
}

// New create a new env. The origin is the caller of the outermost frame.
func New(
	state *state.State,
	blockCtx *BlockContext,
	origin thor.Address,
	to thor.Address,
	gasLimit uint64,
) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		origin:   origin,
		frames:   []frame{{caller: origin, to: to}},
		gasLimit: gasLimit,
	}
}

func (env *Environment) State() *state.State         { return env.state }
func (env *Environment) BlockContext() *BlockContext { return env.blockCtx }
func (env *Environment) Origin() thor.Address        { return env.origin }
func (env *Environment) Caller() thor.Address        { return env.top().caller }
func (env *Environment) To() thor.Address            { return env.top().to }
func (env *Environment) Depth() int                  { return len(env.frames) }
func (env *Environment) GasUsed() uint64             { return env.gasUsed }
func (env *Environment) Events() tx.Events           { return env.events }

// Now returns the block time.
func (env *Environment) Now() uint64 { return env.blockCtx.Time }

func (env *Environment) top() frame {
	return env.frames[len(env.frames)-1]
}

// UseGas consumes gas, the invocation is aborted once the limit is exceeded.
func (env *Environment) UseGas(gas uint64) {
	if env.gasLimit-env.gasUsed < gas {
		env.gasUsed = env.gasLimit
		panic(&vmError{ErrOutOfGas})
	}
	env.gasUsed += gas
}

// Log emits an event of the given contract address.
// The event id is prepended to the topics.
func (env *Environment) Log(abi *abi.Event, address thor.Address, topics []thor.Bytes32, args ...any) {
	data, err := abi.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}
	env.UseGas(thor.LogGas + thor.LogTopicGas*uint64(len(topics)+1) + thor.LogDataGas*uint64(len(data)))

	all := make([]thor.Bytes32, 0, len(topics)+1)
	all = append(all, abi.ID())
	all = append(all, topics...)
	env.events = append(env.events, &tx.Event{
		Address: address,
		Topics:  all,
		Data:    data,
	})
}

// Call runs fn in a nested frame where the current contract is the caller of to.
func (env *Environment) Call(to thor.Address, fn func() error) error {
	env.frames = append(env.frames, frame{caller: env.To(), to: to})
	defer func() {
		env.frames = env.frames[:len(env.frames)-1]
	}()
	return fn()
}

// Lock acquires the re-entrancy flag of the current contract.
// The flag lives in contract storage, so a nested call into the same
// contract observes it. The returned func releases the flag.
func (env *Environment) Lock() (func(), error) {
	addr := env.To()
	v, err := env.state.GetStorage(addr, slotReentrancyLock)
	if err != nil {
		return nil, err
	}
	if !v.IsZero() {
		return nil, reverts.NewState("re-entrancy lock held")
	}
	env.state.SetStorage(addr, slotReentrancyLock, thor.BytesToBytes32([]byte{1}))
	return func() {
		env.state.SetStorage(addr, slotReentrancyLock, thor.Bytes32{})
	}, nil
}

// Stop aborts the invocation with the given error.
func (env *Environment) Stop(vmerr error) {
	panic(&vmError{vmerr})
}

// Run executes proc, converting aborts raised by UseGas or Stop into errors.
func (env *Environment) Run(proc func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			if rec, ok := e.(*vmError); ok {
				err = rec.cause
			} else {
				panic(e)
			}
		}
	}()
	return proc()
}
