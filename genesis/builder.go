// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/builtin"
	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/runtime"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/tx"
	"github.com/vechain/vedao/xenv"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp uint64
	gasLimit  uint64
	calls     []call
	err       error
}

type call struct {
	Caller thor.Address
	To     thor.Address
	Data   []byte
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// GasLimit set gas limit of each call.
func (b *Builder) GasLimit(limit uint64) *Builder {
	b.gasLimit = limit
	return b
}

// Call add a contract call. Encoding errors are reported by Build.
func (b *Builder) Call(caller thor.Address, contract *builtin.Contract, method string, args ...any) *Builder {
	if b.err != nil {
		return b
	}
	m, ok := contract.ABI.MethodByName(method)
	if !ok {
		b.err = errors.Errorf("%v: method %v not found", contract.Name(), method)
		return b
	}
	data, err := m.EncodeInput(args...)
	if err != nil {
		b.err = errors.WithMessagef(err, "%v", contract.Name())
		return b
	}
	b.calls = append(b.calls, call{caller, contract.Address, data})
	return b
}

// ComputeID compute genesis ID, which commits to the timestamp and every call.
func (b *Builder) ComputeID() (thor.Bytes32, error) {
	if b.err != nil {
		return thor.Bytes32{}, b.err
	}
	data, err := rlp.EncodeToBytes([]any{b.timestamp, b.calls})
	if err != nil {
		return thor.Bytes32{}, err
	}
	return thor.Blake2b(data), nil
}

// Build executes the calls at block 0 and commits the result into repo.
func (b *Builder) Build(repo *chain.Repository) (id thor.Bytes32, events tx.Events, err error) {
	id, err = b.ComputeID()
	if err != nil {
		return thor.Bytes32{}, nil, err
	}

	rt := runtime.New(repo.State(), b.gasLimit)
	blockCtx := &xenv.BlockContext{Number: 0, Time: b.timestamp}
	for i, call := range b.calls {
		out, err := rt.Execute(blockCtx, &runtime.Invocation{Caller: call.Caller, To: call.To, Data: call.Data})
		if err != nil {
			return thor.Bytes32{}, nil, errors.WithMessagef(err, "call #%d", i)
		}
		if out.Receipt.Reverted {
			return thor.Bytes32{}, nil, errors.Errorf("call #%d reverted: %v", i, out.Receipt.RevertReason)
		}
		events = append(events, out.Receipt.Events...)
	}

	head := chain.Head{Number: 0, Time: b.timestamp, Invocations: uint64(len(b.calls))}
	if err := repo.Initialize(id, head); err != nil {
		return thor.Bytes32{}, nil, errors.WithMessage(err, "initialize chain")
	}
	return id, events, nil
}
