// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/api/restutil"
	"github.com/vechain/vedao/builtin"
	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/runtime"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

// Caller runs read only calls on the head state.
//
// It's thread-safe, calls are serialized with the writers of the state.
type Caller struct {
	repo     *chain.Repository
	gasLimit uint64
}

func NewCaller(repo *chain.Repository, gasLimit uint64) *Caller {
	return &Caller{repo: repo, gasLimit: gasLimit}
}

// BlockContext returns the head block context, moved to time if it is later.
func (c *Caller) BlockContext(time uint64) *xenv.BlockContext {
	ctx := c.repo.Head().BlockContext()
	if time > ctx.Time {
		ctx.Time = time
	}
	return ctx
}

// Call executes input and discards any change.
func (c *Caller) Call(blockCtx *xenv.BlockContext, caller thor.Address, to thor.Address, input []byte) (*runtime.Output, error) {
	var out *runtime.Output
	err := c.repo.WithState(func(st *state.State) (err error) {
		out, err = runtime.New(st, c.gasLimit).Call(blockCtx, &runtime.Invocation{
			Caller: caller,
			To:     to,
			Data:   input,
		})
		return
	})
	return out, err
}

// View calls a method with typed args and decodes its outputs by name.
// A reverted call is reported as a bad request.
func (c *Caller) View(blockCtx *xenv.BlockContext, caller thor.Address, contract *builtin.Contract, method string, args ...any) (map[string]any, error) {
	m, ok := contract.ABI.MethodByName(method)
	if !ok {
		return nil, errors.Errorf("%v: method %v not found", contract.Name(), method)
	}
	input, err := m.EncodeInput(args...)
	if err != nil {
		return nil, err
	}
	if blockCtx == nil {
		blockCtx = c.BlockContext(0)
	}
	out, err := c.Call(blockCtx, caller, contract.Address, input)
	if err != nil {
		return nil, err
	}
	if out.Receipt.Reverted {
		return nil, restutil.BadRequest(errors.Errorf("%v.%v reverted: %v", contract.Name(), method, out.Receipt.RevertReason))
	}
	return m.DecodeOutputToMap(out.Data)
}

// JSONValues converts decoded outputs for json encoding. Big integers are
// encoded as hex strings.
func JSONValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if b, ok := v.(*big.Int); ok {
			v = (*math.HexOrDecimal256)(b)
		}
		out[k] = v
	}
	return out
}
