// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/vechain/vedao/abi"
	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

var (
	errContractNotFound = reverts.NewPrecondition("not a builtin contract")
	errMethodNotFound   = reverts.NewPrecondition("method not found")
)

// nativeMethod describes a native call.
type nativeMethod struct {
	method *abi.Method
	run    func(env *xenv.Environment, args callArgs) ([]any, error)
}

// callArgs are the decoded inputs of a call, in argument order.
type callArgs []any

func (a callArgs) addr(i int) thor.Address    { return a[i].(thor.Address) }
func (a callArgs) addrs(i int) []thor.Address { return a[i].([]thor.Address) }
func (a callArgs) big(i int) *big.Int         { return a[i].(*big.Int) }
func (a callArgs) u64(i int) uint64           { return a[i].(uint64) }
func (a callArgs) u8(i int) uint8             { return a[i].(uint8) }
func (a callArgs) str(i int) string           { return a[i].(string) }

// Call runs the builtin method selected by input on the contract at env.To(),
// and returns the abi encoded output. It must run inside env.Run.
func Call(env *xenv.Environment, input []byte) ([]byte, error) {
	c, ok := Lookup(env.To())
	if !ok {
		return nil, errContractNotFound
	}
	id, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil, errMethodNotFound
	}
	m, ok := c.methods[id]
	if !ok {
		return nil, errMethodNotFound
	}
	args, err := m.method.DecodeInputValues(input)
	if err != nil {
		return nil, reverts.NewPrecondition("invalid input: " + err.Error())
	}
	out, err := m.run(env, args)
	if err != nil {
		return nil, err
	}
	return m.method.EncodeOutput(out...)
}

func none(err error) ([]any, error) {
	return nil, err
}

func one[T any](v T, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}
