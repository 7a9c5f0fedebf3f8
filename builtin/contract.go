// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/pkg/errors"

	"github.com/vechain/vedao/abi"
	"github.com/vechain/vedao/builtin/gen"
	"github.com/vechain/vedao/thor"
)

// Contract is a builtin contract with its address and abi.
type Contract struct {
	name    string
	Address thor.Address
	ABI     *abi.ABI
	methods map[abi.MethodID]*nativeMethod
}

func mustLoadContract(name, abiName string) *Contract {
	parsed, err := abi.New(gen.MustABI(abiName))
	if err != nil {
		panic(errors.WithMessagef(err, "load ABI for '%s'", name))
	}
	return &Contract{
		name:    name,
		Address: thor.BytesToAddress([]byte(name)),
		ABI:     parsed,
		methods: make(map[abi.MethodID]*nativeMethod),
	}
}

// Name returns the contract name, which also derives its address.
func (c *Contract) Name() string {
	return c.name
}

// Method returns the method for the given input data, if the contract implements it.
func (c *Contract) Method(input []byte) (*abi.Method, bool) {
	id, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil, false
	}
	m, ok := c.methods[id]
	if !ok {
		return nil, false
	}
	return m.method, true
}
