// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/vedao/builtin/gascharger"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
)

// Context binds storage slots to a contract address and a gas charger.
type Context struct {
	address thor.Address
	state   *state.State
	charger *gascharger.Charger
}

func NewContext(address thor.Address, state *state.State, charger *gascharger.Charger) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) UseGas(gas uint64) {
	if c.charger != nil {
		c.charger.Charge(gas)
	}
}

// chargeStore charges a write of the given number of words, depending on
// whether the slot held a value before.
func (c *Context) chargeStore(pos thor.Bytes32, words uint64) error {
	prev, err := c.state.GetRawStorage(c.address, pos)
	if err != nil {
		return err
	}
	if len(prev) == 0 {
		c.UseGas(words * thor.SstoreSetGas)
	} else {
		c.UseGas(words * thor.SstoreResetGas)
	}
	return nil
}

func (c *Context) getStorage(pos thor.Bytes32) (thor.Bytes32, error) {
	c.UseGas(thor.SloadGas)
	return c.state.GetStorage(c.address, pos)
}

func (c *Context) setStorage(pos thor.Bytes32, value thor.Bytes32) error {
	if err := c.chargeStore(pos, 1); err != nil {
		return err
	}
	c.state.SetStorage(c.address, pos, value)
	return nil
}

func (c *Context) decode(pos thor.Bytes32, val any) error {
	return c.state.DecodeStorage(c.address, pos, func(raw []byte) error {
		c.UseGas(toWordSize(len(raw)) * thor.SloadGas)
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, val)
	})
}

func (c *Context) encode(pos thor.Bytes32, val any) error {
	raw, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	if err := c.chargeStore(pos, toWordSize(len(raw))); err != nil {
		return err
	}
	c.state.SetRawStorage(c.address, pos, raw)
	return nil
}
