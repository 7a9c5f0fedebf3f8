// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"fmt"

	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

// Test hook - only used during testing
var testHook func(*Charger) = nil

// Charger accounts storage gas of a contract call and forwards it to the env.
// A nil env only counts.
type Charger struct {
	env            *xenv.Environment
	sloadOps       uint64
	sstoreSetOps   uint64
	sstoreResetOps uint64
	customGas      uint64
	totalGas       uint64
}

func New(env *xenv.Environment) *Charger {
	charger := &Charger{
		env: env,
	}

	if testHook != nil {
		testHook(charger)
	}

	return charger
}

func (c *Charger) Charge(gas uint64) {
	c.totalGas += gas

	switch {
	case gas%thor.SstoreSetGas == 0 && gas > 0:
		c.sstoreSetOps += gas / thor.SstoreSetGas

	case gas%thor.SstoreResetGas == 0 && gas > 0:
		c.sstoreResetOps += gas / thor.SstoreResetGas

	case gas%thor.SloadGas == 0 && gas > 0:
		c.sloadOps += gas / thor.SloadGas

	default:
		c.customGas += gas
	}

	if c.env != nil {
		c.env.UseGas(gas)
	}
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"SLOAD: %d ops (%d gas) | SSTORE_SET: %d ops (%d gas) | SSTORE_RESET: %d ops (%d gas) | CUSTOM: %d gas | TOTAL: %d gas",
		c.sloadOps,
		c.sloadOps*thor.SloadGas,
		c.sstoreSetOps,
		c.sstoreSetOps*thor.SstoreSetGas,
		c.sstoreResetOps,
		c.sstoreResetOps*thor.SstoreResetGas,
		c.customGas,
		c.totalGas,
	)
}

func (c *Charger) TotalGas() uint64 {
	return c.totalGas
}

// Test helper functions

func SetTestHook(hook func(*Charger)) {
	testHook = hook
}

func ClearTestHook() {
	testHook = nil
}
