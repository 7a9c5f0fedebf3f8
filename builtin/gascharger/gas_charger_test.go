// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vedao/lvldb"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

func TestCharger(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	env := xenv.New(state.New(db), &xenv.BlockContext{}, thor.Address{}, thor.Address{}, 1_000_000)

	var hooked *Charger
	SetTestHook(func(c *Charger) { hooked = c })
	defer ClearTestHook()

	c := New(env)
	assert.Same(t, c, hooked)

	c.Charge(thor.SloadGas)
	c.Charge(2 * thor.SstoreSetGas)
	c.Charge(thor.SstoreResetGas)
	c.Charge(7)

	total := thor.SloadGas + 2*thor.SstoreSetGas + thor.SstoreResetGas + 7
	assert.Equal(t, total, c.TotalGas())
	assert.Equal(t, total, env.GasUsed())
	assert.Equal(t,
		"SLOAD: 1 ops (200 gas) | SSTORE_SET: 2 ops (40000 gas) | SSTORE_RESET: 1 ops (5000 gas) | CUSTOM: 7 gas | TOTAL: 45207 gas",
		c.Breakdown())
}

func TestNilEnv(t *testing.T) {
	c := New(nil)
	c.Charge(thor.SloadGas)
	assert.Equal(t, thor.SloadGas, c.TotalGas())
}
