// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vedao/abi"
	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/lvldb"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
)

var (
	alice    = thor.BytesToAddress([]byte("alice"))
	contract = thor.BytesToAddress([]byte("contract"))
	other    = thor.BytesToAddress([]byte("other"))
)

func newEnv(gas uint64) *Environment {
	db, _ := lvldb.NewMem()
	return New(state.New(db), &BlockContext{Number: 1, Time: 100}, alice, contract, gas)
}

func TestFrames(t *testing.T) {
	env := newEnv(1000)
	assert.Equal(t, alice, env.Caller())
	assert.Equal(t, contract, env.To())
	assert.Equal(t, alice, env.Origin())
	assert.Equal(t, uint64(100), env.Now())
	assert.Equal(t, uint32(1), env.BlockContext().Number)

	err := env.Call(other, func() error {
		assert.Equal(t, contract, env.Caller())
		assert.Equal(t, other, env.To())
		assert.Equal(t, 2, env.Depth())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.Depth())
	assert.Equal(t, alice, env.Caller())
}

func TestUseGas(t *testing.T) {
	env := newEnv(1000)
	err := env.Run(func() error {
		env.UseGas(600)
		env.UseGas(400)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), env.GasUsed())

	env = newEnv(1000)
	err = env.Run(func() error {
		env.UseGas(600)
		env.UseGas(401)
		return nil
	})
	assert.ErrorIs(t, err, ErrOutOfGas)
	assert.Equal(t, uint64(1000), env.GasUsed())

	assert.Panics(t, func() {
		_ = env.Run(func() error { panic("boom") })
	})
}

func TestLog(t *testing.T) {
	parsed, err := abi.New([]byte(`[{"type":"event","name":"Ping","inputs":[
		{"name":"who","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}]}]`))
	require.NoError(t, err)
	ev := parsed.MustEventByName("Ping")

	env := newEnv(100000)
	env.Log(ev, contract, []thor.Bytes32{abi.AddressTopic(alice)}, big.NewInt(5))

	require.Len(t, env.Events(), 1)
	got := env.Events()[0]
	assert.Equal(t, contract, got.Address)
	assert.Equal(t, []thor.Bytes32{ev.ID(), abi.AddressTopic(alice)}, got.Topics)
	assert.Len(t, got.Data, 32)
	assert.Equal(t, thor.LogGas+2*thor.LogTopicGas+32*thor.LogDataGas, env.GasUsed())
}

func TestLock(t *testing.T) {
	env := newEnv(1000)
	release, err := env.Lock()
	require.NoError(t, err)

	_, err = env.Lock()
	assert.Equal(t, reverts.State, reverts.KindOf(err))

	// another contract has its own flag
	err = env.Call(other, func() error {
		r, err := env.Lock()
		if err == nil {
			r()
		}
		return err
	})
	assert.NoError(t, err)

	release()
	release, err = env.Lock()
	require.NoError(t, err)
	release()
}

func TestStop(t *testing.T) {
	env := newEnv(1000)
	err := env.Run(func() error {
		env.Stop(reverts.NewPrecondition("stopped"))
		return nil
	})
	assert.Equal(t, "stopped", err.Error())
}
