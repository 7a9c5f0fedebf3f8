// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/vedao/builtin/token"
	"github.com/vechain/vedao/lvldb"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/tx"
	"github.com/vechain/vedao/xenv"
)

var (
	veAddr    = thor.BytesToAddress([]byte("VotingEscrow"))
	tokenAddr = thor.BytesToAddress([]byte("Token"))
	admin     = thor.BytesToAddress([]byte("admin"))
	alice     = thor.BytesToAddress([]byte("alice"))
	bob       = thor.BytesToAddress([]byte("bob"))
	carol     = thor.BytesToAddress([]byte("carol"))

	// T0 is a week aligned start time
	T0 = 2500 * thor.Week
)

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// tokenCaller calls the token with the escrow as caller.
type tokenCaller struct {
	env  *xenv.Environment
	addr thor.Address
}

func (t *tokenCaller) native() *token.Token { return token.New(t.addr, t.env) }

func (t *tokenCaller) Transfer(recipient thor.Address, amount *big.Int) error {
	return t.env.Call(t.addr, func() error { return t.native().Transfer(recipient, amount) })
}

func (t *tokenCaller) TransferFrom(owner, recipient thor.Address, amount *big.Int) error {
	return t.env.Call(t.addr, func() error { return t.native().TransferFrom(owner, recipient, amount) })
}

func (t *tokenCaller) Decimals() (decimals uint8, err error) {
	err = t.env.Call(t.addr, func() (err error) {
		decimals, err = t.native().Decimals()
		return
	})
	return
}

// harness drives the escrow through time, reverting the state of failed calls.
type harness struct {
	t      *testing.T
	state  *state.State
	now    uint64
	block  uint32
	events tx.Events
}

func newHarness(t *testing.T) *harness {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &harness{t: t, state: state.New(db), now: T0, block: 1}
	require.NoError(t, h.tokenCall(admin, func(tok *token.Token) error {
		return tok.Initialize("Base Token", "BT", 18, admin)
	}))
	require.NoError(t, h.call(admin, func(ve *VotingEscrow) error {
		return ve.Initialize(tokenAddr, "Vote-escrowed BT", "veBT", "1")
	}))
	for _, user := range []thor.Address{alice, bob, carol} {
		require.NoError(t, h.tokenCall(admin, func(tok *token.Token) error {
			return tok.Mint(user, e18(1000))
		}))
		require.NoError(t, h.tokenCall(user, func(tok *token.Token) error {
			return tok.Approve(veAddr, e18(1000))
		}))
	}
	return h
}

func (h *harness) env(caller, to thor.Address) *xenv.Environment {
	return xenv.New(h.state, &xenv.BlockContext{Number: h.block, Time: h.now}, caller, to, thor.DefaultCallGasLimit)
}

func (h *harness) run(env *xenv.Environment, fn func() error) error {
	rev := h.state.NewCheckpoint()
	if err := env.Run(fn); err != nil {
		h.state.RevertTo(rev)
		return err
	}
	h.events = append(h.events, env.Events()...)
	return nil
}

// call invokes the escrow as caller.
func (h *harness) call(caller thor.Address, fn func(ve *VotingEscrow) error) error {
	env := h.env(caller, veAddr)
	ve := New(veAddr, env, func(addr thor.Address) Token { return &tokenCaller{env, addr} })
	return h.run(env, func() error { return fn(ve) })
}

func (h *harness) tokenCall(caller thor.Address, fn func(tok *token.Token) error) error {
	env := h.env(caller, tokenAddr)
	return h.run(env, func() error { return fn(token.New(tokenAddr, env)) })
}

// view returns the escrow for read only access at the current time.
func (h *harness) view() *VotingEscrow {
	env := h.env(thor.Address{}, veAddr)
	return New(veAddr, env, func(addr thor.Address) Token { return &tokenCaller{env, addr} })
}

// advance moves time forward, producing one block per 10 seconds.
func (h *harness) advance(seconds uint64) *harness {
	h.now += seconds
	h.block += uint32(seconds / 10)
	return h
}

func (h *harness) balanceOfToken(addr thor.Address) *big.Int {
	var b *big.Int
	require.NoError(h.t, h.tokenCall(addr, func(tok *token.Token) (err error) {
		b, err = tok.BalanceOf(addr)
		return
	}))
	return b
}

func (h *harness) veBalance(addr thor.Address, t uint64) *big.Int {
	b, err := h.view().BalanceOf(addr, t)
	require.NoError(h.t, err)
	return b
}

func (h *harness) totalSupply(t uint64) *big.Int {
	s, err := h.view().TotalSupply(t)
	require.NoError(h.t, err)
	return s
}

// expectedBias is the voting power of a lock of amount ending at end, evaluated at t.
func expectedBias(amount *big.Int, end, t uint64) *big.Int {
	if t >= end {
		return new(big.Int)
	}
	slope := new(big.Int).Quo(amount, new(big.Int).SetUint64(thor.MaxLockTime))
	return slope.Mul(slope, new(big.Int).SetUint64(end-t))
}
