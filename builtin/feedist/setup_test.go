// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feedist

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/vedao/builtin/escrow"
	"github.com/vechain/vedao/builtin/token"
	"github.com/vechain/vedao/lvldb"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/tx"
	"github.com/vechain/vedao/xenv"
)

var (
	fdAddr    = thor.BytesToAddress([]byte("FeeDistributor"))
	veAddr    = thor.BytesToAddress([]byte("VotingEscrow"))
	tokenAddr = thor.BytesToAddress([]byte("Token"))
	feeAddr   = thor.BytesToAddress([]byte("FeeToken"))
	admin     = thor.BytesToAddress([]byte("admin"))
	emergency = thor.BytesToAddress([]byte("emergency"))
	alice     = thor.BytesToAddress([]byte("alice"))
	bob       = thor.BytesToAddress([]byte("bob"))
	carol     = thor.BytesToAddress([]byte("carol"))

	// W0 is the week aligned start time, W1..W3 the following weeks
	W0 = 2500 * thor.Week
	W1 = W0 + thor.Week
	W2 = W1 + thor.Week
	W3 = W2 + thor.Week
)

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// lockAmount locks to a slope of n*1e10 per second.
func lockAmount(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n*1e10), new(big.Int).SetUint64(thor.MaxLockTime))
}

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

func (t *tokenCaller) BalanceOf(owner thor.Address) (balance *big.Int, err error) {
	err = t.env.Call(t.addr, func() (err error) {
		balance, err = t.native().BalanceOf(owner)
		return
	})
	return
}

func (t *tokenCaller) Decimals() (decimals uint8, err error) {
	err = t.env.Call(t.addr, func() (err error) {
		decimals, err = t.native().Decimals()
		return
	})
	return
}

// escrowCaller calls the escrow with the distributor as caller.
type escrowCaller struct {
	env  *xenv.Environment
	addr thor.Address
}

func (e *escrowCaller) native() *escrow.VotingEscrow {
	return escrow.New(e.addr, e.env, func(addr thor.Address) escrow.Token { return &tokenCaller{e.env, addr} })
}

func (e *escrowCaller) Checkpoint() error {
	return e.env.Call(e.addr, func() error { return e.native().Checkpoint() })
}

func (e *escrowCaller) TotalSupply(t uint64) (supply *big.Int, err error) {
	err = e.env.Call(e.addr, func() (err error) {
		supply, err = e.native().TotalSupply(t)
		return
	})
	return
}

func (e *escrowCaller) UserPointEpoch(addr thor.Address) (epoch uint64, err error) {
	err = e.env.Call(e.addr, func() (err error) {
		epoch, err = e.native().UserPointEpoch(addr)
		return
	})
	return
}

func (e *escrowCaller) UserPointHistory(addr thor.Address, epoch uint64) (p *escrow.Point, err error) {
	err = e.env.Call(e.addr, func() (err error) {
		p, err = e.native().UserPointHistory(addr, epoch)
		return
	})
	return
}

type harness struct {
	t      *testing.T
	state  *state.State
	now    uint64
	block  uint32
	events tx.Events
}

// newHarness deploys both tokens, the escrow and a distributor starting at W0.
// alice and bob hold base tokens approved to the escrow.
func newHarness(t *testing.T) *harness {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &harness{t: t, state: state.New(db), now: W0, block: 1}
	require.NoError(t, h.tokenCall(tokenAddr, admin, func(tok *token.Token) error {
		return tok.Initialize("Base Token", "BT", 18, admin)
	}))
	require.NoError(t, h.tokenCall(feeAddr, admin, func(tok *token.Token) error {
		return tok.Initialize("Fee Token", "FT", 18, admin)
	}))
	require.NoError(t, h.escrowCall(admin, func(ve *escrow.VotingEscrow) error {
		return ve.Initialize(tokenAddr, "Vote-escrowed BT", "veBT", "1")
	}))
	require.NoError(t, h.call(admin, func(fd *FeeDistributor) error {
		return fd.Initialize(veAddr, W0, feeAddr, admin, emergency)
	}))
	for _, user := range []thor.Address{alice, bob} {
		require.NoError(t, h.tokenCall(tokenAddr, admin, func(tok *token.Token) error {
			return tok.Mint(user, e18(1000))
		}))
		require.NoError(t, h.tokenCall(tokenAddr, user, func(tok *token.Token) error {
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

func (h *harness) distributor(env *xenv.Environment) *FeeDistributor {
	return New(fdAddr, env, Resolvers{
		Escrow: func(addr thor.Address) Escrow { return &escrowCaller{env, addr} },
		Token:  func(addr thor.Address) Token { return &tokenCaller{env, addr} },
	})
}

func (h *harness) call(caller thor.Address, fn func(fd *FeeDistributor) error) error {
	env := h.env(caller, fdAddr)
	fd := h.distributor(env)
	return h.run(env, func() error { return fn(fd) })
}

func (h *harness) escrowCall(caller thor.Address, fn func(ve *escrow.VotingEscrow) error) error {
	env := h.env(caller, veAddr)
	ve := escrow.New(veAddr, env, func(addr thor.Address) escrow.Token { return &tokenCaller{env, addr} })
	return h.run(env, func() error { return fn(ve) })
}

func (h *harness) tokenCall(addr, caller thor.Address, fn func(tok *token.Token) error) error {
	env := h.env(caller, addr)
	return h.run(env, func() error { return fn(token.New(addr, env)) })
}

func (h *harness) view() *FeeDistributor {
	return h.distributor(h.env(thor.Address{}, fdAddr))
}

// at moves the clock forward to t.
func (h *harness) at(t uint64) *harness {
	require.GreaterOrEqual(h.t, t, h.now)
	h.block += uint32((t - h.now) / 10)
	h.now = t
	return h
}

func (h *harness) lock(user thor.Address, amount *big.Int, end uint64) {
	require.NoError(h.t, h.escrowCall(user, func(ve *escrow.VotingEscrow) error {
		return ve.CreateLock(amount, end)
	}))
}

// fund mints fee tokens straight to the distributor.
func (h *harness) fund(amount *big.Int) {
	require.NoError(h.t, h.tokenCall(feeAddr, admin, func(tok *token.Token) error {
		return tok.Mint(fdAddr, amount)
	}))
}

func (h *harness) checkpointToken(caller thor.Address) error {
	return h.call(caller, func(fd *FeeDistributor) error { return fd.CheckpointToken() })
}

func (h *harness) claim(caller, addr thor.Address) (amount *big.Int, err error) {
	err = h.call(caller, func(fd *FeeDistributor) (err error) {
		amount, err = fd.Claim(addr)
		return
	})
	return
}

func (h *harness) balance(coin, owner thor.Address) *big.Int {
	b, err := token.New(coin, h.env(thor.Address{}, coin)).BalanceOf(owner)
	require.NoError(h.t, err)
	return b
}
