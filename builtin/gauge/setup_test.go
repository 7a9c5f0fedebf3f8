// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

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
	gcAddr    = thor.BytesToAddress([]byte("GaugeController"))
	veAddr    = thor.BytesToAddress([]byte("VotingEscrow"))
	tokenAddr = thor.BytesToAddress([]byte("Token"))
	admin     = thor.BytesToAddress([]byte("admin"))
	alice     = thor.BytesToAddress([]byte("alice"))
	bob       = thor.BytesToAddress([]byte("bob"))
	gauge1    = thor.BytesToAddress([]byte("gauge1"))
	gauge2    = thor.BytesToAddress([]byte("gauge2"))
	gauge3    = thor.BytesToAddress([]byte("gauge3"))

	// T0 is a week aligned start time
	T0 = 2500 * thor.Week
)

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
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

func (t *tokenCaller) Decimals() (decimals uint8, err error) {
	err = t.env.Call(t.addr, func() (err error) {
		decimals, err = t.native().Decimals()
		return
	})
	return
}

// escrowCaller reads the escrow with the controller as caller.
type escrowCaller struct {
	env  *xenv.Environment
	addr thor.Address
}

func (e *escrowCaller) native() *escrow.VotingEscrow {
	return escrow.New(e.addr, e.env, func(addr thor.Address) escrow.Token { return &tokenCaller{e.env, addr} })
}

func (e *escrowCaller) GetLastUserSlope(addr thor.Address) (slope *big.Int, err error) {
	err = e.env.Call(e.addr, func() (err error) {
		slope, err = e.native().GetLastUserSlope(addr)
		return
	})
	return
}

func (e *escrowCaller) LockedEnd(addr thor.Address) (end uint64, err error) {
	err = e.env.Call(e.addr, func() (err error) {
		end, err = e.native().LockedEnd(addr)
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

func newHarness(t *testing.T) *harness {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &harness{t: t, state: state.New(db), now: T0, block: 1}
	require.NoError(t, h.tokenCall(admin, func(tok *token.Token) error {
		return tok.Initialize("Base Token", "BT", 18, admin)
	}))
	require.NoError(t, h.escrowCall(admin, func(ve *escrow.VotingEscrow) error {
		return ve.Initialize(tokenAddr, "Vote-escrowed BT", "veBT", "1")
	}))
	require.NoError(t, h.call(admin, func(gc *GaugeController) error {
		return gc.Initialize(tokenAddr, veAddr)
	}))
	for _, user := range []thor.Address{alice, bob} {
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

func (h *harness) call(caller thor.Address, fn func(gc *GaugeController) error) error {
	env := h.env(caller, gcAddr)
	gc := New(gcAddr, env, func(addr thor.Address) Escrow { return &escrowCaller{env, addr} })
	return h.run(env, func() error { return fn(gc) })
}

func (h *harness) escrowCall(caller thor.Address, fn func(ve *escrow.VotingEscrow) error) error {
	env := h.env(caller, veAddr)
	ve := escrow.New(veAddr, env, func(addr thor.Address) escrow.Token { return &tokenCaller{env, addr} })
	return h.run(env, func() error { return fn(ve) })
}

func (h *harness) tokenCall(caller thor.Address, fn func(tok *token.Token) error) error {
	env := h.env(caller, tokenAddr)
	return h.run(env, func() error { return fn(token.New(tokenAddr, env)) })
}

func (h *harness) view() *GaugeController {
	env := h.env(thor.Address{}, gcAddr)
	return New(gcAddr, env, func(addr thor.Address) Escrow { return &escrowCaller{env, addr} })
}

func (h *harness) advance(seconds uint64) *harness {
	h.now += seconds
	h.block += uint32(seconds / 10)
	return h
}

func (h *harness) lock(user thor.Address, amount *big.Int, end uint64) {
	require.NoError(h.t, h.escrowCall(user, func(ve *escrow.VotingEscrow) error {
		return ve.CreateLock(amount, end)
	}))
}

func (h *harness) vote(user, gauge thor.Address, weight uint64) error {
	return h.call(user, func(gc *GaugeController) error { return gc.VoteForGaugeWeights(gauge, weight) })
}

func (h *harness) relativeWeight(gauge thor.Address, t uint64) *big.Int {
	w, err := h.view().GaugeRelativeWeight(gauge, t)
	require.NoError(h.t, err)
	return w
}

// setupGauges adds type 0 with weight 1e18 and registers gauge1 and gauge2 with no weight.
func (h *harness) setupGauges() {
	require.NoError(h.t, h.call(admin, func(gc *GaugeController) error {
		if err := gc.AddType("Liquidity", e18(1)); err != nil {
			return err
		}
		if err := gc.AddGauge(gauge1, 0, nil); err != nil {
			return err
		}
		return gc.AddGauge(gauge2, 0, nil)
	}))
}

func (h *harness) escrowSlope(user thor.Address) (slope *big.Int, err error) {
	err = h.escrowCall(user, func(ve *escrow.VotingEscrow) (err error) {
		slope, err = ve.GetLastUserSlope(user)
		return
	})
	return
}
