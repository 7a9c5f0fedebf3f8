// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/vechain/vedao/builtin/escrow"
	"github.com/vechain/vedao/builtin/token"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

// tokenCaller calls the token at addr in a nested frame, so the calling
// contract is the token caller.
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

// escrowCaller calls the voting escrow at addr in a nested frame.
type escrowCaller struct {
	env  *xenv.Environment
	addr thor.Address
}

func (e *escrowCaller) native() *escrow.VotingEscrow { return newEscrow(e.addr, e.env) }

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
