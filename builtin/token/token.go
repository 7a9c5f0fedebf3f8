// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a native fungible token ledger. It serves as the
// locked base token of the escrow and the fee token of the distributor.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vedao/abi"
	"github.com/vechain/vedao/builtin/gascharger"
	"github.com/vechain/vedao/builtin/gen"
	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/builtin/safemath"
	"github.com/vechain/vedao/builtin/solidity"
	"github.com/vechain/vedao/log"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

var (
	logger = log.WithContext("pkg", "token")

	tokenABI      = gen.MustParse("Token")
	transferEvent = tokenABI.MustEventByName("Transfer")
	approvalEvent = tokenABI.MustEventByName("Approval")

	slotName        = nameToSlot("name")
	slotSymbol      = nameToSlot("symbol")
	slotDecimals    = nameToSlot("decimals")
	slotTotalSupply = nameToSlot("total-supply")
	slotAdmin       = nameToSlot("admin")
	slotBalances    = nameToSlot("balances")
	slotAllowances  = nameToSlot("allowances")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// Token implements the base token interface consumed by the governance contracts.
type Token struct {
	addr        thor.Address
	env         *xenv.Environment
	name        *solidity.String
	symbol      *solidity.String
	decimals    *solidity.Uint64
	totalSupply *solidity.Uint256
	admin       *solidity.Address
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[solidity.BytesKey, *big.Int]
}

// New binds the token stored at addr to the environment.
func New(addr thor.Address, env *xenv.Environment) *Token {
	ctx := solidity.NewContext(addr, env.State(), gascharger.New(env))
	return &Token{
		addr:        addr,
		env:         env,
		name:        solidity.NewString(ctx, slotName),
		symbol:      solidity.NewString(ctx, slotSymbol),
		decimals:    solidity.NewUint64(ctx, slotDecimals),
		totalSupply: solidity.NewUint256(ctx, slotTotalSupply),
		admin:       solidity.NewAddress(ctx, slotAdmin),
		balances:    solidity.NewMapping[thor.Address, *big.Int](ctx, slotBalances),
		allowances:  solidity.NewMapping[solidity.BytesKey, *big.Int](ctx, slotAllowances),
	}
}

// Address returns the token contract address.
func (t *Token) Address() thor.Address {
	return t.addr
}

// Initialize sets the token metadata and the minting admin.
func (t *Token) Initialize(name, symbol string, decimals uint8, admin thor.Address) error {
	if admin.IsZero() {
		return reverts.NewPrecondition("zero admin")
	}
	current, err := t.admin.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.NewPrecondition("already initialized")
	}
	if err := t.name.Set(name); err != nil {
		return err
	}
	if err := t.symbol.Set(symbol); err != nil {
		return err
	}
	if err := t.decimals.Set(uint64(decimals)); err != nil {
		return err
	}
	return t.admin.Set(admin)
}

func (t *Token) Name() (string, error)          { return t.name.Get() }
func (t *Token) Symbol() (string, error)        { return t.symbol.Get() }
func (t *Token) TotalSupply() (*big.Int, error) { return t.totalSupply.Get() }
func (t *Token) Admin() (thor.Address, error)   { return t.admin.Get() }

func (t *Token) Decimals() (uint8, error) {
	d, err := t.decimals.Get()
	if err != nil {
		return 0, err
	}
	return uint8(d), nil
}

func (t *Token) BalanceOf(owner thor.Address) (*big.Int, error) {
	b, err := t.balances.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return b, nil
}

func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	a, err := t.allowances.Get(solidity.Compose(owner, spender))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return a, nil
}

// Mint creates amount tokens for to. Admin only.
func (t *Token) Mint(to thor.Address, amount *big.Int) error {
	admin, err := t.admin.Get()
	if err != nil {
		return err
	}
	if t.env.Caller() != admin {
		return reverts.NewAuth("not admin")
	}
	if to.IsZero() {
		return reverts.NewPrecondition("mint to zero address")
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	if err := t.credit(to, amount); err != nil {
		return err
	}
	t.env.Log(transferEvent, t.addr, []thor.Bytes32{abi.AddressTopic(thor.Address{}), abi.AddressTopic(to)}, amount)
	logger.Debug("minted", "to", to, "amount", amount)
	return nil
}

// Transfer moves amount from the caller to recipient.
func (t *Token) Transfer(recipient thor.Address, amount *big.Int) error {
	return t.transfer(t.env.Caller(), recipient, amount)
}

// TransferFrom moves amount from owner to recipient, spending the caller's allowance.
func (t *Token) TransferFrom(owner, recipient thor.Address, amount *big.Int) error {
	spender := t.env.Caller()
	if spender != owner {
		key := solidity.Compose(owner, spender)
		allowance, err := t.allowances.Get(key)
		if err != nil {
			return err
		}
		if allowance.Cmp(amount) < 0 {
			return reverts.NewPrecondition("insufficient allowance")
		}
		if err := t.allowances.Set(key, new(big.Int).Sub(allowance, amount)); err != nil {
			return err
		}
	}
	return t.transfer(owner, recipient, amount)
}

// Approve sets the amount spender may transfer from the caller.
func (t *Token) Approve(spender thor.Address, amount *big.Int) error {
	owner := t.env.Caller()
	if spender.IsZero() {
		return reverts.NewPrecondition("approve to zero address")
	}
	if err := t.allowances.Set(solidity.Compose(owner, spender), amount); err != nil {
		return err
	}
	t.env.Log(approvalEvent, t.addr, []thor.Bytes32{abi.AddressTopic(owner), abi.AddressTopic(spender)}, amount)
	return nil
}

func (t *Token) transfer(from, to thor.Address, amount *big.Int) error {
	if to.IsZero() {
		return reverts.NewPrecondition("transfer to zero address")
	}
	if amount.Sign() < 0 {
		return reverts.NewPrecondition("negative amount")
	}
	balance, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.NewPrecondition("insufficient balance")
	}
	if err := t.balances.Set(from, new(big.Int).Sub(balance, amount)); err != nil {
		return err
	}
	if err := t.credit(to, amount); err != nil {
		return err
	}
	t.env.Log(transferEvent, t.addr, []thor.Bytes32{abi.AddressTopic(from), abi.AddressTopic(to)}, amount)
	return nil
}

func (t *Token) credit(to thor.Address, amount *big.Int) error {
	balance, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	sum, err := safemath.Add(balance, amount)
	if err != nil {
		return err
	}
	return t.balances.Set(to, sum)
}
