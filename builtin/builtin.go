// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the native governance contracts to fixed addresses.
package builtin

import (
	"github.com/vechain/vedao/builtin/escrow"
	"github.com/vechain/vedao/builtin/feedist"
	"github.com/vechain/vedao/builtin/gauge"
	"github.com/vechain/vedao/builtin/token"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

// Builtin contracts binding.
var (
	Token           = &tokenContract{mustLoadContract("Token", "Token")}
	FeeToken        = &tokenContract{mustLoadContract("FeeToken", "Token")}
	VotingEscrow    = &escrowContract{mustLoadContract("VotingEscrow", "VotingEscrow")}
	GaugeController = &gaugeContract{mustLoadContract("GaugeController", "GaugeController")}
	FeeDistributor  = &feeDistributorContract{mustLoadContract("FeeDistributor", "FeeDistributor")}

	contracts = []*Contract{
		Token.Contract,
		FeeToken.Contract,
		VotingEscrow.Contract,
		GaugeController.Contract,
		FeeDistributor.Contract,
	}
)

type (
	tokenContract          struct{ *Contract }
	escrowContract         struct{ *Contract }
	gaugeContract          struct{ *Contract }
	feeDistributorContract struct{ *Contract }
)

func (t *tokenContract) Native(env *xenv.Environment) *token.Token {
	return token.New(t.Address, env)
}

func (v *escrowContract) Native(env *xenv.Environment) *escrow.VotingEscrow {
	return newEscrow(v.Address, env)
}

func (g *gaugeContract) Native(env *xenv.Environment) *gauge.GaugeController {
	return newGauge(g.Address, env)
}

func (f *feeDistributorContract) Native(env *xenv.Environment) *feedist.FeeDistributor {
	return newFeeDistributor(f.Address, env)
}

func newEscrow(addr thor.Address, env *xenv.Environment) *escrow.VotingEscrow {
	return escrow.New(addr, env, func(addr thor.Address) escrow.Token { return &tokenCaller{env, addr} })
}

func newGauge(addr thor.Address, env *xenv.Environment) *gauge.GaugeController {
	return gauge.New(addr, env, func(addr thor.Address) gauge.Escrow { return &escrowCaller{env, addr} })
}

func newFeeDistributor(addr thor.Address, env *xenv.Environment) *feedist.FeeDistributor {
	return feedist.New(addr, env, feedist.Resolvers{
		Escrow: func(addr thor.Address) feedist.Escrow { return &escrowCaller{env, addr} },
		Token:  func(addr thor.Address) feedist.Token { return &tokenCaller{env, addr} },
	})
}

// Contracts returns all builtin contracts.
func Contracts() []*Contract {
	return contracts
}

// Lookup returns the builtin contract deployed at addr.
func Lookup(addr thor.Address) (*Contract, bool) {
	for _, c := range contracts {
		if c.Address == addr {
			return c, true
		}
	}
	return nil, false
}

// ByName returns the builtin contract with the given name, e.g. "FeeDistributor".
func ByName(name string) (*Contract, bool) {
	for _, c := range contracts {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}
