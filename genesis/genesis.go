// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial deployment of the governance contracts.
package genesis

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/vedao/builtin"
	"github.com/vechain/vedao/thor"
)

// Genesis is the deployment document.
type Genesis struct {
	LaunchTime     uint64          `yaml:"launchTime"`
	GasLimit       uint64          `yaml:"gasLimit"`
	Admin          thor.Address    `yaml:"admin"`
	Token          Token           `yaml:"token"`
	FeeToken       Token           `yaml:"feeToken"`
	VotingEscrow   VotingEscrow    `yaml:"votingEscrow"`
	Gauges         GaugeController `yaml:"gaugeController"`
	FeeDistributor FeeDistributor  `yaml:"feeDistributor"`
}

// Token describes a token and its initial holders.
type Token struct {
	Name        string       `yaml:"name"`
	Symbol      string       `yaml:"symbol"`
	Decimals    uint8        `yaml:"decimals"`
	Allocations []Allocation `yaml:"allocations"`
}

// Allocation mints amount to address.
type Allocation struct {
	Address thor.Address          `yaml:"address"`
	Amount  *math.HexOrDecimal256 `yaml:"amount"`
}

type VotingEscrow struct {
	Name    string `yaml:"name"`
	Symbol  string `yaml:"symbol"`
	Version string `yaml:"version"`
}

type GaugeType struct {
	Name   string                `yaml:"name"`
	Weight *math.HexOrDecimal256 `yaml:"weight"`
}

type Gauge struct {
	Address thor.Address          `yaml:"address"`
	Type    uint64                `yaml:"type"`
	Weight  *math.HexOrDecimal256 `yaml:"weight"`
}

type GaugeController struct {
	Types  []GaugeType `yaml:"types"`
	Gauges []Gauge     `yaml:"gauges"`
}

type FeeDistributor struct {
	StartTime       uint64       `yaml:"startTime"`
	EmergencyReturn thor.Address `yaml:"emergencyReturn"`
}

// Load reads a deployment document from a yaml file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes and validates a yaml deployment document.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Validate checks the document before any call is built.
func (g *Genesis) Validate() error {
	if g.LaunchTime == 0 {
		return errors.New("launchTime must be set")
	}
	if g.Admin.IsZero() {
		return errors.New("admin must be set")
	}
	for _, tok := range []*Token{&g.Token, &g.FeeToken} {
		if tok.Symbol == "" {
			return errors.New("token symbol must be set")
		}
		for _, a := range tok.Allocations {
			if a.Address.IsZero() {
				return errors.Errorf("%s: allocation to zero address", tok.Symbol)
			}
			if a.Amount == nil || (*big.Int)(a.Amount).Sign() < 1 {
				return errors.Errorf("%s: %v: amount must be a positive integer", tok.Symbol, a.Address)
			}
		}
	}
	for _, gt := range g.Gauges.Types {
		if gt.Weight != nil && (*big.Int)(gt.Weight).Sign() < 0 {
			return errors.Errorf("gauge type %s: negative weight", gt.Name)
		}
	}
	for _, gauge := range g.Gauges.Gauges {
		if gauge.Type >= uint64(len(g.Gauges.Types)) {
			return errors.Errorf("gauge %v: unknown type %d", gauge.Address, gauge.Type)
		}
	}
	if g.FeeDistributor.StartTime == 0 {
		return errors.New("feeDistributor.startTime must be set")
	}
	return nil
}

func bigOf(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return (*big.Int)(v)
}

// Builder returns a builder deploying the document at the builtin addresses.
func (g *Genesis) Builder() *Builder {
	b := new(Builder).
		Timestamp(g.LaunchTime).
		GasLimit(g.GasLimit)

	for _, dep := range []struct {
		contract *builtin.Contract
		spec     *Token
	}{
		{builtin.Token.Contract, &g.Token},
		{builtin.FeeToken.Contract, &g.FeeToken},
	} {
		b.Call(g.Admin, dep.contract, "initialize", dep.spec.Name, dep.spec.Symbol, dep.spec.Decimals, g.Admin)
		for _, a := range dep.spec.Allocations {
			b.Call(g.Admin, dep.contract, "mint", a.Address, bigOf(a.Amount))
		}
	}

	b.Call(g.Admin, builtin.VotingEscrow.Contract, "initialize",
		builtin.Token.Address, g.VotingEscrow.Name, g.VotingEscrow.Symbol, g.VotingEscrow.Version)

	b.Call(g.Admin, builtin.GaugeController.Contract, "initialize", builtin.Token.Address, builtin.VotingEscrow.Address)
	for _, gt := range g.Gauges.Types {
		b.Call(g.Admin, builtin.GaugeController.Contract, "add_type", gt.Name, bigOf(gt.Weight))
	}
	for _, gauge := range g.Gauges.Gauges {
		b.Call(g.Admin, builtin.GaugeController.Contract, "add_gauge", gauge.Address, gauge.Type, bigOf(gauge.Weight))
	}

	emergency := g.FeeDistributor.EmergencyReturn
	if emergency.IsZero() {
		emergency = g.Admin
	}
	b.Call(g.Admin, builtin.FeeDistributor.Contract, "initialize",
		builtin.VotingEscrow.Address, g.FeeDistributor.StartTime, builtin.FeeToken.Address, g.Admin, emergency)
	return b
}
