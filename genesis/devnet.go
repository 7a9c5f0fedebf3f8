// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/vedao/thor"
)

// DevAccount account for development.
type DevAccount struct {
	Address    thor.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for the dev deployment.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{thor.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// NewDevnet returns a deployment for development. The first dev account is
// the admin, every account holds one million base tokens.
func NewDevnet(launchTime uint64) *Genesis {
	accs := DevAccounts()
	million := new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e18))

	var allocs []Allocation
	for _, acc := range accs {
		allocs = append(allocs, Allocation{acc.Address, (*math.HexOrDecimal256)(new(big.Int).Set(million))})
	}

	startTime := (launchTime + thor.Week - 1) / thor.Week * thor.Week
	return &Genesis{
		LaunchTime: launchTime,
		Admin:      accs[0].Address,
		Token: Token{
			Name:        "DAO Token",
			Symbol:      "DAO",
			Decimals:    18,
			Allocations: allocs,
		},
		FeeToken: Token{
			Name:     "Fee Token",
			Symbol:   "FEE",
			Decimals: 18,
		},
		VotingEscrow: VotingEscrow{
			Name:    "Vote-escrowed DAO",
			Symbol:  "veDAO",
			Version: "veDAO_1.0.0",
		},
		Gauges: GaugeController{
			Types: []GaugeType{
				{Name: "Liquidity", Weight: (*math.HexOrDecimal256)(big.NewInt(1e18))},
			},
		},
		FeeDistributor: FeeDistributor{
			StartTime: startTime,
		},
	}
}
