// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauges

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/vedao/thor"
)

// Gauge for marshal a gauge and its weights at a time.
type Gauge struct {
	Address        thor.Address          `json:"address"`
	Type           uint64                `json:"type"`
	Weight         *math.HexOrDecimal256 `json:"weight"`
	RelativeWeight *math.HexOrDecimal256 `json:"relativeWeight"`
	Time           uint64                `json:"time"`
}

// GaugeType for marshal a gauge type.
type GaugeType struct {
	ID     uint64                `json:"id"`
	Name   string                `json:"name"`
	Weight *math.HexOrDecimal256 `json:"weight"`
	Sum    *math.HexOrDecimal256 `json:"sum"`
}

// Summary of the controller.
type Summary struct {
	TotalWeight *math.HexOrDecimal256 `json:"totalWeight"`
	TimeTotal   uint64                `json:"timeTotal"`
	Types       []*GaugeType          `json:"types"`
	Gauges      []*Gauge              `json:"gauges"`
}

// Vote for marshal a user vote on a gauge.
type Vote struct {
	Slope    *math.HexOrDecimal256 `json:"slope"`
	Power    *math.HexOrDecimal256 `json:"power"`
	End      uint64                `json:"end"`
	LastVote uint64                `json:"lastVote"`
	Used     *math.HexOrDecimal256 `json:"usedPower"`
}
