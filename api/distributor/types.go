// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package distributor

import (
	"github.com/ethereum/go-ethereum/common/math"
)

// Status of the fee distributor.
type Status struct {
	StartTime          uint64                `json:"startTime"`
	TimeCursor         uint64                `json:"timeCursor"`
	LastTokenTime      uint64                `json:"lastTokenTime"`
	TotalReceived      *math.HexOrDecimal256 `json:"totalReceived"`
	TokenLastBalance   *math.HexOrDecimal256 `json:"tokenLastBalance"`
	CanCheckpointToken bool                  `json:"canCheckpointToken"`
	IsKilled           bool                  `json:"isKilled"`
}

// Week is the distribution of a week.
type Week struct {
	Week     uint64                `json:"week"`
	Tokens   *math.HexOrDecimal256 `json:"tokens"`
	VeSupply *math.HexOrDecimal256 `json:"veSupply"`
}

// User is the claim state of a user.
type User struct {
	Time       uint64                `json:"time"`
	Balance    *math.HexOrDecimal256 `json:"balance"`
	TimeCursor uint64                `json:"timeCursor"`
	UserEpoch  uint64                `json:"userEpoch"`
	Claimable  *math.HexOrDecimal256 `json:"claimable"`
}
