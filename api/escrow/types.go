// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"github.com/ethereum/go-ethereum/common/math"
)

// Lock for marshal a user lock.
type Lock struct {
	Amount    *math.HexOrDecimal256 `json:"amount"`
	End       uint64                `json:"end"`
	Epoch     uint64                `json:"epoch"`
	Balance   *math.HexOrDecimal256 `json:"balance"`
	LastSlope *math.HexOrDecimal256 `json:"lastSlope"`
}

// Balance is a voting power at a time or block.
type Balance struct {
	Time    uint64                `json:"time,omitempty"`
	Block   uint64                `json:"block,omitempty"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}
