// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"

	"github.com/vechain/vedao/metrics"
)

var metricLockedSupply = metrics.LazyLoadGauge("ve_locked_supply_tokens")

// ReportSupply publishes the locked supply in whole tokens.
func ReportSupply(supply *big.Int, decimals uint8) {
	whole := new(big.Int).Quo(supply, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	if !whole.IsInt64() {
		return
	}
	metricLockedSupply().Set(whole.Int64())
}
