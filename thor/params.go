// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

// Time grid shared by the governance contracts.
const (
	Day  uint64 = 86400
	Week uint64 = 7 * Day

	// MaxLockTime is the longest a base token can be locked.
	MaxLockTime uint64 = 4 * 365 * Day
)

// Storage and log gas, following the EVM schedule.
const (
	SloadGas       uint64 = 200
	SstoreSetGas   uint64 = 20000
	SstoreResetGas uint64 = 5000
	LogGas         uint64 = 375
	LogTopicGas    uint64 = 375
	LogDataGas     uint64 = 8

	// DefaultCallGasLimit bounds a single invocation.
	DefaultCallGasLimit uint64 = 50_000_000
)

// Multiplier is the fixed point scale of relative weights.
var Multiplier = big.NewInt(1e18)

// FloorWeek rounds t down to the week grid.
func FloorWeek(t uint64) uint64 {
	return t / Week * Week
}
