// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"github.com/vechain/vedao/thor"
)

// Contract describes a builtin contract.
type Contract struct {
	Name    string       `json:"name"`
	Address thor.Address `json:"address"`
	Methods []string     `json:"methods"`
}

// CallData represents contract-call body. Args are parsed by their abi types.
type CallData struct {
	Caller *thor.Address `json:"caller"`
	Args   []string      `json:"args"`
	Time   uint64        `json:"time"`
}

// CallResult is the outcome of a read only call.
type CallResult struct {
	Data         string         `json:"data"`
	Outputs      map[string]any `json:"outputs"`
	GasUsed      uint64         `json:"gasUsed"`
	Reverted     bool           `json:"reverted"`
	RevertReason string         `json:"revertReason,omitempty"`
}
