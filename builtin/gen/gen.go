// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen embeds the ABI of every builtin contract.
package gen

import (
	"embed"
	"path"

	"github.com/vechain/vedao/abi"
)

//go:embed compiled/*.abi
var compiled embed.FS

// MustABI returns the raw abi json of the named contract, e.g. "VotingEscrow".
func MustABI(name string) []byte {
	data, err := compiled.ReadFile(path.Join("compiled", name+".abi"))
	if err != nil {
		panic(err)
	}
	return data
}

// MustParse parses the abi of the named contract.
func MustParse(name string) *abi.ABI {
	parsed, err := abi.New(MustABI(name))
	if err != nil {
		panic(err)
	}
	return parsed
}
