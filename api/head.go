// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/thor"
)

// Head for marshal the committed head.
type Head struct {
	GenesisID   thor.Bytes32 `json:"genesisId"`
	Number      uint32       `json:"number"`
	Timestamp   uint64       `json:"timestamp"`
	Invocations uint64       `json:"invocations"`
}

func newHead(repo *chain.Repository) *Head {
	head := repo.Head()
	return &Head{
		GenesisID:   repo.GenesisID(),
		Number:      head.Number,
		Timestamp:   head.Time,
		Invocations: head.Invocations,
	}
}
