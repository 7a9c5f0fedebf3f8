// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/vedao/thor"
)

// Event represents a contract event log.
type Event struct {
	// address of the contract that emitted the event
	Address thor.Address
	// topics, the first one is the event id
	Topics []thor.Bytes32
	// abi encoded non indexed arguments
	Data []byte
}

// Events slice of event logs.
type Events []*Event

// Filter returns the events emitted by addr with the given event id.
func (es Events) Filter(addr thor.Address, id thor.Bytes32) Events {
	var out Events
	for _, e := range es {
		if e.Address == addr && len(e.Topics) > 0 && e.Topics[0] == id {
			out = append(out, e)
		}
	}
	return out
}

// Receipt represents the result of one invocation.
type Receipt struct {
	// block context the invocation ran in
	BlockNumber uint32
	BlockTime   uint64
	// gas used by the invocation
	GasUsed uint64
	// true if the invocation was reverted, all state changes and events are dropped
	Reverted bool
	// revert reason, empty unless reverted
	RevertReason string
	// events emitted, empty if reverted
	Events Events
}

// Receipts slice of receipts.
type Receipts []*Receipt
