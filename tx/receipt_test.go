// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/vedao/thor"
)

func TestEventsFilter(t *testing.T) {
	a := thor.BytesToAddress([]byte("a"))
	b := thor.BytesToAddress([]byte("b"))
	id1 := thor.Keccak256([]byte("One()"))
	id2 := thor.Keccak256([]byte("Two()"))

	events := Events{
		{Address: a, Topics: []thor.Bytes32{id1}},
		{Address: a, Topics: []thor.Bytes32{id2}},
		{Address: b, Topics: []thor.Bytes32{id1}},
		{Address: a},
	}
	assert.Len(t, events.Filter(a, id1), 1)
	assert.Len(t, events.Filter(b, id1), 1)
	assert.Empty(t, events.Filter(b, id2))
}
