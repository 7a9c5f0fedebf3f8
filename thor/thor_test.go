// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	require.NoError(t, err)
	assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
	assert.False(t, addr.IsZero())

	_, err = ParseAddress("1x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	assert.EqualError(t, err, "invalid prefix")
	_, err = ParseAddress("0x7567")
	assert.EqualError(t, err, "invalid length")

	assert.True(t, Address{}.IsZero())
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("escrow"))
	data, err := json.Marshal(&addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	text, err := addr.MarshalText()
	require.NoError(t, err)
	var fromText Address
	require.NoError(t, fromText.UnmarshalText(text))
	assert.Equal(t, addr, fromText)
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("topic"))
	parsed, err := ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)
	assert.True(t, Bytes32{}.IsZero())

	assert.Equal(t, BytesToBytes32([]byte{0x01, 0x00}), Uint64ToBytes32(256))
}

func TestHash(t *testing.T) {
	// keccak256("Transfer(address,address,uint256)")
	assert.Equal(t,
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		Keccak256([]byte("Transfer(address,address,uint256)")).String())

	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
}

func TestFloorWeek(t *testing.T) {
	assert.Equal(t, uint64(0), FloorWeek(Week-1))
	assert.Equal(t, Week, FloorWeek(Week))
	assert.Equal(t, 3*Week, FloorWeek(3*Week+Day))
	assert.Equal(t, uint64(126144000), MaxLockTime)
}
