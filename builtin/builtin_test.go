// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vedao/thor"
)

func TestContracts(t *testing.T) {
	names := []string{"Token", "FeeToken", "VotingEscrow", "GaugeController", "FeeDistributor"}
	require.Len(t, Contracts(), len(names))

	for _, name := range names {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
		assert.Equal(t, thor.BytesToAddress([]byte(name)), c.Address)

		byAddr, ok := Lookup(c.Address)
		require.True(t, ok)
		assert.Equal(t, c, byAddr)

		for _, m := range c.ABI.Methods() {
			id := m.ID()
			found, ok := c.Method(id[:])
			require.True(t, ok, "%s.%s", name, m.Name())
			assert.Equal(t, m.ID(), found.ID())
		}
	}

	_, ok := ByName("Energy")
	assert.False(t, ok)
	_, ok = Lookup(thor.BytesToAddress([]byte("nobody")))
	assert.False(t, ok)
}

func TestSharedTokenABI(t *testing.T) {
	assert.NotEqual(t, Token.Address, FeeToken.Address)
	assert.Len(t, FeeToken.ABI.Methods(), len(Token.ABI.Methods()))
	_, ok := FeeToken.ABI.EventByName("Transfer")
	assert.True(t, ok)
}
