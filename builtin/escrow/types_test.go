// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointRLP(t *testing.T) {
	p := &Point{Bias: big.NewInt(-42), Slope: e18(3), Ts: 1234, Blk: 99}
	data, err := rlp.EncodeToBytes(p)
	require.NoError(t, err)

	var decoded Point
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Zero(t, p.Bias.Cmp(decoded.Bias))
	assert.Zero(t, p.Slope.Cmp(decoded.Slope))
	assert.Equal(t, p.Ts, decoded.Ts)
	assert.Equal(t, p.Blk, decoded.Blk)
}

func TestPointValueAt(t *testing.T) {
	p := &Point{Bias: big.NewInt(1000), Slope: big.NewInt(10), Ts: 100}

	v, err := p.ValueAt(150)
	require.NoError(t, err)
	assert.Equal(t, int64(500), v.Int64())

	v, err = p.ValueAt(200)
	require.NoError(t, err)
	assert.Zero(t, v.Sign())

	// clamped
	v, err = p.ValueAt(1000)
	require.NoError(t, err)
	assert.Zero(t, v.Sign())
}

func TestPointCopy(t *testing.T) {
	p := newPoint(1, 2)
	assert.False(t, p.IsEmpty())
	assert.True(t, newPoint(0, 0).IsEmpty())

	cp := p.Copy()
	cp.Bias.SetInt64(7)
	assert.Zero(t, p.Bias.Sign())
}

func TestDepositTypeString(t *testing.T) {
	assert.Equal(t, "deposit_for", DepositFor.String())
	assert.Equal(t, "create_lock", CreateLock.String())
	assert.Equal(t, "increase_lock_amount", IncreaseLockAmount.String())
	assert.Equal(t, "increase_unlock_time", IncreaseUnlockTime.String())
	assert.Equal(t, "unknown", DepositType(9).String())
}
