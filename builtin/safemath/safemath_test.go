// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package safemath

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vedao/builtin/reverts"
)

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

func TestUint256(t *testing.T) {
	v, err := Add(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), v)

	_, err = Add(maxUint256, big.NewInt(1))
	assert.Equal(t, reverts.Arithmetic, reverts.KindOf(err))

	_, err = Sub(big.NewInt(1), big.NewInt(2))
	assert.Equal(t, reverts.Arithmetic, reverts.KindOf(err))

	v, err = Mul(big.NewInt(6), big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), v)

	_, err = Mul(maxUint256, big.NewInt(2))
	assert.Error(t, err)

	v, err = Div(big.NewInt(7), big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), v)

	_, err = Div(big.NewInt(7), big.NewInt(0))
	assert.Equal(t, reverts.Arithmetic, reverts.KindOf(err))

	_, err = Add(big.NewInt(-1), big.NewInt(1))
	assert.Error(t, err)

	v, err = MulDiv(big.NewInt(10), big.NewInt(3), big.NewInt(4))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), v)
}

func TestInt128(t *testing.T) {
	v, err := SubInt128(big.NewInt(1), big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(-2), v)

	_, err = AddInt128(MaxInt128, big.NewInt(1))
	assert.Error(t, err)

	_, err = SubInt128(MinInt128, big.NewInt(1))
	assert.Error(t, err)

	_, err = MulInt128(MaxInt128, big.NewInt(2))
	assert.Error(t, err)

	v, err = DivInt128(big.NewInt(-7), big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(-3), v)

	_, err = DivInt128(big.NewInt(1), big.NewInt(0))
	assert.Error(t, err)

	assert.NoError(t, CheckInt128(MinInt128))
	assert.NoError(t, CheckInt128(MaxInt128))
}

func TestUint64(t *testing.T) {
	v, err := AddUint64(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)

	_, err = AddUint64(math.MaxUint64, 1)
	assert.Error(t, err)

	_, err = SubUint64(1, 2)
	assert.Error(t, err)

	_, err = MulUint64(math.MaxUint64, 2)
	assert.Error(t, err)

	v, err = MulUint64(3, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), v)
}

func TestCalc(t *testing.T) {
	var c Calc
	v := c.Add(big.NewInt(1), big.NewInt(2))
	v = c.Mul(v, big.NewInt(10))
	v = c.SubInt128(v, big.NewInt(40))
	require.NoError(t, c.Err())
	assert.Equal(t, big.NewInt(-10), v)
	assert.Equal(t, 0, NonNegative(v).Sign())

	v = c.Sub(big.NewInt(1), big.NewInt(2))
	assert.Equal(t, 0, v.Sign())
	assert.Equal(t, reverts.Arithmetic, reverts.KindOf(c.Err()))

	// the first failure sticks
	v = c.Add(big.NewInt(1), big.NewInt(1))
	assert.Equal(t, 0, v.Sign())
	assert.Error(t, c.Err())

	assert.Equal(t, big.NewInt(7), Uint64(7))
}
