// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	tests := []struct {
		name     string
		blockNum uint32
		index    uint32
	}{
		{"regular", 1, 2},
		{"max bn", math.MaxUint32, 1},
		{"max index", 5, math.MaxInt32},
		{"both max", math.MaxUint32, math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := newSequence(tt.blockNum, tt.index)
			require.NoError(t, err)
			assert.Equal(t, tt.blockNum, seq.BlockNumber())
			assert.Equal(t, tt.index, seq.Index())
		})
	}

	_, err := newSequence(1, math.MaxInt32+1)
	assert.ErrorIs(t, err, errIndexOverflow)
}

func TestSequenceNext(t *testing.T) {
	last, err := newSequence(10, 3)
	require.NoError(t, err)

	seq, err := last.next(7, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), seq.BlockNumber())
	assert.Zero(t, seq.Index())

	seq, err = last.next(10, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), seq.BlockNumber())
	assert.Equal(t, uint32(4), seq.Index())

	seq, err = last.next(11, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(11), seq.BlockNumber())
	assert.Zero(t, seq.Index())

	_, err = last.next(9, false)
	assert.Error(t, err)
}
