// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math"

	"github.com/pkg/errors"
)

// sequence orders events by block number then by index within the block.
type sequence int64

var errIndexOverflow = errors.New("event index too large")

func newSequence(blockNum uint32, index uint32) (sequence, error) {
	if (index & math.MaxInt32) != index {
		return 0, errIndexOverflow
	}
	return (sequence(blockNum) << 31) | sequence(index), nil
}

func (s sequence) BlockNumber() uint32 {
	return uint32(s >> 31)
}

func (s sequence) Index() uint32 {
	return uint32(s & math.MaxInt32)
}

// next returns the sequence of the next event written in blockNum.
func (s sequence) next(blockNum uint32, empty bool) (sequence, error) {
	if empty {
		return newSequence(blockNum, 0)
	}
	switch last := s.BlockNumber(); {
	case blockNum < last:
		return 0, errors.Errorf("block #%d is older than the newest indexed #%d", blockNum, last)
	case blockNum == last:
		return newSequence(blockNum, s.Index()+1)
	default:
		return newSequence(blockNum, 0)
	}
}
