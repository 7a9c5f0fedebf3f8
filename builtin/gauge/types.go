// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauge

import (
	"math/big"
)

// Point is a weight decaying by slope per second, evaluated weekly.
// Both fields are unsigned.
type Point struct {
	Bias  *big.Int
	Slope *big.Int
}

func newPoint() *Point {
	return &Point{Bias: new(big.Int), Slope: new(big.Int)}
}

// VotedSlope is the vote of a user on one gauge.
type VotedSlope struct {
	Slope *big.Int
	Power *big.Int // basis points
	End   uint64
}

func normalizePoint(p *Point) *Point {
	if p.Bias == nil {
		p.Bias = new(big.Int)
	}
	if p.Slope == nil {
		p.Slope = new(big.Int)
	}
	return p
}

func normalizeSlope(s *VotedSlope) *VotedSlope {
	if s.Slope == nil {
		s.Slope = new(big.Int)
	}
	if s.Power == nil {
		s.Power = new(big.Int)
	}
	return s
}
