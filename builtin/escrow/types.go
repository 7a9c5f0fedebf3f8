// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/vedao/builtin/safemath"
	"github.com/vechain/vedao/builtin/solidity"
)

// DepositType tells which operation produced a Deposit event.
type DepositType uint8

const (
	DepositFor DepositType = iota
	CreateLock
	IncreaseLockAmount
	IncreaseUnlockTime
)

func (d DepositType) String() string {
	switch d {
	case DepositFor:
		return "deposit_for"
	case CreateLock:
		return "create_lock"
	case IncreaseLockAmount:
		return "increase_lock_amount"
	case IncreaseUnlockTime:
		return "increase_unlock_time"
	}
	return "unknown"
}

// Point is the linear function bias - slope*(t - ts), valid from ts onwards.
// Blk is the block number the point was recorded at, extrapolated for
// intermediate weekly points.
type Point struct {
	Bias  *big.Int
	Slope *big.Int
	Ts    uint64
	Blk   uint64
}

func newPoint(ts, blk uint64) *Point {
	return &Point{Bias: new(big.Int), Slope: new(big.Int), Ts: ts, Blk: blk}
}

// Copy returns a deep copy.
func (p *Point) Copy() *Point {
	return &Point{
		Bias:  new(big.Int).Set(p.Bias),
		Slope: new(big.Int).Set(p.Slope),
		Ts:    p.Ts,
		Blk:   p.Blk,
	}
}

// IsEmpty returns whether the point was never written.
func (p *Point) IsEmpty() bool {
	return p.Bias.Sign() == 0 && p.Slope.Sign() == 0 && p.Ts == 0 && p.Blk == 0
}

// ValueAt evaluates the point at t, clamped at zero.
func (p *Point) ValueAt(t uint64) (*big.Int, error) {
	var c safemath.Calc
	dt := new(big.Int).Sub(safemath.Uint64(t), safemath.Uint64(p.Ts))
	v := c.SubInt128(p.Bias, c.MulInt128(p.Slope, dt))
	if err := c.Err(); err != nil {
		return nil, err
	}
	return safemath.NonNegative(v), nil
}

type pointRLP struct {
	Bias  solidity.SignedInt
	Slope solidity.SignedInt
	Ts    uint64
	Blk   uint64
}

func (p *Point) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &pointRLP{
		Bias:  solidity.NewSignedInt(p.Bias),
		Slope: solidity.NewSignedInt(p.Slope),
		Ts:    p.Ts,
		Blk:   p.Blk,
	})
}

func (p *Point) DecodeRLP(s *rlp.Stream) error {
	var obj pointRLP
	if err := s.Decode(&obj); err != nil {
		return err
	}
	*p = Point{
		Bias:  obj.Bias.Big(),
		Slope: obj.Slope.Big(),
		Ts:    obj.Ts,
		Blk:   obj.Blk,
	}
	return nil
}

// LockedBalance is the lock of one address. A zero amount means no lock.
type LockedBalance struct {
	Amount *big.Int
	End    uint64
}

func (l *LockedBalance) Copy() *LockedBalance {
	return &LockedBalance{Amount: new(big.Int).Set(l.Amount), End: l.End}
}

// IsEmpty returns whether there is nothing locked.
func (l *LockedBalance) IsEmpty() bool {
	return l.Amount.Sign() == 0
}
