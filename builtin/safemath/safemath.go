// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package safemath provides checked arithmetic for the value widths used by
// the builtin contracts. Every failure is an arithmetic revert.
package safemath

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/vechain/vedao/builtin/reverts"
)

var (
	// MaxInt128 is 2^127 - 1.
	MaxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	// MinInt128 is -2^127.
	MinInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))

	errOverflow    = reverts.NewArithmetic("arithmetic overflow")
	errUnderflow   = reverts.NewArithmetic("arithmetic underflow")
	errDivByZero   = reverts.NewArithmetic("division by zero")
	errOutOfRange  = reverts.NewArithmetic("value out of range")
	errInt128Range = reverts.NewArithmetic("int128 out of range")
)

func toU256(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, errOutOfRange
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errOutOfRange
	}
	return u, nil
}

func binaryU256(a, b *big.Int, op func(z, x, y *uint256.Int) (*uint256.Int, bool), fail error) (*big.Int, error) {
	x, err := toU256(a)
	if err != nil {
		return nil, err
	}
	y, err := toU256(b)
	if err != nil {
		return nil, err
	}
	z, failed := op(new(uint256.Int), x, y)
	if failed {
		return nil, fail
	}
	return z.ToBig(), nil
}

// Add returns a + b as unsigned 256 bit values.
func Add(a, b *big.Int) (*big.Int, error) {
	return binaryU256(a, b, (*uint256.Int).AddOverflow, errOverflow)
}

// Sub returns a - b as unsigned 256 bit values.
func Sub(a, b *big.Int) (*big.Int, error) {
	return binaryU256(a, b, (*uint256.Int).SubOverflow, errUnderflow)
}

// Mul returns a * b as unsigned 256 bit values.
func Mul(a, b *big.Int) (*big.Int, error) {
	return binaryU256(a, b, (*uint256.Int).MulOverflow, errOverflow)
}

// Div returns floor(a / b) as unsigned 256 bit values.
func Div(a, b *big.Int) (*big.Int, error) {
	x, err := toU256(a)
	if err != nil {
		return nil, err
	}
	y, err := toU256(b)
	if err != nil {
		return nil, err
	}
	if y.IsZero() {
		return nil, errDivByZero
	}
	return new(uint256.Int).Div(x, y).ToBig(), nil
}

// MulDiv returns a * b / c, checking the intermediate product.
func MulDiv(a, b, c *big.Int) (*big.Int, error) {
	p, err := Mul(a, b)
	if err != nil {
		return nil, err
	}
	return Div(p, c)
}

// CheckInt128 verifies v fits in a signed 128 bit integer.
func CheckInt128(v *big.Int) error {
	if v.Cmp(MaxInt128) > 0 || v.Cmp(MinInt128) < 0 {
		return errInt128Range
	}
	return nil
}

func checked128(v *big.Int) (*big.Int, error) {
	if err := CheckInt128(v); err != nil {
		return nil, err
	}
	return v, nil
}

// AddInt128 returns a + b as signed 128 bit values.
func AddInt128(a, b *big.Int) (*big.Int, error) {
	return checked128(new(big.Int).Add(a, b))
}

// SubInt128 returns a - b as signed 128 bit values.
func SubInt128(a, b *big.Int) (*big.Int, error) {
	return checked128(new(big.Int).Sub(a, b))
}

// MulInt128 returns a * b as signed 128 bit values.
func MulInt128(a, b *big.Int) (*big.Int, error) {
	return checked128(new(big.Int).Mul(a, b))
}

// DivInt128 returns a / b truncated toward zero.
func DivInt128(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, errDivByZero
	}
	return checked128(new(big.Int).Quo(a, b))
}

// AddUint64 returns a + b.
func AddUint64(a, b uint64) (uint64, error) {
	v, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, errOverflow
	}
	return v, nil
}

// SubUint64 returns a - b.
func SubUint64(a, b uint64) (uint64, error) {
	v, underflow := math.SafeSub(a, b)
	if underflow {
		return 0, errUnderflow
	}
	return v, nil
}

// MulUint64 returns a * b.
func MulUint64(a, b uint64) (uint64, error) {
	v, overflow := math.SafeMul(a, b)
	if overflow {
		return 0, errOverflow
	}
	return v, nil
}
