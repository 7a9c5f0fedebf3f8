// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package safemath

import (
	"math/big"
)

// Calc chains checked operations and keeps the first failure.
// Once failed, every further operation returns zero.
type Calc struct {
	err error
}

// Err returns the first failure, if any.
func (c *Calc) Err() error {
	return c.err
}

func (c *Calc) apply(op func(a, b *big.Int) (*big.Int, error), a, b *big.Int) *big.Int {
	if c.err != nil {
		return new(big.Int)
	}
	v, err := op(a, b)
	if err != nil {
		c.err = err
		return new(big.Int)
	}
	return v
}

func (c *Calc) Add(a, b *big.Int) *big.Int { return c.apply(Add, a, b) }
func (c *Calc) Sub(a, b *big.Int) *big.Int { return c.apply(Sub, a, b) }
func (c *Calc) Mul(a, b *big.Int) *big.Int { return c.apply(Mul, a, b) }
func (c *Calc) Div(a, b *big.Int) *big.Int { return c.apply(Div, a, b) }

func (c *Calc) AddInt128(a, b *big.Int) *big.Int { return c.apply(AddInt128, a, b) }
func (c *Calc) SubInt128(a, b *big.Int) *big.Int { return c.apply(SubInt128, a, b) }
func (c *Calc) MulInt128(a, b *big.Int) *big.Int { return c.apply(MulInt128, a, b) }
func (c *Calc) DivInt128(a, b *big.Int) *big.Int { return c.apply(DivInt128, a, b) }

// NonNegative clamps v at zero.
func NonNegative(v *big.Int) *big.Int {
	if v.Sign() < 0 {
		return new(big.Int)
	}
	return v
}

// Uint64 converts a timestamp or duration into a big integer.
func Uint64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
