// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/vedao/builtin/safemath"
	"github.com/vechain/vedao/thor"
)

// SignedInt is a signed 128 bit integer that rlp encodes as (negative, magnitude).
// The zero value is zero.
type SignedInt struct {
	v *big.Int
}

// NewSignedInt wraps v, which must fit in 128 bits.
func NewSignedInt(v *big.Int) SignedInt {
	return SignedInt{v: new(big.Int).Set(v)}
}

// Big returns a copy of the value.
func (s SignedInt) Big() *big.Int {
	if s.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(s.v)
}

type signedIntRLP struct {
	Negative  bool
	Magnitude *big.Int
}

func (s SignedInt) EncodeRLP(w io.Writer) error {
	v := s.Big()
	return rlp.Encode(w, &signedIntRLP{
		Negative:  v.Sign() < 0,
		Magnitude: new(big.Int).Abs(v),
	})
}

func (s *SignedInt) DecodeRLP(stream *rlp.Stream) error {
	var obj signedIntRLP
	if err := stream.Decode(&obj); err != nil {
		return err
	}
	v := obj.Magnitude
	if obj.Negative {
		v = new(big.Int).Neg(v)
	}
	if err := safemath.CheckInt128(v); err != nil {
		return err
	}
	s.v = v
	return nil
}

// Int128 is a storage slot of a signed 128 bit integer.
type Int128 struct {
	context *Context
	pos     thor.Bytes32
}

func NewInt128(context *Context, pos thor.Bytes32) *Int128 {
	return &Int128{context: context, pos: pos}
}

func (i *Int128) Get() (*big.Int, error) {
	var s SignedInt
	if err := i.context.decode(i.pos, &s); err != nil {
		return nil, err
	}
	return s.Big(), nil
}

func (i *Int128) Set(value *big.Int) error {
	if err := safemath.CheckInt128(value); err != nil {
		return err
	}
	return i.context.encode(i.pos, NewSignedInt(value))
}
