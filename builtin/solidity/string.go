// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/vedao/thor"
)

// String stores an rlp encoded string.
type String struct {
	context *Context
	pos     thor.Bytes32
}

func NewString(context *Context, pos thor.Bytes32) *String {
	return &String{context: context, pos: pos}
}

func (s *String) Get() (value string, err error) {
	err = s.context.decode(s.pos, &value)
	return
}

func (s *String) Set(value string) error {
	return s.context.encode(s.pos, value)
}
