// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/vedao/thor"
)

// Bool stores a flag, false is the zero slot.
type Bool struct {
	context *Context
	pos     thor.Bytes32
}

func NewBool(context *Context, pos thor.Bytes32) *Bool {
	return &Bool{context: context, pos: pos}
}

func (b *Bool) Get() (bool, error) {
	storage, err := b.context.getStorage(b.pos)
	if err != nil {
		return false, err
	}
	return !storage.IsZero(), nil
}

func (b *Bool) Set(value bool) error {
	var storage thor.Bytes32
	if value {
		storage[31] = 1
	}
	return b.context.setStorage(b.pos, storage)
}
