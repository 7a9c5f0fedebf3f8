// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/vechain/vedao/thor"
)

// Uint64 stores timestamps and counters.
type Uint64 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint64(context *Context, pos thor.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

func (u *Uint64) Get() (uint64, error) {
	storage, err := u.context.getStorage(u.pos)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(storage[24:]), nil
}

func (u *Uint64) Set(value uint64) error {
	return u.context.setStorage(u.pos, thor.Uint64ToBytes32(value))
}
