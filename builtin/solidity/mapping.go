// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"reflect"

	"github.com/vechain/vedao/thor"
)

type Key interface {
	Bytes() []byte
}

// Uint64Key is a mapping key of a timestamp, index or type id.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// BytesKey is a composite mapping key.
type BytesKey []byte

func (k BytesKey) Bytes() []byte {
	return k
}

// Compose concatenates fixed width keys, e.g. (user, gauge) or (gauge, week).
func Compose(parts ...Key) BytesKey {
	var out []byte
	for _, p := range parts {
		out = append(out, p.Bytes()...)
	}
	return out
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded, a missing entry decodes to the zero value.
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	if t := reflect.TypeOf(value); t != nil && t.Kind() == reflect.Ptr {
		value = reflect.New(t.Elem()).Interface().(V)
	}
	err = m.context.decode(m.position(key), &value)
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.encode(m.position(key), value)
}
