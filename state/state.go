// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/vedao/cache"
	"github.com/vechain/vedao/kv"
	"github.com/vechain/vedao/stackedmap"
	"github.com/vechain/vedao/thor"
)

const (
	storageBucket = kv.Bucket("s")

	defaultCacheSize = 16384
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(k.addr.Bytes(), k.key.Bytes()...)
}

// State manages the storage of native contracts.
// Writes are kept in a journal until Commit, and can be reverted to any checkpoint.
type State struct {
	store kv.Store
	cache *cache.LRU[storageKey, rlp.RawValue] // committed values
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object over the given kv store.
func New(store kv.Store) *State {
	c, _ := cache.NewLRU[storageKey, rlp.RawValue](defaultCacheSize)
	s := &State{
		store: storageBucket.NewStore(store),
		cache: c,
	}
	s.sm = stackedmap.New[storageKey, rlp.RawValue](s.load)
	return s
}

// load implements stackedmap.MapGetter, reading committed values.
func (s *State) load(key storageKey) (rlp.RawValue, bool, error) {
	v, err := s.cache.GetOrLoad(key, func(key storageKey) (rlp.RawValue, error) {
		metricStorageCounter().AddWithLabel(1, map[string]string{"type": "read"})
		raw, err := s.store.Get(key.dbKey())
		if err != nil {
			if s.store.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// structured value, return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}
