// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/stackedmap"
)

// Stage abstracts changes on the journal, ready to be committed.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
}

// Stage collects the latest value of every slot touched since the last commit.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	for _, entry := range s.sm.Journal() {
		changes[entry.Key] = entry.Value
	}
	return &Stage{state: s, changes: changes}
}

// Len returns the number of slots to be written.
func (st *Stage) Len() int {
	return len(st.changes)
}

// Commit writes the staged changes atomically and resets the journal.
func (st *Stage) Commit() error {
	s := st.state
	batch := s.store.NewBatch()
	for key, raw := range st.changes {
		var err error
		if len(raw) == 0 {
			err = batch.Delete(key.dbKey())
		} else {
			err = batch.Put(key.dbKey(), raw)
		}
		if err != nil {
			return errors.Wrap(err, "stage storage")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit storage")
	}
	for key, raw := range st.changes {
		s.cache.Add(key, raw)
	}
	metricStorageCounter().AddWithLabel(int64(len(st.changes)), map[string]string{"type": "write"})

	s.sm = stackedmap.New[storageKey, rlp.RawValue](s.load)
	return nil
}
