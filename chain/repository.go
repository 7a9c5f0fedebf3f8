// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain persists the contract state together with the head of the
// executed block contexts.
package chain

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/vedao/co"
	"github.com/vechain/vedao/kv"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/thor"
	"github.com/vechain/vedao/xenv"
)

// ErrNotInitialized is returned when the data dir has no genesis.
var ErrNotInitialized = errors.New("chain not initialized")

// Head is the last committed block context.
type Head struct {
	Number      uint32
	Time        uint64
	Invocations uint64
}

// BlockContext returns the head as a block context.
func (h Head) BlockContext() *xenv.BlockContext {
	return &xenv.BlockContext{Number: h.Number, Time: h.Time}
}

// Repository binds the state to its head.
//
// It's thread-safe.
type Repository struct {
	propStore kv.Store
	state     *state.State
	stateLock sync.Mutex
	tick      co.Signal

	lock      sync.RWMutex
	head      Head
	genesisID thor.Bytes32
}

// NewRepository opens the repository over db. A fresh db has no genesis,
// see Initialize.
func NewRepository(db kv.Store) (*Repository, error) {
	repo := &Repository{
		propStore: kv.Bucket(propStoreName).NewStore(db),
		state:     state.New(db),
	}

	if err := loadRLP(repo.propStore, genesisKey, &repo.genesisID); err != nil {
		if !repo.propStore.IsNotFound(err) {
			return nil, errors.Wrap(err, "load genesis id")
		}
		return repo, nil
	}
	if err := loadRLP(repo.propStore, headKey, &repo.head); err != nil {
		return nil, errors.Wrap(err, "load head")
	}
	return repo, nil
}

// State returns the state. Changes are kept in its journal until Commit.
// The state itself is not thread-safe, see WithState.
func (r *Repository) State() *state.State {
	return r.state
}

// WithState runs fn with exclusive access to the state.
func (r *Repository) WithState(fn func(st *state.State) error) error {
	r.stateLock.Lock()
	defer r.stateLock.Unlock()
	return fn(r.state)
}

// NewTicker create a signal Waiter to receive event that the head changed.
func (r *Repository) NewTicker() co.Waiter {
	return r.tick.NewWaiter()
}

// Initialized returns whether a genesis was committed.
func (r *Repository) Initialized() bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return !r.genesisID.IsZero()
}

// GenesisID returns the id of the committed genesis.
func (r *Repository) GenesisID() thor.Bytes32 {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.genesisID
}

// Head returns the last committed head.
func (r *Repository) Head() Head {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.head
}

// Initialize commits the genesis state.
func (r *Repository) Initialize(genesisID thor.Bytes32, head Head) error {
	if genesisID.IsZero() {
		return errors.New("zero genesis id")
	}
	if r.Initialized() {
		if r.GenesisID() != genesisID {
			return errors.New("genesis mismatch")
		}
		return errors.New("already initialized")
	}
	if err := r.commit(head); err != nil {
		return err
	}
	if err := saveRLP(r.propStore, genesisKey, genesisID); err != nil {
		return errors.Wrap(err, "save genesis id")
	}

	r.lock.Lock()
	r.genesisID = genesisID
	r.lock.Unlock()
	return nil
}

// Commit writes the journaled state and moves the head.
// Callers sharing the state must commit within WithState.
func (r *Repository) Commit(head Head) error {
	if !r.Initialized() {
		return ErrNotInitialized
	}
	cur := r.Head()
	if head.Number < cur.Number || head.Time < cur.Time {
		return errors.Errorf("head goes backwards: #%d@%d -> #%d@%d", cur.Number, cur.Time, head.Number, head.Time)
	}
	return r.commit(head)
}

func (r *Repository) commit(head Head) error {
	if err := r.state.Stage().Commit(); err != nil {
		return errors.WithMessage(err, "commit state")
	}
	if err := saveRLP(r.propStore, headKey, &head); err != nil {
		return errors.Wrap(err, "save head")
	}

	r.lock.Lock()
	r.head = head
	r.lock.Unlock()

	r.tick.Broadcast()
	return nil
}
