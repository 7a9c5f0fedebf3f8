// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter receives the broadcasts of a Signal.
type Waiter interface {
	// C returns a channel closed by the next broadcast after the previous
	// channel returned by C.
	C() <-chan struct{}
}

// Signal wakes up all waiters on Broadcast. The zero value is ready to use.
type Signal struct {
	lock sync.Mutex
	ch   chan struct{}
}

func (s *Signal) current() chan struct{} {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes up all waiters.
func (s *Signal) Broadcast() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.ch != nil {
		close(s.ch)
	}
	s.ch = make(chan struct{})
}

// NewWaiter returns a waiter that observes broadcasts from now on.
func (s *Signal) NewWaiter() Waiter {
	return &waiter{s, s.current()}
}

type waiter struct {
	signal *Signal
	ref    chan struct{}
}

func (w *waiter) C() <-chan struct{} {
	ch := w.ref
	w.ref = w.signal.current()
	return ch
}
