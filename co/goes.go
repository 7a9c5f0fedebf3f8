// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co provides helpers for goroutine life-cycles and notifications.
package co

import (
	"context"
	"sync"
)

// Goes tracks a group of goroutines.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a new goroutine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Loop starts a goroutine calling f each time w fires, until ctx is done.
func (g *Goes) Loop(ctx context.Context, w Waiter, f func()) {
	g.Go(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.C():
				f()
			}
		}
	})
}

// Wait blocks until all goroutines returned.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel closed once all goroutines returned.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
