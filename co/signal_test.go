// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/vedao/co"
)

func TestSignalBroadcastBeforeWait(t *testing.T) {
	var sig co.Signal
	sig.Broadcast()

	w := sig.NewWaiter()
	select {
	case <-w.C():
		t.Fatal("waiter created after the broadcast must not fire")
	default:
	}
}

func TestSignalBroadcastAfterWait(t *testing.T) {
	var sig co.Signal

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, sig.NewWaiter())
	}
	sig.Broadcast()

	for _, w := range ws {
		<-w.C()
	}
	// each broadcast is observed once
	for _, w := range ws {
		select {
		case <-w.C():
			t.Fatal("unexpected broadcast")
		default:
		}
	}
}

func TestGoesLoop(t *testing.T) {
	var (
		sig   co.Signal
		goes  co.Goes
		count atomic.Int32
	)
	ctx, cancel := context.WithCancel(context.Background())
	goes.Loop(ctx, sig.NewWaiter(), func() { count.Add(1) })

	sig.Broadcast()
	assert.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}
