// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"context"
	"sync"
	"time"

	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/co"
)

// HeadStatus is the committed head with the wall time it was observed.
type HeadStatus struct {
	Number     uint32     `json:"number"`
	Timestamp  uint64     `json:"timestamp"`
	ObservedAt *time.Time `json:"observedAt"`
}

// Status for marshal the health of the instance.
type Status struct {
	Healthy bool        `json:"healthy"`
	Head    *HeadStatus `json:"head"`
	Error   string      `json:"error,omitempty"`
}

// Health tracks head commits and the failure of background work.
type Health struct {
	repo *chain.Repository

	lock     sync.RWMutex
	observed time.Time
	failure  error
}

func NewHealth(repo *chain.Repository) *Health {
	return &Health{repo: repo, observed: time.Now()}
}

// Track records every head commit until ctx is done.
func (h *Health) Track(ctx context.Context, goes *co.Goes) {
	goes.Loop(ctx, h.repo.NewTicker(), func() {
		h.lock.Lock()
		h.observed = time.Now()
		h.lock.Unlock()
	})
}

// Fail marks the instance unhealthy.
func (h *Health) Fail(err error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.failure = err
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	head := h.repo.Head()
	observed := h.observed
	status := &Status{
		Healthy: h.repo.Initialized() && h.failure == nil,
		Head: &HeadStatus{
			Number:     head.Number,
			Timestamp:  head.Time,
			ObservedAt: &observed,
		},
	}
	if h.failure != nil {
		status.Error = h.failure.Error()
	}
	return status
}
