// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/log"
	"github.com/vechain/vedao/logdb"
	"github.com/vechain/vedao/runtime"
	"github.com/vechain/vedao/state"
	"github.com/vechain/vedao/tx"
	"github.com/vechain/vedao/xenv"
)

var logger = log.WithContext("pkg", "script")

// Stats summarizes a run.
type Stats struct {
	Blocks   int
	Calls    int
	Reverted int
	GasUsed  uint64
}

// Runner executes scripts block by block. Each block is committed to the
// repository together with its events.
type Runner struct {
	repo     *chain.Repository
	logDB    *logdb.LogDB
	gasLimit uint64
	interval time.Duration
	onBlock  func(number uint32)
}

// NewRunner creates a runner. logDB may be nil to skip indexing events.
func NewRunner(repo *chain.Repository, logDB *logdb.LogDB, gasLimit uint64) *Runner {
	return &Runner{repo: repo, logDB: logDB, gasLimit: gasLimit}
}

// WithInterval makes the runner wait between blocks.
func (r *Runner) WithInterval(d time.Duration) *Runner {
	r.interval = d
	return r
}

// WithProgress sets a func called after each committed block.
func (r *Runner) WithProgress(fn func(number uint32)) *Runner {
	r.onBlock = fn
	return r
}

// Run executes the script. A call with an unexpected outcome aborts the run
// and the block it belongs to is discarded.
func (r *Runner) Run(ctx context.Context, s *Script) (*Stats, error) {
	if !r.repo.Initialized() {
		return nil, chain.ErrNotInitialized
	}
	stats := &Stats{}
	for i, b := range s.blocks(r.repo.Head().Number) {
		if i > 0 && r.interval > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(r.interval):
			}
		} else if err := ctx.Err(); err != nil {
			return stats, err
		}

		if err := r.runBlock(b, stats); err != nil {
			return stats, errors.WithMessagef(err, "block #%d", b.number)
		}
		stats.Blocks++
		if r.onBlock != nil {
			r.onBlock(b.number)
		}
	}
	return stats, nil
}

func (r *Runner) runBlock(b *block, stats *Stats) error {
	return r.repo.WithState(func(st *state.State) error {
		head := r.repo.Head()
		rt := runtime.New(st, r.gasLimit).SetLastBlock(head.Number, head.Time)
		blockCtx := &xenv.BlockContext{Number: b.number, Time: b.time}

		checkpoint := st.NewCheckpoint()
		var (
			events   tx.Events
			reverted int
			gasUsed  uint64
		)
		for _, c := range b.calls {
			out, err := r.execute(rt, blockCtx, c)
			if err != nil {
				st.RevertTo(checkpoint)
				return err
			}
			receipt := out.Receipt
			if receipt.Reverted != c.ExpectRevert {
				st.RevertTo(checkpoint)
				if receipt.Reverted {
					return errors.Errorf("%s.%s reverted: %s", c.Contract, c.Method, receipt.RevertReason)
				}
				return errors.Errorf("%s.%s: expected a revert", c.Contract, c.Method)
			}
			if receipt.Reverted {
				reverted++
				logger.Debug("call reverted as expected", "contract", c.Contract, "method", c.Method, "reason", receipt.RevertReason)
			}
			gasUsed += receipt.GasUsed
			events = append(events, receipt.Events...)
		}

		if err := r.commit(b, head, events); err != nil {
			st.RevertTo(checkpoint)
			return err
		}
		stats.Calls += len(b.calls)
		stats.Reverted += reverted
		stats.GasUsed += gasUsed
		logger.Info("block committed", "number", b.number, "time", b.time, "calls", len(b.calls), "events", len(events), "gas", gasUsed)
		return nil
	})
}

func (r *Runner) execute(rt *runtime.Runtime, blockCtx *xenv.BlockContext, c *Call) (*runtime.Output, error) {
	contract, err := c.contract()
	if err != nil {
		return nil, err
	}
	input, err := c.input()
	if err != nil {
		return nil, err
	}
	return rt.Execute(blockCtx, &runtime.Invocation{
		Caller: c.Caller,
		To:     contract.Address,
		Data:   input,
	})
}

func (r *Runner) commit(b *block, head chain.Head, events tx.Events) error {
	var w *logdb.Writer
	if r.logDB != nil {
		w = r.logDB.NewWriter()
		if err := w.Write(b.number, b.time, events); err != nil {
			_ = w.Rollback()
			return errors.WithMessage(err, "write events")
		}
	}
	if err := r.repo.Commit(chain.Head{
		Number:      b.number,
		Time:        b.time,
		Invocations: head.Invocations + uint64(len(b.calls)),
	}); err != nil {
		if w != nil {
			_ = w.Rollback()
		}
		return err
	}
	if w != nil {
		if err := w.Commit(); err != nil {
			return errors.WithMessage(err, "commit events")
		}
	}
	return nil
}
