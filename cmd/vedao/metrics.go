// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"

	"github.com/vechain/vedao/builtin"
	"github.com/vechain/vedao/builtin/escrow"
	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/metrics"
	"github.com/vechain/vedao/runtime"
	"github.com/vechain/vedao/state"
)

var (
	metricHeadNumber = metrics.LazyLoadGauge("chain_head_number")
	metricHeadTime   = metrics.LazyLoadGauge("chain_head_time")
)

// reportMetrics publishes the head and the locked supply at the head.
func reportMetrics(repo *chain.Repository, gasLimit uint64) {
	head := repo.Head()
	metricHeadNumber().Set(int64(head.Number))
	metricHeadTime().Set(int64(head.Time))

	var (
		supply   *big.Int
		decimals uint8
	)
	err := repo.WithState(func(st *state.State) error {
		rt := runtime.New(st, gasLimit)
		if err := view(rt, head, builtin.VotingEscrow.Contract, "totalSupply", &supply, head.Time); err != nil {
			return err
		}
		return view(rt, head, builtin.VotingEscrow.Contract, "decimals", &decimals)
	})
	if err != nil {
		logger.Warn("failed to report locked supply", "err", err)
		return
	}
	escrow.ReportSupply(supply, decimals)
}

// view calls a method and decodes its single output into v.
func view(rt *runtime.Runtime, head chain.Head, contract *builtin.Contract, method string, v any, args ...any) error {
	m, _ := contract.ABI.MethodByName(method)
	input, err := m.EncodeInput(args...)
	if err != nil {
		return err
	}
	out, err := rt.Call(head.BlockContext(), &runtime.Invocation{To: contract.Address, Data: input})
	if err != nil {
		return err
	}
	if out.Receipt.Reverted {
		return out.RevertErr
	}
	return m.DecodeOutput(out.Data, v)
}
