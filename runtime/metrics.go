// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"strconv"

	"github.com/vechain/vedao/builtin/reverts"
	"github.com/vechain/vedao/metrics"
	"github.com/vechain/vedao/tx"
	"github.com/vechain/vedao/xenv"
)

var (
	metricInvocationCount = metrics.LazyLoadCounterVec("runtime_invocation_count", []string{"contract", "reverted"})
	metricRevertCount     = metrics.LazyLoadCounterVec("runtime_revert_count", []string{"kind"})
	metricGasUsedBucket   = metrics.LazyLoadHistogramVec("runtime_gas_used_bucket", []string{"contract"}, []int64{
		0, 5_000, 20_000, 50_000, 100_000, 250_000, 500_000, 1_000_000, 5_000_000,
	})
)

func metricsHandleReceipt(contract string, receipt *tx.Receipt, err error) {
	if metrics.NoOp() {
		return
	}

	metricInvocationCount().AddWithLabel(1, map[string]string{
		"contract": contract,
		"reverted": strconv.FormatBool(receipt.Reverted),
	})
	metricGasUsedBucket().ObserveWithLabels(int64(receipt.GasUsed), map[string]string{"contract": contract})

	if err != nil {
		kind := "out_of_gas"
		if err != xenv.ErrOutOfGas {
			kind = reverts.KindOf(err).String()
		}
		metricRevertCount().AddWithLabel(1, map[string]string{"kind": kind})
	}
}
