// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package distributor

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/api/contracts"
	"github.com/vechain/vedao/api/restutil"
	"github.com/vechain/vedao/builtin"
	"github.com/vechain/vedao/thor"
)

type Distributor struct {
	caller *contracts.Caller
}

func New(caller *contracts.Caller) *Distributor {
	return &Distributor{caller}
}

func (d *Distributor) view(method string, args ...any) (map[string]any, error) {
	return d.caller.View(nil, thor.Address{}, builtin.FeeDistributor.Contract, method, args...)
}

func hexBig(v any) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v.(*big.Int))
}

func (d *Distributor) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	values := make(map[string]any)
	for _, method := range []string{
		"start_time",
		"time_cursor",
		"last_token_time",
		"total_received",
		"token_last_balance",
		"can_checkpoint_token",
		"is_killed",
	} {
		out, err := d.view(method)
		if err != nil {
			return err
		}
		for _, v := range out {
			values[method] = v
		}
	}
	return restutil.WriteJSON(w, &Status{
		StartTime:          values["start_time"].(uint64),
		TimeCursor:         values["time_cursor"].(uint64),
		LastTokenTime:      values["last_token_time"].(uint64),
		TotalReceived:      hexBig(values["total_received"]),
		TokenLastBalance:   hexBig(values["token_last_balance"]),
		CanCheckpointToken: values["can_checkpoint_token"].(bool),
		IsKilled:           values["is_killed"].(bool),
	})
}

func (d *Distributor) handleGetWeek(w http.ResponseWriter, req *http.Request) error {
	week, err := strconv.ParseUint(mux.Vars(req)["week"], 10, 64)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "week"))
	}
	week = thor.FloorWeek(week)
	tokens, err := d.view("tokens_per_week", week)
	if err != nil {
		return err
	}
	supply, err := d.view("ve_supply", week)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Week{
		Week:     week,
		Tokens:   hexBig(tokens["amount"]),
		VeSupply: hexBig(supply["supply"]),
	})
}

func (d *Distributor) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	time, err := restutil.QueryUint64(req, "time", d.caller.BlockContext(0).Time)
	if err != nil {
		return err
	}
	balance, err := d.view("ve_for_at", *addr, time)
	if err != nil {
		return err
	}
	cursor, err := d.view("time_cursor_of", *addr)
	if err != nil {
		return err
	}
	epoch, err := d.view("user_epoch_of", *addr)
	if err != nil {
		return err
	}
	// a claim on the discarded state previews the claimable amount
	claim, err := d.caller.View(d.caller.BlockContext(time), *addr, builtin.FeeDistributor.Contract, "claim", *addr)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &User{
		Time:       time,
		Balance:    hexBig(balance["balance"]),
		TimeCursor: cursor["time"].(uint64),
		UserEpoch:  epoch["epoch"].(uint64),
		Claimable:  hexBig(claim["amount"]),
	})
}

func (d *Distributor) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /distributor").
		HandlerFunc(restutil.WrapHandlerFunc(d.handleGetStatus))
	sub.Path("/weeks/{week}").
		Methods(http.MethodGet).
		Name("GET /distributor/weeks/{week}").
		HandlerFunc(restutil.WrapHandlerFunc(d.handleGetWeek))
	sub.Path("/users/{address}").
		Methods(http.MethodGet).
		Name("GET /distributor/users/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(d.handleGetUser))
}
