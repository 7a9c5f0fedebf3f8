// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package escrow

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/api/contracts"
	"github.com/vechain/vedao/api/restutil"
	"github.com/vechain/vedao/builtin"
	"github.com/vechain/vedao/thor"
)

type Escrow struct {
	caller *contracts.Caller
}

func New(caller *contracts.Caller) *Escrow {
	return &Escrow{caller}
}

func (e *Escrow) view(method string, args ...any) (map[string]any, error) {
	return e.caller.View(nil, thor.Address{}, builtin.VotingEscrow.Contract, method, args...)
}

func hexBig(v any) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v.(*big.Int))
}

func parseAddress(req *http.Request) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return thor.Address{}, restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func (e *Escrow) handleGetLock(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	locked, err := e.view("locked", addr)
	if err != nil {
		return err
	}
	epoch, err := e.view("user_point_epoch", addr)
	if err != nil {
		return err
	}
	balance, err := e.view("balanceOf", addr, e.caller.BlockContext(0).Time)
	if err != nil {
		return err
	}
	slope, err := e.view("get_last_user_slope", addr)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Lock{
		Amount:    hexBig(locked["amount"]),
		End:       locked["end"].(uint64),
		Epoch:     epoch["epoch"].(uint64),
		Balance:   hexBig(balance["balance"]),
		LastSlope: hexBig(slope["slope"]),
	})
}

// timeOrBlock reads the time or block query, time defaults to the head time.
func (e *Escrow) timeOrBlock(req *http.Request) (time uint64, block uint64, err error) {
	if block, err = restutil.QueryUint64(req, "block", 0); err != nil || block > 0 {
		return 0, block, err
	}
	time, err = restutil.QueryUint64(req, "time", e.caller.BlockContext(0).Time)
	return time, 0, err
}

func (e *Escrow) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	time, block, err := e.timeOrBlock(req)
	if err != nil {
		return err
	}
	var out map[string]any
	if block > 0 {
		out, err = e.view("balanceOfAt", addr, block)
	} else {
		out, err = e.view("balanceOf", addr, time)
	}
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Balance{Time: time, Block: block, Balance: hexBig(out["balance"])})
}

func (e *Escrow) handleGetSupply(w http.ResponseWriter, req *http.Request) error {
	time, block, err := e.timeOrBlock(req)
	if err != nil {
		return err
	}
	var out map[string]any
	if block > 0 {
		out, err = e.view("totalSupplyAt", block)
	} else {
		out, err = e.view("totalSupply", time)
	}
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Balance{Time: time, Block: block, Balance: hexBig(out["supply"])})
}

func (e *Escrow) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/locks/{address}").
		Methods(http.MethodGet).
		Name("GET /escrow/locks/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleGetLock))
	sub.Path("/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /escrow/balances/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleGetBalance))
	sub.Path("/supply").
		Methods(http.MethodGet).
		Name("GET /escrow/supply").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleGetSupply))
}
