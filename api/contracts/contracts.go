// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/api/restutil"
	"github.com/vechain/vedao/builtin"
	"github.com/vechain/vedao/thor"
)

type Contracts struct {
	caller *Caller
}

func New(caller *Caller) *Contracts {
	return &Contracts{caller}
}

func (c *Contracts) handleList(w http.ResponseWriter, _ *http.Request) error {
	list := make([]*Contract, 0, len(builtin.Contracts()))
	for _, bc := range builtin.Contracts() {
		item := &Contract{Name: bc.Name(), Address: bc.Address}
		for _, m := range bc.ABI.Methods() {
			item.Methods = append(item.Methods, m.Sig())
		}
		list = append(list, item)
	}
	return restutil.WriteJSON(w, list)
}

func (c *Contracts) handleCall(w http.ResponseWriter, req *http.Request) error {
	contract, ok := builtin.ByName(mux.Vars(req)["name"])
	if !ok {
		return restutil.NotFound(errors.New("contract not found"))
	}
	m, ok := contract.ABI.MethodByName(mux.Vars(req)["method"])
	if !ok {
		return restutil.NotFound(errors.New("method not found"))
	}

	var callData CallData
	if err := restutil.ParseJSON(req.Body, &callData); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	input, err := m.EncodeInputStrings(callData.Args)
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "args"))
	}
	var caller thor.Address
	if callData.Caller != nil {
		caller = *callData.Caller
	}

	out, err := c.caller.Call(c.caller.BlockContext(callData.Time), caller, contract.Address, input)
	if err != nil {
		return err
	}
	result := &CallResult{
		Data:         hexutil.Encode(out.Data),
		GasUsed:      out.Receipt.GasUsed,
		Reverted:     out.Receipt.Reverted,
		RevertReason: out.Receipt.RevertReason,
	}
	if !out.Receipt.Reverted {
		values, err := m.DecodeOutputToMap(out.Data)
		if err != nil {
			return err
		}
		result.Outputs = JSONValues(values)
	}
	return restutil.WriteJSON(w, result)
}

func (c *Contracts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /contracts").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleList))
	sub.Path("/{name}/{method}").
		Methods(http.MethodPost).
		Name("POST /contracts/{name}/{method}").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleCall))
}
