// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gauges

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

type Gauges struct {
	caller *contracts.Caller
}

func New(caller *contracts.Caller) *Gauges {
	return &Gauges{caller}
}

func (g *Gauges) view(method string, args ...any) (map[string]any, error) {
	return g.caller.View(nil, thor.Address{}, builtin.GaugeController.Contract, method, args...)
}

func hexBig(v any) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v.(*big.Int))
}

func pathAddress(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, restutil.BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// gauge reads a gauge. The relative weight is computed with a checkpoint
// that is discarded afterwards.
func (g *Gauges) gauge(addr thor.Address, time uint64) (*Gauge, error) {
	typ, err := g.view("gauge_types", addr)
	if err != nil {
		return nil, err
	}
	weight, err := g.view("get_gauge_weight", addr)
	if err != nil {
		return nil, err
	}
	rel, err := g.view("gauge_relative_weight_write", addr, time)
	if err != nil {
		return nil, err
	}
	return &Gauge{
		Address:        addr,
		Type:           typ["gauge_type"].(uint64),
		Weight:         hexBig(weight["weight"]),
		RelativeWeight: hexBig(rel["weight"]),
		Time:           thor.FloorWeek(time),
	}, nil
}

func (g *Gauges) handleGetGauge(w http.ResponseWriter, req *http.Request) error {
	addr, err := pathAddress(req, "address")
	if err != nil {
		return err
	}
	time, err := restutil.QueryUint64(req, "time", g.caller.BlockContext(0).Time)
	if err != nil {
		return err
	}
	gauge, err := g.gauge(addr, time)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, gauge)
}

func (g *Gauges) handleGetSummary(w http.ResponseWriter, req *http.Request) error {
	time, err := restutil.QueryUint64(req, "time", g.caller.BlockContext(0).Time)
	if err != nil {
		return err
	}
	total, err := g.view("get_total_weight")
	if err != nil {
		return err
	}
	timeTotal, err := g.view("time_total")
	if err != nil {
		return err
	}
	summary := &Summary{
		TotalWeight: hexBig(total["weight"]),
		TimeTotal:   timeTotal["time"].(uint64),
		Types:       []*GaugeType{},
		Gauges:      []*Gauge{},
	}

	nTypes, err := g.view("n_gauge_types")
	if err != nil {
		return err
	}
	for id := range nTypes["count"].(uint64) {
		name, err := g.view("gauge_type_names", id)
		if err != nil {
			return err
		}
		weight, err := g.view("get_type_weight", id)
		if err != nil {
			return err
		}
		sum, err := g.view("get_weights_sum_per_type", id)
		if err != nil {
			return err
		}
		summary.Types = append(summary.Types, &GaugeType{
			ID:     id,
			Name:   name["name"].(string),
			Weight: hexBig(weight["weight"]),
			Sum:    hexBig(sum["weight"]),
		})
	}

	nGauges, err := g.view("n_gauges")
	if err != nil {
		return err
	}
	for i := range nGauges["count"].(uint64) {
		addr, err := g.view("gauges", i)
		if err != nil {
			return err
		}
		gauge, err := g.gauge(addr["gauge"].(thor.Address), time)
		if err != nil {
			return err
		}
		summary.Gauges = append(summary.Gauges, gauge)
	}
	return restutil.WriteJSON(w, summary)
}

func (g *Gauges) handleGetVote(w http.ResponseWriter, req *http.Request) error {
	user, err := pathAddress(req, "user")
	if err != nil {
		return err
	}
	gauge, err := pathAddress(req, "gauge")
	if err != nil {
		return err
	}
	slopes, err := g.view("vote_user_slopes", user, gauge)
	if err != nil {
		return err
	}
	last, err := g.view("last_user_vote", user, gauge)
	if err != nil {
		return err
	}
	used, err := g.view("vote_user_power", user)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Vote{
		Slope:    hexBig(slopes["slope"]),
		Power:    hexBig(slopes["power"]),
		End:      slopes["end"].(uint64),
		LastVote: last["time"].(uint64),
		Used:     hexBig(used["power"]),
	})
}

func (g *Gauges) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /gauges").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetSummary))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /gauges/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetGauge))
	sub.Path("/votes/{user}/{gauge}").
		Methods(http.MethodGet).
		Name("GET /gauges/votes/{user}/{gauge}").
		HandlerFunc(restutil.WrapHandlerFunc(g.handleGetVote))
}
