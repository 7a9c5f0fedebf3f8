// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/vedao/api/contracts"
	"github.com/vechain/vedao/api/distributor"
	"github.com/vechain/vedao/api/escrow"
	"github.com/vechain/vedao/api/events"
	"github.com/vechain/vedao/api/gauges"
	"github.com/vechain/vedao/api/restutil"
	"github.com/vechain/vedao/api/subscriptions"
	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/log"
	"github.com/vechain/vedao/logdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	CallGasLimit    uint64
	LogsLimit       uint64
	SkipLogs        bool
	EnableReqLogger *atomic.Bool
	EnableMetrics   bool
}

// New return api router and a func to end the open subscriptions.
func New(repo *chain.Repository, logDB *logdb.LogDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	router.Path("/head").
		Methods(http.MethodGet).
		Name("GET /head").
		HandlerFunc(restutil.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return restutil.WriteJSON(w, newHead(repo))
		}))

	caller := contracts.NewCaller(repo, opts.CallGasLimit)
	contracts.New(caller).
		Mount(router, "/contracts")
	escrow.New(caller).
		Mount(router, "/escrow")
	gauges.New(caller).
		Mount(router, "/gauges")
	distributor.New(caller).
		Mount(router, "/distributor")
	closeFunc := func() {}
	if !opts.SkipLogs && logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/logs/event")
		subs := subscriptions.New(repo, logDB, origins)
		subs.Mount(router, "/subscriptions")
		closeFunc = subs.Close
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = RequestLoggerHandler(handler, logger, opts.EnableReqLogger)
	}
	return handler.ServeHTTP, closeFunc
}
