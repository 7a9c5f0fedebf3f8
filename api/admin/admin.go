// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves runtime administration: log verbosity and health.
package admin

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vedao/api/restutil"
	"github.com/vechain/vedao/log"
)

var logger = log.WithContext("pkg", "admin")

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

func handleGetLogLevel(logLevel *slog.LevelVar) restutil.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return restutil.WriteJSON(w, &logLevelResponse{CurrentLevel: log.LevelString(logLevel.Level())})
	}
}

func handlePostLogLevel(logLevel *slog.LevelVar) restutil.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body logLevelRequest
		if err := restutil.ParseJSON(req.Body, &body); err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "body"))
		}
		level, ok := levels[strings.ToLower(body.Level)]
		if !ok {
			return restutil.BadRequest(errors.Errorf("invalid verbosity level %q", body.Level))
		}
		logLevel.Set(level)
		return restutil.WriteJSON(w, &logLevelResponse{CurrentLevel: log.LevelString(logLevel.Level())})
	}
}

type apiLogsStatus struct {
	Enabled bool `json:"enabled"`
}

func handleGetAPILogs(enabled *atomic.Bool) restutil.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return restutil.WriteJSON(w, &apiLogsStatus{Enabled: enabled.Load()})
	}
}

func handlePostAPILogs(enabled *atomic.Bool) restutil.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body apiLogsStatus
		if err := restutil.ParseJSON(req.Body, &body); err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "body"))
		}
		enabled.Store(body.Enabled)
		logger.Info("api logs updated", "enabled", body.Enabled)
		return restutil.WriteJSON(w, &apiLogsStatus{Enabled: enabled.Load()})
	}
}

func handleHealth(health *Health) restutil.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		status := health.Status()
		if !status.Healthy {
			w.Header().Set("Content-Type", restutil.JSONContentType)
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		return restutil.WriteJSON(w, status)
	}
}

// HTTPHandler returns the admin router.
func HTTPHandler(logLevel *slog.LevelVar, apiLogs *atomic.Bool, health *Health) http.Handler {
	router := mux.NewRouter()

	router.Path("/admin/loglevel").
		Methods(http.MethodGet).
		Name("GET /admin/loglevel").
		HandlerFunc(restutil.WrapHandlerFunc(handleGetLogLevel(logLevel)))
	router.Path("/admin/loglevel").
		Methods(http.MethodPost).
		Name("POST /admin/loglevel").
		HandlerFunc(restutil.WrapHandlerFunc(handlePostLogLevel(logLevel)))
	router.Path("/admin/apilogs").
		Methods(http.MethodGet).
		Name("GET /admin/apilogs").
		HandlerFunc(restutil.WrapHandlerFunc(handleGetAPILogs(apiLogs)))
	router.Path("/admin/apilogs").
		Methods(http.MethodPost).
		Name("POST /admin/apilogs").
		HandlerFunc(restutil.WrapHandlerFunc(handlePostAPILogs(apiLogs)))
	router.Path("/admin/health").
		Methods(http.MethodGet).
		Name("GET /admin/health").
		HandlerFunc(restutil.WrapHandlerFunc(handleHealth(health)))

	return handlers.CompressHandler(router)
}
