// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/co"
	"github.com/vechain/vedao/lvldb"
	"github.com/vechain/vedao/thor"
)

func newRepo(t *testing.T) *chain.Repository {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := chain.NewRepository(db)
	require.NoError(t, err)
	return repo
}

func serve(t *testing.T, handler http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestLogLevel(t *testing.T) {
	var logLevel slog.LevelVar
	logLevel.Set(slog.LevelInfo)
	handler := HTTPHandler(&logLevel, new(atomic.Bool), NewHealth(newRepo(t)))

	rr := serve(t, handler, http.MethodGet, "/admin/loglevel", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var res logLevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "info", res.CurrentLevel)

	rr = serve(t, handler, http.MethodPost, "/admin/loglevel", []byte(`{"level":"DEBUG"}`))
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "debug", res.CurrentLevel)
	assert.Equal(t, slog.LevelDebug, logLevel.Level())

	tests := []struct {
		name string
		body string
	}{
		{"unknown level", `{"level":"verbose"}`},
		{"unknown field", `{"lvl":"debug"}`},
		{"not json", `debug`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, handler, http.MethodPost, "/admin/loglevel", []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, slog.LevelDebug, logLevel.Level())
		})
	}

	rr = serve(t, handler, http.MethodPut, "/admin/loglevel", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	rr = serve(t, handler, http.MethodDelete, "/admin/apilogs", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	rr = serve(t, handler, http.MethodGet, "/admin/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPILogs(t *testing.T) {
	var enabled atomic.Bool
	handler := HTTPHandler(new(slog.LevelVar), &enabled, NewHealth(newRepo(t)))

	var status apiLogsStatus
	rr := serve(t, handler, http.MethodGet, "/admin/apilogs", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.False(t, status.Enabled)

	rr = serve(t, handler, http.MethodPost, "/admin/apilogs", []byte(`{"enabled":true}`))
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.True(t, status.Enabled)
	assert.True(t, enabled.Load())

	rr = serve(t, handler, http.MethodPost, "/admin/apilogs", []byte(`{"enabled":"yes"}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, enabled.Load())
}

func TestHealth(t *testing.T) {
	repo := newRepo(t)
	health := NewHealth(repo)
	handler := HTTPHandler(new(slog.LevelVar), new(atomic.Bool), health)

	var status Status
	rr := serve(t, handler, http.MethodGet, "/admin/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.False(t, status.Healthy)

	require.NoError(t, repo.Initialize(thor.Blake2b([]byte("genesis")), chain.Head{Time: 100}))

	var goes co.Goes
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		goes.Wait()
	}()
	health.Track(ctx, &goes)

	before := health.Status().Head.ObservedAt
	require.NoError(t, repo.Commit(chain.Head{Number: 1, Time: 110, Invocations: 1}))
	assert.Eventually(t, func() bool {
		return health.Status().Head.ObservedAt.After(*before)
	}, time.Second, time.Millisecond)

	rr = serve(t, handler, http.MethodGet, "/admin/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.True(t, status.Healthy)
	assert.Equal(t, uint32(1), status.Head.Number)
	assert.Equal(t, uint64(110), status.Head.Timestamp)
	assert.Empty(t, status.Error)

	health.Fail(errors.New("block #2: unexpected revert"))
	rr = serve(t, handler, http.MethodGet, "/admin/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.False(t, status.Healthy)
	assert.Equal(t, "block #2: unexpected revert", status.Error)
}
