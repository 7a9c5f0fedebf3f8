// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/vedao/api/admin"
	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/cmd/vedao/script"
	"github.com/vechain/vedao/co"
	"github.com/vechain/vedao/log"
	"github.com/vechain/vedao/logdb"
	"github.com/vechain/vedao/lvldb"
	"github.com/vechain/vedao/metrics"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vedao")
}

// instance holds the opened databases of a data dir.
type instance struct {
	dataDir string
	mainDB  *lvldb.LevelDB
	logDB   *logdb.LogDB
	repo    *chain.Repository
}

// openInstance opens the data dir. With initialized set, a data dir without
// genesis is an error.
func openInstance(ctx *cli.Context, initialized bool) (*instance, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use --%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}

	mainDB, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{
		CacheSize:              256,
		OpenFilesCacheCapacity: 256,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "open main database [%v]", dataDir)
	}
	e := &instance{dataDir: dataDir, mainDB: mainDB}

	if e.repo, err = chain.NewRepository(mainDB); err != nil {
		e.Close()
		return nil, errors.WithMessage(err, "open repository")
	}
	if initialized && !e.repo.Initialized() {
		e.Close()
		return nil, errors.WithMessagef(chain.ErrNotInitialized, "data dir [%v], run init first", dataDir)
	}

	if !ctx.Bool(skipLogsFlag.Name) {
		path := filepath.Join(dataDir, "logs.db")
		if e.logDB, err = logdb.New(path); err != nil {
			e.Close()
			return nil, errors.WithMessagef(err, "open log database [%v]", path)
		}
	}
	logger.Debug("data dir opened", "dir", dataDir, "initialized", e.repo.Initialized())
	return e, nil
}

func (e *instance) Close() {
	if e.logDB != nil {
		if err := e.logDB.Close(); err != nil {
			logger.Warn("failed to close log database", "err", err)
		}
	}
	if err := e.mainDB.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

func loadScript(ctx *cli.Context) (*script.Script, error) {
	path := ctx.String(scriptFlag.Name)
	if path == "" {
		return nil, errors.Errorf("--%s is required", scriptFlag.Name)
	}
	return script.Load(path)
}

// handleExitSignal returns a context canceled on interrupt or terminate.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	return "http://" + listener.Addr().String() + "/", serveHTTP(listener, handler), nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	return "http://" + listener.Addr().String() + "/metrics", serveHTTP(listener, handler), nil
}

func startAdminServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool, health *admin.Health) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}
	return "http://" + listener.Addr().String() + "/admin", serveHTTP(listener, admin.HTTPHandler(logLevel, apiLogs, health)), nil
}

// serveHTTP serves on the listener until the returned func is called.
func serveHTTP(listener net.Listener, handler http.Handler) func() {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("http server stopped", "addr", listener.Addr(), "err", err)
		}
	})
	return func() {
		srv.Close()
		goes.Wait()
	}
}
