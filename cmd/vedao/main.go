// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/vedao/api"
	"github.com/vechain/vedao/api/admin"
	"github.com/vechain/vedao/cmd/vedao/script"
	"github.com/vechain/vedao/co"
	"github.com/vechain/vedao/genesis"
	"github.com/vechain/vedao/log"
	"github.com/vechain/vedao/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "vedao",
		Usage:     "vote-escrowed governance contracts: voting escrow, gauge controller and fee distributor",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:  "init",
				Usage: "apply a genesis deployment to the data dir",
				Flags: []cli.Flag{
					dataDirFlag,
					configFlag,
					devnetFlag,
					launchTimeFlag,
					gasLimitFlag,
					skipLogsFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: initAction,
			},
			{
				Name:  "exec",
				Usage: "execute a script of timed calls and commit the results",
				Flags: []cli.Flag{
					dataDirFlag,
					scriptFlag,
					gasLimitFlag,
					skipLogsFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: execAction,
			},
			{
				Name:  "serve",
				Usage: "serve the read API, optionally executing a script in the background",
				Flags: []cli.Flag{
					dataDirFlag,
					scriptFlag,
					blockIntervalFlag,
					gasLimitFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiLogsLimitFlag,
					enableAPILogsFlag,
					skipLogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					enableAdminFlag,
					adminAddrFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initAction(ctx *cli.Context) error {
	initLogger(ctx)

	var (
		gen *genesis.Genesis
		err error
	)
	switch {
	case ctx.Bool(devnetFlag.Name):
		launchTime := ctx.Uint64(launchTimeFlag.Name)
		if launchTime == 0 {
			launchTime = uint64(time.Now().Unix())
		}
		gen = genesis.NewDevnet(launchTime)
	case ctx.String(configFlag.Name) != "":
		if gen, err = genesis.Load(ctx.String(configFlag.Name)); err != nil {
			return err
		}
	default:
		return errors.Errorf("either --%s or --%s is required", configFlag.Name, devnetFlag.Name)
	}

	inst, err := openInstance(ctx, false)
	if err != nil {
		return err
	}
	defer inst.Close()
	if inst.repo.Initialized() {
		return errors.Errorf("data dir [%v] already initialized with genesis %v", inst.dataDir, inst.repo.GenesisID())
	}

	id, events, err := gen.Builder().GasLimit(ctx.Uint64(gasLimitFlag.Name)).Build(inst.repo)
	if err != nil {
		return errors.WithMessage(err, "build genesis")
	}
	if inst.logDB != nil {
		w := inst.logDB.NewWriter()
		if err := w.Write(0, gen.LaunchTime, events); err != nil {
			_ = w.Rollback()
			return errors.WithMessage(err, "write genesis events")
		}
		if err := w.Commit(); err != nil {
			return errors.WithMessage(err, "write genesis events")
		}
	}
	logger.Info("genesis applied", "id", id, "launchTime", gen.LaunchTime, "events", len(events), "dir", inst.dataDir)
	return nil
}

func execAction(ctx *cli.Context) error {
	initLogger(ctx)

	s, err := loadScript(ctx)
	if err != nil {
		return err
	}
	inst, err := openInstance(ctx, true)
	if err != nil {
		return err
	}
	defer inst.Close()

	runner := script.NewRunner(inst.repo, inst.logDB, ctx.Uint64(gasLimitFlag.Name))
	if isatty.IsTerminal(os.Stdout.Fd()) {
		bar := pb.New(s.NumBlocks(inst.repo.Head().Number)).
			SetMaxWidth(90).
			Start()
		defer bar.Finish()
		runner.WithProgress(func(uint32) { bar.Increment() })
	}

	exitSignal := handleExitSignal()
	stats, err := runner.Run(exitSignal, s)
	if stats != nil {
		logger.Info("script executed", "blocks", stats.Blocks, "calls", stats.Calls, "reverted", stats.Reverted, "gas", stats.GasUsed)
	}
	return err
}

func serveAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()
	logLevel := initLogger(ctx)

	var s *script.Script
	if ctx.String(scriptFlag.Name) != "" {
		var err error
		if s, err = loadScript(ctx); err != nil {
			return err
		}
	}

	inst, err := openInstance(ctx, true)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing databases..."); inst.Close() }()

	var goes co.Goes
	runCtx, cancel := context.WithCancel(handleExitSignal())
	defer func() { cancel(); goes.Wait() }()
	group, groupCtx := errgroup.WithContext(runCtx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.WithMessage(err, "start metrics server")
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		logger.Info("metrics server started", "url", url)

		reportMetrics(inst.repo, ctx.Uint64(gasLimitFlag.Name))
		goes.Loop(groupCtx, inst.repo.NewTicker(), func() {
			reportMetrics(inst.repo, ctx.Uint64(gasLimitFlag.Name))
		})
	}

	var apiLogs atomic.Bool
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	health := admin.NewHealth(inst.repo)
	health.Track(groupCtx, &goes)
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := startAdminServer(ctx.String(adminAddrFlag.Name), logLevel, &apiLogs, health)
		if err != nil {
			return errors.WithMessage(err, "start admin server")
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		logger.Info("admin server started", "url", url)
	}

	handler, closeSubs := api.New(inst.repo, inst.logDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		CallGasLimit:    ctx.Uint64(gasLimitFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		SkipLogs:        ctx.Bool(skipLogsFlag.Name),
		EnableReqLogger: &apiLogs,
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	url, closeFunc, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return errors.WithMessage(err, "start API server")
	}
	defer func() { logger.Info("stopping API server..."); closeFunc() }()
	defer closeSubs()
	logger.Info("API server started", "url", url, "genesis", inst.repo.GenesisID(), "head", inst.repo.Head().Number)

	if s != nil {
		interval := time.Duration(ctx.Uint64(blockIntervalFlag.Name)) * time.Second
		group.Go(func() error {
			stats, err := script.NewRunner(inst.repo, inst.logDB, ctx.Uint64(gasLimitFlag.Name)).
				WithInterval(interval).
				Run(groupCtx, s)
			if err != nil && !errors.Is(err, context.Canceled) {
				health.Fail(err)
				return err
			}
			logger.Info("script executed", "blocks", stats.Blocks, "calls", stats.Calls, "reverted", stats.Reverted)
			return nil
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		return nil
	})
	return group.Wait()
}
