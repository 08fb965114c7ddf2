// Copyright 2025 The Signum-Miner Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd wires cfg, logger, plotio, bufferpool, hostsvc, reader and
// metrics together into the signum-miner binary's cobra command tree.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danhill2020/signum-miner/internal/bufferpool"
	"github.com/danhill2020/signum-miner/internal/clock"
	"github.com/danhill2020/signum-miner/internal/hostsvc"
	"github.com/danhill2020/signum-miner/internal/logger"
	"github.com/danhill2020/signum-miner/internal/metrics"
	"github.com/danhill2020/signum-miner/internal/progress"
	"github.com/danhill2020/signum-miner/internal/reader"
	"github.com/danhill2020/signum-miner/internal/util"

	"github.com/danhill2020/signum-miner/cfg"
)

var cfgFile string

// NewRootCommand builds the top-level "signum-miner" command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "signum-miner",
		Short: "A proof-of-capacity plot reader and round scheduler",
		RunE: func(c *cobra.Command, args []string) error {
			return run(c)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML config file (default: none; flags and env only).")
	if err := cfg.BindFlags(root.PersistentFlags()); err != nil {
		// BindFlags only fails if a flag name collides with itself; a
		// coding error, not a runtime condition.
		panic(err)
	}

	cobra.OnInitialize(func() { initConfig() })

	return root
}

// Execute runs the root command, exiting the process with status 1 on
// error the same way cobra's own example commands do.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile == "" {
		return
	}
	resolved, err := util.GetResolvedPath(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "signum-miner: resolving --config path: %v\n", err)
		os.Exit(1)
	}
	viper.SetConfigFile(resolved)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "signum-miner: reading config file %s: %v\n", resolved, err)
		os.Exit(1)
	}
}

func loadConfig() (cfg.Config, error) {
	config := cfg.Default()
	err := viper.Unmarshal(&config, viper.DecodeHook(cfg.DecodeHook()), func(c *mapstructure.DecoderConfig) {
		c.TagName = "yaml"
	})
	return config, err
}

func run(c *cobra.Command) error {
	config, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Init(os.Stderr, logger.Format(config.Logging.Format), string(config.Logging.Severity))

	if len(config.Mining.PlotDirs) == 0 {
		return fmt.Errorf("no plot directories configured; pass --plot-dirs or set mining.plot-dirs")
	}

	pool := hostsvc.NewThreadPool(resolveNumThreads(config.Reader.NumThreads), config.Reader.ThreadPinning)
	defer pool.Stop()

	bufPool := bufferpool.New(config.Reader.BufferCount, int(config.Reader.BufferSize), config.Reader.GPUWorkers)
	orch := reader.NewOrchestrator(pool, bufPool, config.Reader.ShowDriveStats)

	table, err := discoverPlots(config.Mining.PlotDirs, config.Reader.UseDirectIO)
	if err != nil {
		return fmt.Errorf("discovering plots: %w", err)
	}
	if len(table) == 0 {
		logger.Warnf("no plot files found under %v", config.Mining.PlotDirs)
	}
	orch.UpdatePlots(table, config.Mining.Benchmark)
	logger.Infof("loaded %d nonces across %d drives", table.TotalNonces(), len(table))

	sink := metrics.New(clock.RealClock{})

	stop := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		close(stop)
	}()

	source := newDemoRoundSource(time.Duration(config.Mining.DemoIntervalSec) * time.Second)
	driveTicker := time.NewTicker(30 * time.Second)
	defer driveTicker.Stop()

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-driveTicker.C:
				orch.Wakeup()
			}
		}
	}()

	summaryTicker := time.NewTicker(time.Duration(config.Metrics.SummaryIntervalSec) * time.Second)
	defer summaryTicker.Stop()
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-summaryTicker.C:
				logger.Infof("health=%s ewma_round=%s read_speed=%.2fMiB/s submit_rate=%.1f%% round_rate=%.1f%%",
					sink.Health(), sink.EWMARoundDuration(), sink.AverageReadSpeedMiBPerSec(),
					sink.SubmissionSuccessRate()*100, sink.RoundSuccessRate()*100)
			}
		}
	}()

	go func() {
		var lastRoundStart time.Time
		for {
			params, ok := source.Next(stop)
			if !ok {
				return
			}

			if !lastRoundStart.IsZero() {
				sink.RecordRoundComplete(time.Since(lastRoundStart))
				sink.RecordBytesRead(uint64(orch.BytesReadThisRound()))
			}
			lastRoundStart = time.Now()

			logger.Infof("round %d: scoop=%d base_target=%d", params.Height, params.Scoop, params.BaseTarget)
			orch.StartReading(params)
		}
	}()

	if config.Reader.ShowProgress {
		src := progress.Source{
			BytesReadThisRound: orch.BytesReadThisRound,
			TotalBytes:         orch.TotalBytes,
			Health:             func() string { return sink.Health().String() },
			EWMARoundDuration:  sink.EWMARoundDuration,
		}
		if err := progress.Run(src); err != nil {
			logger.Warnf("progress UI exited: %v", err)
		}
		return nil
	}

	<-stop
	logger.Infof("shutting down")
	return nil
}

// resolveNumThreads translates the reader.num-threads config knob (0 =
// default to CPU count, per cfg's documented default) into an actual
// worker count. hostsvc.NewThreadPool itself only clamps n<=0 to 1; the
// CPU-count default is a scheduling policy decision that belongs here,
// not in the pool constructor.
func resolveNumThreads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
