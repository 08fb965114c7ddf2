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

package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindFlags registers every config flag on flagSet and binds it into
// viper's global config tree, so that viper.Unmarshal(&Config{}) picks up
// flag values, environment variables, and an optional config file with a
// single consistent precedence order.
func BindFlags(flagSet *pflag.FlagSet) error {
	defaults := Default()

	flagSet.StringSlice("plot-dirs", nil, "Directories to scan for plot files.")
	if err := viper.BindPFlag("mining.plot-dirs", flagSet.Lookup("plot-dirs")); err != nil {
		return err
	}

	flagSet.Bool("benchmark", false, "Skip plot overlap validation when loading plots.")
	if err := viper.BindPFlag("mining.benchmark", flagSet.Lookup("benchmark")); err != nil {
		return err
	}

	flagSet.Int("demo-interval-sec", defaults.Mining.DemoIntervalSec, "Seconds between synthetic rounds when no network client is wired in.")
	if err := viper.BindPFlag("mining.demo-interval-sec", flagSet.Lookup("demo-interval-sec")); err != nil {
		return err
	}

	flagSet.Bool("use-direct-io", defaults.Reader.UseDirectIO, "Use unbuffered direct I/O for plot reads where the platform supports it.")
	if err := viper.BindPFlag("reader.use-direct-io", flagSet.Lookup("use-direct-io")); err != nil {
		return err
	}

	flagSet.Bool("thread-pinning", defaults.Reader.ThreadPinning, "Pin each reader worker thread to a CPU core.")
	if err := viper.BindPFlag("reader.thread-pinning", flagSet.Lookup("thread-pinning")); err != nil {
		return err
	}

	flagSet.Int("num-threads", defaults.Reader.NumThreads, "Reader worker pool size; 0 uses the number of CPU cores.")
	if err := viper.BindPFlag("reader.num-threads", flagSet.Lookup("num-threads")); err != nil {
		return err
	}

	flagSet.String("buffer-size", "256Ki", "Size of each reader buffer, e.g. 256Ki, 1Mi.")
	if err := viper.BindPFlag("reader.buffer-size", flagSet.Lookup("buffer-size")); err != nil {
		return err
	}

	flagSet.Int("buffer-count", defaults.Reader.BufferCount, "Number of buffers in the reader pool.")
	if err := viper.BindPFlag("reader.buffer-count", flagSet.Lookup("buffer-count")); err != nil {
		return err
	}

	flagSet.Int("gpu-workers", defaults.Reader.GPUWorkers, "Number of GPU consumer channels to create.")
	if err := viper.BindPFlag("reader.gpu-workers", flagSet.Lookup("gpu-workers")); err != nil {
		return err
	}

	flagSet.Bool("show-drive-stats", defaults.Reader.ShowDriveStats, "Log per-drive throughput when each drive task finishes a round.")
	if err := viper.BindPFlag("reader.show-drive-stats", flagSet.Lookup("show-drive-stats")); err != nil {
		return err
	}

	flagSet.Bool("show-progress", defaults.Reader.ShowProgress, "Show a live progress bar while reading.")
	if err := viper.BindPFlag("reader.show-progress", flagSet.Lookup("show-progress")); err != nil {
		return err
	}

	flagSet.String("log-severity", string(defaults.Logging.Severity), "Minimum log severity: TRACE, DEBUG, INFO, WARNING, ERROR.")
	if err := viper.BindPFlag("logging.severity", flagSet.Lookup("log-severity")); err != nil {
		return err
	}

	flagSet.String("log-format", defaults.Logging.Format, "Log output format: text or json.")
	if err := viper.BindPFlag("logging.format", flagSet.Lookup("log-format")); err != nil {
		return err
	}

	flagSet.Int("metrics-summary-interval-sec", defaults.Metrics.SummaryIntervalSec, "Seconds between metrics summary log lines.")
	return viper.BindPFlag("metrics.summary-interval-sec", flagSet.Lookup("metrics-summary-interval-sec"))
}
