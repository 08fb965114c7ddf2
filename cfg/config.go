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

// Package cfg defines the miner's typed configuration and binds it to
// command-line flags and an optional YAML config file via pflag/viper, in
// the same flag-bind-to-viper pattern as the rest of this stack's CLI tools.
package cfg

// Config is the root configuration object, populated by viper.Unmarshal
// after BindFlags has registered every flag.
type Config struct {
	Mining  MiningConfig  `yaml:"mining"`
	Reader  ReaderConfig  `yaml:"reader"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// MiningConfig configures which plots are mined and how rounds arrive:
// PlotDirs are scanned for plot files, Benchmark skips overlap validation,
// and DemoIntervalSec paces the demo round source that stands in for the
// network client, which is out of scope for this core.
type MiningConfig struct {
	PlotDirs        []string `yaml:"plot-dirs"`
	Benchmark       bool     `yaml:"benchmark"`
	DemoIntervalSec int      `yaml:"demo-interval-sec"`
}

// ReaderConfig configures the plot I/O pipeline.
type ReaderConfig struct {
	UseDirectIO    bool     `yaml:"use-direct-io"`
	ThreadPinning  bool     `yaml:"thread-pinning"`
	NumThreads     int      `yaml:"num-threads"`
	BufferSize     ByteSize `yaml:"buffer-size"`
	BufferCount    int      `yaml:"buffer-count"`
	GPUWorkers     int      `yaml:"gpu-workers"`
	ShowDriveStats bool     `yaml:"show-drive-stats"`
	ShowProgress   bool     `yaml:"show-progress"`
}

// LoggingConfig configures the leveled logger.
type LoggingConfig struct {
	Severity LogLevel `yaml:"severity"`
	Format   string   `yaml:"format"`
}

// MetricsConfig configures the metrics sink's reporting cadence.
type MetricsConfig struct {
	SummaryIntervalSec int `yaml:"summary-interval-sec"`
}

// Default returns a Config populated with the same defaults BindFlags
// registers on a fresh flag set.
func Default() Config {
	return Config{
		Mining: MiningConfig{
			DemoIntervalSec: 30,
		},
		Reader: ReaderConfig{
			UseDirectIO:    true,
			ThreadPinning:  false,
			NumThreads:     0, // 0 = default to CPU count
			BufferSize:     ByteSize(256 * 1024),
			BufferCount:    8,
			GPUWorkers:     0,
			ShowDriveStats: false,
			ShowProgress:   true,
		},
		Logging: LoggingConfig{
			Severity: LogLevelInfo,
			Format:   "text",
		},
		Metrics: MetricsConfig{
			SummaryIntervalSec: 60,
		},
	}
}
