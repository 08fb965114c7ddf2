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

// Package metrics implements the Metrics Sink (C7): a concurrent counter
// object the reader pipeline reports into, plus the derived health
// computation the spec leaves to an external aggregator but whose contract
// (thresholds, EWMA) is owned by the core.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/danhill2020/signum-miner/internal/clock"
	"github.com/danhill2020/signum-miner/internal/common"
)

// roundDurationAlpha is the EWMA smoothing factor for round-duration
// tracking, per the documented α = 0.1.
const roundDurationAlpha = 0.1

// recentRoundWindow bounds the rolling window of recent round durations
// kept alongside (not instead of) the EWMA.
const recentRoundWindow = 20

// Sink is a concurrent counter object shared by every reader task and the
// orchestrator. All counters are backed by prometheus instruments on a
// private registry so the contract stays inspectable from tests without
// exposing an HTTP endpoint (the aggregator/exporter is an external
// collaborator).
type Sink struct {
	clock clock.Clock

	registry *prometheus.Registry

	submissionsOK   prometheus.Counter
	submissionsFail prometheus.Counter
	roundsOK        prometheus.Counter
	roundsFail      prometheus.Counter
	ioErrors        prometheus.Counter
	networkErrors   prometheus.Counter
	configErrors    prometheus.Counter
	bytesRead       prometheus.Counter

	mu                sync.RWMutex
	bestDeadline      map[uint64]uint64
	haveEWMA          bool
	ewmaRoundDuration time.Duration
	recentRounds      *common.BoundedWindow[time.Duration]
	startedAt         time.Time

	disks map[string]*DiskHealthInfo
}

// New builds a Sink backed by a fresh private prometheus registry.
func New(c clock.Clock) *Sink {
	if c == nil {
		c = clock.RealClock{}
	}
	reg := prometheus.NewRegistry()

	s := &Sink{
		clock:    c,
		registry: reg,
		submissionsOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signum_miner_submissions_ok_total",
			Help: "Nonce submissions accepted.",
		}),
		submissionsFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signum_miner_submissions_failed_total",
			Help: "Nonce submissions rejected.",
		}),
		roundsOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signum_miner_rounds_completed_total",
			Help: "Mining rounds completed without error.",
		}),
		roundsFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signum_miner_rounds_failed_total",
			Help: "Mining rounds that failed before completion.",
		}),
		ioErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signum_miner_io_errors_total",
			Help: "Per-drive I/O errors encountered while reading plots.",
		}),
		networkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signum_miner_network_errors_total",
			Help: "Network errors talking to the upstream mining pool.",
		}),
		configErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signum_miner_config_errors_total",
			Help: "Plots or configuration entries rejected at load time.",
		}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signum_miner_bytes_read_total",
			Help: "Scoop bytes read from plot files.",
		}),
		bestDeadline: make(map[uint64]uint64),
		recentRounds: common.NewBoundedWindow[time.Duration](recentRoundWindow),
		startedAt:    c.Now(),
		disks:        make(map[string]*DiskHealthInfo),
	}

	reg.MustRegister(
		s.submissionsOK, s.submissionsFail,
		s.roundsOK, s.roundsFail,
		s.ioErrors, s.networkErrors, s.configErrors,
		s.bytesRead,
	)

	return s
}

// Registry returns the private prometheus registry backing this sink, for
// tests or an in-process inspector. It is never wired to an HTTP handler
// here; that belongs to the external aggregator.
func (s *Sink) Registry() *prometheus.Registry { return s.registry }

// RecordSubmission records a nonce submission outcome. When success is true
// and deadline improves on (is lower than) the best deadline seen so far for
// accountID, the best deadline is updated.
func (s *Sink) RecordSubmission(accountID uint64, deadline uint64, success bool) {
	if success {
		s.submissionsOK.Inc()
	} else {
		s.submissionsFail.Inc()
	}
	if !success {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	best, ok := s.bestDeadline[accountID]
	if !ok || deadline < best {
		s.bestDeadline[accountID] = deadline
	}
}

// BestDeadline returns the best (lowest) deadline recorded for accountID.
func (s *Sink) BestDeadline(accountID uint64) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.bestDeadline[accountID]
	return d, ok
}

// RecordRoundComplete records a successful round of the given duration,
// updating the EWMA (α=0.1) and the bounded recent-rounds window.
func (s *Sink) RecordRoundComplete(d time.Duration) {
	s.roundsOK.Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.haveEWMA {
		s.ewmaRoundDuration = d
		s.haveEWMA = true
	} else {
		s.ewmaRoundDuration = time.Duration(roundDurationAlpha*float64(d) + (1-roundDurationAlpha)*float64(s.ewmaRoundDuration))
	}
	s.recentRounds.Push(d)
}

// RecordRoundFailure records a round that failed before completion.
func (s *Sink) RecordRoundFailure() {
	s.roundsFail.Inc()
}

// RecordDiskError records an I/O error on driveID, advancing its
// consecutive-error streak.
func (s *Sink) RecordDiskError(driveID string) {
	s.ioErrors.Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	info := s.diskLocked(driveID)
	info.ConsecutiveErrors++
	info.TotalErrors++
}

// RecordDiskSuccess records a successful I/O on driveID, resetting its
// consecutive-error streak.
func (s *Sink) RecordDiskSuccess(driveID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := s.diskLocked(driveID)
	info.ConsecutiveErrors = 0
	info.TotalAttempts++
}

func (s *Sink) diskLocked(driveID string) *DiskHealthInfo {
	info, ok := s.disks[driveID]
	if !ok {
		info = &DiskHealthInfo{}
		s.disks[driveID] = info
	}
	return info
}

// RecordNetworkError records a network error talking to the upstream pool.
func (s *Sink) RecordNetworkError() {
	s.networkErrors.Inc()
}

// RecordConfigError records a plot or config entry rejected at load time.
func (s *Sink) RecordConfigError() {
	s.configErrors.Inc()
}

// RecordBytesRead records n scoop bytes read from plot files.
func (s *Sink) RecordBytesRead(n uint64) {
	s.bytesRead.Add(float64(n))
}

// SubmissionSuccessRate returns the fraction (0..1) of submissions that
// succeeded, or 1 if none have been recorded yet.
func (s *Sink) SubmissionSuccessRate() float64 {
	ok, fail := counterValue(s.submissionsOK), counterValue(s.submissionsFail)
	return successRate(ok, fail)
}

// RoundSuccessRate returns the fraction (0..1) of rounds that completed
// without error, or 1 if none have been recorded yet.
func (s *Sink) RoundSuccessRate() float64 {
	ok, fail := counterValue(s.roundsOK), counterValue(s.roundsFail)
	return successRate(ok, fail)
}

// AverageReadSpeedMiBPerSec returns the average scoop-read throughput over
// the sink's lifetime.
func (s *Sink) AverageReadSpeedMiBPerSec() float64 {
	uptime := s.clock.Now().Sub(s.startedAt).Seconds()
	if uptime <= 0 {
		return 0
	}
	bytes := counterValue(s.bytesRead)
	return bytes / (1024 * 1024) / uptime
}

// EWMARoundDuration returns the exponentially-weighted moving average of
// round durations (α=0.1).
func (s *Sink) EWMARoundDuration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ewmaRoundDuration
}

// RecentRoundTimes returns up to the last 20 recorded round durations,
// oldest first.
func (s *Sink) RecentRoundTimes() []time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recentRounds.Values()
}

func successRate(ok, fail float64) float64 {
	total := ok + fail
	if total == 0 {
		return 1
	}
	return ok / total
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	_ = c.Write(&m)
	return m.GetCounter().GetValue()
}
