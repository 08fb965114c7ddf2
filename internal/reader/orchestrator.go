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

package reader

import (
	"sync"
	"sync/atomic"

	"github.com/danhill2020/signum-miner/internal/bufferpool"
	"github.com/danhill2020/signum-miner/internal/hostsvc"
	"github.com/danhill2020/signum-miner/internal/logger"
	"github.com/danhill2020/signum-miner/internal/overlap"
	"github.com/danhill2020/signum-miner/internal/plotio"
)

// Orchestrator fans each round's work out to one drive task per drive on a
// pinned worker pool, broadcasts interrupts to the previous round's tasks,
// and keeps GPU consumers synchronized with round-start/drive-finished
// markers.
type Orchestrator struct {
	mu sync.Mutex

	driveTable DriveTable
	totalBytes uint64

	pool    *hostsvc.Pool
	bufpool *bufferpool.Pool

	interrupts []chan struct{}

	showDriveStats bool
	bytesThisRound atomic.Int64
}

// NewOrchestrator builds an orchestrator over the given worker pool and
// buffer pool. The drive table starts empty; call UpdatePlots before the
// first StartReading.
func NewOrchestrator(pool *hostsvc.Pool, bufpool *bufferpool.Pool, showDriveStats bool) *Orchestrator {
	return &Orchestrator{
		pool:           pool,
		bufpool:        bufpool,
		showDriveStats: showDriveStats,
	}
}

// BytesReadThisRound returns a live counter of scoop bytes read so far in
// the current round, for progress reporting (C11).
func (o *Orchestrator) BytesReadThisRound() int64 {
	return o.bytesThisRound.Load()
}

// TotalBytes returns the total scoop bytes the current drive table will
// produce per round.
func (o *Orchestrator) TotalBytes() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totalBytes
}

// StartReading interrupts any still-running drive tasks from the previous
// round, signals GPU consumers that a new round has begun, then spawns one
// fresh drive task per drive in the current drive table.
func (o *Orchestrator) StartReading(params RoundParams) {
	o.mu.Lock()
	table := o.driveTable
	for _, ch := range o.interrupts {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	o.interrupts = make([]chan struct{}, 0, len(table))
	o.mu.Unlock()

	if o.bufpool.GPUWorkers() > 0 {
		o.bufpool.BroadcastGPUSignal(bufferpool.SignalRoundStart, bufferpool.BufferInfo{
			Height:     params.Height,
			Block:      params.Block,
			BaseTarget: params.BaseTarget,
			Gensig:     params.Gensig,
		})
	}

	o.bytesThisRound.Store(0)

	newInterrupts := make([]chan struct{}, 0, len(table))
	for _, drive := range table {
		interrupt := make(chan struct{}, 1)
		newInterrupts = append(newInterrupts, interrupt)

		drive := drive
		o.pool.Spawn(func() {
			driveTask(drive.ID, drive.Plots, params, o.bufpool, interrupt, o.showDriveStats, &o.bytesThisRound)
		})
	}

	o.mu.Lock()
	o.interrupts = newInterrupts
	o.mu.Unlock()
}

// Wakeup is invoked periodically when no round is active: for each drive it
// spawns a one-off task that seeks the drive's first plot to a random
// scoop, keeping the drive spun up. Errors are logged and swallowed.
func (o *Orchestrator) Wakeup() {
	o.mu.Lock()
	table := o.driveTable
	o.mu.Unlock()

	for _, drive := range table {
		if len(drive.Plots) == 0 {
			continue
		}
		guard := drive.Plots[0]
		o.pool.Spawn(func() {
			err := guard.Do(func(p *plotio.Plot) error {
				return p.SeekRandom()
			})
			if err != nil {
				logger.Warnf("wakeup: error during wakeup %s: %v -> skip one round", guard.Meta().Name, err)
			}
		})
	}
}

// UpdatePlots replaces the drive table and total byte count. Unless
// benchmark is true, the Overlap Validator runs first and logs a warning
// per overlapping pair; overlaps never block the update.
func (o *Orchestrator) UpdatePlots(table DriveTable, benchmark bool) {
	if !benchmark {
		var all []*plotio.Guard
		for _, drive := range table {
			all = append(all, drive.Plots...)
		}
		overlap.Check(all)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.driveTable = table
	o.totalBytes = table.TotalBytes()
}
