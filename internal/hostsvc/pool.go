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

package hostsvc

import (
	"runtime"
	"sync"

	"github.com/danhill2020/signum-miner/internal/logger"
)

// Pool is the worker pool drive tasks (C4) are spawned onto by the reader
// orchestrator (C5). Workers are preemptive OS threads pulling closures off
// a shared job queue; when pin is requested each worker locks its goroutine
// to an OS thread and pins that thread to cores[id % len(cores)].
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup
}

// NewThreadPool builds a worker pool of n threads. If pin is true, each
// worker is pinned to a distinct core (round-robin over NumCPU); pinning
// failures are logged and that worker simply runs unpinned. NewThreadPool
// does not resolve n<=0 to the CPU count itself — it only clamps to 1 so
// the pool always makes progress; callers that want the "0 means CPU
// count" default (cfg's reader.num-threads) must resolve it before calling
// NewThreadPool, since sizing the pool by CPU count is a scheduling policy
// decision that belongs to the caller, not to this pool's construction.
func NewThreadPool(n int, pin bool) *Pool {
	if n <= 0 {
		n = 1
	}
	p := &Pool{jobs: make(chan func(), n*4)}
	numCores := runtime.NumCPU()
	for id := 0; id < n; id++ {
		p.wg.Add(1)
		go p.worker(id, pin, numCores)
	}
	return p
}

func (p *Pool) worker(id int, pin bool, numCores int) {
	defer p.wg.Done()
	if pin {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		core := id % max(numCores, 1)
		if err := pinCurrentThread(core); err != nil {
			logger.Warnf("hostsvc: pinning worker %d to core %d failed, running unpinned: %v", id, core, err)
		}
	}
	for job := range p.jobs {
		job()
	}
}

// Spawn schedules task to run on some worker goroutine. Never blocks the
// caller for long: the job channel is generously buffered, and a full
// buffer simply means the caller waits for a worker to free up, same as a
// bounded work-stealing pool would.
func (p *Pool) Spawn(task func()) {
	p.jobs <- task
}

// Stop closes the job queue and waits for in-flight jobs to finish. No new
// jobs may be spawned after Stop is called.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
