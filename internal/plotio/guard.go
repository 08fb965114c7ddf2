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

package plotio

import (
	"fmt"
	"sync"

	"github.com/danhill2020/signum-miner/internal/logger"
)

// Guard serializes access to a Plot across the reader tasks that may touch
// it (the sequential round reader and any warm-up/benchmark reader). Unlike
// Rust's std::sync::Mutex, sync.Mutex does not poison itself when a holder
// panics, so a panic inside Do would otherwise leave the mutex merely
// unlocked with no record that the Plot's file position is now suspect. Do
// recovers the panic itself, logs it, and reports it to the caller as an
// error instead of letting the goroutine die or the state go unnoticed.
type Guard struct {
	mu   sync.Mutex
	plot *Plot
}

// NewGuard wraps plot for exclusive access.
func NewGuard(plot *Plot) *Guard {
	return &Guard{plot: plot}
}

// Do runs fn with exclusive access to the guarded Plot. If fn panics, Do
// recovers, logs a warning naming the guarded plot, and returns the panic
// value as an error so the caller can continue with the next plot instead of
// taking down the whole reader task.
func (g *Guard) Do(fn func(*Plot) error) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			name := "<unknown>"
			if g.plot != nil {
				name = g.plot.Meta.Name
			}
			logger.Warnf("recovered panic while reading plot %s: %v", name, r)
			err = fmt.Errorf("plot %s: recovered from panic: %v", name, r)
		}
	}()

	return fn(g.plot)
}

// Meta returns the guarded plot's identity without taking the lock; Meta is
// immutable for the lifetime of a Plot so this is always safe to read.
func (g *Guard) Meta() Meta {
	return g.plot.Meta
}
