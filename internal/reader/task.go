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
	"sync/atomic"
	"time"

	"github.com/danhill2020/signum-miner/internal/bufferpool"
	"github.com/danhill2020/signum-miner/internal/logger"
	"github.com/danhill2020/signum-miner/internal/plotio"
)

// driveTask is spawned once per drive per round. It visits plots serially,
// holding each plot's guard for the full duration of prepare+reads, pulling
// empty buffers from pool and routing filled ones to the matching consumer
// channel. It checks for interrupt once per buffer fill, never mid-read.
func driveTask(driveID string, plots []*plotio.Guard, params RoundParams, pool *bufferpool.Pool, interrupt <-chan struct{}, showDriveStats bool, bytesRead *atomic.Int64) {
	start := time.Now()
	var nonces uint64
	plotCount := len(plots)

outer:
	for i, guard := range plots {
		isLast := i == plotCount-1
		interrupted := false

		err := guard.Do(func(p *plotio.Plot) error {
			if _, err := p.Prepare(params.Scoop); err != nil {
				logger.Warnf("reader: error preparing %s for reading: %v -> skip one round", p.Meta.Name, err)
				return nil
			}

			for {
				buf := pool.Acquire()

				n, startNonce, nextPlot, readErr := p.Read(buf.Data)
				if readErr != nil {
					logger.Warnf("reader: error reading chunk from %s: %v -> skip one round", p.Meta.Name, readErr)
					n = 0
					nextPlot = true
				}

				select {
				case <-interrupt:
					pool.Release(buf)
					interrupted = true
					return nil
				default:
				}

				finished := isLast && nextPlot
				reply := bufferpool.ReadReply{
					Buffer: buf,
					Info: bufferpool.BufferInfo{
						Len:        n,
						Height:     params.Height,
						Block:      params.Block,
						BaseTarget: params.BaseTarget,
						Gensig:     params.Gensig,
						StartNonce: startNonce,
						Finished:   finished,
						AccountID:  p.Meta.AccountID,
						GPUSignal:  bufferpool.SignalData,
					},
				}
				if err := pool.Route(reply); err != nil {
					logger.Warnf("reader: failed to route read reply for drive %s: %v -> stopping", driveID, err)
					pool.Release(buf)
					interrupted = true
					return nil
				}

				if bytesRead != nil {
					bytesRead.Add(int64(n))
				}
				nonces += uint64(n) / plotio.ScoopSize

				if finished {
					pool.BroadcastGPUSignal(bufferpool.SignalDriveFinished, bufferpool.BufferInfo{
						Height:     params.Height,
						Block:      params.Block,
						BaseTarget: params.BaseTarget,
						Gensig:     params.Gensig,
					})
				}

				if nextPlot {
					return nil
				}
			}
		})

		if err != nil {
			logger.Warnf("reader: drive %s: plot guard error: %v", driveID, err)
		}
		if interrupted {
			break outer
		}
	}

	if showDriveStats {
		elapsed := time.Since(start)
		mibPerSec := float64(0)
		if elapsed > 0 {
			mibPerSec = float64(nonces*plotio.ScoopSize) / elapsed.Seconds() / (1024 * 1024)
		}
		logger.Infof("drive %s finished, speed=%.2f MiB/s", driveID, mibPerSec)
	}
}
