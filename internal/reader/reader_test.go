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
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danhill2020/signum-miner/internal/bufferpool"
	"github.com/danhill2020/signum-miner/internal/hostsvc"
	"github.com/danhill2020/signum-miner/internal/plotio"
)

func writeFakePlot(t *testing.T, dir, name string, nonces uint64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, f.Truncate(int64(nonces*plotio.NonceSize)))
	return path
}

func openGuard(t *testing.T, path string) *plotio.Guard {
	t.Helper()
	p, err := plotio.Open(path, false, false)
	require.NoError(t, err)
	return plotio.NewGuard(p)
}

// S4: an interrupt sent between plots makes the task return its in-hand
// buffer for the second plot and exit without routing it, so no
// finished=true reply is produced.
func TestDriveTaskInterruptBetweenPlots(t *testing.T) {
	dir := t.TempDir()
	p1 := openGuard(t, writeFakePlot(t, dir, "1_0_1", 1))
	p2 := openGuard(t, writeFakePlot(t, dir, "1_1_1", 1))

	pool := bufferpool.New(1, int(plotio.ScoopSize), 0)
	interrupt := make(chan struct{}, 1)

	var bytesRead atomic.Int64
	done := make(chan struct{})
	go func() {
		driveTask("drive-1", []*plotio.Guard{p1, p2}, RoundParams{Scoop: 0}, pool, interrupt, false, &bytesRead)
		close(done)
	}()

	// Receive one reply: the single scoop from p1 (nonces=1, so the first
	// read empties its scoop; Finished stays false because p1 is not the
	// drive's last plot). The task is now blocked in Acquire for p2, since
	// the pool has only one buffer. Interrupt before handing the buffer back,
	// so the task's check after filling p2's buffer sees the interrupt.
	var reply bufferpool.ReadReply
	select {
	case reply = <-pool.CPUReplies():
		require.False(t, reply.Info.Finished)
	case <-time.After(time.Second):
		t.Fatal("expected a reply from the first plot")
	}

	interrupt <- struct{}{}
	pool.Release(reply.Buffer)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drive task never exited after interrupt")
	}

	select {
	case extra := <-pool.CPUReplies():
		t.Fatalf("unexpected reply after interrupt: finished=%v", extra.Info.Finished)
	default:
	}
}

// S6: two drives with one plot each run concurrently, each producing its own
// finished=true reply and its own drive-finished GPU marker.
func TestOrchestratorRunsDrivesConcurrently(t *testing.T) {
	dir := t.TempDir()
	d1 := openGuard(t, writeFakePlot(t, dir, "1_0_2", 2))
	d2 := openGuard(t, writeFakePlot(t, dir, "2_0_2", 2))

	bufpool := bufferpool.New(4, int(plotio.ScoopSize)*2, 1)
	hostPool := hostsvc.NewThreadPool(2, false)
	defer hostPool.Stop()

	orch := NewOrchestrator(hostPool, bufpool, false)
	orch.UpdatePlots(DriveTable{
		{ID: "drive-1", Plots: []*plotio.Guard{d1}},
		{ID: "drive-2", Plots: []*plotio.Guard{d2}},
	}, true)

	orch.StartReading(RoundParams{Height: 1, Block: 1, Scoop: 0})

	// Buffers alternate between the CPU consumer and the one GPU consumer,
	// so a drive's finished=true data reply may arrive on either channel.
	finishedCount := 0
	driveFinishedMarkers := 0
	deadline := time.After(2 * time.Second)
	for finishedCount < 2 {
		select {
		case reply := <-bufpool.CPUReplies():
			if reply.Info.Finished {
				finishedCount++
			}
			bufpool.Release(reply.Buffer)
		case reply := <-bufpool.GPUReplies(0):
			switch reply.Info.GPUSignal {
			case bufferpool.SignalDriveFinished:
				driveFinishedMarkers++
			case bufferpool.SignalData:
				if reply.Info.Finished {
					finishedCount++
				}
				bufpool.Release(reply.Buffer)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for both drives to finish, got %d", finishedCount)
		}
	}

	for driveFinishedMarkers < 2 {
		select {
		case reply := <-bufpool.GPUReplies(0):
			if reply.Info.GPUSignal == bufferpool.SignalDriveFinished {
				driveFinishedMarkers++
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for drive-finished markers, got %d", driveFinishedMarkers)
		}
	}
}
