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

package bufferpool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDistributesConsumerIDsRoundRobin(t *testing.T) {
	p := New(6, 1024, 2) // consumers: CPU(0), GPU(1), GPU(2)

	seen := map[int]int{}
	for i := 0; i < 6; i++ {
		buf := p.Acquire()
		seen[buf.ConsumerID]++
		p.Release(buf)
	}
	require.Equal(t, 2, seen[0])
	require.Equal(t, 2, seen[1])
	require.Equal(t, 2, seen[2])
}

func TestAcquireBlocksUntilRelease(t *testing.T) {
	p := New(1, 64, 0)
	buf := p.Acquire()

	done := make(chan *Buffer, 1)
	go func() {
		done <- p.Acquire()
	}()

	select {
	case <-done:
		t.Fatal("Acquire returned before Release, pool should be exhausted")
	case <-time.After(50 * time.Millisecond):
	}

	p.Release(buf)

	select {
	case got := <-done:
		require.NotNil(t, got)
	case <-time.After(time.Second):
		t.Fatal("Acquire never unblocked after Release")
	}
}

func TestRouteSendsToCPUChannel(t *testing.T) {
	p := New(2, 64, 1)
	buf := &Buffer{Data: make([]byte, 64), ConsumerID: CPUConsumerID}

	err := p.Route(ReadReply{Buffer: buf, Info: BufferInfo{Len: 64}})
	require.NoError(t, err)

	select {
	case reply := <-p.CPUReplies():
		require.Equal(t, 64, reply.Info.Len)
	case <-time.After(time.Second):
		t.Fatal("reply never arrived on CPU channel")
	}
}

func TestRouteSendsToMatchingGPUChannel(t *testing.T) {
	p := New(3, 64, 2)
	buf := &Buffer{Data: make([]byte, 64), ConsumerID: 2}

	err := p.Route(ReadReply{Buffer: buf, Info: BufferInfo{}})
	require.NoError(t, err)

	select {
	case reply := <-p.GPUReplies(1):
		require.Equal(t, 2, reply.Buffer.ConsumerID)
	case <-time.After(time.Second):
		t.Fatal("reply never arrived on GPU channel 1")
	}
}

func TestRouteRejectsUnknownConsumerID(t *testing.T) {
	p := New(1, 64, 1)
	buf := &Buffer{Data: make([]byte, 64), ConsumerID: 99}

	err := p.Route(ReadReply{Buffer: buf})
	require.Error(t, err)
}

func TestBroadcastGPUSignalReachesEveryGPUChannel(t *testing.T) {
	p := New(2, 64, 2)

	p.BroadcastGPUSignal(SignalRoundStart, BufferInfo{Height: 42})

	for i := 0; i < 2; i++ {
		select {
		case reply := <-p.GPUReplies(i):
			require.Equal(t, SignalRoundStart, reply.Info.GPUSignal)
			require.Equal(t, uint64(42), reply.Info.Height)
			require.Nil(t, reply.Buffer)
		case <-time.After(time.Second):
			t.Fatalf("gpu channel %d never received round-start marker", i)
		}
	}
}
