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

import "fmt"

// Pool owns a fixed set of Buffers and the channels that move them between
// drive reader tasks and consumer hashing workers. empty_buffers is the
// backpressure point of the whole pipeline: if consumers stall, reader
// tasks block on Acquire.
type Pool struct {
	bufferSize int

	empty chan *Buffer

	repliesCPU  chan ReadReply
	repliesGPU  []chan ReadReply
}

// New builds a pool of count buffers, each of bufferSize capacity, with one
// CPU consumer (id 0) and gpuWorkers GPU consumers (ids 1..gpuWorkers). The
// pool provides no prioritization: ordering is FIFO per channel.
func New(count, bufferSize, gpuWorkers int) *Pool {
	if count < 1 {
		count = 1
	}
	if gpuWorkers < 0 {
		gpuWorkers = 0
	}

	p := &Pool{
		bufferSize: bufferSize,
		empty:      make(chan *Buffer, count),
		repliesCPU: make(chan ReadReply, count),
		repliesGPU: make([]chan ReadReply, gpuWorkers),
	}
	for i := range p.repliesGPU {
		p.repliesGPU[i] = make(chan ReadReply, count)
	}

	consumerIDs := gpuWorkers + 1 // CPU + each GPU
	for i := 0; i < count; i++ {
		consumer := i % consumerIDs
		p.empty <- &Buffer{Data: make([]byte, bufferSize), ConsumerID: consumer}
	}

	return p
}

// BufferSize returns the fixed capacity of every buffer in the pool.
func (p *Pool) BufferSize() int { return p.bufferSize }

// GPUWorkers returns the number of GPU consumer channels.
func (p *Pool) GPUWorkers() int { return len(p.repliesGPU) }

// Acquire blocks until an empty buffer is available. This is the pipeline's
// sole backpressure source.
func (p *Pool) Acquire() *Buffer {
	return <-p.empty
}

// Release returns buf to the empty-buffer channel. Every buffer taken from
// Acquire must eventually reach either Release or Route, never both and
// never neither.
func (p *Pool) Release(buf *Buffer) {
	p.empty <- buf
}

// Route sends reply on the channel matching reply.Buffer.ConsumerID: the CPU
// channel for id 0, the matching GPU channel for id > 0.
func (p *Pool) Route(reply ReadReply) error {
	id := reply.Buffer.ConsumerID
	if id == CPUConsumerID {
		p.repliesCPU <- reply
		return nil
	}
	idx := id - 1
	if idx < 0 || idx >= len(p.repliesGPU) {
		return fmt.Errorf("bufferpool: no GPU channel for consumer id %d", id)
	}
	p.repliesGPU[idx] <- reply
	return nil
}

// CPUReplies returns the CPU consumer's reply channel.
func (p *Pool) CPUReplies() <-chan ReadReply { return p.repliesCPU }

// GPUReplies returns the reply channel for GPU consumer idx (0-based).
func (p *Pool) GPUReplies(idx int) <-chan ReadReply { return p.repliesGPU[idx] }

// BroadcastGPUSignal sends a dummy control-only ReadReply (no data, the
// given signal) to every GPU channel. Used for the round-start marker
// (signal=1, sent by the orchestrator before spawning drive tasks) and the
// drive-finished marker (signal=2, sent by a drive task after its last data
// reply).
func (p *Pool) BroadcastGPUSignal(signal GPUSignal, info BufferInfo) {
	info.GPUSignal = signal
	for _, ch := range p.repliesGPU {
		ch <- ReadReply{Buffer: nil, Info: info}
	}
}
