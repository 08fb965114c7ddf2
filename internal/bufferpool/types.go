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

// Package bufferpool implements the fixed-size buffer pool (C3) that
// decouples drive reader tasks from consumer hashing workers. Buffers are
// tagged with a consumer id at construction time and never change id; the
// id selects which reply channel a filled buffer is routed to.
package bufferpool

// GPUSignal is the control code carried on a ReadReply alongside its data.
type GPUSignal int

const (
	// SignalData marks a reply carrying scoop bytes for hashing.
	SignalData GPUSignal = 0
	// SignalRoundStart wakes GPU consumers at the beginning of a round,
	// before any data reply for that round is sent.
	SignalRoundStart GPUSignal = 1
	// SignalDriveFinished marks the end of a drive's contribution to the
	// current round; sent exactly once per drive per round.
	SignalDriveFinished GPUSignal = 2
)

// CPUConsumerID is the fixed consumer id of the single CPU hasher channel.
// GPU consumer ids are 1..N.
const CPUConsumerID = 0

// Buffer is a fixed-capacity byte region owned by the pool and tagged with
// the consumer id its replies are routed to.
type Buffer struct {
	Data       []byte
	ConsumerID int
}

// BufferInfo is the metadata accompanying a filled Buffer.
type BufferInfo struct {
	Len          int
	Height       uint64
	Block        uint64
	BaseTarget   uint64
	Gensig       [32]byte
	StartNonce   uint64
	Finished     bool
	AccountID    uint64
	GPUSignal    GPUSignal
}

// ReadReply pairs a filled (or control) Buffer with its BufferInfo.
type ReadReply struct {
	Buffer *Buffer
	Info   BufferInfo
}
