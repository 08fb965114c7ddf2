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

package cmd

import (
	"time"

	"github.com/danhill2020/signum-miner/internal/reader"
)

// RoundSource supplies successive RoundParams to drive the reader
// orchestrator. A real implementation would poll a pool/node's mining-info
// endpoint; fetching nonce submissions over the network is out of scope
// here, so the only implementation wired in by root.go is demoRoundSource,
// a ticker that synthesizes an incrementing round so the read pipeline can
// be exercised end to end without a network client.
type RoundSource interface {
	// Next blocks until the next round is available or stop fires, and
	// reports ok=false once stop has fired.
	Next(stop <-chan struct{}) (params reader.RoundParams, ok bool)
}

// demoRoundSource emits a new RoundParams every interval, incrementing
// Height and rotating Scoop, Gensig and BaseTarget deterministically off
// the previous round so repeated runs are reproducible.
type demoRoundSource struct {
	interval time.Duration
	height   uint64
}

func newDemoRoundSource(interval time.Duration) *demoRoundSource {
	return &demoRoundSource{interval: interval, height: 0}
}

func (d *demoRoundSource) Next(stop <-chan struct{}) (reader.RoundParams, bool) {
	if d.height > 0 {
		select {
		case <-stop:
			return reader.RoundParams{}, false
		case <-time.After(d.interval):
		}
	}

	d.height++
	var gensig [32]byte
	for i := range gensig {
		gensig[i] = byte(d.height + uint64(i))
	}

	return reader.RoundParams{
		Height:     d.height,
		Block:      d.height,
		BaseTarget: 240000 + d.height%1000,
		Scoop:      uint32(d.height % 4096),
		Gensig:     gensig,
	}, true
}
