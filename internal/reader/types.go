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

// Package reader implements the per-drive sequential reader task (C4) and
// the per-round fan-out orchestrator (C5).
package reader

import (
	"github.com/danhill2020/signum-miner/internal/plotio"
)

// Drive is one entry of a DriveTable: an opaque drive id and the ordered
// list of plots resident on it. The reader visits plots within a drive in
// this exact order.
type Drive struct {
	ID    string
	Plots []*plotio.Guard
}

// DriveTable maps drives to their ordered plots. It is replaced atomically
// between rounds by UpdatePlots and never mutated in place during a round.
type DriveTable []Drive

// TotalNonces sums the nonce count of every plot across every drive; used
// for progress reporting.
func (t DriveTable) TotalNonces() uint64 {
	var total uint64
	for _, d := range t {
		for _, g := range d.Plots {
			total += g.Meta().Nonces
		}
	}
	return total
}

// TotalBytes returns the total scoop-region bytes the current round will
// read across every drive (one scoop per plot).
func (t DriveTable) TotalBytes() uint64 {
	return t.TotalNonces() * plotio.ScoopSize
}

// RoundParams identifies one mining round's work.
type RoundParams struct {
	Height     uint64
	Block      uint64
	BaseTarget uint64
	Scoop      uint32
	Gensig     [32]byte
}
