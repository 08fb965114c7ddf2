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

// Package plotio implements the plot file format and the per-plot reader
// (C2 in spec.md): filename/size parsing, sector-aligned seeking over the
// PoC2 scoop-major layout, and per-plot mutual exclusion with recoverable
// "poisoned guard" semantics.
package plotio

const (
	// HashSize is the Shabal256 digest size in bytes.
	HashSize = 32
	// ScoopSize is the size in bytes of a single scoop.
	ScoopSize = HashSize * 2
	// ScoopsInNonce is the number of scoops stored per nonce.
	ScoopsInNonce = 4096
	// NonceSize is the total size in bytes of one nonce's data.
	NonceSize = ScoopSize * ScoopsInNonce
)

// Meta is a plot's immutable identity, parsed once from its filename and
// verified against its file size.
type Meta struct {
	AccountID  uint64
	StartNonce uint64
	Nonces     uint64
	Name       string
}

// End returns the exclusive end of this Meta's nonce interval.
func (m Meta) End() uint64 { return m.StartNonce + m.Nonces }

// OverlapsWith reports whether m and other share an account and have
// intersecting nonce ranges, and if so the number of nonces they share
// (spec.md §8 property 7: overlap == min(a.end,b.end) - max(a.start,b.start)).
func (m Meta) OverlapsWith(other Meta) (overlaps bool, sharedNonces uint64) {
	if m.AccountID != other.AccountID {
		return false, 0
	}
	if m.StartNonce >= other.End() || other.StartNonce >= m.End() {
		return false, 0
	}
	lo := maxU64(m.StartNonce, other.StartNonce)
	hi := minU64(m.End(), other.End())
	return true, hi - lo
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
