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

// Package overlap implements the static overlap validator (C6): a pairwise
// check that no two plots owned by the same account cover intersecting
// nonce ranges.
package overlap

import (
	"github.com/danhill2020/signum-miner/internal/logger"
	"github.com/danhill2020/signum-miner/internal/plotio"
)

// Finding records one detected overlap.
type Finding struct {
	A, B         plotio.Meta
	SharedNonces uint64
}

// Check runs the pairwise O(n^2) same-account overlap check over every
// plot guarded in plots, logging one warning per overlapping pair and
// returning every finding. Overlaps are never fatal: the core proceeds
// with both plots regardless.
func Check(plots []*plotio.Guard) []Finding {
	metas := make([]plotio.Meta, len(plots))
	for i, g := range plots {
		metas[i] = g.Meta()
	}
	return CheckMetas(metas)
}

// CheckMetas is the pure, allocation-light core of Check, split out so
// tests can exercise it without constructing Guards.
func CheckMetas(metas []plotio.Meta) []Finding {
	var findings []Finding
	for i := 0; i < len(metas); i++ {
		for j := i + 1; j < len(metas); j++ {
			overlaps, shared := metas[i].OverlapsWith(metas[j])
			if !overlaps {
				continue
			}
			findings = append(findings, Finding{A: metas[i], B: metas[j], SharedNonces: shared})
			logger.Warnf("overlap: %s and %s share %d nonces!", metas[i].Name, metas[j].Name, shared)
		}
	}
	return findings
}
