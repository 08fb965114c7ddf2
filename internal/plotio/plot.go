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
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/danhill2020/signum-miner/internal/hostsvc"
	"github.com/danhill2020/signum-miner/internal/logger"
)

// Plot is a single opened plot file positioned for sequential scoop reads.
// A Plot is not safe for concurrent use; callers serialize access through a
// Guard (see guard.go).
type Plot struct {
	Meta Meta
	Path string

	fh *os.File

	scoop       uint32
	readOffset  uint64
	alignOffset uint64
	seekBase    uint64

	useDirectIO bool
	sectorSize  uint64

	// dummy skips the actual seek/read syscalls, used by benchmarks and
	// tests that only want to exercise the bookkeeping.
	dummy bool
}

// Open parses path's filename as ACCOUNT_STARTNONCE_NONCES, validates its
// size against the expected nonce count, and opens it for sequential
// scoop-major reads. Direct I/O is silently downgraded to buffered I/O when
// the plot is too small to satisfy one sector per scoop.
func Open(path string, useDirectIO bool, dummy bool) (*Plot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, newConfigError(path, "is a directory, not a plot file")
	}

	name := filepath.Base(path)
	parts := strings.Split(name, "_")
	if len(parts) != 3 {
		return nil, newConfigError(path, "plot file name has wrong format, expected ACCOUNT_STARTNONCE_NONCES")
	}

	accountID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return nil, newConfigError(path, "invalid account id %q: %v", parts[0], err)
	}
	startNonce, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, newConfigError(path, "invalid start nonce %q: %v", parts[1], err)
	}
	nonces, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return nil, newConfigError(path, "invalid nonce count %q: %v", parts[2], err)
	}

	expSize := nonces * NonceSize
	if uint64(info.Size()) != expSize {
		return nil, newConfigError(path, "expected plot size %d but got %d", expSize, info.Size())
	}

	fh, err := openPlotFile(path, useDirectIO)
	if err != nil {
		return nil, fmt.Errorf("opening plot %s: %w", name, err)
	}

	sectorSize := hostsvc.SectorSize(path)
	if useDirectIO && sectorSize/64 > nonces {
		logger.Warnf("not enough nonces for using direct io: plot=%s", name)
		useDirectIO = false
	}

	return &Plot{
		Meta: Meta{
			AccountID:  accountID,
			StartNonce: startNonce,
			Nonces:     nonces,
			Name:       name,
		},
		Path:        path,
		fh:          fh,
		useDirectIO: useDirectIO,
		sectorSize:  sectorSize,
		dummy:       dummy,
	}, nil
}

// Prepare seeks to the start of scoop, reopening the file handle so any
// readahead state from a prior round is discarded. When direct I/O is in
// effect, the seek address is rounded down to the enclosing sector boundary
// and the byte offset lost to rounding is retained in alignOffset so read
// can still deliver every byte of the scoop (see roundSeekAddr).
func (p *Plot) Prepare(scoop uint32) (uint64, error) {
	p.scoop = scoop
	p.readOffset = 0
	p.alignOffset = 0

	seekAddr := uint64(scoop) * p.Meta.Nonces * ScoopSize

	if err := p.fh.Close(); err != nil {
		return 0, err
	}
	fh, err := openPlotFile(p.Path, p.useDirectIO)
	if err != nil {
		return 0, err
	}
	p.fh = fh

	if p.useDirectIO {
		p.alignOffset = p.roundSeekAddr(&seekAddr)
	}
	p.seekBase = seekAddr

	off, err := p.fh.Seek(int64(seekAddr), 0)
	return uint64(off), err
}

// Read fills buf (up to cap(buf) bytes) with the next chunk of the current
// scoop, returning how many bytes were actually read, the nonce the chunk
// starts at, and whether the scoop has been fully consumed. When direct I/O
// is active, the final short chunk of a scoop is truncated down to a sector
// multiple: short reads under O_DIRECT fail, so the remainder (less than one
// sector) is not read this round; the next Prepare starts the scoop over.
func (p *Plot) Read(buf []byte) (bytesRead int, startNonce uint64, finished bool, err error) {
	readOffset := p.readOffset
	bufferCap := uint64(cap(buf))
	scoopBytes := ScoopSize * p.Meta.Nonces

	// The "+ scoop * nonces" term is a carried-over address from the
	// flat-file layout; callers that interpret the stream that way still
	// need it. "/ ScoopSize" converts the within-scoop byte offset to a
	// nonce index.
	startNonce = p.Meta.StartNonce + uint64(p.scoop)*p.Meta.Nonces + readOffset/ScoopSize

	var toRead uint64
	if readOffset+bufferCap >= scoopBytes {
		toRead = scoopBytes - readOffset
		if p.useDirectIO && p.sectorSize > 0 {
			if r := toRead % p.sectorSize; r != 0 {
				toRead -= r
			}
		}
		finished = true
	} else {
		toRead = bufferCap
		finished = false
	}

	if !p.dummy {
		seekAddr := int64(p.seekBase + p.alignOffset + readOffset)
		if _, err = p.fh.Seek(seekAddr, 0); err != nil {
			return 0, startNonce, false, err
		}
		if _, err = readFull(p.fh, buf[:toRead]); err != nil {
			return 0, startNonce, false, err
		}
	}

	p.readOffset += toRead
	return int(toRead), startNonce, finished, nil
}

// SeekRandom positions the file handle at a uniformly random scoop. It is
// used to exercise the read path outside of a mining round (warm-up reads,
// benchmarking) without disturbing readOffset bookkeeping.
func (p *Plot) SeekRandom() error {
	scoop := rand.Int63n(ScoopsInNonce)
	seekAddr := uint64(scoop) * p.Meta.Nonces * ScoopSize
	if p.useDirectIO {
		p.roundSeekAddr(&seekAddr)
	}
	_, err := p.fh.Seek(int64(seekAddr), 0)
	return err
}

// Close releases the underlying file handle.
func (p *Plot) Close() error {
	return p.fh.Close()
}

// roundSeekAddr aligns seekAddr down to the enclosing sector boundary and
// returns the byte delta removed. Aligning down (rather than up) keeps every
// byte of the target scoop reachable: rounding up would silently skip the
// first align bytes of the scoop, which previously desynchronized nonce
// accounting under direct I/O.
func (p *Plot) roundSeekAddr(seekAddr *uint64) uint64 {
	if p.sectorSize == 0 {
		return 0
	}
	r := *seekAddr % p.sectorSize
	if r != 0 {
		*seekAddr -= r
	}
	return r
}

func readFull(f *os.File, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := f.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
		if m == 0 {
			return n, fmt.Errorf("unexpected EOF after %d of %d bytes", n, len(buf))
		}
	}
	return n, nil
}
