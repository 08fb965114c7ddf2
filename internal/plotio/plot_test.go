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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFakePlot(t *testing.T, dir, name string, size int64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, f.Truncate(size))
	return path
}

// S1: small plot, buffered I/O, scoop 0 read in a single full-scoop buffer.
func TestSmallPlotBufferedRead(t *testing.T) {
	dir := t.TempDir()
	path := writeFakePlot(t, dir, "123_0_10", 10*NonceSize)

	p, err := Open(path, false, false)
	require.NoError(t, err)
	defer p.Close()

	require.Equal(t, uint64(123), p.Meta.AccountID)
	require.Equal(t, uint64(0), p.Meta.StartNonce)
	require.Equal(t, uint64(10), p.Meta.Nonces)

	_, err = p.Prepare(0)
	require.NoError(t, err)

	buf := make([]byte, 640) // 10 nonces * ScoopSize(64)
	n, startNonce, finished, err := p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 640, n)
	require.Equal(t, uint64(0), startNonce)
	require.True(t, finished)
}

// S2: direct I/O downgrades to buffered when the plot is too small to give
// the sector size at least one sector's worth of bytes per scoop.
func TestDirectIODowngradeForSmallPlot(t *testing.T) {
	dir := t.TempDir()
	path := writeFakePlot(t, dir, "7_0_3", 3*NonceSize)

	p, err := Open(path, true, false)
	require.NoError(t, err)
	defer p.Close()

	// hostsvc degrades sector size discovery for a non-block-device path to
	// 4096; 4096/64 = 64 > 3 nonces, so direct I/O must be downgraded.
	require.False(t, p.useDirectIO)

	_, err = p.Prepare(1)
	require.NoError(t, err)

	buf := make([]byte, 8192)
	n, startNonce, finished, err := p.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 192, n) // NONCES * SCOOP_SIZE = 3 * 64
	require.Equal(t, uint64(3), startNonce)
	require.True(t, finished)
}

// S3: alignment preservation. Downward sector alignment must not shift the
// reported start_nonce, even though the physical seek address moves earlier
// in the file by align_offset bytes.
func TestAlignmentPreservationDoesNotShiftStartNonce(t *testing.T) {
	p := &Plot{
		Meta: Meta{
			AccountID:  1,
			StartNonce: 0,
			Nonces:     63,
			Name:       "1_0_63",
		},
		scoop:       1,
		useDirectIO: true,
		sectorSize:  512,
		dummy:       true,
	}

	seekAddr := uint64(1) * p.Meta.Nonces * ScoopSize // scoop=1 -> 4032
	require.Equal(t, uint64(4032), seekAddr)

	align := p.roundSeekAddr(&seekAddr)
	require.Equal(t, uint64(448), align) // 4032 mod 512
	require.Equal(t, uint64(3584), seekAddr)

	p.alignOffset = align
	p.seekBase = seekAddr

	buf := make([]byte, int(ScoopSize*p.Meta.Nonces))
	_, startNonce, finished, err := p.Read(buf)
	require.NoError(t, err)
	require.True(t, finished)
	require.Equal(t, uint64(63), startNonce, "start_nonce must not be shifted by align_offset")
}

func TestAlignmentNoopWhenAlreadyAligned(t *testing.T) {
	p := &Plot{
		Meta:        Meta{Nonces: 1_000_000},
		useDirectIO: true,
		sectorSize:  4096,
	}
	seekAddr := uint64(1) * p.Meta.Nonces * ScoopSize
	require.Equal(t, uint64(64_000_000), seekAddr)

	align := p.roundSeekAddr(&seekAddr)
	require.Equal(t, uint64(0), align)
	require.Equal(t, uint64(64_000_000), seekAddr)
}

func TestOpenRejectsMalformedFilename(t *testing.T) {
	dir := t.TempDir()
	path := writeFakePlot(t, dir, "not-a-valid-name", 1024)

	_, err := Open(path, false, false)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestOpenRejectsSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFakePlot(t, dir, "1_0_5", NonceSize) // claims 5 nonces, has 1

	_, err := Open(path, false, false)
	require.Error(t, err)
}
