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
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danhill2020/signum-miner/internal/plotio"
)

func writeFakePlot(t *testing.T, dir string, account, startNonce, nonces uint64) string {
	t.Helper()
	name := fmt.Sprintf("%d_%d_%d", account, startNonce, nonces)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, nonces*plotio.NonceSize), 0o600))
	return path
}

func TestDiscoverPlotsGroupsByDriveAndSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFakePlot(t, dir, 1, 0, 1)
	writeFakePlot(t, dir, 2, 0, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "not-a-plot.txt"), []byte("junk"), 0o600))

	table, err := discoverPlots([]string{dir}, false)
	require.NoError(t, err)
	require.Len(t, table, 1, "files under one directory share a drive id")
	assert.Len(t, table[0].Plots, 2)
}

func TestDiscoverPlotsToleratesMissingDirectory(t *testing.T) {
	table, err := discoverPlots([]string{filepath.Join(t.TempDir(), "does-not-exist")}, false)
	require.NoError(t, err)
	assert.Empty(t, table)
}
