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
	"os"
	"path/filepath"

	"github.com/danhill2020/signum-miner/internal/hostsvc"
	"github.com/danhill2020/signum-miner/internal/logger"
	"github.com/danhill2020/signum-miner/internal/plotio"
	"github.com/danhill2020/signum-miner/internal/reader"
)

// discoverPlots walks dirs for files matching the ACCOUNT_STARTNONCE_NONCES
// naming convention, opens each as a Plot, and groups the resulting guards
// by the drive each file lives on (per C1's device id). Files that fail to
// parse or fail their size check are logged as warnings and skipped; they never
// abort the scan.
func discoverPlots(dirs []string, useDirectIO bool) (reader.DriveTable, error) {
	byDrive := map[string][]*plotio.Guard{}
	driveOrder := []string{}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			logger.Warnf("discover: cannot read plot directory %s: %v", dir, err)
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())

			p, err := plotio.Open(path, useDirectIO, false)
			if err != nil {
				logger.Warnf("discover: skipping %s: %v", path, err)
				continue
			}

			driveID := hostsvc.DeviceID(path)
			if _, ok := byDrive[driveID]; !ok {
				driveOrder = append(driveOrder, driveID)
			}
			byDrive[driveID] = append(byDrive[driveID], plotio.NewGuard(p))
		}
	}

	table := make(reader.DriveTable, 0, len(driveOrder))
	for _, id := range driveOrder {
		table = append(table, reader.Drive{ID: id, Plots: byDrive[id]})
	}
	return table, nil
}
