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

// Package hostsvc is the host-services interface (C1): per-path sector
// size, device id and bus type, plus the pinned worker pool primitive the
// reader orchestrator spawns drive tasks onto. Every exported function
// degrades gracefully (never panics, never blocks a round) when platform
// introspection fails — see spec.md §4.1.
package hostsvc

import "github.com/danhill2020/signum-miner/internal/logger"

// DefaultSectorSize is returned whenever device introspection fails or the
// platform isn't supported, per spec.
const DefaultSectorSize = 4096

// SectorSize returns the physical sector size of the block device backing
// path, or DefaultSectorSize on any failure. The result is always a power
// of two.
func SectorSize(path string) uint64 {
	size, err := platformSectorSize(path)
	if err != nil || size == 0 || size&(size-1) != 0 {
		if err != nil {
			logger.Warnf("hostsvc: sector size lookup for %s failed, defaulting to %d: %v", path, DefaultSectorSize, err)
		}
		return DefaultSectorSize
	}
	return size
}

// DeviceID returns an opaque, stable identifier shared by every path on the
// same physical drive. Used as the DriveTable key.
func DeviceID(path string) string {
	id, err := platformDeviceID(path)
	if err != nil || id == "" {
		logger.Warnf("hostsvc: device id lookup for %s failed, using path as fallback key: %v", path, err)
		return path
	}
	return id
}

// BusType returns an advisory transport tag for path's backing device.
func BusType(path string) string {
	return platformBusType(path)
}
