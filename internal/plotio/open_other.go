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

//go:build !linux && !windows

package plotio

import "os"

// openPlotFile on platforms without a direct-I/O primitive (darwin, bsd)
// always opens buffered; callers must treat useDirectIO as advisory only,
// same as spec.md's macOS degrade path for sector-size discovery.
func openPlotFile(path string, useDirectIO bool) (*os.File, error) {
	return os.OpenFile(path, os.O_RDONLY, 0)
}
