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

//go:build linux

package plotio

import (
	"os"

	"golang.org/x/sys/unix"
)

// openPlotFile opens path read-only, applying O_DIRECT when useDirectIO is
// requested (spec.md §6: "Direct I/O uses O_DIRECT on Linux").
func openPlotFile(path string, useDirectIO bool) (*os.File, error) {
	flags := os.O_RDONLY
	if useDirectIO {
		flags |= unix.O_DIRECT
	}
	f, err := os.OpenFile(path, flags, 0)
	if err != nil {
		return nil, err
	}
	if !useDirectIO {
		// Sequential-scan hint: tell the kernel this fd will be read start
		// to finish so readahead can be aggressive.
		_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
	}
	return f, nil
}
