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

//go:build windows

package plotio

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

const (
	fileFlagNoBuffering     = 0x20000000
	fileFlagSequentialScan  = 0x08000000
	fileFlagRandomAccess    = 0x10000000
)

// openPlotFile mirrors spec.md §6: FILE_FLAG_NO_BUFFERING for direct I/O,
// else FILE_FLAG_SEQUENTIAL_SCAN|FILE_FLAG_RANDOM_ACCESS hints.
func openPlotFile(path string, useDirectIO bool) (*os.File, error) {
	pathp, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	attrs := uint32(windows.FILE_ATTRIBUTE_NORMAL)
	if useDirectIO {
		attrs |= fileFlagNoBuffering
	} else {
		attrs |= fileFlagSequentialScan | fileFlagRandomAccess
	}

	h, err := windows.CreateFile(
		pathp,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ,
		nil,
		windows.OPEN_EXISTING,
		attrs,
		0,
	)
	if err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(h), path), nil
}

var _ = syscall.Handle(0) // keep syscall import if windows.Handle aliases change
