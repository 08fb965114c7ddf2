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

// Package util holds small path-resolution helpers used by cmd.
package util

import (
	"os"
	"path/filepath"
	"strings"
)

// ParentProcessDirEnv names the environment variable a daemonized child
// process uses to recall its parent's working directory, since the child
// may have since chdir'd elsewhere before resolving a relative flag value.
const ParentProcessDirEnv = "SIGNUM_MINER_PARENT_PROCESS_DIR"

// GetResolvedPath resolves path to an absolute path:
//   - "" resolves to "".
//   - a path starting with "~" resolves against the user's home directory,
//     regardless of ParentProcessDirEnv.
//   - an already-absolute path is returned unchanged.
//   - any other (relative) path is resolved against ParentProcessDirEnv if
//     set, else against the current working directory.
func GetResolvedPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}

	if filepath.IsAbs(path) {
		return path, nil
	}

	base := os.Getenv(ParentProcessDirEnv)
	if base == "" {
		var err error
		base, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(base, path), nil
}
