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

import "fmt"

// ConfigError signals a plot that was rejected at startup (bad filename or
// size mismatch). Per spec.md §7 this is never fatal: the miner logs it and
// continues with the remaining plots.
type ConfigError struct {
	Path   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("plot %s: %s", e.Path, e.Reason)
}

func newConfigError(path, reason string, args ...any) *ConfigError {
	return &ConfigError{Path: path, Reason: fmt.Sprintf(reason, args...)}
}
