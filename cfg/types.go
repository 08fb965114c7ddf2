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

package cfg

import (
	"fmt"
	"strconv"
	"strings"
)

// ByteSize is the datatype for params that accept a human-friendly size
// like "4Ki" or "1Mi", stored internally as a plain byte count.
type ByteSize uint64

var byteSizeUnits = map[string]uint64{
	"":   1,
	"k":  1000,
	"ki": 1024,
	"m":  1000 * 1000,
	"mi": 1024 * 1024,
	"g":  1000 * 1000 * 1000,
	"gi": 1024 * 1024 * 1024,
}

func (b *ByteSize) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*b = 0
		return nil
	}

	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9') {
		i++
	}
	if i == 0 {
		return fmt.Errorf("invalid byte size %q: no leading digits", s)
	}
	numPart := s[:i]
	unitPart := strings.ToLower(strings.TrimSpace(s[i:]))

	mult, ok := byteSizeUnits[unitPart]
	if !ok {
		return fmt.Errorf("invalid byte size %q: unknown unit %q", s, unitPart)
	}

	n, err := strconv.ParseUint(numPart, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	*b = ByteSize(n * mult)
	return nil
}

func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(b), 10)), nil
}

// LogLevel is the datatype for the logging.severity config field.
type LogLevel string

const (
	LogLevelTrace   LogLevel = "TRACE"
	LogLevelDebug   LogLevel = "DEBUG"
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARNING"
	LogLevelError   LogLevel = "ERROR"
)

func (l *LogLevel) UnmarshalText(text []byte) error {
	v := LogLevel(strings.ToUpper(string(text)))
	switch v {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		*l = v
		return nil
	default:
		return fmt.Errorf("invalid log level %q", string(text))
	}
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l), nil
}
