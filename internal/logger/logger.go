// Copyright 2024 The Signum-Miner Authors.
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

// Package logger provides a small leveled wrapper over log/slog, used by
// every component of the miner instead of ad-hoc fmt.Printf/log.Printf
// calls. Severity names (TRACE/DEBUG/INFO/WARNING/ERROR) and the text/json
// format switch mirror the conventions of the wider ecosystem this project
// was lifted from.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

const (
	LevelTrace   = slog.Level(-8)
	LevelDebug   = slog.LevelDebug
	LevelInfo    = slog.LevelInfo
	LevelWarning = slog.LevelWarn
	LevelError   = slog.LevelError
)

var severityNames = map[slog.Leveler]string{
	LevelTrace:   "TRACE",
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarning: "WARNING",
	LevelError:   "ERROR",
}

// Format selects the on-disk/stderr encoding for log records.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type factory struct{}

var defaultFactory = factory{}
var defaultLogger = defaultFactory.newLogger(os.Stderr, FormatText, LevelInfo)

func (factory) newLogger(w io.Writer, format Format, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				lvl := a.Value.Any().(slog.Level)
				name, ok := severityNames[lvl]
				if !ok {
					name = lvl.String()
				}
				a.Key = "severity"
				a.Value = slog.StringValue(name)
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339Nano))
			}
			return a
		},
	}
	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// Init replaces the process-wide default logger. Safe to call once at
// startup from cmd; components that were handed a *Logger before Init was
// called keep logging through the old sink (same as the teacher's pattern
// of late-binding the global via SetLogger).
func Init(w io.Writer, format Format, level string) {
	defaultLogger = defaultFactory.newLogger(w, format, parseLevel(level))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return LevelDebug
	case "WARNING":
		return LevelWarning
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func Tracef(format string, v ...any) { logAttrs(context.Background(), LevelTrace, format, v...) }
func Debugf(format string, v ...any) { logAttrs(context.Background(), LevelDebug, format, v...) }
func Infof(format string, v ...any)  { logAttrs(context.Background(), LevelInfo, format, v...) }
func Warnf(format string, v ...any)  { logAttrs(context.Background(), LevelWarning, format, v...) }
func Errorf(format string, v ...any) { logAttrs(context.Background(), LevelError, format, v...) }

func logAttrs(ctx context.Context, level slog.Level, format string, v ...any) {
	if !defaultLogger.Enabled(ctx, level) {
		return
	}
	defaultLogger.Log(ctx, level, fmt.Sprintf(format, v...))
}

// Logger is a scoped handle for components that want stable attributes
// (drive id, plot name) attached to every record without repeating them.
type Logger struct {
	base *slog.Logger
}

// With returns a scoped Logger tagging every subsequent record with attrs.
func With(attrs ...any) *Logger {
	return &Logger{base: defaultLogger.With(attrs...)}
}

func (l *Logger) Tracef(format string, v ...any) { l.log(LevelTrace, format, v...) }
func (l *Logger) Debugf(format string, v ...any) { l.log(LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.log(LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.log(LevelWarning, format, v...) }
func (l *Logger) Errorf(format string, v ...any) { l.log(LevelError, format, v...) }

func (l *Logger) log(level slog.Level, format string, v ...any) {
	ctx := context.Background()
	if !l.base.Enabled(ctx, level) {
		return
	}
	l.base.Log(ctx, level, fmt.Sprintf(format, v...))
}
