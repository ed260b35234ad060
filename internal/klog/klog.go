// Copyright 2024 The Procsched Authors.
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

// Package klog is the kernel's logging sink. It wraps a single
// package-level logrus.Logger the way the upstream sentry's pkg/log
// wraps an Emitter: leveled helpers, a settable output, and structured
// fields for the concepts the scheduler cares about (tick, pid, cpu).
package klog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLevel adjusts the minimum level emitted. Valid names are the
// logrus level names ("debug", "info", "warning", ...).
func SetLevel(name string) error {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	std.SetLevel(lvl)
	return nil
}

// SetOutput redirects where log lines are written. cmd/procctl does not
// call it, so its log lines go to stderr.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Fields is a shorthand for the common (tick, pid, cpu) attribution
// scheduling events carry.
type Fields = logrus.Fields

// Debugf logs at debug level.
func Debugf(format string, args ...any) { std.Debugf(format, args...) }

// Infof logs at info level.
func Infof(format string, args ...any) { std.Infof(format, args...) }

// Warningf logs at warning level.
func Warningf(format string, args ...any) { std.Warnf(format, args...) }

// WithFields returns an entry carrying structured fields, for the
// scheduler's per-dispatch logging (tick, pid, cpu).
func WithFields(f Fields) *logrus.Entry {
	return std.WithFields(f)
}
