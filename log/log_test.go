// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{LevelFatal, zapcore.FatalLevel},
		{"verbose", zapcore.InfoLevel}, // unrecognized names fall back
	}

	for _, tc := range cases {
		SetLevel(tc.in)
		assert.Equal(t, tc.want, zapLevel.Level(), "SetLevel(%q)", tc.in)
	}
}

func TestPackageHelpersUseDefault(t *testing.T) {
	rec := &recordLogger{}
	old := Default
	Default = rec
	t.Cleanup(func() { Default = old })

	Debug("d")
	Debugf("%s", "d")
	Info("i")
	Infof("%s", "i")
	Warn("w")
	Warnf("%s", "w")
	Error("e")
	Errorf("%s", "e")
	Fatal("f")
	Fatalf("%s", "f")

	assert.Equal(t, []string{
		"debug", "debugf", "info", "infof", "warn", "warnf",
		"error", "errorf", "fatal", "fatalf",
	}, rec.calls)
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop.Debugf("round %d", 1)
		Nop.Infof("run %s", "id")
		Nop.Warn("w")
		Nop.Error("e")
	})
}

// recordLogger notes which level each call came in on, so the package
// helpers can be driven without a real backend (and Fatal without exiting).
type recordLogger struct {
	calls []string
}

func (r *recordLogger) Debug(args ...any)                 { r.calls = append(r.calls, "debug") }
func (r *recordLogger) Debugf(format string, args ...any) { r.calls = append(r.calls, "debugf") }
func (r *recordLogger) Info(args ...any)                  { r.calls = append(r.calls, "info") }
func (r *recordLogger) Infof(format string, args ...any)  { r.calls = append(r.calls, "infof") }
func (r *recordLogger) Warn(args ...any)                  { r.calls = append(r.calls, "warn") }
func (r *recordLogger) Warnf(format string, args ...any)  { r.calls = append(r.calls, "warnf") }
func (r *recordLogger) Error(args ...any)                 { r.calls = append(r.calls, "error") }
func (r *recordLogger) Errorf(format string, args ...any) { r.calls = append(r.calls, "errorf") }
func (r *recordLogger) Fatal(args ...any)                 { r.calls = append(r.calls, "fatal") }
func (r *recordLogger) Fatalf(format string, args ...any) { r.calls = append(r.calls, "fatalf") }
