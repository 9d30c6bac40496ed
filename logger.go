// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import "go.uber.org/zap"

// Logger is the structured logging seam used throughout this package. It is
// intentionally small so any structured logger can satisfy it with a thin
// adapter; NewZapLogger below is the default production adapter.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

// nopLogger discards everything. It is the zero-value Logger used by
// Producer and Client when no Logger is supplied, and by tests that don't
// care about log output.
type nopLogger struct{}

func (nopLogger) Debugw(string, ...any) {}
func (nopLogger) Infow(string, ...any)  {}
func (nopLogger) Errorw(string, ...any) {}

var _ Logger = nopLogger{}

// zapLogger adapts a *zap.SugaredLogger to Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps z as a Logger. Passing nil returns a Logger that
// discards all output.
func NewZapLogger(z *zap.Logger) Logger {
	if z == nil {
		return nopLogger{}
	}
	return &zapLogger{sugar: z.Sugar()}
}

func (l *zapLogger) Debugw(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *zapLogger) Infow(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *zapLogger) Errorw(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, keysAndValues...)
}

var _ Logger = (*zapLogger)(nil)
