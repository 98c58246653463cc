/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap logger to Logger.
type ZapLogger struct {
	logger *zap.SugaredLogger
	level  zap.AtomicLevel
}

// NewZapLogger wraps l. The adapter keeps its own level gate so SetLevel works
// regardless of how l was built.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	core := &levelCore{Core: l.Core(), level: level}
	return &ZapLogger{
		logger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar(),
		level:  level,
	}
}

func (z *ZapLogger) SetLevel(level LogLevel) {
	switch level {
	case LogLevelDebug:
		z.level.SetLevel(zapcore.DebugLevel)
	case LogLevelInfo:
		z.level.SetLevel(zapcore.InfoLevel)
	case LogLevelWarn:
		z.level.SetLevel(zapcore.WarnLevel)
	case LogLevelError:
		z.level.SetLevel(zapcore.ErrorLevel)
	}
}

func (z *ZapLogger) Debug(msg string, fields ...interface{}) { z.logger.Debugw(msg, fields...) }

func (z *ZapLogger) Info(msg string, fields ...interface{}) { z.logger.Infow(msg, fields...) }

func (z *ZapLogger) Warn(msg string, fields ...interface{}) { z.logger.Warnw(msg, fields...) }

func (z *ZapLogger) Error(msg string, fields ...interface{}) { z.logger.Errorw(msg, fields...) }

// levelCore filters entries below level before the wrapped core sees them.
type levelCore struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l) && c.Core.Enabled(l)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), level: c.level}
}

func (c *levelCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

// ZerologLogger adapts a zerolog logger to Logger.
type ZerologLogger struct {
	logger zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: l}
}

func (z *ZerologLogger) SetLevel(level LogLevel) {
	switch level {
	case LogLevelDebug:
		z.logger = z.logger.Level(zerolog.DebugLevel)
	case LogLevelInfo:
		z.logger = z.logger.Level(zerolog.InfoLevel)
	case LogLevelWarn:
		z.logger = z.logger.Level(zerolog.WarnLevel)
	case LogLevelError:
		z.logger = z.logger.Level(zerolog.ErrorLevel)
	}
}

func (z *ZerologLogger) Debug(msg string, fields ...interface{}) {
	withFields(z.logger.Debug(), fields).Msg(msg)
}

func (z *ZerologLogger) Info(msg string, fields ...interface{}) {
	withFields(z.logger.Info(), fields).Msg(msg)
}

func (z *ZerologLogger) Warn(msg string, fields ...interface{}) {
	withFields(z.logger.Warn(), fields).Msg(msg)
}

func (z *ZerologLogger) Error(msg string, fields ...interface{}) {
	withFields(z.logger.Error(), fields).Msg(msg)
}

func withFields(e *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if err, ok := fields[i+1].(error); ok {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	return e
}
