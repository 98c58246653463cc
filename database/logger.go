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
	"strings"
	"sync"

	"github.com/tomoncle/easyrepo/utils"
)

// LoggerName is the name of the default logrus logger.
const LoggerName = "EASYREPO"

var (
	globalLogger   Logger
	globalLoggerMu sync.RWMutex
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "DEBUG"
	}
}

// ParseLogLevel maps "debug", "info", "warn"/"warning" and "error" to a
// LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error", "fatal", "panic":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger is the structured logger used by the database managers and the
// repository adapters. fields are alternating keys and values.
type Logger interface {
	SetLevel(LogLevel)
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// InitLogger installs log as the process-wide logger. A nil log is ignored.
func InitLogger(log Logger) {
	if log == nil {
		return
	}
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = log
}

// GetLogger returns the process-wide logger, creating the logrus-backed
// default on first use.
func GetLogger() Logger {
	globalLoggerMu.RLock()
	l := globalLogger
	globalLoggerMu.RUnlock()
	if l != nil {
		return l
	}

	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	if globalLogger == nil {
		globalLogger = &DefaultLogger{logger: utils.NewLogger(LoggerName)}
	}
	return globalLogger
}

// DefaultLogger writes through a named logrus logger from utils.
type DefaultLogger struct {
	logger *utils.Logger
}

func (l *DefaultLogger) Debug(msg string, fields ...interface{}) {
	l.logger.Debug(msg + formatFields(fields...))
}

func (l *DefaultLogger) Info(msg string, fields ...interface{}) {
	l.logger.Info(msg + formatFields(fields...))
}

func (l *DefaultLogger) Warn(msg string, fields ...interface{}) {
	l.logger.Warn(msg + formatFields(fields...))
}

func (l *DefaultLogger) Error(msg string, fields ...interface{}) {
	l.logger.Error(msg + formatFields(fields...))
}

func (l *DefaultLogger) SetLevel(level LogLevel) {
	utils.SetLoggerLevel(LoggerName, strings.ToLower(level.String()))
}

func formatFields(fields ...interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	return b.String()
}
