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

package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type Logger = logrus.Logger

const defaultTimestampFormat = "2006-01-02 15:04:05.000"

const (
	ansiReset   = "\x1b[0m"
	ansiRed     = "\x1b[31m"
	ansiGreen   = "\x1b[32m"
	ansiYellow  = "\x1b[33m"
	ansiBlue    = "\x1b[34m"
	ansiMagenta = "\x1b[35m"
	ansiCyan    = "\x1b[36m"
	ansiFaint   = "\x1b[2m"
)

var loggerRegistryMu sync.RWMutex

var (
	loggerRegistry   = map[string]*logrus.Logger{}
	defaultLevel     = ParseLogLevel(EnvDefaultString("LOG_LEVEL", "info"))
	consoleLogFormat = EnvDefaultString("CONSOLE_LOG_FORMAT", "text")
)

var logOutput io.Writer = os.Stdout

// ConfigureConsoleLogFormat selects "json" or "text" for loggers created
// afterwards.
func ConfigureConsoleLogFormat(format string) {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	if strings.ToLower(strings.TrimSpace(format)) == "json" {
		consoleLogFormat = "json"
	} else {
		consoleLogFormat = "text"
	}
}

// ConfigureOutput redirects every registered and future logger to w.
func ConfigureOutput(w io.Writer) {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	logOutput = w
	for _, lg := range loggerRegistry {
		lg.SetOutput(w)
	}
}

// ConfigureLogLevel sets the level of every registered and future logger.
func ConfigureLogLevel(levelStr string) {
	lvl := ParseLogLevel(levelStr)
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	defaultLevel = lvl
	for _, lg := range loggerRegistry {
		lg.SetLevel(lvl)
	}
}

func ParseLogLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLoggerLevel changes the level of one registered logger. It reports
// whether a logger with that name exists.
func SetLoggerLevel(name string, lvlStr string) bool {
	loggerRegistryMu.RLock()
	lg, ok := loggerRegistry[name]
	loggerRegistryMu.RUnlock()
	if !ok {
		return false
	}
	lg.SetLevel(ParseLogLevel(lvlStr))
	return true
}

// NewLogger returns the logger registered under name, creating it with the
// current format, level and output if needed.
func NewLogger(name string) *logrus.Logger {
	loggerRegistryMu.Lock()
	defer loggerRegistryMu.Unlock()
	if l, ok := loggerRegistry[name]; ok {
		return l
	}

	l := logrus.New()
	l.SetOutput(logOutput)
	l.SetLevel(defaultLevel)
	l.SetReportCaller(true)
	if consoleLogFormat == "json" {
		l.SetFormatter(&JSONLogFormatter{LoggerName: name})
	} else {
		l.SetFormatter(&Log4jColorFormatter{LoggerName: name, NameWidth: 10, ColorCaller: true})
	}
	loggerRegistry[name] = l
	return l
}

// Log4jColorFormatter renders "time LEVEL pid --- [name] file:line : message".
type Log4jColorFormatter struct {
	LoggerName      string
	TimestampFormat string
	ColorCaller     bool
	NameWidth       int
}

func (f *Log4jColorFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	ts := entry.Time.Format(tsFormat(f.TimestampFormat))
	lvl := colorLevel(fmt.Sprintf("%7s", strings.ToUpper(entry.Level.String())), entry.Level)
	pid := colorWrap(fmt.Sprintf("%-6d", os.Getpid()), ansiMagenta)
	name := f.LoggerName
	if f.NameWidth > 0 {
		if r := []rune(name); len(r) > f.NameWidth {
			name = string(r[:f.NameWidth])
		}
		name = fmt.Sprintf("%*s", f.NameWidth, name)
	}
	caller := callerOf(entry)
	if caller != "" && f.ColorCaller {
		caller = colorWrap(caller, ansiFaint)
	}
	line := fmt.Sprintf("%s %s %s --- [%s] %s : %s\n", ts, lvl, pid, colorWrap(name, ansiCyan), caller, entry.Message)
	return []byte(line), nil
}

// JSONLogFormatter renders one JSON object per entry.
type JSONLogFormatter struct {
	LoggerName      string
	TimestampFormat string
}

func (f *JSONLogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	record := map[string]interface{}{
		"time":    entry.Time.Format(tsFormat(f.TimestampFormat)),
		"level":   strings.ToLower(entry.Level.String()),
		"logger":  f.LoggerName,
		"message": entry.Message,
	}
	if caller := callerOf(entry); caller != "" {
		record["caller"] = caller
	}
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		record[k] = v
	}
	b, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func tsFormat(f string) string {
	if f != "" {
		return f
	}
	return defaultTimestampFormat
}

func callerOf(entry *logrus.Entry) string {
	if entry.Caller == nil {
		return ""
	}
	dir := filepath.Base(filepath.Dir(entry.Caller.File))
	return fmt.Sprintf("%s/%s:%d", dir, filepath.Base(entry.Caller.File), entry.Caller.Line)
}

func colorWrap(s, code string) string { return code + s + ansiReset }

func colorLevel(s string, level logrus.Level) string {
	switch level {
	case logrus.TraceLevel:
		return colorWrap(s, ansiBlue)
	case logrus.DebugLevel:
		return colorWrap(s, ansiCyan)
	case logrus.InfoLevel:
		return colorWrap(s, ansiGreen)
	case logrus.WarnLevel:
		return colorWrap(s, ansiYellow)
	default:
		return colorWrap(s, ansiRed)
	}
}

func EnvDefaultString(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}
