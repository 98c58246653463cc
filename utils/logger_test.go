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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" Debug "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("unknown"))
}

func TestNewLoggerIsRegistered(t *testing.T) {
	a := NewLogger("registry-test")
	b := NewLogger("registry-test")
	assert.Same(t, a, b)

	assert.True(t, SetLoggerLevel("registry-test", "error"))
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.False(t, SetLoggerLevel("missing", "error"))
}

func TestLog4jColorFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&Log4jColorFormatter{LoggerName: "REPO", NameWidth: 6})

	l.Info("saved")
	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "[\x1b[36m  REPO\x1b[0m]")
	assert.Contains(t, out, ": saved\n")
}

func TestJSONLogFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&JSONLogFormatter{LoggerName: "REPO"})

	l.WithError(assert.AnError).WithField("id", 3).Warn("failed")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "warning", record["level"])
	assert.Equal(t, "REPO", record["logger"])
	assert.Equal(t, "failed", record["message"])
	assert.Equal(t, assert.AnError.Error(), record["error"])
	assert.Equal(t, float64(3), record["id"])
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("EASYREPO_TEST_STRING", "set")
	t.Setenv("EASYREPO_TEST_BOOL", "true")
	t.Setenv("EASYREPO_TEST_BAD_BOOL", "maybe")

	assert.Equal(t, "set", EnvDefaultString("EASYREPO_TEST_STRING", "def"))
	assert.Equal(t, "def", EnvDefaultString("EASYREPO_TEST_UNSET", "def"))
	assert.True(t, EnvDefaultBool("EASYREPO_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("EASYREPO_TEST_BAD_BOOL", true))
	assert.False(t, EnvDefaultBool("EASYREPO_TEST_UNSET", false))
}
