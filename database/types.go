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
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
)

// AbstractDatabaseManager defines the operations for managing a relational
// database connection and reporting its health.
type AbstractDatabaseManager interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthStatus
	GetDB() *bun.DB
	GetSQLDB() *sql.DB
	CreateTables(ctx context.Context) error
	GetStats() *DBStats
	SetLogger(logger Logger)
}

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	ResponseTime  time.Duration `json:"response_time"`
	ActiveConns   int           `json:"active_conns"`
	IdleConns     int           `json:"idle_conns"`
	MaxOpenConns  int           `json:"max_open_conns"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// DBStats mirrors database/sql stats returned by the manager.
type DBStats struct {
	MaxOpenConns      int           `json:"max_open_conns"`
	OpenConns         int           `json:"open_conns"`
	InUse             int           `json:"in_use"`
	Idle              int           `json:"idle"`
	WaitCount         int64         `json:"wait_count"`
	WaitDuration      time.Duration `json:"wait_duration"`
	MaxIdleClosed     int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed int64         `json:"max_lifetime_closed"`
}

// ConnectionConfig describes how to connect to a relational database and
// tune its pool.
type ConnectionConfig struct {
	Type            string        `json:"type" mapstructure:"type"` // postgres, mysql, sqlite
	Host            string        `json:"host" mapstructure:"host"`
	Port            int           `json:"port" mapstructure:"port"`
	Username        string        `json:"username" mapstructure:"username"`
	Password        string        `json:"password" mapstructure:"password"`
	DBName          string        `json:"dbname" mapstructure:"dbname"`
	SSLMode         string        `json:"sslmode" mapstructure:"sslmode"`
	InMemory        bool          `json:"in_memory" mapstructure:"in_memory"` // sqlite only
	MaxIdleConns    int           `json:"max_idle_conns" mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `json:"max_open_conns" mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `json:"connect_timeout" mapstructure:"connect_timeout"`
	ReadTimeout     time.Duration `json:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" mapstructure:"write_timeout"`
	EnableQueryLog  bool          `json:"enable_query_log" mapstructure:"enable_query_log"`
	SlowQueryTime   time.Duration `json:"slow_query_time" mapstructure:"slow_query_time"`
}

// DocumentConfig describes the MongoDB deployment used by document-store
// repositories.
type DocumentConfig struct {
	URI            string        `json:"uri" mapstructure:"uri"`
	Database       string        `json:"database" mapstructure:"database"`
	ConnectTimeout time.Duration `json:"connect_timeout" mapstructure:"connect_timeout"`
	AppName        string        `json:"app_name" mapstructure:"app_name"`
}

// LogConfig controls the default logger.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"` // text, json
}

// Config aggregates the settings of every backend.
type Config struct {
	Relational ConnectionConfig `json:"relational" mapstructure:"relational"`
	Document   DocumentConfig   `json:"document" mapstructure:"document"`
	Log        LogConfig        `json:"log" mapstructure:"log"`
}

// DefaultConnectionConfig returns a connection config with sensible defaults.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute * 30,
		ConnectTimeout:  time.Second * 10,
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		EnableQueryLog:  false,
		SlowQueryTime:   time.Second * 2,
	}
}

// DefaultConfig returns a configuration with an in-memory SQLite database and
// a local MongoDB.
func DefaultConfig() *Config {
	rel := DefaultConnectionConfig()
	rel.Type = "sqlite"
	rel.DBName = "easyrepo"
	rel.InMemory = true
	return &Config{
		Relational: *rel,
		Document: DocumentConfig{
			URI:            "mongodb://127.0.0.1:27017",
			Database:       "easyrepo",
			ConnectTimeout: time.Second * 10,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}
