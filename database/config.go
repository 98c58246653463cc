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
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by LoadConfig, e.g.
// EASYREPO_DOCUMENT_URI.
const EnvPrefix = "EASYREPO"

// LoadConfig reads a YAML, JSON or TOML file into a Config on top of
// DefaultConfig. Values can be overridden with EASYREPO_* environment
// variables. An empty path loads defaults and environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	overrideFromEnv(&cfg.Relational)
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during
// Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("relational.type", d.Relational.Type)
	v.SetDefault("relational.host", d.Relational.Host)
	v.SetDefault("relational.port", d.Relational.Port)
	v.SetDefault("relational.username", d.Relational.Username)
	v.SetDefault("relational.password", d.Relational.Password)
	v.SetDefault("relational.dbname", d.Relational.DBName)
	v.SetDefault("relational.sslmode", d.Relational.SSLMode)
	v.SetDefault("relational.in_memory", d.Relational.InMemory)
	v.SetDefault("relational.max_idle_conns", d.Relational.MaxIdleConns)
	v.SetDefault("relational.max_open_conns", d.Relational.MaxOpenConns)
	v.SetDefault("relational.conn_max_lifetime", d.Relational.ConnMaxLifetime)
	v.SetDefault("relational.conn_max_idle_time", d.Relational.ConnMaxIdleTime)
	v.SetDefault("relational.connect_timeout", d.Relational.ConnectTimeout)
	v.SetDefault("relational.read_timeout", d.Relational.ReadTimeout)
	v.SetDefault("relational.write_timeout", d.Relational.WriteTimeout)
	v.SetDefault("relational.enable_query_log", d.Relational.EnableQueryLog)
	v.SetDefault("relational.slow_query_time", d.Relational.SlowQueryTime)

	v.SetDefault("document.uri", d.Document.URI)
	v.SetDefault("document.database", d.Document.Database)
	v.SetDefault("document.connect_timeout", d.Document.ConnectTimeout)
	v.SetDefault("document.app_name", d.Document.AppName)


	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// overrideFromEnv applies the DB_* variables understood by earlier releases.
func overrideFromEnv(cfg *ConnectionConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		cfg.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		cfg.SSLMode = sslmode
	}
	if maxIdle := os.Getenv("DB_MAX_IDLE_CONNS"); maxIdle != "" {
		if val, err := strconv.Atoi(maxIdle); err == nil {
			cfg.MaxIdleConns = val
		}
	}
	if maxOpen := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpen != "" {
		if val, err := strconv.Atoi(maxOpen); err == nil {
			cfg.MaxOpenConns = val
		}
	}
	if maxLifetime := os.Getenv("DB_CONN_MAX_LIFETIME"); maxLifetime != "" {
		if val, err := strconv.Atoi(maxLifetime); err == nil {
			cfg.ConnMaxLifetime = time.Duration(val) * time.Second
		}
	}
	if enableQueryLog := os.Getenv("DB_ENABLE_QUERY_LOG"); enableQueryLog != "" {
		cfg.EnableQueryLog = enableQueryLog == "true"
	}
}
