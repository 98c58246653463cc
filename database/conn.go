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
	"fmt"
	"sync"

	"github.com/tomoncle/easyrepo/utils"
	"github.com/uptrace/bun"
)

var (
	globalFactory   *BaseDatabaseFactory
	globalFactoryMu sync.RWMutex
)

// Init installs a process-wide factory for cfg, applying its log settings.
// Backend handles are opened lazily through GetDatabaseFactory.
func Init(cfg *Config) (*BaseDatabaseFactory, error) {
	factory, err := NewDatabaseFactory(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Log.Format != "" {
		utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	}
	if cfg.Log.Level != "" {
		GetLogger().SetLevel(ParseLogLevel(cfg.Log.Level))
	}

	globalFactoryMu.Lock()
	defer globalFactoryMu.Unlock()
	if globalFactory != nil {
		_ = globalFactory.Close()
	}
	globalFactory = factory
	return factory, nil
}

// InitDB installs a factory for cfg, connects the relational database,
// registers the registered models with Bun and creates their tables.
func InitDB(ctx context.Context, cfg *Config) (*bun.DB, error) {
	factory, err := Init(cfg)
	if err != nil {
		return nil, err
	}
	db, err := factory.Relational(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	models := RegisteredModelInstances()
	db.RegisterModel(models...)
	if err := CreateTables(ctx, db, models...); err != nil {
		return nil, err
	}
	return db, nil
}

// GetDatabaseFactory returns the process-wide factory, or nil before Init.
func GetDatabaseFactory() *BaseDatabaseFactory {
	globalFactoryMu.RLock()
	defer globalFactoryMu.RUnlock()
	return globalFactory
}

// GetDB returns the relational handle of the process-wide factory, or nil if
// it has not been connected.
func GetDB() *bun.DB {
	f := GetDatabaseFactory()
	if f == nil {
		return nil
	}
	if m := f.GetManager(); m != nil {
		return m.GetDB()
	}
	return nil
}

// CloseDB closes every handle of the process-wide factory.
func CloseDB() error {
	globalFactoryMu.Lock()
	defer globalFactoryMu.Unlock()
	if globalFactory == nil {
		return nil
	}
	err := globalFactory.Close()
	globalFactory = nil
	return err
}

// GetHealthStatus returns the relational database health status.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	if f := GetDatabaseFactory(); f != nil {
		return f.GetHealthStatus(ctx)
	}
	return &HealthStatus{LastError: "Database not initialized"}
}

// GetDatabaseStats returns relational database statistics.
func GetDatabaseStats() *DBStats {
	if f := GetDatabaseFactory(); f != nil {
		return f.GetStats()
	}
	return &DBStats{}
}
