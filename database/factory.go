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
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/mongo"
)

var supportedTypes = []string{"mysql", "postgres", "postgresql", "sqlite", "sqlite3"}

// BaseDatabaseFactory opens and owns the backend handles described by a
// Config: the relational manager and the MongoDB client shared by the
// document-store and document-mapper repositories. Each handle is opened on
// first request.
type BaseDatabaseFactory struct {
	config  *Config
	manager AbstractDatabaseManager
	mongo   *mongo.Client
	logger  Logger
	mu      sync.Mutex
}

// NewDatabaseFactory returns a factory for cfg using the global logger.
func NewDatabaseFactory(cfg *Config) (*BaseDatabaseFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	return &BaseDatabaseFactory{config: cfg, logger: GetLogger()}, nil
}

// Relational connects the relational database on first use and returns the
// Bun handle.
func (f *BaseDatabaseFactory) Relational(ctx context.Context) (*bun.DB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.manager == nil {
		cfg := &f.config.Relational
		if !slices.Contains(supportedTypes, cfg.Type) {
			return nil, fmt.Errorf("unsupported database type: %s, supported types: %v", cfg.Type, supportedTypes)
		}
		manager := NewDatabaseManager(cfg)
		manager.SetLogger(f.logger)
		if err := manager.Connect(ctx); err != nil {
			return nil, err
		}
		f.manager = manager
	}
	return f.manager.GetDB(), nil
}

// Document connects the MongoDB client on first use and returns the
// configured database.
func (f *BaseDatabaseFactory) Document(ctx context.Context) (*mongo.Database, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mongo == nil {
		client, err := NewMongoClient(ctx, &f.config.Document)
		if err != nil {
			return nil, err
		}
		f.mongo = client
	}
	if f.config.Document.Database == "" {
		return nil, fmt.Errorf("document store database name cannot be empty")
	}
	return f.mongo.Database(f.config.Document.Database), nil
}

// GetManager returns the relational manager, or nil before Relational.
func (f *BaseDatabaseFactory) GetManager() AbstractDatabaseManager {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.manager
}

// SetLogger sets the logger on the factory and the relational manager.
func (f *BaseDatabaseFactory) SetLogger(logger Logger) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logger = logger
	if f.manager != nil {
		f.manager.SetLogger(logger)
	}
}

// Close releases every handle the factory opened.
func (f *BaseDatabaseFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	if f.manager != nil {
		errs = append(errs, f.manager.Disconnect())
		f.manager = nil
	}
	if f.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		errs = append(errs, f.mongo.Disconnect(ctx))
		cancel()
		f.mongo = nil
	}
	return errors.Join(errs...)
}

// GetHealthStatus returns the relational database health status.
func (f *BaseDatabaseFactory) GetHealthStatus(ctx context.Context) *HealthStatus {
	manager := f.GetManager()
	if manager == nil {
		return &HealthStatus{
			LastError:     "Database manager not initialized",
			LastCheckTime: time.Now(),
		}
	}
	return manager.HealthCheck(ctx)
}

// GetStats returns relational connection statistics.
func (f *BaseDatabaseFactory) GetStats() *DBStats {
	manager := f.GetManager()
	if manager == nil {
		return &DBStats{}
	}
	return manager.GetStats()
}
