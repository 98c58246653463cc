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
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoClient connects to the deployment described by cfg and verifies it
// with a ping. The caller owns the client and must Disconnect it.
func NewMongoClient(ctx context.Context, cfg *DocumentConfig) (*mongo.Client, error) {
	if cfg == nil || cfg.URI == "" {
		return nil, fmt.Errorf("document store URI cannot be empty")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctxTimeout, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	if err := client.Ping(ctxTimeout, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("document store connection test failed: %w", err)
	}
	GetLogger().Info("Document store connected successfully:", "database", cfg.Database)
	return client, nil
}
