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

// Package fixtures loads YAML seed data into any repository.
//
// A fixture file holds one or more YAML documents, each a sequence of
// entities decoded into the repository's entity type:
//
//	---
//	- name: ann
//	  email: ann@example.com
//	- name: bob
//	  email: bob@example.com
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tomoncle/easyrepo/database"
	"github.com/tomoncle/easyrepo/repository"
	"gopkg.in/yaml.v3"
)

// Decode reads every YAML document from r and concatenates their entities.
func Decode[T any](r io.Reader) ([]T, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var entities []T
	for {
		var batch []T
		err := dec.Decode(&batch)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode fixtures: %w", err)
		}
		entities = append(entities, batch...)
	}
	return entities, nil
}

// Load decodes entities from r and saves them through repo. The saved
// entities are returned in file order.
func Load[T any, ID comparable](ctx context.Context, repo repository.CrudRepository[T, ID], r io.Reader) ([]T, error) {
	entities, err := Decode[T](r)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return []T{}, nil
	}
	saved, err := repo.SaveAll(ctx, entities)
	if err != nil {
		return nil, fmt.Errorf("failed to save fixtures: %w", err)
	}
	database.GetLogger().Debug("Fixtures loaded", "count", len(saved))
	return saved, nil
}

// LoadFile is Load for a file path.
func LoadFile[T any, ID comparable](ctx context.Context, repo repository.CrudRepository[T, ID], path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(ctx, repo, f)
}
