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

package easyrepo

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomoncle/easyrepo/database"
	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/repository/relational"
	"github.com/tomoncle/easyrepo/types"
)

type Service[T any, ID comparable] interface {
	// Get returns the entity with the given identity, or an error wrapping
	// repository.ErrNotFound.
	Get(ctx context.Context, id ID) (T, error)

	// Find returns the entity with the given identity and whether it exists.
	Find(ctx context.Context, id ID) (T, bool, error)

	// All returns every entity in sort order.
	All(ctx context.Context, sort types.Sort) ([]T, error)

	// Page returns one page of entities.
	Page(ctx context.Context, request types.PageRequest, sort types.Sort) (*types.Page[T], error)

	// Each calls fn for every entity, reading pages of the given size until
	// the last one. It stops at the first error.
	Each(ctx context.Context, size int, sort types.Sort, fn func(T) error) error

	// Save inserts or replaces entities and returns them with identities.
	Save(ctx context.Context, entity ...T) ([]T, error)

	// Exists reports whether an entity with the given identity exists.
	Exists(ctx context.Context, id ID) (bool, error)

	// Count returns the number of entities.
	Count(ctx context.Context) (int64, error)

	// Delete removes entities by identity.
	Delete(ctx context.Context, id ...ID) error

	// Repository returns the underlying repository.
	Repository() repository.PagingRepository[T, ID]
}

type baseServiceImpl[T any, ID comparable] struct {
	repo    repository.PagingRepository[T, ID]
	factory func(ctx context.Context) (repository.PagingRepository[T, ID], error)
	mu      sync.Mutex
}

// NewService returns a Service over repo.
func NewService[T any, ID comparable](repo repository.PagingRepository[T, ID]) Service[T, ID] {
	return &baseServiceImpl[T, ID]{repo: repo}
}

// NewRelationalService returns a Service backed by a relational repository
// on the global database connection. The repository is created on first use,
// so database.InitDB may run after this call; the table of T is created then
// if InitDB did not already.
func NewRelationalService[T repository.Entity[ID], ID comparable]() Service[T, ID] {
	return &baseServiceImpl[T, ID]{
		factory: func(ctx context.Context) (repository.PagingRepository[T, ID], error) {
			db := database.GetDB()
			if db == nil {
				return nil, fmt.Errorf("database not initialized")
			}
			repo, err := relational.New[T, ID](db)
			if err != nil {
				return nil, err
			}
			if err := database.EnsureModel(ctx, db, repo.Model()); err != nil {
				return nil, err
			}
			return repo, nil
		},
	}
}

// baseRepo returns the repository, building it on first success.
func (s *baseServiceImpl[T, ID]) baseRepo(ctx context.Context) (repository.PagingRepository[T, ID], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo == nil && s.factory != nil {
		repo, err := s.factory(ctx)
		if err != nil {
			return nil, err
		}
		s.repo = repo
	}
	return s.repo, nil
}

func (s *baseServiceImpl[T, ID]) Repository() repository.PagingRepository[T, ID] {
	repo, _ := s.baseRepo(context.Background())
	return repo
}

func (s *baseServiceImpl[T, ID]) Get(ctx context.Context, id ID) (T, error) {
	var zero T
	entity, ok, err := s.Find(ctx, id)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, repository.NotFound(id)
	}
	return entity, nil
}

func (s *baseServiceImpl[T, ID]) Find(ctx context.Context, id ID) (T, bool, error) {
	var zero T
	repo, err := s.baseRepo(ctx)
	if err != nil {
		return zero, false, err
	}
	return repo.FindByID(ctx, id)
}

func (s *baseServiceImpl[T, ID]) All(ctx context.Context, sort types.Sort) ([]T, error) {
	repo, err := s.baseRepo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.FindAll(ctx, sort)
}

func (s *baseServiceImpl[T, ID]) Page(ctx context.Context, request types.PageRequest, sort types.Sort) (*types.Page[T], error) {
	repo, err := s.baseRepo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.FindPage(ctx, request, sort)
}

func (s *baseServiceImpl[T, ID]) Each(ctx context.Context, size int, sort types.Sort, fn func(T) error) error {
	request, err := types.OfSize(size)
	if err != nil {
		return err
	}
	for {
		page, err := s.Page(ctx, request, sort)
		if err != nil {
			return err
		}
		for _, entity := range page.Content {
			if err := fn(entity); err != nil {
				return err
			}
		}
		next := page.NextPageRequest()
		if next == nil || !page.HasContent() {
			return nil
		}
		request = *next
	}
}

func (s *baseServiceImpl[T, ID]) Save(ctx context.Context, entity ...T) ([]T, error) {
	repo, err := s.baseRepo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.SaveAll(ctx, entity)
}

func (s *baseServiceImpl[T, ID]) Exists(ctx context.Context, id ID) (bool, error) {
	repo, err := s.baseRepo(ctx)
	if err != nil {
		return false, err
	}
	return repo.ExistsByID(ctx, id)
}

func (s *baseServiceImpl[T, ID]) Count(ctx context.Context) (int64, error) {
	repo, err := s.baseRepo(ctx)
	if err != nil {
		return 0, err
	}
	return repo.Count(ctx)
}

func (s *baseServiceImpl[T, ID]) Delete(ctx context.Context, id ...ID) error {
	repo, err := s.baseRepo(ctx)
	if err != nil {
		return err
	}
	if len(id) == 1 {
		return repo.DeleteByID(ctx, id[0])
	}
	return repo.DeleteAllByID(ctx, id)
}
