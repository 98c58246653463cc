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

package memory

import (
	"context"
	"slices"

	"github.com/tomoncle/easyrepo/database"
	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/types"
)

// Repository keeps entities in a map owned by the instance.
//
// Identities are sequential integers computed as Count()+1 at insert time, so
// an id freed by a delete can be handed out again. FindAll ignores the sort
// argument and returns entities in insertion order. Repository has no lock:
// callers sharing one instance across goroutines must synchronize.
type Repository[T any] struct {
	data   map[int64]T
	keys   []int64
	ident  identity[T]
	logger database.Logger
}

var (
	_ repository.PagingRepository[types.JsonObject, int64] = (*Repository[types.JsonObject])(nil)
)

// NewMapRepository returns a repository of free-form documents whose identity
// is stored under the "id" key.
func NewMapRepository() *Repository[types.JsonObject] {
	return newRepository[types.JsonObject](mapIdentity{})
}

// NewRecordRepository returns a repository of typed records. T must be a
// pointer to a struct; records are validated against their `validate` tags on
// save.
func NewRecordRepository[T repository.Entity[int64]]() (*Repository[T], error) {
	if _, err := repository.CheckRecordType[T](); err != nil {
		return nil, err
	}
	return newRepository[T](recordIdentity[T]{}), nil
}

func newRepository[T any](ident identity[T]) *Repository[T] {
	return &Repository[T]{
		data:   make(map[int64]T),
		ident:  ident,
		logger: database.GetLogger(),
	}
}

// SetLogger replaces the logger used for diagnostics.
func (r *Repository[T]) SetLogger(logger database.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	return int64(len(r.data)), nil
}

func (r *Repository[T]) DeleteAll(ctx context.Context) error {
	clear(r.data)
	r.keys = r.keys[:0]
	return nil
}

// DeleteAllByID removes every given id. It returns ErrNotFound, without
// removing anything, when one of the ids is not stored.
func (r *Repository[T]) DeleteAllByID(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, ok := r.data[id]; !ok {
			return repository.NotFound(id)
		}
	}
	for _, id := range ids {
		r.remove(id)
	}
	return nil
}

// DeleteByID returns ErrNotFound when id is not stored.
func (r *Repository[T]) DeleteByID(ctx context.Context, id int64) error {
	if _, ok := r.data[id]; !ok {
		return repository.NotFound(id)
	}
	r.remove(id)
	return nil
}

func (r *Repository[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := r.data[id]
	return ok, nil
}

func (r *Repository[T]) FindAll(ctx context.Context, sort types.Sort) ([]T, error) {
	if sort.IsSorted() {
		r.logger.Debug("In-memory repository ignores sort, returning insertion order", "sort", sort)
	}
	result := make([]T, 0, len(r.keys))
	for _, k := range r.keys {
		result = append(result, r.data[k])
	}
	return result, nil
}

func (r *Repository[T]) FindPage(ctx context.Context, request types.PageRequest, sort types.Sort) (*types.Page[T], error) {
	all, err := r.FindAll(ctx, sort)
	if err != nil {
		return nil, err
	}
	start := min(request.Offset(), len(all))
	end := min(start+request.Size(), len(all))
	return types.NewPage(all[start:end:end], request, int64(len(all))), nil
}

func (r *Repository[T]) FindAllByID(ctx context.Context, ids []int64) ([]T, error) {
	result := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.data[id]; ok {
			result = append(result, v)
		}
	}
	return result, nil
}

func (r *Repository[T]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	v, ok := r.data[id]
	return v, ok, nil
}

func (r *Repository[T]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := r.ident.validate(entity); err != nil {
		return zero, err
	}
	id, ok, err := r.ident.get(entity)
	if err != nil {
		return zero, err
	}
	if !ok {
		id = int64(len(r.data)) + 1
		r.ident.set(entity, id)
	}
	r.put(id, entity)
	return entity, nil
}

// SaveAll saves entities one by one. Entities saved before a failing one stay
// saved.
func (r *Repository[T]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	saved := make([]T, 0, len(entities))
	for _, e := range entities {
		s, err := r.Save(ctx, e)
		if err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, nil
}

func (r *Repository[T]) put(id int64, entity T) {
	if _, exists := r.data[id]; !exists {
		r.keys = append(r.keys, id)
	}
	r.data[id] = entity
}

func (r *Repository[T]) remove(id int64) {
	delete(r.data, id)
	if i := slices.Index(r.keys, id); i >= 0 {
		r.keys = slices.Delete(r.keys, i, i+1)
	}
}
