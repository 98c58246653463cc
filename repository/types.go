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

package repository

import (
	"context"

	"github.com/tomoncle/easyrepo/types"
)

// CrudRepository defines generic CRUD operations for entities of type T
// identified by ID.
type CrudRepository[T any, ID comparable] interface {
	// Count returns the number of stored entities. Document stores may
	// return an estimate.
	Count(ctx context.Context) (int64, error)

	// DeleteAll removes every entity.
	DeleteAll(ctx context.Context) error

	// DeleteAllByID removes the entities with the given identities. Whether a
	// missing identity is an error depends on the adapter.
	DeleteAllByID(ctx context.Context, ids []ID) error

	// DeleteByID removes the entity with the given identity. Whether a
	// missing identity is an error depends on the adapter.
	DeleteByID(ctx context.Context, id ID) error

	// ExistsByID reports whether an entity with the given identity is stored.
	ExistsByID(ctx context.Context, id ID) (bool, error)

	// FindAll returns every entity ordered by sort. An unsorted sort yields
	// the backend default order.
	FindAll(ctx context.Context, sort types.Sort) ([]T, error)

	// FindAllByID returns the entities found for ids; missing ones are
	// omitted.
	FindAllByID(ctx context.Context, ids []ID) ([]T, error)

	// FindByID returns the entity with the given identity. found is false,
	// with a nil error, when there is none.
	FindByID(ctx context.Context, id ID) (entity T, found bool, err error)

	// Save inserts entity with a fresh identity when it carries none and
	// fully replaces the stored entity otherwise. The returned value carries
	// the identity.
	Save(ctx context.Context, entity T) (T, error)

	// SaveAll saves every entity and returns them in the same order.
	SaveAll(ctx context.Context, entities []T) ([]T, error)
}

// PagingRepository extends CrudRepository with paginated reads.
type PagingRepository[T any, ID comparable] interface {
	CrudRepository[T, ID]

	// FindPage returns the window of FindAll's ordering selected by request,
	// along with the total number of entities.
	FindPage(ctx context.Context, request types.PageRequest, sort types.Sort) (*types.Page[T], error)
}

// FilterRepository extends PagingRepository with reads restricted by a
// structured filter.
type FilterRepository[T any, ID comparable] interface {
	PagingRepository[T, ID]

	FindAllBy(ctx context.Context, filter types.Filter, sort types.Sort) ([]T, error)

	FindPageBy(ctx context.Context, filter types.Filter, request types.PageRequest, sort types.Sort) (*types.Page[T], error)

	CountBy(ctx context.Context, filter types.Filter) (int64, error)
}

// Entity is a typed record with an optional identity.
type Entity[ID comparable] interface {
	// GetID returns the identity and whether one is set.
	GetID() (ID, bool)

	// SetID assigns the identity.
	SetID(id ID)
}
