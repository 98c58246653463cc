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
	"math"

	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/types"
)

// IDKey is the key holding the identity of free-form documents.
const IDKey = "id"

// identity reads and writes the identity of one entity shape.
type identity[T any] interface {
	validate(entity T) error
	get(entity T) (id int64, ok bool, err error)
	set(entity T, id int64)
}

type mapIdentity struct{}

func (mapIdentity) validate(entity types.JsonObject) error {
	if entity == nil {
		return repository.InvalidEntity("nil document")
	}
	return nil
}

// get treats a missing or null "id" as no identity.
func (mapIdentity) get(entity types.JsonObject) (int64, bool, error) {
	v, ok := entity[IDKey]
	if !ok || v == nil {
		return 0, false, nil
	}
	id, ok := toInt64(v)
	if !ok {
		return 0, false, repository.InvalidEntity("%q must be an integer, got %T", IDKey, v)
	}
	return id, true, nil
}

func (mapIdentity) set(entity types.JsonObject, id int64) {
	entity[IDKey] = id
}

type recordIdentity[T repository.Entity[int64]] struct{}

func (recordIdentity[T]) validate(entity T) error {
	return repository.ValidateRecord(entity)
}

func (recordIdentity[T]) get(entity T) (int64, bool, error) {
	id, ok := entity.GetID()
	return id, ok, nil
}

func (recordIdentity[T]) set(entity T, id int64) {
	entity.SetID(id)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case float32:
		f := float64(n)
		if f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}
