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
	"reflect"
	"sort"
	"sync"

	"github.com/uptrace/bun"
)

var tableModels = &modelRegistry{index: make(map[reflect.Type]int)}

// TableModel is a Bun model whose table InitDB creates. Tables are created in
// ascending Priority, ties in registration order.
type TableModel struct {
	Model    interface{}
	Priority int
}

// modelRegistry holds one TableModel per struct type.
type modelRegistry struct {
	mu     sync.RWMutex
	models []TableModel
	index  map[reflect.Type]int
}

// register records model and reports whether its type was new. A type that is
// already known keeps its first registration unless priority is lower.
func (r *modelRegistry) register(model interface{}, priority int) bool {
	t := modelType(model)
	if t == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[t]; ok {
		if priority < r.models[i].Priority {
			r.models[i].Priority = priority
		}
		return false
	}
	r.index[t] = len(r.models)
	r.models = append(r.models, TableModel{Model: model, Priority: priority})
	return true
}

func (r *modelRegistry) list() []TableModel {
	r.mu.RLock()
	result := make([]TableModel, len(r.models))
	copy(result, r.models)
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority < result[j].Priority
	})
	return result
}

func (r *modelRegistry) instances() []interface{} {
	models := r.list()
	out := make([]interface{}, len(models))
	for i, m := range models {
		out[i] = m.Model
	}
	return out
}

// RegisterModel adds model, a pointer to a Bun struct, to the tables created
// by InitDB. Relational repositories register their model on construction.
func RegisterModel(model interface{}, priority int) {
	tableModels.register(model, priority)
}

// RegisteredModels returns the registered models in table creation order.
func RegisteredModels() []TableModel {
	return tableModels.list()
}

// RegisteredModelInstances returns the model pointers in table creation
// order, ready for bun.DB.RegisterModel or CreateTables.
func RegisteredModelInstances() []interface{} {
	return tableModels.instances()
}

// EnsureModel registers model and creates its table if it does not exist yet,
// for models that show up after InitDB ran.
func EnsureModel(ctx context.Context, db bun.IDB, model interface{}) error {
	tableModels.register(model, 0)
	return CreateTables(ctx, db, model)
}

func modelType(model interface{}) reflect.Type {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}
