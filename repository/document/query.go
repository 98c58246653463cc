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

package document

import (
	"fmt"
	"reflect"

	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/types"
	"go.mongodb.org/mongo-driver/bson"
)

var operators = map[types.Operator]string{
	types.Eq:  "$eq",
	types.Ne:  "$ne",
	types.Gt:  "$gt",
	types.Gte: "$gte",
	types.Lt:  "$lt",
	types.Lte: "$lte",
	types.In:  "$in",
}

// buildFilter translates filter into a query document. Conditions on the
// same field are merged, e.g. {age: {$gte: 18, $lt: 65}}. The zero filter
// yields an empty document.
func buildFilter(filter types.Filter, field func(string) string) (bson.D, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrInvalidEntity, err)
	}
	query := bson.D{}
	index := map[string]int{}
	for _, c := range filter.Conditions() {
		if c.Operator == types.In {
			if v := reflect.ValueOf(c.Value); !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
				return nil, repository.InvalidEntity("%s %s expects a slice, got %T", c.Key, c.Operator, c.Value)
			}
		}
		name := field(c.Key)
		op := bson.E{Key: operators[c.Operator], Value: c.Value}
		if i, ok := index[name]; ok {
			query[i].Value = append(query[i].Value.(bson.D), op)
			continue
		}
		index[name] = len(query)
		query = append(query, bson.E{Key: name, Value: bson.D{op}})
	}
	return query, nil
}

// buildSort translates sort into a sort document, ASC as 1 and DESC as -1.
// It returns nil for an unsorted sort so the server default order applies.
func buildSort(sort types.Sort, field func(string) string) bson.D {
	if sort.IsUnsorted() {
		return nil
	}
	orders := sort.Orders()
	spec := make(bson.D, 0, len(orders))
	for _, o := range orders {
		spec = append(spec, bson.E{Key: field(o.Key), Value: o.Direction.Number()})
	}
	return spec
}
