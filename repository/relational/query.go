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

package relational

import (
	"fmt"
	"reflect"

	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

var operators = map[types.Operator]string{
	types.Eq:  "? = ?",
	types.Ne:  "? <> ?",
	types.Gt:  "? > ?",
	types.Gte: "? >= ?",
	types.Lt:  "? < ?",
	types.Lte: "? <= ?",
	types.In:  "? IN (?)",
}

// column resolves key to a column of table. Both the column name and the Go
// field name are accepted.
func column(table *schema.Table, key string) (*schema.Field, error) {
	for _, f := range table.Fields {
		if f.Name == key || f.GoName == key {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not a column of %s", repository.ErrUnknownSortKey, key, table.Name)
}

// orderExprs resolves every sort key before any query is built.
func orderExprs(table *schema.Table, sort types.Sort) ([]func(*bun.SelectQuery) *bun.SelectQuery, error) {
	orders := sort.Orders()
	exprs := make([]func(*bun.SelectQuery) *bun.SelectQuery, 0, len(orders))
	for _, o := range orders {
		f, err := column(table, o.Key)
		if err != nil {
			return nil, err
		}
		dir := "ASC"
		if o.Direction.IsDescending() {
			dir = "DESC"
		}
		exprs = append(exprs, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("? "+dir, bun.Ident(f.Name))
		})
	}
	return exprs, nil
}

// whereExprs resolves and checks every filter condition.
func whereExprs(table *schema.Table, filter types.Filter) ([]func(*bun.SelectQuery) *bun.SelectQuery, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrInvalidEntity, err)
	}
	conditions := filter.Conditions()
	exprs := make([]func(*bun.SelectQuery) *bun.SelectQuery, 0, len(conditions))
	for _, c := range conditions {
		f, err := column(table, c.Key)
		if err != nil {
			return nil, err
		}
		value := c.Value
		if c.Operator == types.In {
			v := reflect.ValueOf(value)
			if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
				return nil, repository.InvalidEntity("%s %s expects a slice, got %T", c.Key, c.Operator, value)
			}
			if v.Len() == 0 {
				exprs = append(exprs, func(q *bun.SelectQuery) *bun.SelectQuery { return q.Where("1 = 0") })
				continue
			}
			value = bun.In(value)
		}
		expr := operators[c.Operator]
		exprs = append(exprs, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(expr, bun.Ident(f.Name), value)
		})
	}
	return exprs, nil
}

func apply(q *bun.SelectQuery, exprs ...[]func(*bun.SelectQuery) *bun.SelectQuery) *bun.SelectQuery {
	for _, group := range exprs {
		for _, fn := range group {
			q = fn(q)
		}
	}
	return q
}
