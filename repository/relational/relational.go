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

// Package relational adapts Bun models to the repository contract.
package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/tomoncle/easyrepo/database"
	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

// Repository stores Bun models of type T, a pointer to a struct with a
// single primary key column.
//
// Save and SaveAll run in one transaction: records without an identity are
// inserted, the others are upserted on their primary key, and every record
// is re-read before commit so column defaults are visible to the caller.
// Deleting absent ids is not an error.
type Repository[T repository.Entity[ID], ID comparable] struct {
	db     bun.IDB
	table  *schema.Table
	pk     *schema.Field
	elem   reflect.Type
	logger database.Logger
}

// New returns a repository for T on db, which may be a *bun.DB, a bun.Conn or
// a bun.Tx. T joins the models whose tables database.InitDB creates.
func New[T repository.Entity[ID], ID comparable](db bun.IDB) (*Repository[T, ID], error) {
	elem, err := repository.CheckRecordType[T]()
	if err != nil {
		return nil, err
	}
	model := repository.NewRecord[T](elem)
	if v := reflect.ValueOf(db); !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil, repository.InvalidModel(model, "nil database")
	}
	table := db.Dialect().Tables().Get(elem)
	if len(table.PKs) != 1 {
		return nil, repository.InvalidModel(model, fmt.Sprintf("expected one primary key, found %d", len(table.PKs)))
	}
	database.RegisterModel(model, 0)
	return &Repository[T, ID]{
		db:     db,
		table:  table,
		pk:     table.PKs[0],
		elem:   elem,
		logger: database.GetLogger(),
	}, nil
}

// SetLogger replaces the logger used for diagnostics.
func (r *Repository[T, ID]) SetLogger(logger database.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Table returns the Bun table descriptor of T.
func (r *Repository[T, ID]) Table() *schema.Table {
	return r.table
}

// Model returns a new zero record of T.
func (r *Repository[T, ID]) Model() T {
	return r.model()
}

func (r *Repository[T, ID]) model() T {
	return repository.NewRecord[T](r.elem)
}

func (r *Repository[T, ID]) byID(id ID) (string, []interface{}) {
	return "? = ?", []interface{}{bun.Ident(r.pk.Name), id}
}

func (r *Repository[T, ID]) byIDs(ids []ID) (string, []interface{}) {
	return "? IN (?)", []interface{}{bun.Ident(r.pk.Name), bun.In(ids)}
}

func (r *Repository[T, ID]) Count(ctx context.Context) (int64, error) {
	n, err := r.db.NewSelect().Model(r.model()).Count(ctx)
	return int64(n), err
}

func (r *Repository[T, ID]) DeleteAll(ctx context.Context) error {
	_, err := r.db.NewDelete().Model(r.model()).Where("1 = 1").Exec(ctx)
	return err
}

func (r *Repository[T, ID]) DeleteAllByID(ctx context.Context, ids []ID) error {
	if len(ids) == 0 {
		return nil
	}
	where, args := r.byIDs(ids)
	_, err := r.db.NewDelete().Model(r.model()).Where(where, args...).Exec(ctx)
	return err
}

func (r *Repository[T, ID]) DeleteByID(ctx context.Context, id ID) error {
	where, args := r.byID(id)
	_, err := r.db.NewDelete().Model(r.model()).Where(where, args...).Exec(ctx)
	return err
}

func (r *Repository[T, ID]) ExistsByID(ctx context.Context, id ID) (bool, error) {
	where, args := r.byID(id)
	return r.db.NewSelect().Model(r.model()).Where(where, args...).Exists(ctx)
}

func (r *Repository[T, ID]) FindAll(ctx context.Context, sort types.Sort) ([]T, error) {
	return r.FindAllBy(ctx, types.Filter{}, sort)
}

func (r *Repository[T, ID]) FindAllByID(ctx context.Context, ids []ID) ([]T, error) {
	entities := []T{}
	if len(ids) == 0 {
		return entities, nil
	}
	where, args := r.byIDs(ids)
	if err := r.db.NewSelect().Model(&entities).Where(where, args...).Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *Repository[T, ID]) FindByID(ctx context.Context, id ID) (T, bool, error) {
	var zero T
	entity := r.model()
	where, args := r.byID(id)
	err := r.db.NewSelect().Model(entity).Where(where, args...).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return entity, true, nil
}

func (r *Repository[T, ID]) FindPage(ctx context.Context, request types.PageRequest, sort types.Sort) (*types.Page[T], error) {
	return r.FindPageBy(ctx, types.Filter{}, request, sort)
}

func (r *Repository[T, ID]) FindAllBy(ctx context.Context, filter types.Filter, sort types.Sort) ([]T, error) {
	where, err := whereExprs(r.table, filter)
	if err != nil {
		return nil, err
	}
	orders, err := orderExprs(r.table, sort)
	if err != nil {
		return nil, err
	}
	entities := []T{}
	if err := apply(r.db.NewSelect().Model(&entities), where, orders).Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *Repository[T, ID]) FindPageBy(ctx context.Context, filter types.Filter, request types.PageRequest, sort types.Sort) (*types.Page[T], error) {
	where, err := whereExprs(r.table, filter)
	if err != nil {
		return nil, err
	}
	orders, err := orderExprs(r.table, sort)
	if err != nil {
		return nil, err
	}
	total, err := apply(r.db.NewSelect().Model(r.model()), where).Count(ctx)
	if err != nil {
		return nil, err
	}
	entities := []T{}
	err = apply(r.db.NewSelect().Model(&entities), where, orders).
		Offset(request.Offset()).
		Limit(request.Size()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return types.NewPage(entities, request, int64(total)), nil
}

func (r *Repository[T, ID]) CountBy(ctx context.Context, filter types.Filter) (int64, error) {
	where, err := whereExprs(r.table, filter)
	if err != nil {
		return 0, err
	}
	n, err := apply(r.db.NewSelect().Model(r.model()), where).Count(ctx)
	return int64(n), err
}

func (r *Repository[T, ID]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	saved, err := r.SaveAll(ctx, []T{entity})
	if err != nil {
		return zero, err
	}
	return saved[0], nil
}

// SaveAll saves every entity in a single transaction. Either all of them are
// stored or, on error, none; entities that arrived without an identity get
// it cleared again on error.
func (r *Repository[T, ID]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	for _, entity := range entities {
		if err := repository.ValidateRecord(entity); err != nil {
			return nil, err
		}
	}
	if len(entities) == 0 {
		return []T{}, nil
	}

	fresh := make([]T, 0, len(entities))
	for _, entity := range entities {
		if _, ok := entity.GetID(); !ok {
			fresh = append(fresh, entity)
		}
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, entity := range entities {
			if err := r.save(ctx, tx, entity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Identities minted inside the rolled back transaction point at no row.
		var zero ID
		for _, entity := range fresh {
			entity.SetID(zero)
		}
		r.logger.Debug("Save rolled back", "table", r.table.Name,
			"constraint_violation", database.IsConstraintViolation(err), "error", err)
		return nil, err
	}
	r.logger.Debug("Save committed", "table", r.table.Name, "count", len(entities))
	return entities, nil
}

func (r *Repository[T, ID]) save(ctx context.Context, tx bun.Tx, entity T) error {
	if _, ok := entity.GetID(); ok {
		if err := r.upsert(ctx, tx, entity); err != nil {
			return err
		}
	} else {
		q := tx.NewInsert().Model(entity)
		if tx.Dialect().Features().Has(feature.InsertReturning) {
			q = q.Returning("*")
		}
		if _, err := q.Exec(ctx); err != nil {
			return err
		}
	}
	return tx.NewSelect().Model(entity).WherePK().Scan(ctx)
}

// upsert inserts entity or overwrites every column of the row with the same
// primary key.
func (r *Repository[T, ID]) upsert(ctx context.Context, tx bun.Tx, entity T) error {
	features := tx.Dialect().Features()
	q := tx.NewInsert().Model(entity)
	switch {
	case features.Has(feature.InsertOnConflict):
		if len(r.table.DataFields) == 0 {
			q = q.On("CONFLICT (?) DO NOTHING", bun.Ident(r.pk.Name))
			break
		}
		q = q.On("CONFLICT (?) DO UPDATE", bun.Ident(r.pk.Name))
		for _, f := range r.table.DataFields {
			q = q.Set("? = EXCLUDED.?", bun.Ident(f.Name), bun.Ident(f.Name))
		}
	case features.Has(feature.InsertOnDuplicateKey):
		if len(r.table.DataFields) == 0 {
			q = q.Ignore()
			break
		}
		q = q.On("DUPLICATE KEY UPDATE")
		for _, f := range r.table.DataFields {
			q = q.Set("? = VALUES(?)", bun.Ident(f.Name), bun.Ident(f.Name))
		}
	default:
		res, err := tx.NewUpdate().Model(entity).WherePK().Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			return nil
		}
	}
	_, err := q.Exec(ctx)
	return err
}
