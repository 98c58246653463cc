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

// Package mapper adapts mgm models to the repository contract.
package mapper

import (
	"context"
	"errors"
	"reflect"

	"github.com/kamva/mgm/v3"
	"github.com/tomoncle/easyrepo/database"
	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IDKey is the sort key that selects the document identity.
const IDKey = "id"

// Repository stores mgm models of type T in the collection mgm names for T.
//
// Identities are ObjectIDs assigned on insert. Save runs the model's mgm
// hooks, so fields such as mgm.DefaultModel's timestamps are set, and returns
// the document as re-read from the collection. Saving a model with an
// identity writes its fields with $set and upserts. Deleting absent ids is
// not an error, and SaveAll is not atomic.
type Repository[T mgm.Model] struct {
	coll   *mgm.Collection
	elem   reflect.Type
	logger database.Logger
}

// New returns a repository for T, which must be a pointer to a struct, in
// db. The collection name comes from mgm.CollName.
func New[T mgm.Model](db *mongo.Database) (*Repository[T], error) {
	elem, err := repository.CheckRecordType[T]()
	if err != nil {
		return nil, err
	}
	model := repository.NewRecord[T](elem)
	if db == nil {
		return nil, repository.InvalidModel(model, "nil database")
	}
	return &Repository[T]{
		coll:   mgm.NewCollection(db, mgm.CollName(model)),
		elem:   elem,
		logger: database.GetLogger(),
	}, nil
}

// SetLogger replaces the logger used for diagnostics.
func (r *Repository[T]) SetLogger(logger database.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Collection returns the mgm collection backing the repository.
func (r *Repository[T]) Collection() *mgm.Collection {
	return r.coll
}

func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

// DeleteAll drops the collection.
func (r *Repository[T]) DeleteAll(ctx context.Context) error {
	r.logger.Debug("Dropping collection", "collection", r.coll.Name())
	return r.coll.Drop(ctx)
}

func (r *Repository[T]) DeleteAllByID(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.coll.DeleteMany(ctx, byIDs(ids))
	return err
}

func (r *Repository[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, byID(id))
	return err
}

func (r *Repository[T]) ExistsByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, byID(id), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository[T]) FindAll(ctx context.Context, sort types.Sort) ([]T, error) {
	return r.find(ctx, bson.D{}, sort, nil)
}

func (r *Repository[T]) FindAllByID(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return r.find(ctx, byIDs(ids), types.Unsorted(), nil)
}

func (r *Repository[T]) FindByID(ctx context.Context, id primitive.ObjectID) (T, bool, error) {
	var zero T
	entity := repository.NewRecord[T](r.elem)
	err := r.coll.FindByIDWithCtx(ctx, id, entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return entity, true, nil
}

func (r *Repository[T]) FindPage(ctx context.Context, request types.PageRequest, sort types.Sort) (*types.Page[T], error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	content, err := r.find(ctx, bson.D{}, sort, &request)
	if err != nil {
		return nil, err
	}
	return types.NewPage(content, request, total), nil
}

func (r *Repository[T]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := repository.ValidateRecord(entity); err != nil {
		return zero, err
	}
	_, ok, err := identity(entity)
	if err != nil {
		return zero, err
	}
	if ok {
		err = r.coll.UpdateWithCtx(ctx, entity, options.Update().SetUpsert(true))
	} else {
		err = r.coll.CreateWithCtx(ctx, entity)
	}
	if err != nil {
		return zero, err
	}
	if err := r.coll.FindByIDWithCtx(ctx, entity.GetID(), entity); err != nil {
		return zero, err
	}
	return entity, nil
}

// SaveAll saves entities one by one. A failure leaves earlier saves in place.
func (r *Repository[T]) SaveAll(ctx context.Context, entities []T) ([]T, error) {
	saved := make([]T, 0, len(entities))
	for _, entity := range entities {
		s, err := r.Save(ctx, entity)
		if err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, nil
}

func (r *Repository[T]) find(ctx context.Context, query bson.D, sort types.Sort, request *types.PageRequest) ([]T, error) {
	opts := options.Find()
	if spec := sortSpec(sort); spec != nil {
		opts.SetSort(spec)
	}
	if request != nil {
		opts.SetSkip(int64(request.Offset())).SetLimit(int64(request.Size()))
	}
	result := []T{}
	if err := r.coll.SimpleFindWithCtx(ctx, &result, query, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// identity reports the ObjectID of entity; the zero ObjectID means none.
func identity(entity mgm.Model) (primitive.ObjectID, bool, error) {
	switch id := entity.GetID().(type) {
	case nil:
		return primitive.NilObjectID, false, nil
	case primitive.ObjectID:
		return id, !id.IsZero(), nil
	default:
		return primitive.NilObjectID, false, repository.InvalidEntity("identity must be an ObjectID, got %T", id)
	}
}

func sortSpec(sort types.Sort) bson.D {
	if sort.IsUnsorted() {
		return nil
	}
	orders := sort.Orders()
	spec := make(bson.D, 0, len(orders))
	for _, o := range orders {
		key := o.Key
		if key == IDKey {
			key = "_id"
		}
		spec = append(spec, bson.E{Key: key, Value: o.Direction.Number()})
	}
	return spec
}

func byID(id primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func byIDs(ids []primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
}
