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

// Package document adapts a MongoDB collection to the repository contract.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomoncle/easyrepo/database"
	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository stores entities in a MongoDB collection owned by the caller.
//
// Count is the collection's estimated document count. Save with an identity
// upserts: an identity the collection does not hold yet creates the document
// under that _id instead of failing. Deleting absent ids is not an error, and
// SaveAll is not atomic: a failure leaves earlier saves in place.
type Repository[T any] struct {
	coll   *mongo.Collection
	codec  codec[T]
	logger database.Logger
}

var _ repository.FilterRepository[bson.M, primitive.ObjectID] = (*Repository[bson.M])(nil)

// New returns a repository of free-form documents identified by their "_id"
// ObjectID.
func New(coll *mongo.Collection) (*Repository[bson.M], error) {
	if coll == nil {
		return nil, fmt.Errorf("%w: nil collection", repository.ErrInvalidModel)
	}
	return newRepository[bson.M](coll, mapCodec{}), nil
}

// NewRecordRepository returns a repository of typed records. T must be a
// pointer to a struct whose identity is encoded under the "id" key, for
// example `bson:"id,omitempty"`.
func NewRecordRepository[T repository.Entity[primitive.ObjectID]](coll *mongo.Collection) (*Repository[T], error) {
	elem, err := repository.CheckRecordType[T]()
	if err != nil {
		return nil, err
	}
	if coll == nil {
		return nil, fmt.Errorf("%w: nil collection", repository.ErrInvalidModel)
	}
	return newRepository[T](coll, recordCodec[T]{elem: elem}), nil
}

func newRepository[T any](coll *mongo.Collection, c codec[T]) *Repository[T] {
	return &Repository[T]{coll: coll, codec: c, logger: database.GetLogger()}
}

// SetLogger replaces the logger used for diagnostics.
func (r *Repository[T]) SetLogger(logger database.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Collection returns the underlying collection.
func (r *Repository[T]) Collection() *mongo.Collection {
	return r.coll
}

func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	return r.coll.EstimatedDocumentCount(ctx)
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
	raw, err := r.coll.FindOne(ctx, byID(id)).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	entity, err := r.codec.decode(raw)
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

func (r *Repository[T]) FindAllBy(ctx context.Context, filter types.Filter, sort types.Sort) ([]T, error) {
	query, err := buildFilter(filter, r.codec.field)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, query, sort, nil)
}

func (r *Repository[T]) FindPageBy(ctx context.Context, filter types.Filter, request types.PageRequest, sort types.Sort) (*types.Page[T], error) {
	query, err := buildFilter(filter, r.codec.field)
	if err != nil {
		return nil, err
	}
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}
	content, err := r.find(ctx, query, sort, &request)
	if err != nil {
		return nil, err
	}
	return types.NewPage(content, request, total), nil
}

// CountBy returns the exact number of documents matching filter.
func (r *Repository[T]) CountBy(ctx context.Context, filter types.Filter) (int64, error) {
	query, err := buildFilter(filter, r.codec.field)
	if err != nil {
		return 0, err
	}
	return r.coll.CountDocuments(ctx, query)
}

// Save inserts entity when it has no identity and replaces the stored
// document otherwise, creating it if needed. The stored document is read
// back and returned.
func (r *Repository[T]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := r.codec.validate(entity); err != nil {
		return zero, err
	}
	id, ok, err := r.codec.identity(entity)
	if err != nil {
		return zero, err
	}
	doc, err := r.codec.encode(entity)
	if err != nil {
		return zero, err
	}

	if ok {
		_, err = r.coll.ReplaceOne(ctx, byID(id), doc, options.Replace().SetUpsert(true))
		if err != nil {
			return zero, err
		}
	} else {
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			return zero, err
		}
		if id, ok = res.InsertedID.(primitive.ObjectID); !ok {
			return zero, fmt.Errorf("unexpected inserted id %T", res.InsertedID)
		}
	}

	saved, found, err := r.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, repository.NotFound(id.Hex())
	}
	return saved, nil
}

// SaveAll saves entities one by one.
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
	if spec := buildSort(sort, r.codec.field); spec != nil {
		opts.SetSort(spec)
	}
	if request != nil {
		opts.SetSkip(int64(request.Offset())).SetLimit(int64(request.Size()))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	result := []T{}
	for cursor.Next(ctx) {
		entity, err := r.codec.decode(cursor.Current)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, cursor.Err()
}

func byID(id primitive.ObjectID) bson.D {
	return bson.D{{Key: StoreIDKey, Value: id}}
}

func byIDs(ids []primitive.ObjectID) bson.D {
	return bson.D{{Key: StoreIDKey, Value: bson.D{{Key: "$in", Value: ids}}}}
}
