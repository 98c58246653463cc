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
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// IDKey is the identity field of typed records.
	IDKey = "id"
	// StoreIDKey is the identity field of stored documents.
	StoreIDKey = "_id"
)

// codec converts between entities and stored documents. It is picked when the
// repository is constructed.
type codec[T any] interface {
	validate(entity T) error
	identity(entity T) (primitive.ObjectID, bool, error)
	encode(entity T) (bson.M, error)
	decode(raw bson.Raw) (T, error)
	// field maps a contract key to the stored field name.
	field(key string) string
}

// mapCodec passes bson.M documents through. The identity is the "_id" value,
// which must be an ObjectID when present.
type mapCodec struct{}

func (mapCodec) validate(doc bson.M) error {
	if doc == nil {
		return repository.InvalidEntity("nil document")
	}
	return nil
}

func (mapCodec) identity(doc bson.M) (primitive.ObjectID, bool, error) {
	v, ok := doc[StoreIDKey]
	if !ok || v == nil {
		return primitive.NilObjectID, false, nil
	}
	id, ok := v.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, false, repository.InvalidEntity("%s must be an ObjectID, got %T", StoreIDKey, v)
	}
	return id, true, nil
}

func (mapCodec) encode(doc bson.M) (bson.M, error) {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	if v, ok := out[StoreIDKey]; ok && v == nil {
		delete(out, StoreIDKey)
	}
	return out, nil
}

func (mapCodec) decode(raw bson.Raw) (bson.M, error) {
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (mapCodec) field(key string) string { return key }

// recordCodec stores typed records. The record's "id" field is kept as "_id"
// in the collection and renamed on the way in and out.
type recordCodec[T repository.Entity[primitive.ObjectID]] struct {
	elem reflect.Type
}

func (recordCodec[T]) validate(record T) error {
	return repository.ValidateRecord(record)
}

func (recordCodec[T]) identity(record T) (primitive.ObjectID, bool, error) {
	id, ok := record.GetID()
	if ok && id.IsZero() {
		ok = false
	}
	return id, ok, nil
}

func (c recordCodec[T]) encode(record T) (bson.M, error) {
	data, err := bson.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrInvalidEntity, err)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrInvalidEntity, err)
	}
	delete(doc, IDKey)
	delete(doc, StoreIDKey)
	if id, ok, _ := c.identity(record); ok {
		doc[StoreIDKey] = id
	}
	return doc, nil
}

func (c recordCodec[T]) decode(raw bson.Raw) (T, error) {
	var zero T
	elements, err := raw.Elements()
	if err != nil {
		return zero, err
	}
	renamed := make(bson.D, 0, len(elements))
	var id primitive.ObjectID
	for _, e := range elements {
		key, value := e.Key(), e.Value()
		if key == StoreIDKey {
			key = IDKey
			id, _ = value.ObjectIDOK()
		}
		renamed = append(renamed, bson.E{Key: key, Value: value})
	}
	data, err := bson.Marshal(renamed)
	if err != nil {
		return zero, err
	}
	record := repository.NewRecord[T](c.elem)
	if err := bson.Unmarshal(data, record); err != nil {
		return zero, err
	}
	if !id.IsZero() {
		record.SetID(id)
	}
	return record, nil
}

func (recordCodec[T]) field(key string) string {
	if key == IDKey {
		return StoreIDKey
	}
	return key
}
