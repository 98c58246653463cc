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
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared struct validator used before saves.
// Callers may register custom validations on it.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRecord checks a typed record before it reaches a backend: it must
// be a non-nil pointer to a struct and satisfy its `validate` tags.
func ValidateRecord(record any) error {
	v := reflect.ValueOf(record)
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return InvalidEntity("nil record")
	}
	if reflect.Indirect(v).Kind() != reflect.Struct {
		return InvalidEntity("%T is not a struct record", record)
	}
	if err := Validator().Struct(record); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return nil
}

// CheckRecordType verifies at construction time that T is a pointer to a
// struct, returning ErrInvalidModel otherwise.
func CheckRecordType[T any]() (reflect.Type, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("%w: missing repository type", ErrInvalidModel)
	}
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, InvalidModel(zero, "must be a pointer to a struct")
	}
	return t.Elem(), nil
}

// NewRecord allocates a zero record for a type checked by CheckRecordType.
func NewRecord[T any](elem reflect.Type) T {
	return reflect.New(elem).Interface().(T)
}
