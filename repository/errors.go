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
	"errors"
	"fmt"
)

var (
	// ErrInvalidModel is returned when a repository is constructed for a
	// model type it cannot handle.
	ErrInvalidModel = errors.New("model type not handled by repository")

	// ErrInvalidEntity is returned when an operation receives a value the
	// adapter cannot interpret. No backend call has been made.
	ErrInvalidEntity = errors.New("entity not handled by repository")

	// ErrNotFound is returned by operations that escalate absence to a
	// failure, such as in-memory deletes.
	ErrNotFound = errors.New("entity not found")

	// ErrUnknownSortKey is returned when a sort or filter key does not
	// resolve to a field of the model.
	ErrUnknownSortKey = errors.New("unknown sort key")
)

// InvalidModel wraps ErrInvalidModel with the offending type.
func InvalidModel(model any, reason string) error {
	return fmt.Errorf("%w: %T: %s", ErrInvalidModel, model, reason)
}

// InvalidEntity wraps ErrInvalidEntity with a reason.
func InvalidEntity(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEntity, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with the missing identity.
func NotFound(id any) error {
	return fmt.Errorf("%w: id=%v", ErrNotFound, id)
}
