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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID    int64  `validate:"-"`
	Email string `validate:"required,email"`
}

func TestValidateRecord(t *testing.T) {
	assert.NoError(t, ValidateRecord(&account{Email: "ann@example.com"}))

	err := ValidateRecord(&account{Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidEntity)

	var nilAccount *account
	assert.ErrorIs(t, ValidateRecord(nilAccount), ErrInvalidEntity)
	assert.ErrorIs(t, ValidateRecord(nil), ErrInvalidEntity)
	assert.ErrorIs(t, ValidateRecord(42), ErrInvalidEntity)
}

func TestCheckRecordType(t *testing.T) {
	elem, err := CheckRecordType[*account]()
	require.NoError(t, err)
	assert.Equal(t, "account", elem.Name())

	rec := NewRecord[*account](elem)
	assert.NotNil(t, rec)

	_, err = CheckRecordType[account]()
	assert.ErrorIs(t, err, ErrInvalidModel)

	_, err = CheckRecordType[any]()
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestErrorHelpersWrapSentinels(t *testing.T) {
	assert.True(t, errors.Is(NotFound(7), ErrNotFound))
	assert.Contains(t, NotFound(7).Error(), "id=7")
	assert.True(t, errors.Is(InvalidModel(account{}, "bad"), ErrInvalidModel))
	assert.True(t, errors.Is(InvalidEntity("bad %d", 1), ErrInvalidEntity))
}
