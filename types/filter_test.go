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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterAndIsImmutable(t *testing.T) {
	base := Where("age", Gte, 18)
	narrowed := base.And("status", Eq, "active")

	assert.Len(t, base.Conditions(), 1)
	assert.Equal(t, []Condition{
		{Key: "age", Operator: Gte, Value: 18},
		{Key: "status", Operator: Eq, Value: "active"},
	}, narrowed.Conditions())
}

func TestFilterZeroValue(t *testing.T) {
	var f Filter
	assert.True(t, f.IsEmpty())
	assert.Nil(t, f.Conditions())
	assert.NoError(t, f.Validate())
}

func TestFilterValidate(t *testing.T) {
	assert.NoError(t, Where("name", In, []string{"a"}).Validate())
	assert.Error(t, Where("", Eq, 1).Validate())
	assert.Error(t, Where("name", Operator("like"), "a%").Validate())
}

func TestOperatorIsValid(t *testing.T) {
	for _, op := range []Operator{Eq, Ne, Gt, Gte, Lt, Lte, In} {
		assert.True(t, op.IsValid(), op)
	}
	assert.False(t, Operator("").IsValid())
}
