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
	"github.com/stretchr/testify/require"
)

func TestJsonObjectValueScan(t *testing.T) {
	obj := JsonObject{"name": "ada", "age": float64(36)}
	v, err := obj.Value()
	require.NoError(t, err)

	var fromBytes JsonObject
	require.NoError(t, fromBytes.Scan(v))
	assert.Equal(t, obj, fromBytes)

	var fromString JsonObject
	require.NoError(t, fromString.Scan(string(v.([]byte))))
	assert.Equal(t, obj, fromString)

	var empty JsonObject
	require.NoError(t, empty.Scan(nil))
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)

	assert.Error(t, empty.Scan(42))

	var nilObj JsonObject
	v, err = nilObj.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestJsonArrayValueScan(t *testing.T) {
	arr := JsonArray{{"a": float64(1)}, {"b": "x"}}
	v, err := arr.Value()
	require.NoError(t, err)

	var got JsonArray
	require.NoError(t, got.Scan(v))
	assert.Equal(t, arr, got)

	var empty JsonArray
	require.NoError(t, empty.Scan(nil))
	assert.Len(t, empty, 0)
}

func TestJsonObjectClone(t *testing.T) {
	obj := JsonObject{"k": 1}
	c := obj.Clone()
	c["k"] = 2
	assert.Equal(t, 1, obj["k"])
	assert.Nil(t, JsonObject(nil).Clone())
}
