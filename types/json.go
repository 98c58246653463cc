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
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JsonObject is the free-form key-mapping entity shape. It doubles as a
// JSON column type for relational models.
type JsonObject map[string]interface{}

// Clone returns a shallow copy of j.
func (j JsonObject) Clone() JsonObject {
	if j == nil {
		return nil
	}
	c := make(JsonObject, len(j))
	for k, v := range j {
		c[k] = v
	}
	return c
}

// JsonArray is a convenience type for JSON columns mapped to arrays.
type JsonArray []JsonObject

// Value implements driver.Valuer for JsonObject.
func (j JsonObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for JsonObject.
func (j *JsonObject) Scan(value interface{}) error {
	if value == nil {
		*j = make(JsonObject)
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, j)
}

// Value implements driver.Valuer for JsonArray.
func (j JsonArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for JsonArray.
func (j *JsonArray) Scan(value interface{}) error {
	if value == nil {
		*j = make(JsonArray, 0)
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, j)
}

// jsonBytes accepts the column representations drivers hand back for JSON:
// MySQL and Postgres return []byte, SQLite returns string.
func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported JSON column type %T", value)
	}
}
