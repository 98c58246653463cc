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

import "strings"

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Direction is the sort direction of an Order.
type Direction int

const (
	ASC  Direction = 1
	DESC Direction = -1
)

var _ BaseEnum = ASC

// Directions returns every valid direction, ascending first.
func Directions() []Direction {
	return []Direction{ASC, DESC}
}

// ParseDirection resolves a direction by name ("ASC", "desc", "DESCENDING"...).
// The second return value is false when the name is not recognized.
func ParseDirection(name string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ASC", "ASCENDING":
		return ASC, true
	case "DESC", "DES", "DESCENDING":
		return DESC, true
	}
	return 0, false
}

func (d Direction) IsValid() bool {
	return d == ASC || d == DESC
}

// Number returns +1 for ascending and -1 for descending, the same tokens
// document databases use for sort specifications.
func (d Direction) Number() int {
	if !d.IsValid() {
		return IllegalValue
	}
	return int(d)
}

func (d Direction) String() string {
	return d.Name()
}

func (d Direction) Name() string {
	switch d {
	case ASC:
		return "ASC"
	case DESC:
		return "DESC"
	default:
		return IllegalName
	}
}

func (d Direction) Desc() string {
	switch d {
	case ASC:
		return "ascending"
	case DESC:
		return "descending"
	default:
		return IllegalDesc
	}
}

func (d Direction) IsAscending() bool { return d == ASC }

func (d Direction) IsDescending() bool { return d == DESC }
