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

import "fmt"

// Operator is a comparison used by a filter Condition.
type Operator string

const (
	Eq  Operator = "eq"
	Ne  Operator = "ne"
	Gt  Operator = "gt"
	Gte Operator = "gte"
	Lt  Operator = "lt"
	Lte Operator = "lte"
	In  Operator = "in"
)

func (o Operator) IsValid() bool {
	switch o {
	case Eq, Ne, Gt, Gte, Lt, Lte, In:
		return true
	}
	return false
}

// Condition compares the value stored under Key with Value.
// For In, Value must be a slice.
type Condition struct {
	Key      string
	Operator Operator
	Value    any
}

// Filter is a conjunction of conditions. The zero value matches everything.
type Filter struct {
	conditions []Condition
}

// Where starts a filter with a single condition.
func Where(key string, op Operator, value any) Filter {
	return Filter{}.And(key, op, value)
}

// And returns a new filter with the condition appended.
func (f Filter) And(key string, op Operator, value any) Filter {
	c := make([]Condition, len(f.conditions), len(f.conditions)+1)
	copy(c, f.conditions)
	return Filter{conditions: append(c, Condition{Key: key, Operator: op, Value: value})}
}

// Conditions returns a copy of the conditions.
func (f Filter) Conditions() []Condition {
	if len(f.conditions) == 0 {
		return nil
	}
	c := make([]Condition, len(f.conditions))
	copy(c, f.conditions)
	return c
}

func (f Filter) IsEmpty() bool { return len(f.conditions) == 0 }

// Validate reports the first condition with an unknown operator or an empty
// key.
func (f Filter) Validate() error {
	for _, c := range f.conditions {
		if c.Key == "" {
			return fmt.Errorf("filter condition has an empty key")
		}
		if !c.Operator.IsValid() {
			return fmt.Errorf("filter condition on %q has unknown operator %q", c.Key, c.Operator)
		}
	}
	return nil
}
