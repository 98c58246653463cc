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

// DefaultDirection is the direction used by By when none is given.
const DefaultDirection = ASC

// Order pairs a property key with a sort direction.
type Order struct {
	Key       string
	Direction Direction
}

// Asc returns an ascending order on key.
func Asc(key string) Order { return Order{Key: key, Direction: ASC} }

// Desc returns a descending order on key.
func Desc(key string) Order { return Order{Key: key, Direction: DESC} }

func (o Order) String() string {
	return o.Key + " " + o.Direction.Name()
}

// Sort is an ordered list of orders, most significant first.
//
// The zero value is "unsorted": adapters then return the backend's default
// order, which is unspecified and must not be relied on as stable.
type Sort struct {
	orders []Order
}

// Unsorted returns an empty sort.
func Unsorted() Sort { return Sort{} }

// NewSort creates a sort from the given orders, keeping their precedence.
func NewSort(orders ...Order) Sort {
	if len(orders) == 0 {
		return Sort{}
	}
	o := make([]Order, len(orders))
	copy(o, orders)
	return Sort{orders: o}
}

// By creates an ascending sort over keys.
func By(keys ...string) Sort {
	return SortBy(DefaultDirection, keys...)
}

// SortBy creates a sort over keys, all in direction.
func SortBy(direction Direction, keys ...string) Sort {
	orders := make([]Order, 0, len(keys))
	for _, k := range keys {
		orders = append(orders, Order{Key: k, Direction: direction})
	}
	return NewSort(orders...)
}

// Orders returns a copy of the orders.
func (s Sort) Orders() []Order {
	if len(s.orders) == 0 {
		return nil
	}
	o := make([]Order, len(s.orders))
	copy(o, s.orders)
	return o
}

func (s Sort) IsUnsorted() bool { return len(s.orders) == 0 }

func (s Sort) IsSorted() bool { return len(s.orders) > 0 }

// Ascending returns a new sort with the same keys, all ascending.
func (s Sort) Ascending() Sort { return s.withDirection(ASC) }

// Descending returns a new sort with the same keys, all descending.
func (s Sort) Descending() Sort { return s.withDirection(DESC) }

// And returns a new sort with other's orders appended after s's.
func (s Sort) And(other Sort) Sort {
	return NewSort(append(s.Orders(), other.orders...)...)
}

func (s Sort) withDirection(d Direction) Sort {
	orders := s.Orders()
	for i := range orders {
		orders[i].Direction = d
	}
	return Sort{orders: orders}
}

func (s Sort) String() string {
	if s.IsUnsorted() {
		return "UNSORTED"
	}
	parts := make([]string, len(s.orders))
	for i, o := range s.orders {
		parts[i] = o.String()
	}
	return strings.Join(parts, ", ")
}
