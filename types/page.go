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
	"errors"
	"fmt"
)

// ErrInvalidPageRequest is returned when a page number is negative or a page
// size is not positive.
var ErrInvalidPageRequest = errors.New("invalid page request")

// PageRequest describes a requested window: a zero-based page number and a
// page size.
type PageRequest struct {
	number int
	size   int
}

// NewPageRequest validates and constructs a PageRequest.
func NewPageRequest(number, size int) (PageRequest, error) {
	if number < 0 {
		return PageRequest{}, fmt.Errorf("%w: page number must not be negative, got %d", ErrInvalidPageRequest, number)
	}
	if size <= 0 {
		return PageRequest{}, fmt.Errorf("%w: page size must be greater than 0, got %d", ErrInvalidPageRequest, size)
	}
	return PageRequest{number: number, size: size}, nil
}

// MustPageRequest is like NewPageRequest but panics on invalid input.
func MustPageRequest(number, size int) PageRequest {
	p, err := NewPageRequest(number, size)
	if err != nil {
		panic(err)
	}
	return p
}

// OfSize returns a request for the first page of the given size.
func OfSize(size int) (PageRequest, error) {
	return NewPageRequest(0, size)
}

func (p PageRequest) Number() int { return p.number }

func (p PageRequest) Size() int { return p.size }

// Offset returns the number of elements to skip.
func (p PageRequest) Offset() int {
	return p.number * p.size
}

func (p PageRequest) First() PageRequest {
	return PageRequest{number: 0, size: p.size}
}

func (p PageRequest) Next() PageRequest {
	return PageRequest{number: p.number + 1, size: p.size}
}

// Previous returns the request for the previous page, or p itself when p
// already is the first page.
func (p PageRequest) Previous() PageRequest {
	if p.number == 0 {
		return p
	}
	return PageRequest{number: p.number - 1, size: p.size}
}

func (p PageRequest) HasPrevious() bool {
	return p.number > 0
}

func (p PageRequest) String() string {
	return fmt.Sprintf("Page request [number: %d, size: %d]", p.number, p.size)
}

// Page is a window over a larger result. Request and Total are optional.
type Page[T any] struct {
	Content []T
	Request *PageRequest
	Total   *int64
}

// NewPage builds a page for content selected by request out of total
// elements.
func NewPage[T any](content []T, request PageRequest, total int64) *Page[T] {
	if content == nil {
		content = make([]T, 0)
	}
	return &Page[T]{Content: content, Request: &request, Total: &total}
}

// NewUnpagedPage wraps content that was not selected by any request.
func NewUnpagedPage[T any](content []T) *Page[T] {
	return &Page[T]{Content: content}
}

func (p *Page[T]) Number() int {
	if p.Request == nil {
		return 0
	}
	return p.Request.Number()
}

func (p *Page[T]) Size() int {
	if p.Request == nil {
		return len(p.Content)
	}
	return p.Request.Size()
}

func (p *Page[T]) NumberOfElements() int {
	return len(p.Content)
}

// TotalElements returns the total element count, or -1 when unknown.
func (p *Page[T]) TotalElements() int64 {
	if p.Total == nil {
		return -1
	}
	return *p.Total
}

func (p *Page[T]) TotalPages() int {
	size := p.Size()
	if size == 0 || p.Total == nil {
		return 1
	}
	total := *p.Total
	return int((total + int64(size) - 1) / int64(size))
}

func (p *Page[T]) HasContent() bool { return len(p.Content) > 0 }

func (p *Page[T]) HasNext() bool { return p.Number()+1 < p.TotalPages() }

func (p *Page[T]) HasPrevious() bool { return p.Number() > 0 }

func (p *Page[T]) IsFirst() bool { return !p.HasPrevious() }

func (p *Page[T]) IsLast() bool { return !p.HasNext() }

// NextPageRequest returns nil when the page was not requested or is the last.
func (p *Page[T]) NextPageRequest() *PageRequest {
	if p.Request == nil || !p.HasNext() {
		return nil
	}
	next := p.Request.Next()
	return &next
}

// PreviousPageRequest returns nil when the page was not requested or is the
// first.
func (p *Page[T]) PreviousPageRequest() *PageRequest {
	if p.Request == nil || !p.HasPrevious() {
		return nil
	}
	prev := p.Request.Previous()
	return &prev
}

// MapPage converts the content of a page, keeping its metadata.
func MapPage[T, R any](p *Page[T], fn func(T) R) *Page[R] {
	content := make([]R, len(p.Content))
	for i, v := range p.Content {
		content[i] = fn(v)
	}
	return &Page[R]{Content: content, Request: p.Request, Total: p.Total}
}
