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

// Package metrics instruments repositories with Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/types"
)

// Metrics holds the collectors shared by every instrumented repository.
// Series are labelled by repository name and operation.
type Metrics struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors under namespace and registers them with
// reg. A collector already registered by an earlier call is reused.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	labels := []string{"repository", "operation"}
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "operations_total",
			Help:      "Repository operations by repository and operation.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "errors_total",
			Help:      "Repository operations that returned an error.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "operation_duration_seconds",
			Help:      "Repository operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}
	var err error
	if m.operations, err = register(reg, m.operations); err != nil {
		return nil, err
	}
	if m.failures, err = register(reg, m.failures); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(name, op string, start time.Time, err error) {
	m.operations.WithLabelValues(name, op).Inc()
	m.duration.WithLabelValues(name, op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.failures.WithLabelValues(name, op).Inc()
	}
}

// Repository decorates a PagingRepository with metrics. It changes no
// behaviour of the wrapped repository.
type Repository[T any, ID comparable] struct {
	next    repository.PagingRepository[T, ID]
	metrics *Metrics
	name    string
}

// Wrap instruments next, reporting under name.
func Wrap[T any, ID comparable](next repository.PagingRepository[T, ID], m *Metrics, name string) *Repository[T, ID] {
	return &Repository[T, ID]{next: next, metrics: m, name: name}
}

// track records one call. err is read when the deferred call runs.
func (r *Repository[T, ID]) track(op string, start time.Time, err *error) {
	r.metrics.observe(r.name, op, start, *err)
}

func (r *Repository[T, ID]) Count(ctx context.Context) (n int64, err error) {
	defer r.track("count", time.Now(), &err)
	return r.next.Count(ctx)
}

func (r *Repository[T, ID]) DeleteAll(ctx context.Context) (err error) {
	defer r.track("delete_all", time.Now(), &err)
	return r.next.DeleteAll(ctx)
}

func (r *Repository[T, ID]) DeleteAllByID(ctx context.Context, ids []ID) (err error) {
	defer r.track("delete_all_by_id", time.Now(), &err)
	return r.next.DeleteAllByID(ctx, ids)
}

func (r *Repository[T, ID]) DeleteByID(ctx context.Context, id ID) (err error) {
	defer r.track("delete_by_id", time.Now(), &err)
	return r.next.DeleteByID(ctx, id)
}

func (r *Repository[T, ID]) ExistsByID(ctx context.Context, id ID) (ok bool, err error) {
	defer r.track("exists_by_id", time.Now(), &err)
	return r.next.ExistsByID(ctx, id)
}

func (r *Repository[T, ID]) FindAll(ctx context.Context, sort types.Sort) (entities []T, err error) {
	defer r.track("find_all", time.Now(), &err)
	return r.next.FindAll(ctx, sort)
}

func (r *Repository[T, ID]) FindAllByID(ctx context.Context, ids []ID) (entities []T, err error) {
	defer r.track("find_all_by_id", time.Now(), &err)
	return r.next.FindAllByID(ctx, ids)
}

func (r *Repository[T, ID]) FindByID(ctx context.Context, id ID) (entity T, found bool, err error) {
	defer r.track("find_by_id", time.Now(), &err)
	return r.next.FindByID(ctx, id)
}

func (r *Repository[T, ID]) FindPage(ctx context.Context, request types.PageRequest, sort types.Sort) (page *types.Page[T], err error) {
	defer r.track("find_page", time.Now(), &err)
	return r.next.FindPage(ctx, request, sort)
}

func (r *Repository[T, ID]) Save(ctx context.Context, entity T) (saved T, err error) {
	defer r.track("save", time.Now(), &err)
	return r.next.Save(ctx, entity)
}

func (r *Repository[T, ID]) SaveAll(ctx context.Context, entities []T) (saved []T, err error) {
	defer r.track("save_all", time.Now(), &err)
	return r.next.SaveAll(ctx, entities)
}
