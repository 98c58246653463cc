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

package easyrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/easyrepo/database"
	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/repository/memory"
	"github.com/tomoncle/easyrepo/types"
	"github.com/uptrace/bun"
)

type note struct {
	bun.BaseModel `bun:"table:notes"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Title string `bun:"title,notnull" validate:"required"`
}

func (n *note) GetID() (int64, bool) { return n.ID, n.ID != 0 }

func (n *note) SetID(id int64) { n.ID = id }

func newMemoryService(t *testing.T, count int) Service[types.JsonObject, int64] {
	t.Helper()
	svc := NewService[types.JsonObject, int64](memory.NewMapRepository())
	for i := 0; i < count; i++ {
		_, err := svc.Save(context.Background(), types.JsonObject{"n": i})
		require.NoError(t, err)
	}
	return svc
}

func TestGetMissingIsNotFound(t *testing.T) {
	svc := newMemoryService(t, 1)

	_, err := svc.Get(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	doc, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, doc["n"])
}

func TestEachWalksEveryPage(t *testing.T) {
	svc := newMemoryService(t, 7)

	var seen []int
	err := svc.Each(context.Background(), 3, types.Unsorted(), func(doc types.JsonObject) error {
		seen = append(seen, doc["n"].(int))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, seen)
}

func TestEachStopsOnError(t *testing.T) {
	svc := newMemoryService(t, 5)
	stop := errors.New("stop")

	calls := 0
	err := svc.Each(context.Background(), 2, types.Unsorted(), func(types.JsonObject) error {
		calls++
		if calls == 3 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, calls)

	err = svc.Each(context.Background(), 0, types.Unsorted(), func(types.JsonObject) error { return nil })
	assert.ErrorIs(t, err, types.ErrInvalidPageRequest)
}

func TestEachEmpty(t *testing.T) {
	calls := 0
	err := newMemoryService(t, 0).Each(context.Background(), 2, types.Unsorted(), func(types.JsonObject) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestDeleteAndCount(t *testing.T) {
	ctx := context.Background()
	svc := newMemoryService(t, 4)

	require.NoError(t, svc.Delete(ctx, 4))
	require.NoError(t, svc.Delete(ctx, 1, 2))
	assert.ErrorIs(t, svc.Delete(ctx, 9), repository.ErrNotFound)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	exists, err := svc.Exists(ctx, 3)
	require.NoError(t, err)
	assert.True(t, exists)

	page, err := svc.Page(ctx, types.MustPageRequest(0, 10), types.Unsorted())
	require.NoError(t, err)
	assert.Equal(t, 1, page.NumberOfElements())
	assert.NotNil(t, svc.Repository())
}

func TestRelationalService(t *testing.T) {
	ctx := context.Background()
	svc := NewRelationalService[*note, int64]()

	_, err := svc.Count(ctx)
	require.Error(t, err)

	cfg := database.DefaultConfig()
	cfg.Relational.DBName = "service"
	_, err = database.InitDB(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = database.CloseDB() }()

	saved, err := svc.Save(ctx, &note{Title: "a"}, &note{Title: "b"})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	got, err := svc.Get(ctx, saved[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)

	all, err := svc.All(ctx, types.SortBy(types.DESC, "title"))
	require.NoError(t, err)
	assert.Equal(t, "b", all[0].Title)
}

func TestRelationalServiceWithoutDatabase(t *testing.T) {
	_, err := NewRelationalService[*note, int64]().Count(context.Background())
	assert.Error(t, err)
}
