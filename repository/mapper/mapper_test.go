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

package mapper

import (
	"context"
	"testing"
	"time"

	"github.com/kamva/mgm/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type book struct {
	mgm.DefaultModel `bson:",inline"`

	Title string `bson:"title" validate:"required"`
	Pages int    `bson:"pages" validate:"gte=0"`
}

func (b *book) CollectionName() string { return "books" }

type valueDoc struct{}

func (valueDoc) PrepareID(id interface{}) (interface{}, error) { return id, nil }

func (valueDoc) GetID() interface{} { return nil }

func (valueDoc) SetID(interface{}) {}

type badID struct {
	ID string `bson:"_id"`
}

func (b *badID) PrepareID(id interface{}) (interface{}, error) { return id, nil }

func (b *badID) GetID() interface{} { return b.ID }

func (b *badID) SetID(id interface{}) { b.ID, _ = id.(string) }

var _ repository.PagingRepository[*book, primitive.ObjectID] = (*Repository[*book])(nil)

const ns = "test.books"

func newRepo(mt *mtest.T) *Repository[*book] {
	repo, err := New[*book](mt.DB)
	require.NoError(mt, err)
	return repo
}

// commands returns the command documents sent with the given name.
func commands(mt *mtest.T, name string) []bson.Raw {
	var out []bson.Raw
	for _, e := range mt.GetAllStartedEvents() {
		if e.CommandName == name {
			out = append(out, e.Command)
		}
	}
	return out
}

func countResponse(n int32) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: n}})
}

func bookDoc(id primitive.ObjectID, title string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "title", Value: title}}
}

func TestNewInvalidModel(t *testing.T) {
	_, err := New[valueDoc](nil)
	assert.ErrorIs(t, err, repository.ErrInvalidModel)

	_, err = New[*book](nil)
	assert.ErrorIs(t, err, repository.ErrInvalidModel)
}

func TestSortSpec(t *testing.T) {
	assert.Nil(t, sortSpec(types.Unsorted()))
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}, {Key: "title", Value: 1}},
		sortSpec(types.SortBy(types.DESC, "id").And(types.By("title"))))
}

func TestRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("collection named by mgm", func(mt *mtest.T) {
		assert.Equal(mt, "books", newRepo(mt).Collection().Name())
	})

	mt.Run("insert assigns id and returns stored document", func(mt *mtest.T) {
		repo := newRepo(mt)
		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "title", Value: "Go"},
				{Key: "pages", Value: 380},
				{Key: "created_at", Value: primitive.NewDateTimeFromTime(created)},
			}),
		)

		saved, err := repo.Save(context.Background(), &book{Title: "Go"})
		require.NoError(mt, err)
		assert.False(mt, saved.ID.IsZero())
		assert.Equal(mt, 380, saved.Pages)
		assert.True(mt, created.Equal(saved.CreatedAt))

		inserts := commands(mt, "insert")
		require.Len(mt, inserts, 1)
		doc := inserts[0].Lookup("documents").Array().Index(0).Value().Document()
		assert.Equal(mt, "Go", doc.Lookup("title").StringValue())
		assert.False(mt, doc.Lookup("updated_at").Time().IsZero())

		finds := commands(mt, "find")
		require.Len(mt, finds, 1)
		assert.Equal(mt, saved.ID, finds[0].Lookup("filter", "_id").ObjectID())
	})

	mt.Run("save with identity upserts", func(mt *mtest.T) {
		repo := newRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bookDoc(id, "Go 2")),
		)

		b := &book{Title: "Go 2"}
		b.SetID(id)
		saved, err := repo.Save(context.Background(), b)
		require.NoError(mt, err)
		assert.Equal(mt, id, saved.ID)

		updates := commands(mt, "update")
		require.Len(mt, updates, 1)
		stmt := updates[0].Lookup("updates").Array().Index(0).Value().Document()
		assert.True(mt, stmt.Lookup("upsert").Boolean())
		assert.Equal(mt, id, stmt.Lookup("q", "_id").ObjectID())
		assert.Equal(mt, "Go 2", stmt.Lookup("u", "$set", "title").StringValue())
		assert.Empty(mt, commands(mt, "insert"))
	})

	mt.Run("invalid entities never reach the server", func(mt *mtest.T) {
		repo := newRepo(mt)
		_, err := repo.Save(context.Background(), &book{})
		assert.ErrorIs(mt, err, repository.ErrInvalidEntity)
		_, err = repo.Save(context.Background(), nil)
		assert.ErrorIs(mt, err, repository.ErrInvalidEntity)
		_, err = repo.Save(context.Background(), &book{Title: "x", Pages: -1})
		assert.ErrorIs(mt, err, repository.ErrInvalidEntity)
		assert.Empty(mt, mt.GetAllStartedEvents())
	})

	mt.Run("non ObjectID identity is invalid", func(mt *mtest.T) {
		repo, err := New[*badID](mt.DB)
		require.NoError(mt, err)
		_, err = repo.Save(context.Background(), &badID{ID: "abc"})
		assert.ErrorIs(mt, err, repository.ErrInvalidEntity)
	})

	mt.Run("find by id of absent document", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, found, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.False(mt, found)
	})

	mt.Run("find page sends skip limit and sort", func(mt *mtest.T) {
		repo := newRepo(mt)
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(
			countResponse(5),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bookDoc(a, "c"), bookDoc(b, "d")),
		)

		page, err := repo.FindPage(context.Background(), types.MustPageRequest(1, 2), types.SortBy(types.DESC, "title"))
		require.NoError(mt, err)
		assert.Equal(mt, int64(5), page.TotalElements())
		assert.Equal(mt, 3, page.TotalPages())
		require.Len(mt, page.Content, 2)
		assert.Equal(mt, a, page.Content[0].ID)

		finds := commands(mt, "find")
		require.Len(mt, finds, 1)
		assert.Equal(mt, int64(2), finds[0].Lookup("skip").AsInt64())
		assert.Equal(mt, int64(2), finds[0].Lookup("limit").AsInt64())
		assert.Equal(mt, int64(-1), finds[0].Lookup("sort", "title").AsInt64())
	})

	mt.Run("find all unsorted sends no sort", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		all, err := repo.FindAll(context.Background(), types.Unsorted())
		require.NoError(mt, err)
		assert.NotNil(mt, all)
		assert.Empty(mt, all)

		finds := commands(mt, "find")
		require.Len(mt, finds, 1)
		_, err = finds[0].LookupErr("sort")
		assert.Error(mt, err)
	})

	mt.Run("find all by id", func(mt *mtest.T) {
		repo := newRepo(mt)
		a, missing := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bookDoc(a, "a")))

		got, err := repo.FindAllByID(context.Background(), []primitive.ObjectID{a, missing})
		require.NoError(mt, err)
		require.Len(mt, got, 1)
		assert.Equal(mt, a, got[0].ID)

		in := commands(mt, "find")[0].Lookup("filter", "_id", "$in").Array()
		values, err := in.Values()
		require.NoError(mt, err)
		assert.Len(mt, values, 2)

		none, err := repo.FindAllByID(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, none)
	})

	mt.Run("exists and count", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(
			countResponse(1),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			countResponse(3),
		)
		ctx := context.Background()

		ok, err := repo.ExistsByID(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.True(mt, ok)
		ok, err = repo.ExistsByID(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.False(mt, ok)

		n, err := repo.Count(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})

	mt.Run("deletes", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
			mtest.CreateSuccessResponse(),
		)
		ctx := context.Background()

		require.NoError(mt, repo.DeleteByID(ctx, primitive.NewObjectID()))
		require.NoError(mt, repo.DeleteAllByID(ctx, []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}))
		require.NoError(mt, repo.DeleteAllByID(ctx, nil))
		require.NoError(mt, repo.DeleteAll(ctx))

		assert.Len(mt, commands(mt, "delete"), 2)
		assert.Len(mt, commands(mt, "drop"), 1)
	})

	mt.Run("save all stops at the first failure", func(mt *mtest.T) {
		repo := newRepo(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "title", Value: "a"}}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
		)

		first := &book{Title: "a"}
		_, err := repo.SaveAll(context.Background(), []*book{first, {Title: "b"}, {Title: "c"}})
		require.Error(mt, err)
		assert.False(mt, first.ID.IsZero())
		assert.Len(mt, commands(mt, "insert"), 2)
	})
}
