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

package document

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/easyrepo/database"
	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repository.FilterRepository[*person, primitive.ObjectID] = (*Repository[*person])(nil)

// newCollection connects to EASYREPO_MONGO_URI and returns a fresh
// collection that is dropped after the test.
func newCollection(t *testing.T) *mongo.Collection {
	t.Helper()
	uri := os.Getenv("EASYREPO_MONGO_URI")
	if uri == "" {
		t.Skip("EASYREPO_MONGO_URI not set")
	}
	ctx := context.Background()
	client, err := database.NewMongoClient(ctx, &database.DocumentConfig{
		URI:            uri,
		Database:       "easyrepo_test",
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	coll := client.Database("easyrepo_test").Collection(fmt.Sprintf("%s_%d", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = coll.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return coll
}

func TestMapRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := New(newCollection(t))
	require.NoError(t, err)

	saved, err := repo.Save(ctx, bson.M{"_id": nil, "name": "ann"})
	require.NoError(t, err)
	id, ok := saved["_id"].(primitive.ObjectID)
	require.True(t, ok)

	found, ok, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ann", found["name"])

	found["name"] = "anne"
	_, err = repo.Save(ctx, found)
	require.NoError(t, err)
	again, err := repo.Save(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, "anne", again["name"])

	n, err := repo.CountBy(ctx, types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMapRepositoryDescendingSort(t *testing.T) {
	ctx := context.Background()
	repo, err := New(newCollection(t))
	require.NoError(t, err)

	_, err = repo.SaveAll(ctx, []bson.M{{"name": "b"}, {"name": "a"}, {"name": "c"}})
	require.NoError(t, err)

	all, err := repo.FindAll(ctx, types.SortBy(types.DESC, "name"))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0]["name"])
	assert.Equal(t, "b", all[1]["name"])
	assert.Equal(t, "a", all[2]["name"])
}

func TestRecordRepository(t *testing.T) {
	ctx := context.Background()
	repo, err := NewRecordRepository[*person](newCollection(t))
	require.NoError(t, err)

	people, err := repo.SaveAll(ctx, []*person{
		{Name: "ann", Age: 31},
		{Name: "bob", Age: 17},
		{Name: "cy", Age: 45},
	})
	require.NoError(t, err)
	for _, p := range people {
		require.NotNil(t, p.ID)
	}

	adults, err := repo.FindAllBy(ctx, types.Where("age", types.Gte, 18), types.By("age"))
	require.NoError(t, err)
	require.Len(t, adults, 2)
	assert.Equal(t, "ann", adults[0].Name)

	page, err := repo.FindPageBy(ctx, types.Where("age", types.Gte, 18), types.MustPageRequest(1, 1), types.By("age"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements())
	require.Len(t, page.Content, 1)
	assert.Equal(t, "cy", page.Content[0].Name)

	found, err := repo.FindAllByID(ctx, []primitive.ObjectID{*people[0].ID, primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, ok, err := repo.FindByID(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.DeleteByID(ctx, primitive.NewObjectID()))
	require.NoError(t, repo.DeleteAllByID(ctx, []primitive.ObjectID{*people[0].ID, *people[1].ID}))
	exists, err := repo.ExistsByID(ctx, *people[2].ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteAll(ctx))
	n, err := repo.CountBy(ctx, types.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecordRepositoryUpsertAtGivenID(t *testing.T) {
	ctx := context.Background()
	repo, err := NewRecordRepository[*person](newCollection(t))
	require.NoError(t, err)

	id := primitive.NewObjectID()
	saved, err := repo.Save(ctx, &person{ID: &id, Name: "dee"})
	require.NoError(t, err)
	assert.Equal(t, id, *saved.ID)

	page, err := repo.FindPage(ctx, types.MustPageRequest(0, 10), types.Unsorted())
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)
}
