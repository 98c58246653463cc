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

package fixtures

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/easyrepo/repository"
	"github.com/tomoncle/easyrepo/repository/memory"
	"github.com/tomoncle/easyrepo/types"
)

type product struct {
	ID    *int64  `yaml:"id"`
	Name  string  `yaml:"name" validate:"required"`
	Price float64 `yaml:"price"`
}

func (p *product) GetID() (int64, bool) {
	if p.ID == nil {
		return 0, false
	}
	return *p.ID, true
}

func (p *product) SetID(id int64) { p.ID = &id }

const products = `
- name: pen
  price: 1.5
- name: ink
  price: 7
---
- name: paper
`

func TestDecode(t *testing.T) {
	items, err := Decode[*product](strings.NewReader(products))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "pen", items[0].Name)
	assert.Equal(t, 7.0, items[1].Price)
	assert.Equal(t, "paper", items[2].Name)
}

func TestDecodeUnknownField(t *testing.T) {
	_, err := Decode[*product](strings.NewReader("- name: pen\n  colour: blue\n"))
	assert.Error(t, err)
}

func TestLoadRecords(t *testing.T) {
	repo, err := memory.NewRecordRepository[*product]()
	require.NoError(t, err)

	saved, err := Load[*product, int64](context.Background(), repo, strings.NewReader(products))
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.Equal(t, int64(1), *saved[0].ID)
	assert.Equal(t, int64(3), *saved[2].ID)
}

func TestLoadMaps(t *testing.T) {
	repo := memory.NewMapRepository()
	saved, err := Load[types.JsonObject, int64](context.Background(), repo, strings.NewReader("- {id: 10, name: a}\n- {name: b}\n"))
	require.NoError(t, err)
	require.Len(t, saved, 2)

	found, ok, err := repo.FindByID(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", found["name"])
}

func TestLoadInvalidEntity(t *testing.T) {
	repo, err := memory.NewRecordRepository[*product]()
	require.NoError(t, err)

	_, err = Load[*product, int64](context.Background(), repo, strings.NewReader("- price: 3\n"))
	assert.ErrorIs(t, err, repository.ErrInvalidEntity)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(products), 0o600))

	repo, err := memory.NewRecordRepository[*product]()
	require.NoError(t, err)
	saved, err := LoadFile[*product, int64](context.Background(), repo, path)
	require.NoError(t, err)
	assert.Len(t, saved, 3)

	_, err = LoadFile[*product, int64](context.Background(), repo, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEmpty(t *testing.T) {
	saved, err := Load[types.JsonObject, int64](context.Background(), memory.NewMapRepository(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, saved)
}
