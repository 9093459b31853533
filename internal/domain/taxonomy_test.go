package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taxonomyJSON = `{
  "categories": [
    {
      "id": "vozila",
      "name": "Vozila",
      "icon": "car",
      "sub_categories": [
        {"name": "Osobni automobili", "items": ["Volkswagen", "BMW", "Ostalo"]},
        {"name": "Motocikli"}
      ]
    },
    {"id": "ostalo", "name": "Ostalo", "sub_categories": [{"name": "Razno"}]}
  ]
}`

func writeTaxonomy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTaxonomy(t *testing.T) {
	taxonomy, err := LoadTaxonomy(writeTaxonomy(t, taxonomyJSON))
	require.NoError(t, err)

	require.Len(t, taxonomy.Categories, 2)
	assert.Equal(t, []string{"Vozila", "Ostalo"}, taxonomy.CategoryNames())

	cat := taxonomy.FindCategory("Vozila")
	require.NotNil(t, cat)
	assert.Len(t, cat.SubCategories, 2)
}

func TestLoadTaxonomyFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTaxonomy(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := LoadTaxonomy(writeTaxonomy(t, "{not json"))
		assert.Error(t, err)
	})

	t.Run("empty tree", func(t *testing.T) {
		_, err := LoadTaxonomy(writeTaxonomy(t, `{"categories": []}`))
		assert.Error(t, err)
	})
}

func TestFindCategory(t *testing.T) {
	taxonomy, err := LoadTaxonomy(writeTaxonomy(t, taxonomyJSON))
	require.NoError(t, err)

	t.Run("case insensitive exact match", func(t *testing.T) {
		cat := taxonomy.FindCategory("vozila")
		require.NotNil(t, cat)
		assert.Equal(t, "Vozila", cat.Name)
	})

	t.Run("substring match", func(t *testing.T) {
		cat := taxonomy.FindCategory("Vozila i mašine")
		require.NotNil(t, cat)
		assert.Equal(t, "Vozila", cat.Name)
	})

	t.Run("unknown name", func(t *testing.T) {
		assert.Nil(t, taxonomy.FindCategory("Nepoznato"))
	})

	t.Run("empty name", func(t *testing.T) {
		assert.Nil(t, taxonomy.FindCategory(""))
	})
}

func TestSubCategoryItems(t *testing.T) {
	taxonomy, err := LoadTaxonomy(writeTaxonomy(t, taxonomyJSON))
	require.NoError(t, err)

	cat := taxonomy.FindCategory("Vozila")
	require.NotNil(t, cat)

	group := cat.FindSubCategory("osobni automobili")
	require.NotNil(t, group)
	assert.True(t, group.HasItem("bmw"))
	assert.False(t, group.HasItem("Nokia"))

	noItems := cat.FindSubCategory("Motocikli")
	require.NotNil(t, noItems)
	assert.Empty(t, noItems.Items)
}
