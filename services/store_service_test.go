package services

import (
	"testing"

	"trilha-do-cristo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreService_EmbeddedCatalog(t *testing.T) {
	store, err := NewStoreService(models.ProductCatalogYAML)
	require.NoError(t, err)

	all := store.Products("")
	require.Len(t, all, 8)
	assert.Equal(t, all, store.Products(models.AllCategories))

	shirt, err := store.Product("camiseta-trilha-do-cristo")
	require.NoError(t, err)
	assert.Equal(t, "Camiseta Trilha do Cristo", shirt.Name)
	assert.Equal(t, "R$ 45,90", shirt.FormattedPrice)

	for _, p := range store.Products("Vestuário") {
		assert.Equal(t, "Vestuário", p.Category)
	}
	assert.Equal(t, models.AllCategories, store.Categories()[0])

	_, err = store.Product("nao-existe")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestStoreService_DuplicateSlug(t *testing.T) {
	_, err := NewStoreService([]byte(`
products:
  - name: Boné
  - name: bone
`))
	assert.Error(t, err)
}
