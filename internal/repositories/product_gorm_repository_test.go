package repositories_test

import (
	"fmt"
	"testing"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh shared-cache in-memory sqlite database named
// after the test, so parallel tests never see each other's rows.
func setupTestDB(t *testing.T) *repositories.GORMProductRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return repositories.NewGORMProductRepository(db)
}

func TestGORMProductRepository_CreateAndGetByID(t *testing.T) {
	repo := setupTestDB(t)

	product := models.Product{Name: "Blue Widget", Description: "a widget", Price: 15.00}
	require.NoError(t, repo.Create(&product))
	assert.NotZero(t, product.ID, "the store assigns the ID on creation")

	fetched, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, fetched.ID)
	assert.Equal(t, "Blue Widget", fetched.Name)
	assert.Equal(t, "a widget", fetched.Description)
	assert.Equal(t, 15.00, fetched.Price)
}

func TestGORMProductRepository_GetByID_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetByID(99999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMProductRepository_UpdateRoundTrip(t *testing.T) {
	repo := setupTestDB(t)

	product := models.Product{Name: "Widget", Price: 10.00}
	require.NoError(t, repo.Create(&product))

	product.Name = "Widget v2"
	product.Description = "revised"
	product.Price = 12.50
	require.NoError(t, repo.Update(&product))

	fetched, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", fetched.Name)
	assert.Equal(t, "revised", fetched.Description)
	assert.Equal(t, 12.50, fetched.Price)
}

func TestGORMProductRepository_DeleteIsIdempotent(t *testing.T) {
	repo := setupTestDB(t)

	product := models.Product{Name: "Widget", Price: 10.00}
	require.NoError(t, repo.Create(&product))

	require.NoError(t, repo.Delete(product.ID))
	_, err := repo.GetByID(product.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// A second delete of the same ID is a no-op.
	assert.NoError(t, repo.Delete(product.ID))
}

func seedSearchProducts(t *testing.T, repo *repositories.GORMProductRepository) {
	t.Helper()
	products := []models.Product{
		{Name: "Blue Widget", Description: "a nice blue thing", Price: 15.00},
		{Name: "Tester", Description: "a widget for testing", Price: 9.99},
		{Name: "Gadget", Description: "entirely different", Price: 20.01},
	}
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}
}

func TestGORMProductRepository_Search_TextMatch(t *testing.T) {
	repo := setupTestDB(t)
	seedSearchProducts(t, repo)

	// Case-insensitive, matches name OR description.
	products, err := repo.Search(repositories.ProductFilter{Query: "WIDGET"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	names := []string{products[0].Name, products[1].Name}
	assert.ElementsMatch(t, []string{"Blue Widget", "Tester"}, names)
}

func TestGORMProductRepository_Search_PriceBounds(t *testing.T) {
	repo := setupTestDB(t)
	seedSearchProducts(t, repo)

	min, max := 10.0, 20.0
	products, err := repo.Search(repositories.ProductFilter{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Blue Widget", products[0].Name)
}

func TestGORMProductRepository_Search_Conjunction(t *testing.T) {
	repo := setupTestDB(t)
	seedSearchProducts(t, repo)

	// Text AND lower bound: "Tester" matches the text but not the price.
	min := 10.0
	products, err := repo.Search(repositories.ProductFilter{Query: "widget", MinPrice: &min})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Blue Widget", products[0].Name)
}

func TestGORMProductRepository_Search_ZeroFilterEqualsGetAll(t *testing.T) {
	repo := setupTestDB(t)
	seedSearchProducts(t, repo)

	all, err := repo.GetAll()
	require.NoError(t, err)
	searched, err := repo.Search(repositories.ProductFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, all, searched)
}
