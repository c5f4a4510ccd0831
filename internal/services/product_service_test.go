package services_test

import (
	"fmt"
	"testing"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) Search(filter repositories.ProductFilter) ([]models.Product, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Product), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProductEvent(event events.ProductEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func notFoundErr(id uint) error {
	return fmt.Errorf("product with ID %d: %w", id, repositories.ErrNotFound)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Product A", Price: 10.0},
		{ID: 2, Name: "Product B", Price: 20.0},
	}

	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProduct := &models.Product{ID: 1, Name: "Product A", Price: 10.0}

	// Test successful retrieval
	mockRepo.On("GetByID", uint(1)).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", uint(99)).Return(nil, notFoundErr(99)).Once()
	product, err = service.GetProductByID(99)
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockPublisher := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockPublisher)

	newProduct := &models.Product{Name: "New Product", Price: 50.0}

	// Test successful creation publishes a created event
	mockRepo.On("Create", newProduct).Return(nil).Once()
	mockPublisher.On("PublishProductEvent", mock.MatchedBy(func(e events.ProductEvent) bool {
		return e.Action == events.ActionCreated && e.Name == "New Product"
	})).Return(nil).Once()

	err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)

	// Test creation failure does not publish
	mockRepo.On("Create", newProduct).Return(fmt.Errorf("database error")).Once()
	err = service.CreateProduct(newProduct)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestProductService_CreateProduct_NoPublisher(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	newProduct := &models.Product{Name: "New Product", Price: 50.0}
	mockRepo.On("Create", newProduct).Return(nil).Once()

	// Must not panic with a nil publisher.
	err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	// Successful update fetches the row first and replaces its fields.
	existing := &models.Product{ID: 1, Name: "Product A", Description: "old", Price: 10.0}
	mockRepo.On("GetByID", uint(1)).Return(existing, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == 1 && p.Name == "Product A Updated" && p.Price == 12.0
	})).Return(nil).Once()

	err := service.UpdateProduct(&models.Product{ID: 1, Name: "Product A Updated", Description: "new", Price: 12.0})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Unknown ID surfaces ErrNotFound without touching Update.
	mockRepo.On("GetByID", uint(99)).Return(nil, notFoundErr(99)).Once()
	err = service.UpdateProduct(&models.Product{ID: 99, Name: "NonExistent", Price: 1.0})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	// Test successful deletion
	mockRepo.On("GetByID", uint(1)).Return(&models.Product{ID: 1, Name: "Product A"}, nil).Once()
	mockRepo.On("Delete", uint(1)).Return(nil).Once()
	err := service.DeleteProduct(1)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Unknown ID surfaces ErrNotFound
	mockRepo.On("GetByID", uint(99)).Return(nil, notFoundErr(99)).Once()
	err = service.DeleteProduct(99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchProducts_FilterComposition(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	min := 10.0
	max := 20.0

	// All parameters present: every clause carried through, query trimmed.
	mockRepo.On("Search", repositories.ProductFilter{
		Query:    "widget",
		MinPrice: &min,
		MaxPrice: &max,
	}).Return([]models.Product{}, nil).Once()
	_, err := service.SearchProducts("  widget  ", &min, &max)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// All parameters absent: zero filter, equivalent to GetAll.
	mockRepo.On("Search", repositories.ProductFilter{}).Return([]models.Product{}, nil).Once()
	_, err = service.SearchProducts("", nil, nil)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Blank query collapses to no text clause.
	mockRepo.On("Search", repositories.ProductFilter{MinPrice: &min}).Return([]models.Product{}, nil).Once()
	_, err = service.SearchProducts("   ", &min, nil)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchProducts_Semantics(t *testing.T) {
	// Use the in-memory repository to exercise the matching itself.
	repo := repositories.NewMemoryProductRepository()
	service := services.NewProductService(repo, nil)

	seed := []models.Product{
		{Name: "Blue Widget", Price: 15.00},
		{Name: "Tester", Description: "a widget for testing", Price: 9.99},
		{Name: "Gadget", Price: 20.01},
	}
	for i := range seed {
		assert.NoError(t, service.CreateProduct(&seed[i]))
	}

	// Case-insensitive substring over name OR description.
	products, err := service.SearchProducts("WIDGET", nil, nil)
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	for _, p := range products {
		assert.NotEqual(t, "Gadget", p.Name)
	}

	// Price bounds are inclusive.
	min, max := 10.0, 20.0
	products, err = service.SearchProducts("", &min, &max)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Blue Widget", products[0].Name)

	// No parameters: same set as GetAllProducts.
	products, err = service.SearchProducts("", nil, nil)
	assert.NoError(t, err)
	all, err := service.GetAllProducts()
	assert.NoError(t, err)
	assert.ElementsMatch(t, all, products)
}
