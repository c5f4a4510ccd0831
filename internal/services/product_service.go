package services

import (
	"log"
	"strings"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/pkg/events"
)

// EventPublisher publishes catalog change events. The RabbitMQ client in
// pkg/events satisfies it; a nil publisher disables publishing.
type EventPublisher interface {
	PublishProductEvent(event events.ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID. The returned error
// wraps repositories.ErrNotFound when the ID is unknown.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product; the store assigns its ID.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publish(events.ActionCreated, product)
	return nil
}

// UpdateProduct replaces the name, description and price of an existing
// product. It returns repositories.ErrNotFound when the ID is unknown.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	existing, err := s.repo.GetByID(product.ID)
	if err != nil {
		return err
	}
	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	if err := s.repo.Update(existing); err != nil {
		return err
	}
	*product = *existing
	s.publish(events.ActionUpdated, product)
	return nil
}

// DeleteProduct deletes a product by its ID. It returns
// repositories.ErrNotFound when the ID is unknown.
func (s *ProductService) DeleteProduct(id uint) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish(events.ActionDeleted, existing)
	return nil
}

// SearchProducts retrieves the products matching a conjunctive filter built
// from the present parameters: a case-insensitive substring match against
// name or description when query is non-blank, and inclusive price bounds
// when minPrice/maxPrice are set. With every parameter absent the result is
// equivalent to GetAllProducts.
func (s *ProductService) SearchProducts(query string, minPrice, maxPrice *float64) ([]models.Product, error) {
	filter := repositories.ProductFilter{
		Query:    strings.TrimSpace(query),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}
	return s.repo.Search(filter)
}

// publish sends a product event if a publisher is configured. Publish
// failures are logged, never surfaced to the caller.
func (s *ProductService) publish(action string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	event := events.ProductEvent{
		Action:    action,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		At:        time.Now(),
	}
	if err := s.publisher.PublishProductEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for product %d: %v", action, product.ID, err)
	}
}
