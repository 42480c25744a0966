// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Service is the read-only provider of product and category data.
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetProduct retrieves a product by ID.
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var p Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &p, nil
}

// GetProductBySlug retrieves a product by its URL slug.
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var p Product
	err := s.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &p, nil
}

// ListProducts returns all products, optionally filtered by category slug or
// a free-text search over name and description.
func (s *Service) ListProducts(ctx context.Context, categorySlug, search string) ([]Product, error) {
	query := s.db.WithContext(ctx).Model(&Product{})

	if categorySlug != "" {
		cat, err := s.GetCategoryBySlug(ctx, categorySlug)
		if err != nil {
			return nil, err
		}
		query = query.Where("category_id = ?", cat.ID)
	}

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var products []Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetCategoryBySlug retrieves a category by its URL slug.
func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var c Category
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &c, nil
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
