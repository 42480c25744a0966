// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	// Models in dependency order
	models := []interface{}{
		&user.User{},
		&catalog.Category{},
		&catalog.Product{},
		&order.Order{},
		&order.LineItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// SeedInitialData inserts demo catalog data for development environments.
// It is a no-op when categories already exist.
func (m *Migration) SeedInitialData() error {
	var count int64
	if err := m.db.Model(&catalog.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	m.logger.Info("Seeding demo catalog data")

	categories := []catalog.Category{
		{Name: "Electronics", Slug: "electronics", Description: "Gadgets and devices"},
		{Name: "Clothing", Slug: "clothing", Description: "Apparel for every season"},
		{Name: "Home & Kitchen", Slug: "home-kitchen", Description: "Everything for the home"},
	}
	if err := m.db.Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	comparePrice := func(v float64) *float64 { return &v }
	products := []catalog.Product{
		{
			Name:        "Wireless Headphones",
			Slug:        "wireless-headphones",
			Description: "Over-ear wireless headphones with noise cancellation",
			Price:       89.99,
			CategoryID:  categories[0].ID,
			InStock:     true,
			IsNew:       true,
		},
		{
			Name:         "Smart Watch",
			Slug:         "smart-watch",
			Description:  "Fitness tracking smart watch",
			Price:        149.99,
			ComparePrice: comparePrice(199.99),
			CategoryID:   categories[0].ID,
			InStock:      true,
			IsSale:       true,
		},
		{
			Name:        "Cotton T-Shirt",
			Slug:        "cotton-t-shirt",
			Description: "Classic crew neck t-shirt",
			Price:       19.99,
			CategoryID:  categories[1].ID,
			InStock:     true,
		},
		{
			Name:        "Ceramic Mug Set",
			Slug:        "ceramic-mug-set",
			Description: "Set of four stoneware mugs",
			Price:       34.50,
			CategoryID:  categories[2].ID,
			InStock:     true,
		},
	}
	if err := m.db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	return nil
}
