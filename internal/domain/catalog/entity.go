// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// Product represents a catalog product.
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        float64        `gorm:"not null" json:"price"`
	ComparePrice *float64       `json:"compare_price,omitempty"` // Original price shown struck through
	ImageURL     string         `gorm:"size:500" json:"image_url"`
	CategoryID   uint           `gorm:"not null;index" json:"category_id"`
	InStock      bool           `gorm:"default:true" json:"in_stock"`
	IsNew        bool           `gorm:"default:false" json:"is_new"`
	IsSale       bool           `gorm:"default:false" json:"is_sale"`
	Rating       float64        `gorm:"default:0" json:"rating"`
	ReviewCount  int            `gorm:"default:0" json:"review_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`
}

// Category represents a product category.
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"size:500" json:"description"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "categories" }

// Snapshot converts the product into the immutable-at-use view a cart holds.
func (p *Product) Snapshot() cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Price:        p.Price,
		ComparePrice: p.ComparePrice,
		ImageURL:     p.ImageURL,
		InStock:      p.InStock,
	}
}
