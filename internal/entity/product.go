package entity

import "time"

// DbProduct represents a catalog entry.
type DbProduct struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description   string    `gorm:"column:description;type:text" json:"description"`
	Price         float64   `gorm:"column:price;index;not null" json:"price"`
	StockQuantity int       `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	Category      string    `gorm:"column:category;type:varchar(100);index" json:"category"`
	ImagePath     string    `gorm:"column:image_path;type:varchar(512)" json:"-"`
}

// TableName overrides default pluralised name.
func (DbProduct) TableName() string {
	return "products"
}

// ProductRequest is the payload for creating or replacing a product.
type ProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"gte=0"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
	Category      string  `json:"category"`
}

// ProductResponse is a product as returned to clients.
type ProductResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductListResponse wraps a product listing.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}
