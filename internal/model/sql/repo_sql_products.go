package sql

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"productapp/internal/entity"
)

// CreateProduct persists a new catalog entry.
func (r *GormRepository) CreateProduct(ctx context.Context, product *entity.DbProduct) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if product == nil {
		return fmt.Errorf("product is nil")
	}
	return r.db.WithContext(ctx).Create(product).Error
}

// GetProduct loads a product by ID.
func (r *GormRepository) GetProduct(ctx context.Context, id uint) (*entity.DbProduct, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid product id")
	}
	var product entity.DbProduct
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SaveProduct writes back a loaded product.
func (r *GormRepository) SaveProduct(ctx context.Context, product *entity.DbProduct) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if product == nil || product.ID == 0 {
		return fmt.Errorf("invalid product")
	}
	return r.db.WithContext(ctx).Save(product).Error
}

// DeleteProduct removes a product by ID.
func (r *GormRepository) DeleteProduct(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid product id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbProduct{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchProducts applies the filter conjunction in SQL. Each present clause
// adds a WHERE condition; an empty query returns every product.
func (r *GormRepository) SearchProducts(ctx context.Context, query *entity.ProductQuery) ([]entity.DbProduct, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	stmt := r.db.WithContext(ctx).Model(&entity.DbProduct{})
	if query != nil {
		if query.Name != nil {
			if trimmed := strings.TrimSpace(*query.Name); trimmed != "" {
				stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
			}
		}
		if query.Category != nil {
			if trimmed := strings.TrimSpace(*query.Category); trimmed != "" {
				stmt = stmt.Where("LOWER(category) = ?", strings.ToLower(trimmed))
			}
		}
		switch {
		case query.MinPrice != nil && query.MaxPrice != nil:
			stmt = stmt.Where("price BETWEEN ? AND ?", *query.MinPrice, *query.MaxPrice)
		case query.MinPrice != nil:
			stmt = stmt.Where("price >= ?", *query.MinPrice)
		case query.MaxPrice != nil:
			stmt = stmt.Where("price <= ?", *query.MaxPrice)
		}
	}

	var products []entity.DbProduct
	if err := stmt.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
