package sql

import (
	"gorm.io/gorm"
)

// GormRepository implements the model.Repository interface using GORM.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}
