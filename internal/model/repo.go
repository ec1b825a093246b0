package model

import (
	"context"

	"productapp/internal/entity"
)

// Repository defines the persistence operations the service needs. Each call
// is treated as individually atomic; no multi-step transactions are composed
// above this interface.
type Repository interface {
	// Credential store
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)

	// Product store
	CreateProduct(ctx context.Context, product *entity.DbProduct) error
	GetProduct(ctx context.Context, id uint) (*entity.DbProduct, error)
	SaveProduct(ctx context.Context, product *entity.DbProduct) error
	DeleteProduct(ctx context.Context, id uint) error
	SearchProducts(ctx context.Context, query *entity.ProductQuery) ([]entity.DbProduct, error)
}
