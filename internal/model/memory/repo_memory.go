package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"productapp/internal/entity"
)

// Repository is an in-memory implementation of the persistence interface.
// It reuses gorm's sentinel errors so handlers behave identically against
// either backend. Entities are copied on the way in and out; callers never
// share memory with the store.
type Repository struct {
	mu            sync.RWMutex
	usersByEmail  map[string]*entity.DbUser
	products      map[uint]*entity.DbProduct
	nextUserID    uint
	nextProductID uint
}

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		usersByEmail: make(map[string]*entity.DbUser),
		products:     make(map[uint]*entity.DbProduct),
	}
}

func cloneUser(u *entity.DbUser) *entity.DbUser {
	if u == nil {
		return nil
	}
	out := *u
	out.Authorities = entity.StringArray(u.Authorities.ToSlice())
	return &out
}

func cloneProduct(p *entity.DbProduct) *entity.DbProduct {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

// CreateUser stores a new user; the email is a case-sensitive unique key.
func (r *Repository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	email := strings.TrimSpace(user.Email)
	if email == "" {
		return fmt.Errorf("email is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usersByEmail[email]; exists {
		return gorm.ErrDuplicatedKey
	}

	r.nextUserID++
	user.ID = r.nextUserID
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.usersByEmail[email] = cloneUser(user)
	return nil
}

// GetUserByEmail loads a user by its exact email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, fmt.Errorf("email is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.usersByEmail[trimmed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneUser(user), nil
}

// CreateProduct stores a new product.
func (r *Repository) CreateProduct(ctx context.Context, product *entity.DbProduct) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("product is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextProductID++
	product.ID = r.nextProductID
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = cloneProduct(product)
	return nil
}

// GetProduct loads a product by ID.
func (r *Repository) GetProduct(ctx context.Context, id uint) (*entity.DbProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneProduct(product), nil
}

// SaveProduct writes back a loaded product.
func (r *Repository) SaveProduct(ctx context.Context, product *entity.DbProduct) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if product == nil || product.ID == 0 {
		return fmt.Errorf("invalid product")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	product.UpdatedAt = time.Now().UTC()
	r.products[product.ID] = cloneProduct(product)
	return nil
}

// DeleteProduct removes a product by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

// SearchProducts runs the composed filter predicate over the stored products
// in ID order.
func (r *Repository) SearchProducts(ctx context.Context, query *entity.ProductQuery) ([]entity.DbProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	matches := query.Predicate()
	results := make([]entity.DbProduct, 0, len(ids))
	for _, id := range ids {
		product := r.products[id]
		if matches(product) {
			results = append(results, *cloneProduct(product))
		}
	}
	return results, nil
}
