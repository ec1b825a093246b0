package api

import (
	"strings"
	"time"

	"productapp/internal/auth"
	"productapp/internal/config"
	"productapp/internal/entity"
	"productapp/internal/model"
	"productapp/internal/storage"
)

// HTTPHandler carries the dependencies shared by all HTTP handlers.
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string
	authManager       *auth.Manager
	policy            *auth.Policy
}

// NewHTTPHandler creates the handler set.
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		authManager:       authManager,
		policy:            catalogPolicy(),
	}, nil
}

// catalogPolicy is the route rule table. Order matters: the write rules must
// precede the product catch-all, which would otherwise shadow them.
func catalogPolicy() *auth.Policy {
	return auth.NewPolicy(
		auth.Rule{Method: "GET", Pattern: "/health", Require: auth.Public()},
		auth.Rule{Pattern: "/auth/**", Require: auth.Public()},
		auth.Rule{Pattern: "/files/**", Require: auth.Public()},
		auth.Rule{Method: "POST", Pattern: "/api/products", Require: auth.AllOf(entity.AuthorityAdmin)},
		auth.Rule{Method: "PUT", Pattern: "/api/products/*", Require: auth.AllOf(entity.AuthorityAdmin)},
		auth.Rule{Method: "DELETE", Pattern: "/api/products/*", Require: auth.AllOf(entity.AuthorityAdmin)},
		auth.Rule{Method: "POST", Pattern: "/api/products/*/image", Require: auth.AllOf(entity.AuthorityAdmin)},
		auth.Rule{Pattern: "/api/products/**", Require: auth.AnyOf(entity.AuthorityUser, entity.AuthorityAdmin, entity.AuthorityDealer)},
	)
}

// normalisePublicBase normalises the public URL base path.
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
