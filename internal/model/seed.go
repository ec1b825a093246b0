package model

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"productapp/internal/auth"
	"productapp/internal/config"
	"productapp/internal/entity"
)

// SeedAdminUser creates the bootstrap ADMIN account when both admin settings
// are configured. Registration only ever grants USER, so this is the single
// path to a first administrator.
func SeedAdminUser(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}
	email := strings.TrimSpace(cfg.AdminEmail)
	password := strings.TrimSpace(cfg.AdminPassword)
	if email == "" || password == "" {
		return nil
	}

	existing, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.Authorities.Contains(entity.AuthorityAdmin) {
			logrus.WithField("email", email).Warn("configured admin account exists without the ADMIN authority")
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through and create
	default:
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &entity.DbUser{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Authorities:  entity.StringArray{entity.AuthorityAdmin},
	}
	return repo.CreateUser(ctx, admin)
}
