package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rohits-web03/referly/internal/auth"
	"github.com/rohits-web03/referly/internal/config"
	"github.com/rohits-web03/referly/internal/models"
	"github.com/rohits-web03/referly/internal/repositories"
	"github.com/rohits-web03/referly/internal/utils"
)

type AdminStore interface {
	FindAdmin(ctx context.Context) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// EnsureAdmin creates the bootstrap admin unless an admin already exists.
// The returned bool is true when a new account was created.
func EnsureAdmin(ctx context.Context, store AdminStore, cfg config.AdminConfig) (*models.User, bool, error) {
	admin, err := store.FindAdmin(ctx)
	if err != nil {
		return nil, false, err
	}
	if admin != nil {
		return admin, false, nil
	}

	if cfg.Password == "" {
		return nil, false, fmt.Errorf("admin password is not configured")
	}

	hashed, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return nil, false, fmt.Errorf("hash admin password: %w", err)
	}

	userID := cfg.UserID
	if userID == "" {
		if userID, err = utils.GenerateUserID(); err != nil {
			return nil, false, err
		}
	}

	admin = &models.User{
		Name:     cfg.Name,
		Email:    cfg.Email,
		Password: hashed,
		UserID:   userID,
		IsAdmin:  true,
	}
	if err := store.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, false, fmt.Errorf("create admin: %s or user id %s is already taken by a non-admin account: %w", cfg.Email, userID, err)
		}
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return admin, true, nil
}
