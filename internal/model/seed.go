package model

import (
	"context"
	"strings"
	"time"

	"travelbuk/internal/auth"
	"travelbuk/internal/config"
	"travelbuk/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SeedSuperAdmin creates the bootstrap super-admin account on first start.
// It runs only when the users table is empty and ADMIN_EMAIL/ADMIN_PASSWORD
// are configured. The bootstrap account is created approved and confirmed,
// otherwise nobody could ever approve anyone.
func SeedSuperAdmin(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	password := strings.TrimSpace(cfg.AdminPassword)
	if email == "" || password == "" {
		return nil
	}

	count, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &entity.DbUser{
		ID:             uuid.NewString(),
		FirstName:      "Super",
		LastName:       "Admin",
		Email:          email,
		PasswordHash:   hash,
		IsApproved:     true,
		EmailConfirmed: true,
		CreatedOn:      time.Now().UTC(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		return err
	}
	if err := repo.AddUserToRole(ctx, user.ID, entity.RoleSuperAdmin); err != nil {
		return err
	}

	logrus.WithField("email", email).Info("seeded bootstrap super admin")
	return nil
}
