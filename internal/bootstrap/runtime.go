// Package bootstrap wires the database, schema, Redis and the optional
// administrator account for the binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"blog/internal/config"
	"blog/internal/credentials"
	"blog/internal/database"
	"blog/internal/kv"
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipSchema leaves the schema untouched, for tools that manage it themselves.
	SkipSchema bool
}

// InitRuntime connects to the database and Redis, applies the schema and
// ensures the configured administrator exists. The Redis client is nil when
// REDIS_URL is unset or unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if !opts.SkipSchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("schema apply failed: %w", err)
		}
	}

	if err := EnsureAdmin(ctx, cfg, db); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("failed to bootstrap administrator: %w", err)
	}

	return db, kv.Connect(ctx, cfg.RedisURL), nil
}

// ErrAdminExists is returned when ADMIN_EMAIL names an account other than the
// blog's administrator.
var ErrAdminExists = errors.New("an administrator already exists")

// EnsureAdmin creates the account named by ADMIN_EMAIL with administrator
// rights, or promotes it when it already exists. The stored password of an
// existing account is left alone. It does nothing when ADMIN_EMAIL is unset
// and fails with ErrAdminExists when a different account is the administrator.
func EnsureAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" {
		return nil
	}
	if cfg.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD must be set when ADMIN_EMAIL is set")
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Admin"
	}

	hash, err := credentials.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	created := false
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return err
			}
		}

		var current models.User
		currentErr := tx.Where("is_admin = ?", true).Order("id").First(&current).Error
		switch {
		case currentErr == nil && current.Email != email:
			return fmt.Errorf("%w: %s, refusing to promote %s", ErrAdminExists, current.Email, email)
		case currentErr != nil && !errors.Is(currentErr, gorm.ErrRecordNotFound):
			return currentErr
		}

		var admin models.User
		findErr := tx.Where("email = ?", email).First(&admin).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(&models.User{
				Email:    email,
				Password: hash,
				Name:     service.TitleCase(name),
				IsAdmin:  true,
			}).Error
		case findErr != nil:
			return findErr
		case admin.IsAdmin:
			return nil
		default:
			return tx.Model(&models.User{}).Where("id = ?", admin.ID).Update("is_admin", true).Error
		}
	})
	if err != nil {
		return err
	}

	middleware.Logger.Info("administrator bootstrap ensured",
		slog.String("email", email),
		slog.Bool("created", created),
	)
	return nil
}
