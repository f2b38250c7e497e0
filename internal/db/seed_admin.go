package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/domain/user"
	"github.com/folioworks/portfolio-api/internal/security"
	"github.com/google/uuid"
)

// EnsureAdminUser inserts the bootstrap admin credential on first start.
// It is a no-op when the email already exists or seeding is not configured.
func EnsureAdminUser(ctx context.Context, pool *sql.DB, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy string

	err := pool.QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, cfg.AdminEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = pool.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		`,
		u.ID, u.Email, u.PasswordHash, u.Role, u.CreatedAt,
	)

	return err
}
