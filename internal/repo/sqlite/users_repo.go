package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/folioworks/portfolio-api/internal/domain/user"
	"github.com/folioworks/portfolio-api/internal/observability"
)

type UsersRepo struct {
	pool *sql.DB
	mx   *observability.Prom
}

func NewUsersRepo(pool *sql.DB, mx *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, mx: mx}
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := observe(r.mx, "users.get_by_email", func() error {
		return r.pool.QueryRowContext(
			ctx,
			`SELECT id, email, password_hash, role, created_at
			 FROM users
			 WHERE email = ?`,
			email,
		).Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.Role,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}
