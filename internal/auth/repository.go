package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirim-app/kirim/internal/shared"
)

// Repository defines the data access surface the auth service needs.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// PGRepository provides PostgreSQL backed persistence. The permissions column
// is a JSONB document mirroring the role permission lists.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail returns the user record matching the email, limit one.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role, permissions, is_active, last_login, created_at, updated_at
		FROM users WHERE email = $1 LIMIT 1`, email)

	var (
		user     User
		rawPerms []byte
		last     *time.Time
	)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role,
		&rawPerms, &user.IsActive, &last, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if last != nil {
		user.LastLogin = *last
	}
	if len(rawPerms) > 0 {
		if err := json.Unmarshal(rawPerms, &user.Permissions); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// TouchLastLogin stamps the last successful login time.
func (r *PGRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2, updated_at = NOW() WHERE id = $1`, id, at)
	return err
}
