package users

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirim-app/kirim/internal/platform/db"
	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/rbac"
	"github.com/kirim-app/kirim/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, name, role, permissions, is_active, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var (
		user     User
		rawPerms []byte
	)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &rawPerms,
		&user.IsActive, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return User{}, err
	}
	if len(rawPerms) > 0 {
		if err := json.Unmarshal(rawPerms, &user.Permissions); err != nil {
			return User{}, err
		}
	}
	return user, nil
}

// ListUsers returns all users ordered by creation time.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, user)
	}
	return list, rows.Err()
}

// CreateUser inserts a new account with a pre-hashed password.
func (r *Repository) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	perms, err := json.Marshal(user.Permissions)
	if err != nil {
		return User{}, err
	}
	created, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, permissions, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING `+userColumns,
		user.ID, user.Email, user.Name, passwordHash, user.Role, perms, user.IsActive))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, httpx.ErrDuplicate
		}
		return User{}, err
	}
	return created, nil
}

// UpdateUser changes name, role, inline permissions and active flag. The
// account row and its team roster entry flip together or not at all.
func (r *Repository) UpdateUser(ctx context.Context, user User) (User, error) {
	perms, err := json.Marshal(user.Permissions)
	if err != nil {
		return User{}, err
	}
	var updated User
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		updated, err = scanUser(tx.QueryRow(ctx, `
			UPDATE users SET name = $2, role = $3, permissions = $4, is_active = $5, updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns,
			user.ID, user.Name, user.Role, perms, user.IsActive))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE team_members SET is_active = $2, updated_at = NOW() WHERE user_id = $1`,
			user.ID, user.IsActive)
		return err
	})
	if err != nil {
		return User{}, err
	}
	return updated, nil
}

// FindUserByID implements rbac.UserFinder: the role reference plus the inline
// fallback permission list, nothing more.
func (r *Repository) FindUserByID(ctx context.Context, id string) (rbac.UserRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, role, permissions FROM users WHERE id = $1 LIMIT 1`, id)

	var (
		record   rbac.UserRecord
		rawPerms []byte
	)
	if err := row.Scan(&record.ID, &record.Role, &rawPerms); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rbac.UserRecord{}, shared.ErrNotFound
		}
		return rbac.UserRecord{}, err
	}
	if len(rawPerms) > 0 {
		if err := json.Unmarshal(rawPerms, &record.Permissions); err != nil {
			return rbac.UserRecord{}, err
		}
	}
	return record, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
