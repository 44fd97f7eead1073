package roles

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirim-app/kirim/internal/platform/httpx"
	"github.com/kirim-app/kirim/internal/shared"
)

// Repository provides PostgreSQL backed persistence. Permission lists are
// stored as JSONB documents on the role row.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const roleColumns = `id, name, description, permissions, created_at, updated_at`

func scanRole(row pgx.Row) (Role, error) {
	var (
		role     Role
		rawPerms []byte
	)
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &rawPerms, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return Role{}, err
	}
	if len(rawPerms) > 0 {
		if err := json.Unmarshal(rawPerms, &role.Permissions); err != nil {
			return Role{}, err
		}
	}
	if role.Permissions == nil {
		role.Permissions = []Permission{}
	}
	return role, nil
}

// ListRoles returns all roles ordered by name.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// FindRoleByName returns the role matching the exact name, limit one. The
// unique index on name guarantees at most one match.
func (r *Repository) FindRoleByName(ctx context.Context, name string) (Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1 LIMIT 1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// CreateRole inserts a new role with its permission document.
func (r *Repository) CreateRole(ctx context.Context, role Role) (Role, error) {
	perms, err := json.Marshal(role.Permissions)
	if err != nil {
		return Role{}, err
	}
	created, err := scanRole(r.pool.QueryRow(ctx, `
		INSERT INTO roles (id, name, description, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING `+roleColumns, role.ID, role.Name, role.Description, perms))
	if err != nil {
		if isUniqueViolation(err) {
			return Role{}, httpx.ErrDuplicate
		}
		return Role{}, err
	}
	return created, nil
}

// UpdateRole replaces description and permissions of an existing role.
func (r *Repository) UpdateRole(ctx context.Context, role Role) (Role, error) {
	perms, err := json.Marshal(role.Permissions)
	if err != nil {
		return Role{}, err
	}
	updated, err := scanRole(r.pool.QueryRow(ctx, `
		UPDATE roles SET description = $2, permissions = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING `+roleColumns, role.ID, role.Description, perms))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return updated, nil
}

// DeleteRole removes a role by ID.
func (r *Repository) DeleteRole(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
