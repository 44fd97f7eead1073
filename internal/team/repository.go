package team

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirim-app/kirim/internal/shared"
)

// Repository provides PostgreSQL backed persistence for team members.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const memberColumns = `id, user_id, name, email, title, is_active, created_at, updated_at`

// ListMembers returns the roster ordered by name.
func (r *Repository) ListMembers(ctx context.Context) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+memberColumns+` FROM team_members ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Email, &m.Title, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// CreateMember inserts a roster entry.
func (r *Repository) CreateMember(ctx context.Context, m Member) (Member, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO team_members (id, user_id, name, email, title, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+memberColumns, m.ID, m.UserID, m.Name, m.Email, m.Title, m.IsActive)
	var created Member
	if err := row.Scan(&created.ID, &created.UserID, &created.Name, &created.Email, &created.Title,
		&created.IsActive, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return Member{}, err
	}
	return created, nil
}

// SetActive flips the active flag.
func (r *Repository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE team_members SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteMember removes a roster entry.
func (r *Repository) DeleteMember(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
