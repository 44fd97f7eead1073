package crm

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirim-app/kirim/internal/shared"
)

// Repository provides PostgreSQL backed persistence for contacts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const contactColumns = `id, name, email, phone, company, tags, labels, notes, status, last_interaction, message_count, created_at, updated_at`

func scanContact(row pgx.Row) (Contact, error) {
	var c Contact
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Tags, &c.Labels,
		&c.Notes, &c.Status, &c.LastInteraction, &c.MessageCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func collect(rows pgx.Rows) ([]Contact, error) {
	defer rows.Close()
	var list []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListContacts returns all contacts, newest first.
func (r *Repository) ListContacts(ctx context.Context) ([]Contact, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// SearchContacts matches name, phone, email or company against the folded
// query term.
func (r *Repository) SearchContacts(ctx context.Context, query string) ([]Contact, error) {
	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1 OR company ILIKE $1
		ORDER BY created_at DESC`, pattern)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ContactStats aggregates counters per status in one pass.
func (r *Repository) ContactStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'active'),
		       COUNT(*) FILTER (WHERE status = 'inactive'),
		       COUNT(*) FILTER (WHERE status = 'blocked')
		FROM contacts`).Scan(&s.Total, &s.Active, &s.Inactive, &s.Blocked)
	return s, err
}

// CreateContact inserts a new contact.
func (r *Repository) CreateContact(ctx context.Context, c Contact) (Contact, error) {
	return scanContact(r.pool.QueryRow(ctx, `
		INSERT INTO contacts (id, name, email, phone, company, tags, labels, notes, status, last_interaction, message_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, NOW(), NOW())
		RETURNING `+contactColumns,
		c.ID, c.Name, c.Email, c.Phone, c.Company, c.Tags, c.Labels, c.Notes, c.Status, c.LastInteraction))
}

// UpdateContact replaces the mutable fields of a contact.
func (r *Repository) UpdateContact(ctx context.Context, c Contact) (Contact, error) {
	updated, err := scanContact(r.pool.QueryRow(ctx, `
		UPDATE contacts SET name = $2, email = $3, phone = $4, company = $5, tags = $6,
			labels = $7, notes = $8, status = $9, last_interaction = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING `+contactColumns,
		c.ID, c.Name, c.Email, c.Phone, c.Company, c.Tags, c.Labels, c.Notes, c.Status, c.LastInteraction))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contact{}, shared.ErrNotFound
		}
		return Contact{}, err
	}
	return updated, nil
}

// DeleteContacts removes the given IDs in one batch statement and returns how
// many rows went away.
func (r *Repository) DeleteContacts(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
