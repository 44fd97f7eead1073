package campaigns

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirim-app/kirim/internal/shared"
)

// Repository provides PostgreSQL backed persistence for campaigns.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const campaignColumns = `id, name, description, type, status, template, scheduled_at, started_at, completed_at,
	message_count, success_count, failure_count, created_by, created_at, updated_at`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Type, &c.Status, &c.Template,
		&c.ScheduledAt, &c.StartedAt, &c.CompletedAt,
		&c.MessageCount, &c.SuccessCount, &c.FailureCount,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

// ListCampaigns returns all campaigns, newest first.
func (r *Repository) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetCampaign fetches one campaign by ID.
func (r *Repository) GetCampaign(ctx context.Context, id string) (Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, shared.ErrNotFound
		}
		return Campaign{}, err
	}
	return c, nil
}

// CreateCampaign inserts a draft campaign.
func (r *Repository) CreateCampaign(ctx context.Context, c Campaign) (Campaign, error) {
	return scanCampaign(r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (id, name, description, type, status, template, scheduled_at, created_by,
			message_count, success_count, failure_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, 0, NOW(), NOW())
		RETURNING `+campaignColumns,
		c.ID, c.Name, c.Description, c.Type, c.Status, c.Template, c.ScheduledAt, c.CreatedBy))
}

// MarkRunning transitions a campaign into the running state.
func (r *Repository) MarkRunning(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET status = 'running', started_at = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('draft','scheduled')`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkCompleted records final counters and the completed state.
func (r *Repository) MarkCompleted(ctx context.Context, id string, at time.Time, sent, failed int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET status = 'completed', completed_at = $2,
			message_count = $3 + $4, success_count = $3, failure_count = $4, updated_at = NOW()
		WHERE id = $1`, id, at, sent, failed)
	return err
}

// MarkFailed records a dispatch failure.
func (r *Repository) MarkFailed(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE campaigns SET status = 'failed', updated_at = NOW() WHERE id = $1`, id)
	return err
}

// DeleteCampaign removes a campaign.
func (r *Repository) DeleteCampaign(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
