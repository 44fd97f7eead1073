package waba

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirim-app/kirim/internal/shared"
)

// Repository provides PostgreSQL backed persistence for messaging accounts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const accountColumns = `id, business_account_id, phone_number_id, display_name, type, status, access_token, created_at, updated_at`

// ListAccounts returns all connected accounts.
func (r *Repository) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM whatsapp_accounts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.BusinessAccountID, &a.PhoneNumberID, &a.DisplayName,
			&a.Type, &a.Status, &a.AccessToken, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CreateAccount connects a new account.
func (r *Repository) CreateAccount(ctx context.Context, a Account) (Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO whatsapp_accounts (id, business_account_id, phone_number_id, display_name, type, status, access_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING `+accountColumns,
		a.ID, a.BusinessAccountID, a.PhoneNumberID, a.DisplayName, a.Type, a.Status, a.AccessToken)
	var created Account
	if err := row.Scan(&created.ID, &created.BusinessAccountID, &created.PhoneNumberID, &created.DisplayName,
		&created.Type, &created.Status, &created.AccessToken, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return Account{}, err
	}
	return created, nil
}

// SetStatus updates the account status (active/inactive).
func (r *Repository) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE whatsapp_accounts SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAccount disconnects an account.
func (r *Repository) DeleteAccount(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM whatsapp_accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
