package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/nahuel-dev/turnero/internal/model"
	"github.com/nahuel-dev/turnero/libs/db"
)

const clientColumns = `
	id, name, phone, COALESCE(email, ''), role, created_at, updated_at`

type ClientRepository struct {
	pool *db.Pool
}

func NewClientRepository(pool *db.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// UpsertByPhone finds or creates a client. Phone is the natural key: a new
// phone creates a CLIENT row, a known phone returns the existing row with
// name and email refreshed when the caller supplied them.
func (r *ClientRepository) UpsertByPhone(ctx context.Context, tx pgx.Tx, name, phone, email string) (model.Client, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO clients (name, phone, email)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (phone) DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE clients.name END,
			email = COALESCE(EXCLUDED.email, clients.email),
			updated_at = now()
		RETURNING`+clientColumns+`
	`, name, phone, email)
	return scanClient(row)
}

func (r *ClientRepository) GetByPhone(ctx context.Context, phone string) (model.Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+clientColumns+`
		FROM clients
		WHERE phone = $1
	`, phone)
	return scanClient(row)
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (model.Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+clientColumns+`
		FROM clients
		WHERE id = $1
	`, id)
	return scanClient(row)
}

func (r *ClientRepository) List(ctx context.Context, limit int) ([]model.Client, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT`+clientColumns+`
		FROM clients
		WHERE role = 'CLIENT'
		ORDER BY name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return clients, nil
}

func scanClient(row pgx.Row) (model.Client, error) {
	var c model.Client
	var role string
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &role, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Client{}, err
	}
	c.Role = model.Role(role)
	return c, nil
}
