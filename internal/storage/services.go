package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/nahuel-dev/turnero/internal/model"
	"github.com/nahuel-dev/turnero/libs/db"
)

const serviceColumns = `
	id, name, COALESCE(description, ''), duration_minutes, price, created_at, updated_at`

type ServiceRepository struct {
	pool *db.Pool
}

func NewServiceRepository(pool *db.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

func (r *ServiceRepository) Create(ctx context.Context, svc *model.Service) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO services (name, description, duration_minutes, price)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id
	`, svc.Name, svc.Description, svc.DurationMinutes, svc.Price).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *ServiceRepository) Get(ctx context.Context, id string) (model.Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+serviceColumns+`
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *ServiceRepository) List(ctx context.Context) ([]model.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT`+serviceColumns+`
		FROM services
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return services, nil
}

func scanService(row pgx.Row) (model.Service, error) {
	var svc model.Service
	err := row.Scan(
		&svc.ID,
		&svc.Name,
		&svc.Description,
		&svc.DurationMinutes,
		&svc.Price,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	)
	if err != nil {
		return model.Service{}, err
	}
	return svc, nil
}
