package storage

import (
	"context"

	"github.com/nahuel-dev/turnero/libs/db"
)

// StaffUser is a dashboard login identity, distinct from booking clients.
type StaffUser struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

type StaffRepository struct {
	pool *db.Pool
}

func NewStaffRepository(pool *db.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

func (r *StaffRepository) Create(ctx context.Context, user StaffUser) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_users (email, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`, user.Email, user.Name, user.PasswordHash, user.Role)
	return err
}

func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (StaffUser, error) {
	var user StaffUser
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role
		FROM staff_users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role)
	if err != nil {
		return StaffUser{}, err
	}
	return user, nil
}
