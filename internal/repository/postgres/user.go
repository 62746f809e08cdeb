package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT id, name, email, tier, COALESCE(device_token, '') FROM users WHERE id = $1`
	var user domain.User
	var tier string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&user.ID, &user.Name, &user.Email, &tier, &user.DeviceToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.Tier = domain.UserTier(tier)
	return &user, nil
}
