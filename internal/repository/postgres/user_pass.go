package postgres

import (
	"context"
	"database/sql"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/repository"
)

type userPassRepository struct {
	db *sql.DB
}

func NewUserPassRepository(db *sql.DB) repository.UserPassRepository {
	return &userPassRepository{db: db}
}

func (r *userPassRepository) Create(ctx context.Context, pass *domain.UserPass) error {
	query := `INSERT INTO user_passes (pass_id, user_id, pass_rule_id, purchase_date, expiry_date, lot_id)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		pass.PassID, pass.UserID, pass.PassRuleID, pass.PurchaseDate, pass.ExpiryDate, pass.LotID)
	return err
}

func (r *userPassRepository) ListByUser(ctx context.Context, userID string) ([]domain.UserPass, error) {
	query := `SELECT pass_id, user_id, pass_rule_id, purchase_date, expiry_date, lot_id
	          FROM user_passes WHERE user_id = $1 ORDER BY expiry_date ASC`
	return r.queryPasses(ctx, query, userID)
}

func (r *userPassRepository) ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]domain.UserPass, error) {
	query := `SELECT pass_id, user_id, pass_rule_id, purchase_date, expiry_date, lot_id
	          FROM user_passes WHERE user_id = $1 AND expiry_date > $2 ORDER BY expiry_date ASC`
	return r.queryPasses(ctx, query, userID, now)
}

func (r *userPassRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.UserPass, error) {
	query := `SELECT pass_id, user_id, pass_rule_id, purchase_date, expiry_date, lot_id
	          FROM user_passes WHERE expiry_date > $1 AND expiry_date <= $2 ORDER BY expiry_date ASC`
	return r.queryPasses(ctx, query, from, to)
}

func (r *userPassRepository) queryPasses(ctx context.Context, query string, args ...any) ([]domain.UserPass, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passes []domain.UserPass
	for rows.Next() {
		var pass domain.UserPass
		var lotID sql.NullString
		if err := rows.Scan(&pass.PassID, &pass.UserID, &pass.PassRuleID,
			&pass.PurchaseDate, &pass.ExpiryDate, &lotID); err != nil {
			return nil, err
		}
		if lotID.Valid {
			pass.LotID = &lotID.String
		}
		passes = append(passes, pass)
	}
	return passes, rows.Err()
}
