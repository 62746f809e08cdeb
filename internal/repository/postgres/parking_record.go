package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/repository"
)

type parkingRecordRepository struct {
	db *sql.DB
}

func NewParkingRecordRepository(db *sql.DB) repository.ParkingRecordRepository {
	return &parkingRecordRepository{db: db}
}

const parkingRecordColumns = `record_id, user_id, lot_id, spot_id, start_time, end_time,
	       duration_minutes, cost, status, payment_method, applied_pricing_rule`

func (r *parkingRecordRepository) Create(ctx context.Context, record *domain.ParkingRecord) error {
	query := `INSERT INTO parking_records (record_id, user_id, lot_id, spot_id, start_time, end_time,
	              duration_minutes, cost, status, payment_method, applied_pricing_rule)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		record.RecordID, record.UserID, record.LotID, record.SpotID, record.StartTime, record.EndTime,
		record.DurationMinutes, record.Cost, string(record.Status), string(record.PaymentMethod),
		record.AppliedPricingRule)
	return err
}

func (r *parkingRecordRepository) GetByID(ctx context.Context, recordID string) (*domain.ParkingRecord, error) {
	query := `SELECT ` + parkingRecordColumns + ` FROM parking_records WHERE record_id = $1`
	record, err := scanParkingRecord(r.db.QueryRowContext(ctx, query, recordID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return record, err
}

func (r *parkingRecordRepository) Update(ctx context.Context, record *domain.ParkingRecord) error {
	query := `UPDATE parking_records SET end_time = $2, duration_minutes = $3, cost = $4,
	              status = $5, payment_method = $6, applied_pricing_rule = $7
	          WHERE record_id = $1`
	res, err := r.db.ExecContext(ctx, query,
		record.RecordID, record.EndTime, record.DurationMinutes, record.Cost,
		string(record.Status), string(record.PaymentMethod), record.AppliedPricingRule)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *parkingRecordRepository) List(ctx context.Context, filter domain.RecordFilter) ([]domain.ParkingRecord, error) {
	query := `SELECT ` + parkingRecordColumns + ` FROM parking_records WHERE 1=1`
	var args []any

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	// "all" is the UI sentinel for no lot filter.
	if filter.LotID != "" && filter.LotID != "all" {
		args = append(args, filter.LotID)
		query += fmt.Sprintf(" AND lot_id = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND start_time >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND start_time <= $%d", len(args))
	}
	query += " ORDER BY start_time DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ParkingRecord
	for rows.Next() {
		record, err := scanParkingRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (r *parkingRecordRepository) GetActiveByUserAndSpot(ctx context.Context, userID, spotID string) (*domain.ParkingRecord, error) {
	query := `SELECT ` + parkingRecordColumns + ` FROM parking_records
	          WHERE user_id = $1 AND spot_id = $2 AND status = 'Active' LIMIT 1`
	record, err := scanParkingRecord(r.db.QueryRowContext(ctx, query, userID, spotID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return record, err
}

func scanParkingRecord(row rowScanner) (*domain.ParkingRecord, error) {
	var record domain.ParkingRecord
	var endTime sql.NullTime
	var duration sql.NullInt64
	var status, paymentMethod, appliedRule sql.NullString

	err := row.Scan(&record.RecordID, &record.UserID, &record.LotID, &record.SpotID,
		&record.StartTime, &endTime, &duration, &record.Cost, &status, &paymentMethod, &appliedRule)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		record.EndTime = &endTime.Time
	}
	if duration.Valid {
		d := int(duration.Int64)
		record.DurationMinutes = &d
	}
	record.Status = domain.RecordStatus(status.String)
	record.PaymentMethod = domain.PaymentMethod(paymentMethod.String)
	record.AppliedPricingRule = appliedRule.String
	return &record, nil
}
