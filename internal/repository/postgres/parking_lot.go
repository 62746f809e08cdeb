package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/repository"
)

type parkingLotRepository struct {
	db *sql.DB
}

func NewParkingLotRepository(db *sql.DB) repository.ParkingLotRepository {
	return &parkingLotRepository{db: db}
}

func (r *parkingLotRepository) GetByID(ctx context.Context, lotID string) (*domain.ParkingLot, error) {
	query := `SELECT id, name, address, capacity, current_occupancy, latitude, longitude
	          FROM parking_lots WHERE id = $1`
	lot, err := scanParkingLot(r.db.QueryRowContext(ctx, query, lotID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return lot, err
}

func (r *parkingLotRepository) List(ctx context.Context) ([]domain.ParkingLot, error) {
	query := `SELECT id, name, address, capacity, current_occupancy, latitude, longitude
	          FROM parking_lots ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []domain.ParkingLot
	for rows.Next() {
		lot, err := scanParkingLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, *lot)
	}
	return lots, rows.Err()
}

func (r *parkingLotRepository) GetSpot(ctx context.Context, spotID string) (*domain.ParkingSpot, error) {
	query := `SELECT id, lot_id, label, status FROM parking_spots WHERE id = $1`
	var spot domain.ParkingSpot
	var status string
	err := r.db.QueryRowContext(ctx, query, spotID).Scan(&spot.ID, &spot.LotID, &spot.Label, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	spot.Status = domain.SpotStatus(status)
	return &spot, nil
}

func (r *parkingLotRepository) UpdateSpotStatus(ctx context.Context, spotID string, status domain.SpotStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE parking_spots SET status = $2 WHERE id = $1`, spotID, string(status))
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

func scanParkingLot(row rowScanner) (*domain.ParkingLot, error) {
	var lot domain.ParkingLot
	var lat, lng sql.NullFloat64
	err := row.Scan(&lot.ID, &lot.Name, &lot.Address, &lot.Capacity, &lot.CurrentOccupancy, &lat, &lng)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		lot.Latitude = &lat.Float64
	}
	if lng.Valid {
		lot.Longitude = &lng.Float64
	}
	return &lot, nil
}
