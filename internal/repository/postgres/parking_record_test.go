package postgres_test

import (
	"context"
	"testing"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/repository"
	"carpso-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var recordColumns = []string{"record_id", "user_id", "lot_id", "spot_id", "start_time", "end_time",
	"duration_minutes", "cost", "status", "payment_method", "applied_pricing_rule"}

func TestParkingRecordRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewParkingRecordRepository(db)
	ctx := context.Background()

	record := &domain.ParkingRecord{
		RecordID:  "rec_1",
		UserID:    "user_1",
		LotID:     "lot_A",
		SpotID:    "spot_1",
		StartTime: time.Now(),
		Status:    domain.RecordStatusActive,
	}

	mock.ExpectExec("INSERT INTO parking_records").
		WithArgs(record.RecordID, record.UserID, record.LotID, record.SpotID, record.StartTime,
			record.EndTime, record.DurationMinutes, record.Cost, "Active", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Create(ctx, record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParkingRecordRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewParkingRecordRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		start := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT record_id, .+ FROM parking_records WHERE record_id").
			WithArgs("rec_1").
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow("rec_1", "user_1", "lot_A", "spot_1", start, nil, nil, 0.0, "Active", "", ""))

		record, err := repo.GetByID(ctx, "rec_1")
		assert.NoError(t, err)
		assert.Equal(t, "rec_1", record.RecordID)
		assert.Equal(t, domain.RecordStatusActive, record.Status)
		assert.Nil(t, record.EndTime)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT record_id, .+ FROM parking_records WHERE record_id").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(recordColumns))

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestParkingRecordRepository_ListFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewParkingRecordRepository(db)
	ctx := context.Background()
	start := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)

	t.Run("User filter only", func(t *testing.T) {
		mock.ExpectQuery("SELECT record_id, .+ FROM parking_records WHERE 1=1 AND user_id = \\$1 ORDER BY start_time DESC").
			WithArgs("user_1").
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow("rec_2", "user_1", "lot_B", "spot_9", start.Add(time.Hour), nil, nil, 0.0, "Active", "", "").
				AddRow("rec_1", "user_1", "lot_A", "spot_1", start, nil, nil, 0.0, "Active", "", ""))

		records, err := repo.List(ctx, domain.RecordFilter{UserID: "user_1"})
		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, "rec_2", records[0].RecordID)
	})

	t.Run("Lot sentinel all is ignored", func(t *testing.T) {
		mock.ExpectQuery("SELECT record_id, .+ FROM parking_records WHERE 1=1 ORDER BY start_time DESC").
			WillReturnRows(sqlmock.NewRows(recordColumns))

		_, err := repo.List(ctx, domain.RecordFilter{LotID: "all"})
		assert.NoError(t, err)
	})

	t.Run("Date window", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 31, 23, 59, 59, 999000000, time.UTC)
		mock.ExpectQuery("SELECT record_id, .+ AND start_time >= \\$1 AND start_time <= \\$2 ORDER BY start_time DESC").
			WithArgs(from, to).
			WillReturnRows(sqlmock.NewRows(recordColumns))

		_, err := repo.List(ctx, domain.RecordFilter{StartDate: &from, EndDate: &to})
		assert.NoError(t, err)
	})
}

func TestParkingRecordRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewParkingRecordRepository(db)
	ctx := context.Background()

	end := time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)
	duration := 120
	record := &domain.ParkingRecord{
		RecordID:        "rec_1",
		EndTime:         &end,
		DurationMinutes: &duration,
		Cost:            5.00,
		Status:          domain.RecordStatusCompleted,
		PaymentMethod:   domain.PaymentMethodWallet,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE parking_records SET").
			WithArgs(record.RecordID, record.EndTime, record.DurationMinutes, record.Cost,
				"Completed", "Wallet", "").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, record))
	})

	t.Run("Missing record", func(t *testing.T) {
		mock.ExpectExec("UPDATE parking_records SET").
			WithArgs(record.RecordID, record.EndTime, record.DurationMinutes, record.Cost,
				"Completed", "Wallet", "").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(ctx, record), repository.ErrNotFound)
	})
}

func TestParkingRecordRepository_GetActiveByUserAndSpot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewParkingRecordRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("status = 'Active' LIMIT 1").
		WithArgs("user_1", "spot_1").
		WillReturnRows(sqlmock.NewRows(recordColumns))

	_, err = repo.GetActiveByUserAndSpot(ctx, "user_1", "spot_1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
