package postgres

import (
	"database/sql"

	"carpso-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.PricingRuleRepository
	repository.UserPassRepository
	repository.ParkingRecordRepository
	repository.ParkingLotRepository
	repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		PricingRuleRepository:   NewPricingRuleRepository(db),
		UserPassRepository:      NewUserPassRepository(db),
		ParkingRecordRepository: NewParkingRecordRepository(db),
		ParkingLotRepository:    NewParkingLotRepository(db),
		UserRepository:          NewUserRepository(db),
	}
}
