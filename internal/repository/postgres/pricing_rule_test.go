package postgres_test

import (
	"context"
	"testing"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/repository"
	"carpso-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var ruleColumns = []string{"rule_id", "lot_id", "description", "base_rate_per_hour", "flat_rate",
	"flat_rate_duration_minutes", "discount_percentage", "time_days", "time_start", "time_end",
	"event_condition", "tier_condition", "is_pass", "pass_type", "priority"}

func TestPricingRuleRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewPricingRuleRepository(db)
	ctx := context.Background()

	rate := 2.50
	rule := &domain.PricingRule{
		RuleID:          "global_base",
		Description:     "Standard Rate",
		BaseRatePerHour: &rate,
		Priority:        100,
	}

	mock.ExpectExec("INSERT INTO pricing_rules").
		WithArgs(rule.RuleID, rule.LotID, rule.Description, rule.BaseRatePerHour, rule.FlatRate,
			rule.FlatRateDurationMinutes, rule.DiscountPercentage, sqlmock.AnyArg(), "", "",
			"", sqlmock.AnyArg(), false, "", rule.Priority).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Save(ctx, rule))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingRuleRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewPricingRuleRepository(db)
	ctx := context.Background()

	// Array columns arrive from the driver in postgres text form.
	mock.ExpectQuery("FROM pricing_rules ORDER BY priority ASC, created_on ASC").
		WillReturnRows(sqlmock.NewRows(ruleColumns).
			AddRow("lot_B_airport_flat", "lot_B", "Airport Daily Flat Rate", nil, 15.00,
				1440, nil, nil, "", "", "", nil, false, "", 5).
			AddRow("global_base", nil, "Standard Rate", 2.50, nil,
				nil, nil, nil, "", "", "", nil, false, "", 100).
			AddRow("peak", nil, "Weekday Peak", 3.00, nil,
				nil, nil, "{Mon,Tue}", "08:00", "18:00", "", nil, false, "", 10))

	rules, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, rules, 3)

	flat := rules[0]
	assert.Equal(t, "lot_B_airport_flat", flat.RuleID)
	assert.NotNil(t, flat.LotID)
	assert.Equal(t, "lot_B", *flat.LotID)
	assert.Equal(t, 15.00, *flat.FlatRate)
	assert.Equal(t, 1440, *flat.FlatRateDurationMinutes)
	assert.Nil(t, flat.BaseRatePerHour)
	assert.Nil(t, flat.TimeCondition)

	hourly := rules[1]
	assert.Nil(t, hourly.LotID)
	assert.Equal(t, 2.50, *hourly.BaseRatePerHour)

	peak := rules[2]
	assert.NotNil(t, peak.TimeCondition)
	assert.Equal(t, []string{"Mon", "Tue"}, peak.TimeCondition.DaysOfWeek)
	assert.Equal(t, "08:00", peak.TimeCondition.StartTime)
}

func TestPricingRuleRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewPricingRuleRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM pricing_rules").
			WithArgs("global_base").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Delete(ctx, "global_base"))
	})

	t.Run("Unknown rule", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM pricing_rules").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(ctx, "missing"), repository.ErrNotFound)
	})
}
