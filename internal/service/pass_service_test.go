package service

import (
	"context"
	"testing"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPassServiceAt(now time.Time, ruleRepo *MockPricingRuleRepo, passRepo *MockUserPassRepo) PassService {
	svc := NewPassService(ruleRepo, passRepo).(*passService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestPassService_PurchasePass(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)

	flat := 120.0
	duration := 30 * 24 * 60
	lotID := "lot_A"
	passRule := &domain.PricingRule{
		RuleID:                  "rule_pass",
		LotID:                   &lotID,
		Description:             "Monthly Pass",
		IsPass:                  true,
		FlatRate:                &flat,
		FlatRateDurationMinutes: &duration,
		PassType:                domain.PassTypeMonthly,
	}

	t.Run("Success", func(t *testing.T) {
		ruleRepo := new(MockPricingRuleRepo)
		passRepo := new(MockUserPassRepo)
		svc := newPassServiceAt(now, ruleRepo, passRepo)

		ruleRepo.On("GetByID", ctx, "rule_pass").Return(passRule, nil)
		passRepo.On("Create", ctx, mock.AnythingOfType("*domain.UserPass")).Return(nil)

		pass, err := svc.PurchasePass(ctx, "user_1", "rule_pass")
		require.NoError(t, err)
		assert.NotEmpty(t, pass.PassID)
		assert.Equal(t, "user_1", pass.UserID)
		assert.Equal(t, "rule_pass", pass.PassRuleID)
		assert.Equal(t, now, pass.PurchaseDate)
		assert.Equal(t, now.Add(30*24*time.Hour), pass.ExpiryDate)
		require.NotNil(t, pass.LotID)
		assert.Equal(t, "lot_A", *pass.LotID)
	})

	t.Run("Rule Is Not A Pass", func(t *testing.T) {
		ruleRepo := new(MockPricingRuleRepo)
		svc := newPassServiceAt(now, ruleRepo, new(MockUserPassRepo))

		rate := 6.0
		ruleRepo.On("GetByID", ctx, "rule_std").Return(&domain.PricingRule{
			RuleID: "rule_std", Description: "Standard Rate", BaseRatePerHour: &rate,
		}, nil)

		_, err := svc.PurchasePass(ctx, "user_1", "rule_std")
		assert.ErrorIs(t, err, ErrInvalidPassDefinition)
	})

	t.Run("Pass Rule Missing Flat Rate", func(t *testing.T) {
		ruleRepo := new(MockPricingRuleRepo)
		svc := newPassServiceAt(now, ruleRepo, new(MockUserPassRepo))

		ruleRepo.On("GetByID", ctx, "rule_half").Return(&domain.PricingRule{
			RuleID: "rule_half", Description: "Broken Pass", IsPass: true, FlatRate: &flat,
		}, nil)

		_, err := svc.PurchasePass(ctx, "user_1", "rule_half")
		assert.ErrorIs(t, err, ErrInvalidPassDefinition)
	})

	t.Run("Rule Not Found", func(t *testing.T) {
		ruleRepo := new(MockPricingRuleRepo)
		svc := newPassServiceAt(now, ruleRepo, new(MockUserPassRepo))

		ruleRepo.On("GetByID", ctx, "rule_missing").Return(nil, repository.ErrNotFound)

		_, err := svc.PurchasePass(ctx, "user_1", "rule_missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("Invalid Input", func(t *testing.T) {
		svc := newPassServiceAt(now, new(MockPricingRuleRepo), new(MockUserPassRepo))
		_, err := svc.PurchasePass(ctx, "", "rule_pass")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestPassService_GetActiveUserPasses(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)

	ruleRepo := new(MockPricingRuleRepo)
	passRepo := new(MockUserPassRepo)
	svc := newPassServiceAt(now, ruleRepo, passRepo)

	passRepo.On("ListActiveByUser", ctx, "user_1", now).Return([]domain.UserPass{
		{PassID: "pass_soon", PassRuleID: "rule_a", ExpiryDate: now.Add(time.Hour)},
		{PassID: "pass_orphan", PassRuleID: "rule_gone", ExpiryDate: now.Add(2 * time.Hour)},
		{PassID: "pass_later", PassRuleID: "rule_a", ExpiryDate: now.Add(24 * time.Hour)},
	}, nil)
	ruleRepo.On("GetByID", ctx, "rule_a").Return(&domain.PricingRule{RuleID: "rule_a", Description: "Daily Pass", IsPass: true}, nil)
	ruleRepo.On("GetByID", ctx, "rule_gone").Return(nil, repository.ErrNotFound)

	passes, err := svc.GetActiveUserPasses(ctx, "user_1")
	require.NoError(t, err)
	// The orphaned pass is skipped; repository ordering (soonest expiry
	// first) is preserved.
	require.Len(t, passes, 2)
	assert.Equal(t, "pass_soon", passes[0].Pass.PassID)
	assert.Equal(t, "pass_later", passes[1].Pass.PassID)
	assert.Equal(t, "Daily Pass", passes[0].Rule.Description)
}
