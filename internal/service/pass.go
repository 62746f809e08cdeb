package service

import (
	"context"
	"fmt"
	"time"

	"carpso-backend/internal/domain"
	"carpso-backend/internal/logger"
	"carpso-backend/internal/repository"

	"github.com/google/uuid"
)

type passService struct {
	ruleRepo repository.PricingRuleRepository
	passRepo repository.UserPassRepository
	now      func() time.Time
}

func NewPassService(ruleRepo repository.PricingRuleRepository, passRepo repository.UserPassRepository) PassService {
	return &passService{
		ruleRepo: ruleRepo,
		passRepo: passRepo,
		now:      time.Now,
	}
}

func (s *passService) PurchasePass(ctx context.Context, userID, passRuleID string) (*domain.UserPass, error) {
	if userID == "" || passRuleID == "" {
		return nil, fmt.Errorf("%w: user id and pass rule id are required", ErrInvalidInput)
	}

	rule, err := s.ruleRepo.GetByID(ctx, passRuleID)
	if err != nil {
		return nil, err
	}
	// A purchasable pass is a pass rule priced as a flat rate over a fixed
	// duration. Anything else is not sellable.
	if !rule.IsPass || rule.FlatRate == nil || rule.FlatRateDurationMinutes == nil {
		return nil, fmt.Errorf("%w: rule %s", ErrInvalidPassDefinition, passRuleID)
	}

	now := s.now()
	pass := &domain.UserPass{
		PassID:       uuid.NewString(),
		UserID:       userID,
		PassRuleID:   rule.RuleID,
		PurchaseDate: now,
		ExpiryDate:   now.Add(time.Duration(*rule.FlatRateDurationMinutes) * time.Minute),
		LotID:        rule.LotID,
	}
	if err := s.passRepo.Create(ctx, pass); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "pass purchased",
		"user_id", userID, "pass_id", pass.PassID, "rule_id", rule.RuleID,
		"expires", pass.ExpiryDate)
	return pass, nil
}

func (s *passService) GetActiveUserPasses(ctx context.Context, userID string) ([]domain.ActivePass, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	passes, err := s.passRepo.ListActiveByUser(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	// Join each pass with its rule definition; a pass whose rule was
	// deleted is skipped rather than shown half-described.
	out := make([]domain.ActivePass, 0, len(passes))
	for _, p := range passes {
		rule, err := s.ruleRepo.GetByID(ctx, p.PassRuleID)
		if err != nil {
			logger.Warn("active pass references missing rule", "pass_id", p.PassID, "rule_id", p.PassRuleID)
			continue
		}
		out = append(out, domain.ActivePass{Pass: p, Rule: *rule})
	}
	return out, nil
}
