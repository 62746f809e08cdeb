package domain

import "time"

// UserPass is a purchased, time-boxed parking pass. Passes are never
// deleted; an expired pass simply stops matching the active filter.
type UserPass struct {
	PassID       string    `json:"pass_id"`
	UserID       string    `json:"user_id"`
	PassRuleID   string    `json:"pass_rule_id"`
	PurchaseDate time.Time `json:"purchase_date"`
	ExpiryDate   time.Time `json:"expiry_date"`
	LotID        *string   `json:"lot_id,omitempty"` // inherited from the rule; nil = any lot
}

// ActiveAt reports whether the pass is still valid at the given instant.
func (p *UserPass) ActiveAt(now time.Time) bool {
	return p.ExpiryDate.After(now)
}

// CoversLot reports whether the pass covers parking at the given lot.
func (p *UserPass) CoversLot(lotID string) bool {
	return p.LotID == nil || *p.LotID == lotID
}

// ActivePass pairs a pass with its rule definition for display.
type ActivePass struct {
	Pass UserPass    `json:"pass"`
	Rule PricingRule `json:"rule"`
}
