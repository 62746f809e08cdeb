// Package pricing resolves dynamic parking costs from a rule set.
// Everything here is pure: callers load rules and passes, this package
// filters, orders and prices them. Cost evaluation never fails: when no
// rule matches it degrades to a zero-cost fallback so a price display can
// never break a reservation flow.
package pricing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"carpso-backend/internal/domain"
)

// DefaultHourlyRate is the absolute fallback used when the best rule is
// discount-only and no other applicable rule carries a rate.
const DefaultHourlyRate = 2.50

// NoRuleApplied is the applied-rule text of the zero-cost fallback.
const NoRuleApplied = "No applicable pricing rule found."

var dayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Estimate is the result of a cost calculation.
type Estimate struct {
	Cost            float64 `json:"cost"`
	AppliedRule     string  `json:"applied_rule"`
	IsCoveredByPass bool    `json:"is_covered_by_pass"`
}

// ApplicableRules filters non-pass rules down to those matching the lot,
// the current time, any event predicate and the user tier, then orders them
// by ascending priority. The sort is stable so equal priorities keep their
// insertion order.
func ApplicableRules(rules []domain.PricingRule, lot domain.ParkingLot, tier domain.UserTier, now time.Time, events EventTable) []domain.PricingRule {
	var out []domain.PricingRule
	for _, rule := range rules {
		if rule.IsPass {
			continue
		}
		if !rule.AppliesTo(lot.ID) {
			continue
		}
		if !timeConditionMatches(rule.TimeCondition, now) {
			continue
		}
		if rule.EventCondition != "" && !events.Active(rule.EventCondition, lot, now) {
			continue
		}
		if len(rule.UserTierCondition) > 0 && !tierIn(tier, rule.UserTierCondition) {
			continue
		}
		out = append(out, rule)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func timeConditionMatches(tc *domain.TimeCondition, now time.Time) bool {
	if tc == nil {
		return true
	}
	if len(tc.DaysOfWeek) > 0 {
		day := dayNames[int(now.Weekday())]
		found := false
		for _, d := range tc.DaysOfWeek {
			if d == day {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if tc.StartTime != "" || tc.EndTime != "" {
		// HH:MM strings compare correctly as strings. The window does not
		// wrap past midnight.
		current := now.Format("15:04")
		if tc.StartTime != "" && current < tc.StartTime {
			return false
		}
		if tc.EndTime != "" && current >= tc.EndTime {
			return false
		}
	}
	return true
}

func tierIn(tier domain.UserTier, tiers []domain.UserTier) bool {
	for _, t := range tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// Resolve prices a duration against an already-filtered, priority-ordered
// rule list (the output of ApplicableRules).
//
// A flat rate is a flat charge: the requested duration does not prorate or
// multiply it. An hourly rate is prorated per minute. A discount-only rule
// borrows the rate of the next applicable rule that has one, falling back
// to defaultRate (DefaultHourlyRate when zero or negative) when none does.
// Discounts only ever reduce hourly charges, never flat ones. The result is
// rounded to two decimals and clamped at zero.
func Resolve(applicable []domain.PricingRule, durationMinutes int, defaultRate float64) Estimate {
	if defaultRate <= 0 {
		defaultRate = DefaultHourlyRate
	}
	if len(applicable) == 0 {
		return Estimate{Cost: 0, AppliedRule: NoRuleApplied}
	}

	best := applicable[0]
	desc := best.Description
	var cost float64
	hourlyBase := false

	switch {
	case best.FlatRate != nil && best.FlatRateDurationMinutes != nil:
		cost = *best.FlatRate
	case best.BaseRatePerHour != nil:
		cost = *best.BaseRatePerHour / 60 * float64(durationMinutes)
		hourlyBase = true
	default:
		// Discount-only rule: borrow the next rule that carries a rate.
		cost, desc, hourlyBase = borrowRate(applicable[1:], best, durationMinutes, defaultRate)
	}

	if best.DiscountPercentage != nil && hourlyBase {
		cost *= 1 - *best.DiscountPercentage/100
	}

	cost = math.Round(cost*100) / 100
	if cost < 0 {
		cost = 0
	}
	return Estimate{Cost: cost, AppliedRule: desc}
}

func borrowRate(rest []domain.PricingRule, best domain.PricingRule, durationMinutes int, defaultRate float64) (cost float64, desc string, hourly bool) {
	for _, r := range rest {
		if r.BaseRatePerHour != nil {
			cost = *r.BaseRatePerHour / 60 * float64(durationMinutes)
			return cost, fmt.Sprintf("%s with %s", r.Description, best.Description), true
		}
		if r.FlatRate != nil && r.FlatRateDurationMinutes != nil {
			return *r.FlatRate, fmt.Sprintf("%s with %s", r.Description, best.Description), false
		}
	}
	cost = defaultRate / 60 * float64(durationMinutes)
	return cost, fmt.Sprintf("Default Rate (applied %s)", best.Description), true
}

// CoveringPasses returns the passes that are active at now and cover the
// given lot, ordered so the pass with the latest expiry comes first. When a
// user holds several simultaneously valid passes the longest-lived one is
// used; the caller walks the list in order and takes the first pass whose
// rule definition still exists.
func CoveringPasses(passes []domain.UserPass, lotID string, now time.Time) []domain.UserPass {
	var out []domain.UserPass
	for _, p := range passes {
		if p.ActiveAt(now) && p.CoversLot(lotID) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiryDate.After(out[j].ExpiryDate) })
	return out
}

// PassEstimate is the zero-cost estimate reported when an active pass
// covers the session.
func PassEstimate(ruleDescription string) Estimate {
	return Estimate{
		Cost:            0,
		AppliedRule:     fmt.Sprintf("Covered by active pass: %s", ruleDescription),
		IsCoveredByPass: true,
	}
}

// InferPassType derives the pass type of a pass rule from its flat-rate
// duration when the rule does not name one.
func InferPassType(durationMinutes int) domain.PassType {
	const minutesPerDay = 24 * 60
	switch {
	case durationMinutes >= 365*minutesPerDay:
		return domain.PassTypeYearly
	case durationMinutes >= 28*minutesPerDay && durationMinutes <= 31*minutesPerDay:
		return domain.PassTypeMonthly
	case durationMinutes == 7*minutesPerDay:
		return domain.PassTypeWeekly
	case durationMinutes == minutesPerDay:
		return domain.PassTypeDaily
	case durationMinutes == 60:
		return domain.PassTypeHourly
	default:
		// Irregular durations are treated as daily-class passes.
		return domain.PassTypeDaily
	}
}
