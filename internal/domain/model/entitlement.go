package model

import (
	"time"

	"subtrack/internal/domain"
)

type PremiumPlan string

const (
	PlanMonthly PremiumPlan = "monthly"
	PlanYearly  PremiumPlan = "yearly"
)

// DurationDays is the entitlement period granted by the plan.
func (p PremiumPlan) DurationDays() int {
	if p == PlanYearly {
		return 365
	}
	return 30
}

// Known reports whether the plan is one of the purchasable values.
func (p PremiumPlan) Known() bool {
	return p == PlanMonthly || p == PlanYearly
}

// Entitlement is the locally asserted premium status gating the free-tier
// quota. PremiumUntil is kept as the raw persisted string so that corrupted
// values survive loading and can be absorbed by Sanitize instead of failing
// deserialization.
type Entitlement struct {
	Premium      bool        `json:"premium"`
	PremiumUntil string      `json:"premium_until,omitempty"`
	Plan         PremiumPlan `json:"plan,omitempty"`
}

// ExpiresAt parses the stored expiry timestamp. ok is false when the
// timestamp is absent or unparseable.
func (e Entitlement) ExpiresAt() (t time.Time, ok bool) {
	if e.PremiumUntil == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, e.PremiumUntil)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsActive reports whether premium is in force at the given time. The
// stored boolean is never trusted on its own: the expiry timestamp must be
// present, parseable and strictly in the future.
func (e Entitlement) IsActive(now time.Time) bool {
	if !e.Premium {
		return false
	}
	until, ok := e.ExpiresAt()
	return ok && until.After(now)
}

// Sanitize downgrades a stale or malformed entitlement to a safe default.
// A premium flag without a valid future expiry becomes inactive; anything
// else passes through unchanged. It never fails: corrupted persisted state
// must not block startup.
func (e Entitlement) Sanitize(now time.Time) Entitlement {
	if !e.Premium {
		return e
	}
	if until, ok := e.ExpiresAt(); ok && until.After(now) {
		return e
	}
	return Entitlement{Premium: false, PremiumUntil: "", Plan: e.Plan}
}

// GrantPremium constructs an active entitlement for the plan starting at
// now. This is a local trust assertion only; no payment is involved.
func GrantPremium(plan PremiumPlan, now time.Time) (Entitlement, error) {
	if !plan.Known() {
		return Entitlement{}, domain.ErrInvalidArgument
	}
	until := now.Add(time.Duration(plan.DurationDays()) * 24 * time.Hour)
	return Entitlement{
		Premium:      true,
		PremiumUntil: until.UTC().Format(time.RFC3339),
		Plan:         plan,
	}, nil
}
