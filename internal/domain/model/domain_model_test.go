package model

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"subtrack/internal/domain"
)

var testNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func dateAt(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestEntitlement_SanitizeExpired(t *testing.T) {
	t.Parallel()

	e := Entitlement{
		Premium:      true,
		PremiumUntil: testNow.Add(-time.Hour).Format(time.RFC3339),
		Plan:         PlanMonthly,
	}
	got := e.Sanitize(testNow)
	if got.Premium {
		t.Fatalf("expected premium=false after sanitizing expired state")
	}
	if got.PremiumUntil != "" {
		t.Fatalf("expected premium_until cleared, got %q", got.PremiumUntil)
	}
	if got.Plan != PlanMonthly {
		t.Fatalf("expected plan preserved, got %q", got.Plan)
	}
}

func TestEntitlement_SanitizeMalformed(t *testing.T) {
	t.Parallel()

	cases := []string{"", "not-a-date", "2025-13-45T99:00:00Z", "1718445000"}
	for _, until := range cases {
		e := Entitlement{Premium: true, PremiumUntil: until}
		if got := e.Sanitize(testNow); got.Premium {
			t.Errorf("premium_until=%q: expected downgrade to premium=false", until)
		}
	}
}

func TestEntitlement_SanitizeValidUnchanged(t *testing.T) {
	t.Parallel()

	e := Entitlement{
		Premium:      true,
		PremiumUntil: testNow.Add(24 * time.Hour).Format(time.RFC3339),
		Plan:         PlanYearly,
	}
	if got := e.Sanitize(testNow); got != e {
		t.Fatalf("expected valid state to pass through unchanged, got %+v", got)
	}

	inactive := Entitlement{Premium: false}
	if got := inactive.Sanitize(testNow); got != inactive {
		t.Fatalf("expected inactive state untouched, got %+v", got)
	}
}

func TestGrantPremium_Durations(t *testing.T) {
	t.Parallel()

	for _, plan := range []PremiumPlan{PlanMonthly, PlanYearly} {
		e, err := GrantPremium(plan, testNow)
		if err != nil {
			t.Fatalf("grant %q: %v", plan, err)
		}
		if !e.IsActive(testNow) {
			t.Fatalf("%q: expected active immediately after grant", plan)
		}
	}

	monthly, _ := GrantPremium(PlanMonthly, testNow)
	if monthly.IsActive(testNow.Add(31 * 24 * time.Hour)) {
		t.Fatalf("monthly grant should be inactive after 31 days")
	}
	if !monthly.IsActive(testNow.Add(29 * 24 * time.Hour)) {
		t.Fatalf("monthly grant should still be active after 29 days")
	}

	yearly, _ := GrantPremium(PlanYearly, testNow)
	if yearly.IsActive(testNow.Add(366 * 24 * time.Hour)) {
		t.Fatalf("yearly grant should be inactive after 366 days")
	}
}

func TestGrantPremium_UnknownPlan(t *testing.T) {
	t.Parallel()

	if _, err := GrantPremium("lifetime", testNow); err != domain.ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestEntitlement_IsActiveRecomputed(t *testing.T) {
	t.Parallel()

	e, _ := GrantPremium(PlanMonthly, testNow)
	if !e.IsActive(testNow.Add(time.Minute)) {
		t.Fatalf("expected active one minute after grant")
	}
	// Same value, later clock: activity must be derived from the timestamp.
	if e.IsActive(testNow.Add(31 * 24 * time.Hour)) {
		t.Fatalf("expected stale flag to be ignored once expiry passed")
	}
}

func TestMonthlyCost_Normalization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cycle BillingCycle
		price float64
		want  float64
	}{
		{CycleYearly, 120, 10.0},
		{CycleWeekly, 10, 43.3},
		{CycleQuarterly, 30, 10.0},
		{CycleMonthly, 15, 15.0},
		{"lifetime", 7, 7.0}, // unknown cycle passes through as monthly
	}
	for _, tc := range cases {
		s := &Subscription{Price: tc.price, Cycle: tc.cycle}
		got := s.MonthlyCost()
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("cycle=%q price=%v: got %v want %v", tc.cycle, tc.price, got, tc.want)
		}
	}
}

func TestTotalMonthlyCost(t *testing.T) {
	t.Parallel()

	subs := []*Subscription{
		{Price: 120, Cycle: CycleYearly},
		{Price: 30, Cycle: CycleQuarterly},
		{Price: 5, Cycle: CycleMonthly},
	}
	if got := TotalMonthlyCost(subs); math.Abs(got-25.0) > 1e-9 {
		t.Fatalf("got %v want 25.0", got)
	}
}

func TestClassifyDueness(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		nextDate Date
		want     Dueness
	}{
		{"in three days", NewDate(testNow.Add(3 * 24 * time.Hour)), Dueness{Status: DueUpcoming, Days: 3}},
		{"overdue by two", NewDate(testNow.Add(-2 * 24 * time.Hour)), Dueness{Status: DueOverdue, Days: 2}},
		{"today", NewDate(testNow), Dueness{Status: DueToday, Days: 0}},
	}
	for _, tc := range cases {
		s := &Subscription{NextDate: tc.nextDate}
		if got := s.ClassifyDueness(testNow); got != tc.want {
			t.Errorf("%s: got %+v want %+v", tc.name, got, tc.want)
		}
	}
}

func TestFilterByMode_Soon(t *testing.T) {
	t.Parallel()

	in := []*Subscription{
		{Name: "far", NextDate: dateAt(t, "2025-07-10")},
		{Name: "tomorrow", NextDate: dateAt(t, "2025-06-16")},
		{Name: "edge", NextDate: dateAt(t, "2025-06-22")},
		{Name: "past", NextDate: dateAt(t, "2025-06-10")},
	}
	got := FilterByMode(in, FilterSoon, testNow)
	if len(got) != 2 {
		t.Fatalf("expected 2 subscriptions in the soon window, got %d", len(got))
	}
	if got[0].Name != "tomorrow" || got[1].Name != "edge" {
		t.Fatalf("expected ascending next-date order [tomorrow edge], got [%s %s]", got[0].Name, got[1].Name)
	}
}

func TestFilterByMode_ActiveAndAll(t *testing.T) {
	t.Parallel()

	in := []*Subscription{
		{Name: "b", Active: true, NextDate: dateAt(t, "2025-06-20")},
		{Name: "a", Active: false, NextDate: dateAt(t, "2025-06-18")},
	}
	active := FilterByMode(in, FilterActive, testNow)
	if len(active) != 1 || active[0].Name != "b" {
		t.Fatalf("active filter: got %d items", len(active))
	}
	all := FilterByMode(in, FilterAll, testNow)
	if len(all) != 2 || all[0].Name != "a" {
		t.Fatalf("all filter should include everything sorted by date")
	}
}

func TestReminderCounts_Disjoint(t *testing.T) {
	t.Parallel()

	subs := []*Subscription{
		{Name: "today", NextDate: NewDate(testNow)},
		{Name: "in2", NextDate: NewDate(testNow.Add(2 * 24 * time.Hour))},
		{Name: "in7", NextDate: NewDate(testNow.Add(7 * 24 * time.Hour))},
		{Name: "in8", NextDate: NewDate(testNow.Add(8 * 24 * time.Hour))},
		{Name: "past", NextDate: NewDate(testNow.Add(-24 * time.Hour))},
	}
	today, week := ReminderCounts(subs, testNow)
	if today != 1 {
		t.Fatalf("dueToday: got %d want 1", today)
	}
	// "today" yields daysLeft==0 and must not be double-counted in the week bucket.
	if week != 2 {
		t.Fatalf("dueWithinWeek: got %d want 2", week)
	}
}

func TestSubscription_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	orig := Subscription{
		ID:        "f2f4f1f0-5b3b-4f6a-9e0e-2f1b7c9d8a10",
		Name:      "Streaming",
		Price:     9.99,
		Cycle:     CycleMonthly,
		NextDate:  dateAt(t, "2025-07-01"),
		Color:     "#ff6b6b",
		Notes:     "family plan",
		CreatedAt: testNow,
		Active:    true,
	}
	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Subscription
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != orig {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, orig)
	}
}

func TestEntitlement_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	orig, _ := GrantPremium(PlanYearly, testNow)
	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Entitlement
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != orig {
		t.Fatalf("round trip mismatch: got %+v want %+v", back, orig)
	}
}

func TestNewSubscription_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewSubscription("   ", 5, CycleMonthly, NewDate(testNow), "", ""); err != domain.ErrInvalidArgument {
		t.Fatalf("blank name: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := NewSubscription("x", -1, CycleMonthly, NewDate(testNow), "", ""); err != domain.ErrInvalidArgument {
		t.Fatalf("negative price: expected ErrInvalidArgument, got %v", err)
	}

	s, err := NewSubscription("Music", 4.5, "", NewDate(testNow), "", " note ")
	if err != nil {
		t.Fatalf("valid subscription: %v", err)
	}
	if s.Cycle != CycleMonthly {
		t.Fatalf("empty cycle should default to monthly, got %q", s.Cycle)
	}
	if s.Color != DefaultColor {
		t.Fatalf("empty color should default to %q, got %q", DefaultColor, s.Color)
	}
	if s.Notes != "note" {
		t.Fatalf("notes should be trimmed, got %q", s.Notes)
	}
	if !s.Active {
		t.Fatalf("new subscriptions should default to active")
	}
}
