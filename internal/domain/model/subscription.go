package model

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"subtrack/internal/domain"
)

type BillingCycle string

const (
	CycleWeekly    BillingCycle = "weekly"
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
)

// weeksPerMonth is the average number of weeks in a month used to normalize
// weekly prices to a monthly figure.
const weeksPerMonth = 4.33

// DefaultColor is applied to subscriptions created without a color tag.
const DefaultColor = "#4a6fa5"

// Known reports whether the cycle is one of the four supported values.
// Unknown cycles are tolerated for display but contribute their raw price
// in cost aggregation.
func (c BillingCycle) Known() bool {
	switch c {
	case CycleWeekly, CycleMonthly, CycleQuarterly, CycleYearly:
		return true
	}
	return false
}

const dateLayout = "2006-01-02"

// Date is a calendar date with day granularity. Its JSON form is an
// ISO-8601 calendar string ("2006-01-02"); the time-of-day portion is
// always midnight UTC.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 calendar string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, domain.ErrInvalidArgument
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysUntil returns the day-count distance from now to the date, rounding
// partial days up. Negative means the date has passed; zero means the
// charge is due today.
func (d Date) DaysUntil(now time.Time) int {
	return int(math.Ceil(d.Time.Sub(now).Hours() / 24))
}

// SameDay reports whether the date falls on now's calendar day.
func (d Date) SameDay(now time.Time) bool {
	y1, m1, d1 := d.Time.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Subscription is a tracked recurring payment.
type Subscription struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Price     float64      `json:"price"`
	Cycle     BillingCycle `json:"cycle"`
	NextDate  Date         `json:"next_date"`
	Color     string       `json:"color"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Active    bool         `json:"active"`
}

// NewSubscription validates and constructs a subscription. The id and
// creation timestamp are assigned by the ledger, not here.
func NewSubscription(name string, price float64, cycle BillingCycle, nextDate Date, color, notes string) (*Subscription, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, domain.ErrInvalidArgument
	}
	if cycle == "" {
		cycle = CycleMonthly
	}
	if color == "" {
		color = DefaultColor
	}
	return &Subscription{
		Name:     name,
		Price:    price,
		Cycle:    cycle,
		NextDate: nextDate,
		Color:    color,
		Notes:    strings.TrimSpace(notes),
		Active:   true,
	}, nil
}

// MonthlyCost is the price normalized to a per-month figure: yearly/12,
// weekly*4.33, quarterly/3, monthly unchanged. Unknown cycles fall through
// to the monthly case.
func (s *Subscription) MonthlyCost() float64 {
	switch s.Cycle {
	case CycleYearly:
		return s.Price / 12
	case CycleWeekly:
		return s.Price * weeksPerMonth
	case CycleQuarterly:
		return s.Price / 3
	default:
		return s.Price
	}
}

// TotalMonthlyCost sums the monthly-equivalent price of all subscriptions.
func TotalMonthlyCost(subs []*Subscription) float64 {
	var total float64
	for _, s := range subs {
		total += s.MonthlyCost()
	}
	return total
}

type DueStatus string

const (
	DueOverdue  DueStatus = "overdue"
	DueToday    DueStatus = "today"
	DueUpcoming DueStatus = "upcoming"
)

// Dueness classifies a subscription's next charge relative to a point in
// time. Days is the overdue day count for DueOverdue, zero for DueToday,
// and the days-until count for DueUpcoming.
type Dueness struct {
	Status DueStatus `json:"status"`
	Days   int       `json:"days"`
}

// ClassifyDueness computes the dueness of the next charge at the given time.
func (s *Subscription) ClassifyDueness(now time.Time) Dueness {
	daysLeft := s.NextDate.DaysUntil(now)
	switch {
	case daysLeft < 0:
		return Dueness{Status: DueOverdue, Days: -daysLeft}
	case daysLeft == 0:
		return Dueness{Status: DueToday}
	default:
		return Dueness{Status: DueUpcoming, Days: daysLeft}
	}
}

type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterActive FilterMode = "active"
	FilterSoon   FilterMode = "soon"
)

// FilterByMode selects subscriptions by mode and returns them sorted
// ascending by next charge date. FilterSoon keeps subscriptions whose next
// date falls within [now, now+7d] inclusive; unrecognized modes behave
// like FilterAll.
func FilterByMode(subs []*Subscription, mode FilterMode, now time.Time) []*Subscription {
	out := make([]*Subscription, 0, len(subs))
	weekLater := now.Add(7 * 24 * time.Hour)
	for _, s := range subs {
		switch mode {
		case FilterActive:
			if !s.Active {
				continue
			}
		case FilterSoon:
			d := s.NextDate.Time
			if d.Before(now) || d.After(weekLater) {
				continue
			}
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextDate.Time.Before(out[j].NextDate.Time)
	})
	return out
}

// ReminderCounts returns how many subscriptions charge on now's calendar day
// and how many charge within the next seven days. The two counts are
// disjoint: a charge due today has a day-count of zero and is excluded from
// the week count.
func ReminderCounts(subs []*Subscription, now time.Time) (dueToday, dueWithinWeek int) {
	for _, s := range subs {
		if s.NextDate.SameDay(now) {
			dueToday++
		}
		if d := s.NextDate.DaysUntil(now); d > 0 && d <= 7 {
			dueWithinWeek++
		}
	}
	return dueToday, dueWithinWeek
}
