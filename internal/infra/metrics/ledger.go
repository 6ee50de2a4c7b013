package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	subscriptionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_operations_total",
			Help: "Ledger mutations by operation (add/update/remove).",
		},
		[]string{"op"},
	)

	quotaRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quota_rejections_total",
			Help: "Adds rejected because the free-tier limit was reached.",
		},
	)

	monthlyTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "monthly_cost_total",
			Help: "Aggregate monthly-equivalent cost of all tracked subscriptions.",
		},
	)

	dueToday = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscriptions_due_today",
			Help: "Subscriptions charging on the current calendar day.",
		},
	)

	dueWithinWeek = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscriptions_due_within_week",
			Help: "Subscriptions charging within the next seven days (excluding today).",
		},
	)
)

func init() {
	enqueue(subscriptionOps, quotaRejections, monthlyTotal, dueToday, dueWithinWeek)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncSubscriptionOp(op string) {
	subscriptionOps.WithLabelValues(norm(op)).Inc()
}

func IncQuotaRejection() {
	quotaRejections.Inc()
}

func SetMonthlyTotal(v float64) {
	monthlyTotal.Set(v)
}

func SetReminderCounts(today, week int) {
	dueToday.Set(float64(today))
	dueWithinWeek.Set(float64(week))
}
