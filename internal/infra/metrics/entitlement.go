package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	premiumGrants = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "premium_grants_total",
			Help: "Premium entitlement grants by plan.",
		},
		[]string{"plan"},
	)

	premiumActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "premium_active",
			Help: "Whether a premium entitlement is currently in force (0/1).",
		},
	)
)

func init() {
	enqueue(premiumGrants, premiumActive)
}

func IncPremiumGrant(plan string) {
	premiumGrants.WithLabelValues(norm(plan)).Inc()
}

func SetPremiumActive(active bool) {
	if active {
		premiumActive.Set(1)
		return
	}
	premiumActive.Set(0)
}
