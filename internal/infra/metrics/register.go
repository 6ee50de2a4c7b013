// Package metrics holds the tracker's Prometheus collectors. Each file
// declares its collectors and queues them from init via enqueue; the
// composition root calls MustRegister once after startup, so importing
// this package from tests never touches the default registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	queued       []prometheus.Collector
	registerOnce sync.Once
)

func enqueue(cs ...prometheus.Collector) {
	queued = append(queued, cs...)
}

// MustRegister installs every queued collector on the default registry.
// Later calls are no-ops.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(queued...)
	})
}
