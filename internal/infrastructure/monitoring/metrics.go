package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	EventsPublishedTotal *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lunchly_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		EventsPublishedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lunchly_events_published_total",
				Help: "Total number of domain events handed to the message broker.",
			},
			[]string{"routing_key", "status"},
		),
	}
)

func RecordDBQuery(queryName string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordEventPublished(routingKey, status string) {
	Business.EventsPublishedTotal.WithLabelValues(routingKey, status).Inc()
}
