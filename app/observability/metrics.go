package observability

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ItemsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraped_items_processed_total",
			Help: "Scraped product items run through the ingest pipeline",
		},
	)
	ItemsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraped_items_failed_total",
			Help: "Scraped product items the ingest pipeline could not process",
		},
	)
	AttributesNormalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attributes_normalized_total",
			Help: "Attribute values normalized, by outcome",
		},
		[]string{"outcome"},
	)
)

func Start(port string) {
	prometheus.MustRegister(ItemsProcessed, ItemsFailed, AttributesNormalized)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			slog.Error("metrics endpoint", "port", port, "err", err)
		}
	}()
}
