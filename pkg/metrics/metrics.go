package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	subsystem = "bomgen"

	uploadsTotal         = "uploads_total"
	vmsProcessedTotal    = "vms_processed_total"
	reportsRenderedTotal = "reports_rendered_total"

	uploadStatusLabel = "status"
	reportFormatLabel = "format"
)

var uploadsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      uploadsTotal,
		Help:      "number of inventory uploads by processing outcome",
	},
	[]string{uploadStatusLabel},
)

var vmsProcessedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      vmsProcessedTotal,
		Help:      "number of virtual machines processed across all uploads",
	},
)

var reportsRenderedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      reportsRenderedTotal,
		Help:      "number of reports rendered by format",
	},
	[]string{reportFormatLabel},
)

func IncreaseUploadsTotalMetric(status string) {
	uploadsTotalMetric.With(prometheus.Labels{uploadStatusLabel: status}).Inc()
}

func AddVMsProcessedMetric(count int) {
	vmsProcessedTotalMetric.Add(float64(count))
}

func IncreaseReportsRenderedMetric(format string) {
	reportsRenderedTotalMetric.With(prometheus.Labels{reportFormatLabel: format}).Inc()
}

// NewPrometheusMetricsHandler exposes the default registry over HTTP.
func NewPrometheusMetricsHandler() http.Handler {
	return promhttp.Handler()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(uploadsTotalMetric)
	prometheus.MustRegister(vmsProcessedTotalMetric)
	prometheus.MustRegister(reportsRenderedTotalMetric)
}
