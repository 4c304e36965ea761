package metrics

import (
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "cierre_"

	ResultSuccess  = "success"
	ResultError    = "error"
	ResultRejected = "rejected"

	OperationClose  = "close"
	OperationReopen = "reopen"
)

var (
	registerOnce sync.Once

	closingTotal   *prometheus.CounterVec
	closingLatency *prometheus.HistogramVec

	validationTotal *prometheus.CounterVec

	reconciliationTotal   *prometheus.CounterVec
	reconciliationLatency *prometheus.HistogramVec

	importRowsTotal *prometheus.CounterVec
)

// Init registra las métricas del motor de cierre. db puede ser nil.
func Init(db *sql.DB) {
	registerOnce.Do(func() {
		closingTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "operations_total",
				Help: "Total close/reopen operations by result",
			},
			[]string{"operation", "result"},
		)
		closingLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "operation_latency_seconds",
				Help:    "Close/reopen latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "result"},
		)
		validationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "validations_total",
				Help: "Completeness validations by outcome",
			},
			[]string{"can_close"},
		)
		reconciliationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reconciliations_total",
				Help: "Financial reconciliations by result",
			},
			[]string{"result"},
		)
		reconciliationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "reconciliation_latency_seconds",
				Help:    "Financial reconciliation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		importRowsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "import_reports_total",
				Help: "Daily reports imported from workbooks by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			closingTotal,
			closingLatency,
			validationTotal,
			reconciliationTotal,
			reconciliationLatency,
			importRowsTotal,
		)

		if db != nil {
			prometheus.MustRegister(collectors.NewDBStatsCollector(db, "postgres"))
		}
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveClosing registra una operación de cierre o reapertura.
func ObserveClosing(operation, result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if closingTotal != nil {
		closingTotal.WithLabelValues(operation, result).Inc()
	}
	if closingLatency != nil {
		closingLatency.WithLabelValues(operation, result).Observe(duration.Seconds())
	}
}

func ObserveValidation(canClose bool) {
	if validationTotal == nil {
		return
	}
	label := "false"
	if canClose {
		label = "true"
	}
	validationTotal.WithLabelValues(label).Inc()
}

func ObserveReconciliation(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if reconciliationTotal != nil {
		reconciliationTotal.WithLabelValues(result).Inc()
	}
	if reconciliationLatency != nil {
		reconciliationLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

func AddImportedReports(result string, count int) {
	if count <= 0 || importRowsTotal == nil {
		return
	}
	importRowsTotal.WithLabelValues(result).Add(float64(count))
}
