package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the schedule
// manager: HTTP traffic, storage write failures and oversize schedule
// advisories.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	persistFailures prometheus.Counter
	oversizeWarns   prometheus.Counter
	importedRows    prometheus.Counter
	exportedRows    prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_persist_failures_total",
		Help: "Storage writes that failed after an in-memory mutation",
	})

	oversizeWarns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_oversize_warnings_total",
		Help: "Schedules whose entry count exceeded the advisory threshold",
	})

	importedRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "csv_imported_rows_total",
		Help: "CSV rows accepted by the importer",
	})

	exportedRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "csv_exported_rows_total",
		Help: "CSV rows written by the exporter",
	})

	registry.MustRegister(requestDuration, requestTotal, persistFailures, oversizeWarns, importedRows, exportedRows)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		persistFailures: persistFailures,
		oversizeWarns:   oversizeWarns,
		importedRows:    importedRows,
		exportedRows:    exportedRows,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records a completed request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// CountPersistFailure records a failed storage write.
func (s *MetricsService) CountPersistFailure() {
	if s != nil {
		s.persistFailures.Inc()
	}
}

// CountOversizeSchedule records an oversize advisory.
func (s *MetricsService) CountOversizeSchedule() {
	if s != nil {
		s.oversizeWarns.Inc()
	}
}

// CountImportedRows adds to the accepted import row counter.
func (s *MetricsService) CountImportedRows(n int) {
	if s != nil && n > 0 {
		s.importedRows.Add(float64(n))
	}
}

// CountExportedRows adds to the exported row counter.
func (s *MetricsService) CountExportedRows(n int) {
	if s != nil && n > 0 {
		s.exportedRows.Add(float64(n))
	}
}
