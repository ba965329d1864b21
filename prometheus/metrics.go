package prometheus

import (
	"time"

	"pharmacy-warehouse/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Inventory operation metrics
	MedicineOperationsCounter prometheus.CounterVec
	SupplierOperationsCounter prometheus.CounterVec

	// Stock level metrics
	LowStockMedicinesGauge prometheus.Gauge
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Inventory operation metrics
	MedicineOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_medicine_operations_total",
			Help: "Total number of medicine operations",
		},
		[]string{"operation"},
	)

	SupplierOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_supplier_operations_total",
			Help: "Total number of supplier operations",
		},
		[]string{"operation"},
	)

	// Medicines at or below their reorder level
	LowStockMedicinesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_low_stock_medicines",
			Help: "Number of medicines at or below their reorder level",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordMedicineOperation increments the counter for medicine operations
func RecordMedicineOperation(operation string) {
	MedicineOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordSupplierOperation increments the counter for supplier operations
func RecordSupplierOperation(operation string) {
	SupplierOperationsCounter.WithLabelValues(operation).Inc()
}

// UpdateLowStockCount updates the low stock medicines gauge
func UpdateLowStockCount(count int) {
	LowStockMedicinesGauge.Set(float64(count))
}
