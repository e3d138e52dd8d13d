// Package metrics records order and storage telemetry.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for the order workflow and its folder store.
type Observer interface {
	RecordSubmission(result string)
	RecordStorageOperation(operation string, duration time.Duration, sizeBytes int, err error)
}

// PrometheusObserver exports order metrics to Prometheus.
type PrometheusObserver struct {
	submissions       *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationErrors   *prometheus.CounterVec
	uploadBytes       prometheus.Counter
}

// NewPrometheusObserver registers submission and storage metrics on reg.
func NewPrometheusObserver(reg prometheus.Registerer) (*PrometheusObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Order submissions by result.",
		}, []string{"result"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Latency of remote folder store operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storage_operation_errors_total",
			Help: "Count of remote folder store failures.",
		}, []string{"operation"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storage_uploaded_bytes_total",
			Help: "Cumulative payload size written to the remote folder store.",
		}),
	}

	var err error
	if o.submissions, err = register(reg, o.submissions); err != nil {
		return nil, err
	}
	if o.operationDuration, err = register(reg, o.operationDuration); err != nil {
		return nil, err
	}
	if o.operationErrors, err = register(reg, o.operationErrors); err != nil {
		return nil, err
	}
	if o.uploadBytes, err = register(reg, o.uploadBytes); err != nil {
		return nil, err
	}
	return o, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return collector, fmt.Errorf("register order metric: %w", err)
	}
	return collector, nil
}

// RecordSubmission counts one submission outcome ("success" or an error kind).
func (o *PrometheusObserver) RecordSubmission(result string) {
	if o == nil {
		return
	}
	o.submissions.WithLabelValues(result).Inc()
}

// RecordStorageOperation tracks provider call latency, failures and bytes written.
func (o *PrometheusObserver) RecordStorageOperation(operation string, duration time.Duration, sizeBytes int, err error) {
	if o == nil {
		return
	}
	o.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		o.operationErrors.WithLabelValues(operation).Inc()
		return
	}
	if sizeBytes > 0 {
		o.uploadBytes.Add(float64(sizeBytes))
	}
}

// Nop returns an Observer that discards everything.
func Nop() Observer { return nopObserver{} }

type nopObserver struct{}

func (nopObserver) RecordSubmission(string) {}

func (nopObserver) RecordStorageOperation(string, time.Duration, int, error) {}
