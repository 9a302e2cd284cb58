// Package metrics exposes service use-case telemetry to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/obra/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a service.UseCaseObserver backed by its own registry.
type Metrics struct {
	reg *prometheus.Registry

	UseCaseDuration *prometheus.HistogramVec
	UseCaseTotal    *prometheus.CounterVec
	PlanItems       *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		UseCaseDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "obra_use_case_duration_seconds",
				Help:    "Service use-case duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"use_case"},
		),
		UseCaseTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "obra_use_case_total",
				Help: "Service use-case executions by outcome",
			},
			[]string{"use_case", "status"}, // status: success, failed
		),
		PlanItems: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "obra_plan_items",
				Help: "Item count of the most recently saved plan per plan type",
			},
			[]string{"plan_type"},
		),
	}
}

func (m *Metrics) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	status := "success"
	if !event.Success {
		status = "failed"
	}
	m.UseCaseDuration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
	m.UseCaseTotal.WithLabelValues(event.Name, status).Inc()

	if event.Success && event.Name == service.UseCaseSaveSchedule {
		planType, _ := event.Fields["plan_type"].(string)
		if items, ok := event.Fields["items"].(int); ok && planType != "" {
			m.PlanItems.WithLabelValues(planType).Set(float64(items))
		}
	}
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
