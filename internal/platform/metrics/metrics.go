// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes the Prometheus instrumentation for the API server.

Every method is safe on a nil [*Metrics], so components accept an optional
collector and tests can pass nil when they do not care about counters.

Series:

  - comunidad_http_requests_total{route,code}
  - comunidad_http_request_duration_seconds{route}
  - comunidad_authz_decisions_total{action,outcome}
  - comunidad_role_cache_lookups_total{result}
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Authorization outcomes recorded by [Metrics.ObserveDecision].
const (
	OutcomeAllowed         = "allowed"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeForbidden       = "forbidden"
)

// Metrics owns a private registry plus the collectors registered on it.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authzDecisions  *prometheus.CounterVec
	roleCache       *prometheus.CounterVec
}

// New initialises the registry and the base collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comunidad_http_requests_total",
		Help: "HTTP requests by route pattern and status code.",
	}, []string{"route", "code"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "comunidad_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comunidad_authz_decisions_total",
		Help: "Admin action guard decisions by action and outcome.",
	}, []string{"action", "outcome"})

	roleCache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comunidad_role_cache_lookups_total",
		Help: "User role cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	registry.MustRegister(
		requests,
		duration,
		decisions,
		roleCache,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		authzDecisions:  decisions,
		roleCache:       roleCache,
	}
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			http.Error(writer, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registerer exposes the registry for component specific collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// ObserveDecision counts one guard decision.
func (m *Metrics) ObserveDecision(action, outcome string) {
	if m == nil {
		return
	}
	m.authzDecisions.WithLabelValues(action, outcome).Inc()
}

// ObserveRoleCache counts one role cache lookup.
func (m *Metrics) ObserveRoleCache(result string) {
	if m == nil {
		return
	}
	m.roleCache.WithLabelValues(result).Inc()
}

// Decisions returns the decision counter for assertions in tests.
func (m *Metrics) Decisions() *prometheus.CounterVec {
	return m.authzDecisions
}

// Middleware records request count and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := routePattern(request)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(status int) {
	recorder.status = status
	recorder.ResponseWriter.WriteHeader(status)
}

// routePattern keeps label cardinality bounded by using the matched pattern
// instead of the raw path.
func routePattern(request *http.Request) string {
	if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
