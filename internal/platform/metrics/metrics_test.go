// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/comunidad/internal/platform/metrics"
)

/*
TestMetrics_MiddlewareRecordsRoutePattern verifies request counters are keyed by pattern.
*/
func TestMetrics_MiddlewareRecordsRoutePattern(t *testing.T) {
	collector := metrics.New()

	handler := collector.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/api/v1/events/{id}")

	request := httptest.NewRequest(http.MethodGet, "/api/v1/events/42", nil)
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeCtx))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusTeapot, recorder.Code)

	scrape := httptest.NewRecorder()
	collector.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `comunidad_http_requests_total{code="418",route="/api/v1/events/{id}"} 1`)
}

/*
TestMetrics_Decisions verifies the guard decision counter.
*/
func TestMetrics_Decisions(t *testing.T) {
	collector := metrics.New()

	collector.ObserveDecision("roles.manage", metrics.OutcomeForbidden)
	collector.ObserveDecision("roles.manage", metrics.OutcomeForbidden)
	collector.ObserveDecision("roles.manage", metrics.OutcomeAllowed)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.Decisions().WithLabelValues("roles.manage", metrics.OutcomeForbidden)))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Decisions().WithLabelValues("roles.manage", metrics.OutcomeAllowed)))
}

/*
TestMetrics_NilSafe ensures an absent collector never panics.
*/
func TestMetrics_NilSafe(t *testing.T) {
	var collector *metrics.Metrics

	assert.NotPanics(t, func() {
		collector.ObserveDecision("posts.write", metrics.OutcomeAllowed)
		collector.ObserveRoleCache("hit")
	})

	recorder := httptest.NewRecorder()
	collector.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}
