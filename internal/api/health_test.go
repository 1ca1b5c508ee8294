// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/comunidad/internal/api"
)

func healthy(context.Context) error { return nil }

func TestHealth_Readiness(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		probes []api.Probe
		status int
		body   string
	}{
		{
			name:   "all healthy",
			probes: []api.Probe{{Name: "postgres", Ping: healthy}, {Name: "redis", Ping: healthy}},
			status: http.StatusOK,
			body:   `"status":"ready"`,
		},
		{
			name: "redis down",
			probes: []api.Probe{
				{Name: "postgres", Ping: healthy},
				{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }},
			},
			status: http.StatusServiceUnavailable,
			body:   `"error":"connection refused"`,
		},
		{
			name: "probe honours deadline",
			probes: []api.Probe{{Name: "postgres", Ping: func(context context.Context) error {
				_, hasDeadline := context.Deadline()
				if !hasDeadline {
					return errors.New("no deadline")
				}
				return nil
			}}},
			status: http.StatusOK,
			body:   `"ok":true`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(logger, tt.probes...)

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.body)
		})
	}
}

func TestHealth_Liveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(slog.New(slog.NewTextHandler(io.Discard, nil)))

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, recorder.Body.String())
}
