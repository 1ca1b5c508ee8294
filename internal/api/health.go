// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/comunidad/internal/platform/respond"
)

// readinessTimeout bounds each dependency ping.
const readinessTimeout = 2 * time.Second

// Probe is one dependency checked by /ready.
type Probe struct {
	Name string
	Ping func(context context.Context) error
}

type probeResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready handlers. /ready answers
// 503 as soon as one probe fails, and reports every probe either way.
func NewHealthHandlers(logger *slog.Logger, probes ...Probe) (liveness, readiness http.HandlerFunc) {
	liveness = func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, map[string]string{"status": "ok"})
	}

	readiness = func(writer http.ResponseWriter, request *http.Request) {
		results := make([]probeResult, 0, len(probes))
		ready := true

		for _, probe := range probes {
			result := probeResult{Name: probe.Name, IsOK: true}

			pingContext, cancel := context.WithTimeout(request.Context(), readinessTimeout)
			err := probe.Ping(pingContext)
			cancel()

			if err != nil {
				result.IsOK = false
				result.Error = err.Error()
				ready = false
				logger.Error("readiness_check_failed", slog.String("dependency", probe.Name), slog.Any("error", err))
			}
			results = append(results, result)
		}

		payload := map[string]any{"status": "ready", "checks": results}
		if !ready {
			payload["status"] = "degraded"
			respond.JSON(writer, http.StatusServiceUnavailable, payload)
			return
		}
		respond.JSON(writer, http.StatusOK, payload)
	}

	return liveness, readiness
}
