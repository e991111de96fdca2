package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/agentstation/toolhub/internal/server/response"
	"github.com/agentstation/toolhub/pkg/catalog"
)

// HandleHealth handles GET /health.
// @Summary Health check
// @Description Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "toolhub-api",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /ready.
// @Summary Readiness check
// @Description Readiness probe. Fails while the store cannot be read.
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	st, err := h.app.Store()
	if err != nil {
		response.ServiceUnavailable(w, "Store not available")
		return
	}
	if _, err := st.Count(r.Context(), catalog.CollectionTools); err != nil {
		response.ServiceUnavailable(w, "Store not readable")
		return
	}

	response.OK(w, map[string]any{
		"status": "ready",
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}

// HandleStats handles GET /api/v1/stats.
// @Summary Server statistics
// @Description Runtime, catalog, event and cache statistics
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/stats [get].
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.app.Store()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	counts := map[string]int{}
	for _, collection := range catalog.Collections() {
		n, err := st.Count(r.Context(), collection)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		counts[collection] = n
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response.OK(w, map[string]any{
		"runtime": map[string]any{
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"memory_mb":      memStats.Alloc / 1024 / 1024,
		},
		"catalog": counts,
		"events": map[string]any{
			"published_total": h.broker.EventsPublished(),
			"dropped_total":   h.broker.EventsDropped(),
			"queue_depth":     h.broker.QueueDepth(),
		},
		"realtime": map[string]any{
			"websocket_clients": h.wsHub.ClientCount(),
			"sse_clients":       h.sseBroadcaster.ClientCount(),
		},
		"cache": h.cache.GetStats(),
	})
}
