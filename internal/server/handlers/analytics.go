package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/toolhub/internal/analytics"
	"github.com/agentstation/toolhub/internal/server/response"
	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/errors"
)

const (
	maxEventBody      = 16 << 10
	defaultReportDays = 30
)

// countryHeaders are checked in order for the visitor's country code.
var countryHeaders = []string{"CF-IPCountry", "X-Country-Code"}

// HandleRecordEvent handles POST /api/v1/analytics/events.
// @Summary Record an analytics event
// @Description Device and country are filled from request headers when absent
// @Tags analytics
// @Accept json
// @Produce json
// @Success 201 {object} response.Response{data=analytics.Event}
// @Failure 400 {object} response.Response{error=response.Error}
// @Router /api/v1/analytics/events [post].
func (h *Handlers) HandleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var event analytics.Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody)).Decode(&event); err != nil {
		response.BadRequest(w, "Invalid event JSON", err.Error())
		return
	}
	if event.Device == "" {
		event.Device = analytics.DetectDevice(r.UserAgent())
	}
	if event.Country == "" {
		for _, header := range countryHeaders {
			if c := r.Header.Get(header); c != "" {
				event.Country = c
				break
			}
		}
	}
	if event.Referrer == "" {
		event.Referrer = r.Referer()
	}
	if err := event.Prepare(h.now()); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	log, err := h.app.Analytics()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if err := log.Record(r.Context(), event); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.Created(w, event)
}

// HandleDaily handles GET /api/v1/analytics/daily.
// @Summary Daily rollups
// @Tags analytics
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD), default 30 days ago"
// @Param to query string false "Last day (YYYY-MM-DD), default today"
// @Success 200 {object} response.Response{data=[]analytics.DailyStats}
// @Security ApiKeyAuth
// @Router /api/v1/analytics/daily [get].
func (h *Handlers) HandleDaily(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.dayRange(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	log, err := h.app.Analytics()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	stats, err := log.Daily(r.Context(), analytics.DayKey(from), analytics.DayKey(to))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, stats)
}

// HandlePages handles GET /api/v1/analytics/pages.
// @Summary Per-page traffic
// @Description Views and unique visitors per page over raw events, plus a per-day series
// @Tags analytics
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} response.Response{data=object}
// @Security ApiKeyAuth
// @Router /api/v1/analytics/pages [get].
func (h *Handlers) HandlePages(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.dayRange(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	log, err := h.app.Analytics()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	evs, err := log.Range(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"from":   analytics.DayKey(from),
		"to":     analytics.DayKey(to),
		"events": len(evs),
		"pages":  analytics.ByPage(evs),
		"days":   analytics.ByDay(evs),
	})
}

// dayRange parses ?from= and ?to= as UTC days. Both bounds are inclusive.
func (h *Handlers) dayRange(r *http.Request) (time.Time, time.Time, error) {
	today := h.now().UTC().Truncate(24 * time.Hour)
	to, err := parseDay(r.URL.Query().Get("to"), today)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewValidationError("to", r.URL.Query().Get("to"), "must be YYYY-MM-DD")
	}
	from, err := parseDay(r.URL.Query().Get("from"), to.AddDate(0, 0, -(defaultReportDays-1)))
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewValidationError("from", r.URL.Query().Get("from"), "must be YYYY-MM-DD")
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, errors.NewValidationError("from", analytics.DayKey(from), "must not be after to")
	}
	return from, to, nil
}

func parseDay(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse(constants.TimeFormatDay, raw)
}
