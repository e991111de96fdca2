package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/agentstation/toolhub/pkg/constants"
)

// PageStats is the traffic for one page.
type PageStats struct {
	Page           string `json:"page"`
	Views          int    `json:"views"`
	UniqueVisitors int    `json:"uniqueVisitors"`
}

// DeviceBreakdown counts events per device class.
type DeviceBreakdown struct {
	Mobile  int `json:"mobile"`
	Desktop int `json:"desktop"`
	Tablet  int `json:"tablet"`
}

// CountryCount is the number of events from one country.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// DailyStats is the rollup for one UTC day.
type DailyStats struct {
	Date           string          `json:"date"`
	PageViews      int             `json:"pageViews"`
	UniqueVisitors int             `json:"uniqueVisitors"` // distinct sessions
	UniqueUsers    int             `json:"uniqueUsers"`    // distinct signed-in users
	TopPages       []PageStats     `json:"topPages"`
	Devices        DeviceBreakdown `json:"devices"`
	Countries      []CountryCount  `json:"countries"`
}

// DayCount is the page-view total for one day.
type DayCount struct {
	Date           string `json:"date"`
	Views          int    `json:"views"`
	UniqueVisitors int    `json:"uniqueVisitors"`
}

// DayKey returns the UTC day bucket for t.
func DayKey(t time.Time) string {
	return t.UTC().Format(constants.TimeFormatDay)
}

// AggregateDay rolls up the events that fall on day's UTC date. Events
// from other days are ignored.
func AggregateDay(events []Event, day time.Time) DailyStats {
	key := DayKey(day)
	stats := DailyStats{Date: key, TopPages: []PageStats{}, Countries: []CountryCount{}}

	sessions := map[string]bool{}
	users := map[string]bool{}
	countries := map[string]int{}
	var views []Event

	for _, e := range events {
		if DayKey(e.Timestamp) != key {
			continue
		}
		sessions[e.SessionID] = true
		if e.UserID != "" {
			users[e.UserID] = true
		}
		switch e.Device {
		case DeviceMobile:
			stats.Devices.Mobile++
		case DeviceDesktop:
			stats.Devices.Desktop++
		case DeviceTablet:
			stats.Devices.Tablet++
		}
		if e.Country != "" {
			countries[e.Country]++
		}
		if e.Type == EventPageView {
			views = append(views, e)
		}
	}

	stats.PageViews = len(views)
	stats.UniqueVisitors = len(sessions)
	stats.UniqueUsers = len(users)

	pages := ByPage(views)
	stats.TopPages = pages[:min(len(pages), constants.TopPagesLimit)]

	for c, n := range countries {
		stats.Countries = append(stats.Countries, CountryCount{Country: c, Count: n})
	}
	slices.SortFunc(stats.Countries, func(a, b CountryCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Country, b.Country))
	})
	stats.Countries = stats.Countries[:min(len(stats.Countries), constants.TopCountriesLimit)]
	return stats
}

// ByDay buckets page views into UTC days, oldest first.
func ByDay(events []Event) []DayCount {
	type bucket struct {
		views    int
		sessions map[string]bool
	}
	days := map[string]*bucket{}
	for _, e := range events {
		if e.Type != EventPageView {
			continue
		}
		k := DayKey(e.Timestamp)
		b, ok := days[k]
		if !ok {
			b = &bucket{sessions: map[string]bool{}}
			days[k] = b
		}
		b.views++
		b.sessions[e.SessionID] = true
	}

	out := make([]DayCount, 0, len(days))
	for k, b := range days {
		out = append(out, DayCount{Date: k, Views: b.views, UniqueVisitors: len(b.sessions)})
	}
	slices.SortFunc(out, func(a, b DayCount) int { return cmp.Compare(a.Date, b.Date) })
	return out
}

// ByPage totals page views per page, most viewed first and ties by page.
func ByPage(events []Event) []PageStats {
	type bucket struct {
		views    int
		sessions map[string]bool
	}
	pages := map[string]*bucket{}
	for _, e := range events {
		if e.Type != EventPageView {
			continue
		}
		b, ok := pages[e.Page]
		if !ok {
			b = &bucket{sessions: map[string]bool{}}
			pages[e.Page] = b
		}
		b.views++
		b.sessions[e.SessionID] = true
	}

	out := make([]PageStats, 0, len(pages))
	for p, b := range pages {
		out = append(out, PageStats{Page: p, Views: b.views, UniqueVisitors: len(b.sessions)})
	}
	slices.SortFunc(out, func(a, b PageStats) int {
		return cmp.Or(cmp.Compare(b.Views, a.Views), cmp.Compare(a.Page, b.Page))
	})
	return out
}
