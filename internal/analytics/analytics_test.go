package analytics

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/agentstation/toolhub/pkg/errors"
)

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func ev(page, session, user string, at time.Duration, device Device, country string) Event {
	return Event{
		ID:        fmt.Sprintf("%s-%s-%d", page, session, at),
		Type:      EventPageView,
		Page:      page,
		SessionID: session,
		UserID:    user,
		Device:    device,
		Country:   country,
		Timestamp: day.Add(at),
	}
}

func sampleEvents() []Event {
	return []Event{
		ev("/", "s1", "u1", 1*time.Hour, DeviceDesktop, "US"),
		ev("/tools", "s1", "u1", 2*time.Hour, DeviceDesktop, "US"),
		ev("/", "s2", "", 3*time.Hour, DeviceMobile, "IN"),
		ev("/", "s3", "u2", 4*time.Hour, DeviceTablet, "IN"),
		ev("/guides", "s3", "u2", 5*time.Hour, DeviceTablet, ""),
		{ID: "click", Type: EventClick, Page: "/tools", SessionID: "s4", Device: DeviceMobile, Country: "DE", Timestamp: day.Add(6 * time.Hour)},
		ev("/", "s9", "", 30*time.Hour, DeviceDesktop, "US"), // next day
	}
}

func TestAggregateDay(t *testing.T) {
	stats := AggregateDay(sampleEvents(), day.Add(13*time.Hour))

	assert.Equal(t, "2025-03-14", stats.Date)
	assert.Equal(t, 5, stats.PageViews)
	assert.Equal(t, 4, stats.UniqueVisitors)
	assert.Equal(t, 2, stats.UniqueUsers)
	assert.Equal(t, DeviceBreakdown{Mobile: 2, Desktop: 2, Tablet: 2}, stats.Devices)
	assert.Equal(t, []PageStats{
		{Page: "/", Views: 3, UniqueVisitors: 3},
		{Page: "/guides", Views: 1, UniqueVisitors: 1},
		{Page: "/tools", Views: 1, UniqueVisitors: 1},
	}, stats.TopPages)
	assert.Equal(t, []CountryCount{
		{Country: "IN", Count: 2},
		{Country: "US", Count: 2},
		{Country: "DE", Count: 1},
	}, stats.Countries)
}

func TestAggregateDayLimitsTopLists(t *testing.T) {
	var events []Event
	for i := range 15 {
		events = append(events, ev(fmt.Sprintf("/p%02d", i), "s", "", time.Minute, DeviceDesktop, fmt.Sprintf("C%02d", i)))
	}
	stats := AggregateDay(events, day)
	assert.Len(t, stats.TopPages, 10)
	assert.Len(t, stats.Countries, 10)
	assert.Equal(t, "/p00", stats.TopPages[0].Page)
}

func TestAggregateEmptyDay(t *testing.T) {
	stats := AggregateDay(nil, day)
	assert.Zero(t, stats.PageViews)
	assert.NotNil(t, stats.TopPages)
	assert.NotNil(t, stats.Countries)
}

func TestByDay(t *testing.T) {
	got := ByDay(sampleEvents())
	assert.Equal(t, []DayCount{
		{Date: "2025-03-14", Views: 5, UniqueVisitors: 3},
		{Date: "2025-03-15", Views: 1, UniqueVisitors: 1},
	}, got)
	assert.Empty(t, ByDay(nil))
}

func TestByPage(t *testing.T) {
	got := ByPage(sampleEvents())
	require.Len(t, got, 3)
	assert.Equal(t, PageStats{Page: "/", Views: 4, UniqueVisitors: 4}, got[0])
}

func TestEventPrepare(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))

	e := Event{Page: "/tools", SessionID: "s1", Country: " us "}
	require.NoError(t, e.Prepare(now))
	assert.Equal(t, EventPageView, e.Type)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, time.UTC, e.Timestamp.Location())
	assert.Equal(t, "US", e.Country)

	tests := []Event{
		{Page: "/"},
		{SessionID: "s"},
		{Page: "/", SessionID: "s", Type: "hover"},
	}
	for _, bad := range tests {
		assert.True(t, errors.IsValidationError(bad.Prepare(now)))
	}
}

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		ua   string
		want Device
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", DeviceMobile},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36", DeviceMobile},
		{"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) Mobile/15E148", DeviceTablet},
		{"Mozilla/5.0 (Linux; Android 13; SM-X700) Safari/537.36", DeviceTablet},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) Safari/605.1.15", DeviceDesktop},
		{"", DeviceDesktop},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectDevice(tt.ua), tt.ua)
	}
}

func logs(t *testing.T) map[string]Log {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "analytics.db"), 0o600, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	bl, err := NewBoltLog(db)
	require.NoError(t, err)
	return map[string]Log{"memory": NewMemoryLog(), "bolt": bl}
}

func TestLogContract(t *testing.T) {
	for name, l := range logs(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			events := sampleEvents()
			// Record out of order; Range must return oldest first.
			for i := len(events) - 1; i >= 0; i-- {
				require.NoError(t, l.Record(ctx, events[i]))
			}

			got, err := l.Range(ctx, day, day.Add(24*time.Hour))
			require.NoError(t, err)
			require.Len(t, got, 6)
			assert.Equal(t, "/", got[0].Page)
			assert.Equal(t, "click", got[5].ID)

			pruned, err := l.Prune(ctx, day.Add(3*time.Hour))
			require.NoError(t, err)
			assert.Equal(t, 2, pruned)

			all, err := l.Range(ctx, time.Time{}, day.Add(72*time.Hour))
			require.NoError(t, err)
			assert.Len(t, all, 5)

			require.NoError(t, l.SaveDaily(ctx, DailyStats{Date: "2025-03-14", PageViews: 5}))
			require.NoError(t, l.SaveDaily(ctx, DailyStats{Date: "2025-03-12", PageViews: 1}))
			require.NoError(t, l.SaveDaily(ctx, DailyStats{Date: "2025-03-20", PageViews: 9}))

			daily, err := l.Daily(ctx, "2025-03-12", "2025-03-14")
			require.NoError(t, err)
			require.Len(t, daily, 2)
			assert.Equal(t, "2025-03-12", daily[0].Date)
			assert.Equal(t, 5, daily[1].PageViews)
		})
	}
}

func TestSchedulerRunDaily(t *testing.T) {
	l := NewMemoryLog()
	ctx := context.Background()
	for _, e := range sampleEvents() {
		require.NoError(t, l.Record(ctx, e))
	}
	old := ev("/", "ancient", "", -100*24*time.Hour, DeviceDesktop, "")
	require.NoError(t, l.Record(ctx, old))

	now := day.Add(24*time.Hour + 5*time.Minute)
	s := NewScheduler(l, WithNow(func() time.Time { return now }))

	stats, err := s.RunDaily(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", stats.Date)
	assert.Equal(t, 5, stats.PageViews)

	saved, err := l.Daily(ctx, "2025-03-14", "2025-03-14")
	require.NoError(t, err)
	require.Len(t, saved, 1)

	remaining, err := l.Range(ctx, time.Time{}, now.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Len(t, remaining, 7)
}

func TestSchedulerStartStop(t *testing.T) {
	l := NewMemoryLog()
	s := NewScheduler(l, WithSchedule("@every 1h"), WithRetention(time.Hour))
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	bad := NewScheduler(l, WithSchedule("not a schedule"))
	assert.Error(t, bad.Start(context.Background()))
}
