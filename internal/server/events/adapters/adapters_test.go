package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/toolhub/internal/server/events"
	"github.com/agentstation/toolhub/internal/server/sse"
	ws "github.com/agentstation/toolhub/internal/server/websocket"
)

func TestSubscribersImplementInterface(t *testing.T) {
	logger := zerolog.Nop()
	var _ events.Subscriber = NewWebSocketSubscriber(ws.NewHub(&logger))
	var _ events.Subscriber = NewSSESubscriber(sse.NewBroadcaster(&logger))
}

func TestSSESubscriberForwards(t *testing.T) {
	logger := zerolog.Nop()
	b := sse.NewBroadcaster(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	srv := httptest.NewServer(b)
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	sub := NewSSESubscriber(b)
	if err := sub.Send(events.Event{Type: events.ItemDeleted, Collection: "guides", Timestamp: time.UnixMilli(1234)}); err != nil {
		t.Fatalf("send: %v", err)
	}

	buf := make([]byte, 4096)
	var body strings.Builder
	for !strings.Contains(body.String(), "event: item.deleted") && time.Now().Before(deadline.Add(time.Second)) {
		n, err := resp.Body.Read(buf)
		body.Write(buf[:n])
		if err != nil {
			break
		}
	}
	out := body.String()
	if !strings.Contains(out, "event: item.deleted") || !strings.Contains(out, "id: 1234") {
		t.Errorf("expected forwarded frame, got %q", out)
	}
	if !strings.Contains(out, `"collection":"guides"`) {
		t.Errorf("expected collection in payload, got %q", out)
	}
}
