// Package handlers provides HTTP request handlers for the toolhub API.
package handlers

import (
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/toolhub/internal/cache"
	"github.com/agentstation/toolhub/internal/cmd/application"
	"github.com/agentstation/toolhub/internal/server/events"
	"github.com/agentstation/toolhub/internal/server/sse"
	ws "github.com/agentstation/toolhub/internal/server/websocket"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app            application.Application
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	startTime      time.Time
	now            func() time.Time
}

// New creates a new Handlers instance.
func New(
	app application.Application,
	cache *cache.Cache,
	broker *events.Broker,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		app:            app,
		cache:          cache,
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
		startTime:      time.Now(),
		now:            time.Now,
	}
}

// kindFor resolves a collection path segment.
func kindFor(collection string) (catalog.Kind, error) {
	kind, ok := catalog.KindForCollection(collection)
	if !ok {
		return "", errors.NewNotFoundError("collection", collection)
	}
	return kind, nil
}

// cacheKey scopes cached responses to a collection so writes can drop them.
func cacheKey(collection string, parts ...string) string {
	return collection + ":" + strings.Join(parts, ":")
}

// invalidate drops every cached response for a collection.
func (h *Handlers) invalidate(collection string) {
	if n := h.cache.DeletePrefix(collection + ":"); n > 0 {
		h.logger.Debug().Str("collection", collection).Int("entries", n).Msg("Invalidated response cache")
	}
}

// publish emits a change event when a broker is configured.
func (h *Handlers) publish(eventType events.EventType, collection string, data any) {
	if h.broker != nil {
		h.broker.Publish(eventType, collection, data)
	}
}
