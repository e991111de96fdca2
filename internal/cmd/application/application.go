// Package application defines what commands and the HTTP server need from
// the running program.
//
// Commands accept Application rather than the concrete app type so that
// tests can hand them a Mock.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/toolhub/internal/analytics"
	"github.com/agentstation/toolhub/internal/store"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/query"
)

// Application is the dependency surface shared by commands and the server.
// All methods must be safe for concurrent use.
type Application interface {
	// Store returns the catalog store, opening it on first use.
	Store() (store.Store, error)

	// Analytics returns the analytics event log, backed by the same
	// database as the store.
	Analytics() (analytics.Log, error)

	// Engine returns the query engine configured for a kind.
	Engine(kind catalog.Kind) *query.Engine

	Logger() *zerolog.Logger

	// OutputFormat is the configured CLI output format (table, json, yaml).
	OutputFormat() string

	// GeminiAPIKey and GeminiModel configure description enrichment.
	GeminiAPIKey() string
	GeminiModel() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
