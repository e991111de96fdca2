package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/toolhub/internal/analytics"
	"github.com/agentstation/toolhub/internal/store"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/query"
)

// Mock is an Application for tests. Nil function fields fall back to zero
// values, a no-op logger, and engines built from query.ConfigFor.
//
//	mem, _ := store.NewMemory()
//	mock := &application.Mock{
//	    StoreFunc: func() (store.Store, error) { return mem, nil },
//	}
type Mock struct {
	StoreFunc        func() (store.Store, error)
	AnalyticsFunc    func() (analytics.Log, error)
	EngineFunc       func(kind catalog.Kind) *query.Engine
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	GeminiAPIKeyFunc func() string
	GeminiModelFunc  func() string
	VersionFunc      func() string
}

var _ Application = (*Mock)(nil)

// Store returns the mock store or nil.
func (m *Mock) Store() (store.Store, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc()
	}
	return nil, nil
}

// Analytics returns the mock log or nil.
func (m *Mock) Analytics() (analytics.Log, error) {
	if m.AnalyticsFunc != nil {
		return m.AnalyticsFunc()
	}
	return nil, nil
}

// Engine returns the mock engine or a default one for the kind.
func (m *Mock) Engine(kind catalog.Kind) *query.Engine {
	if m.EngineFunc != nil {
		return m.EngineFunc(kind)
	}
	return query.New(query.ConfigFor(kind))
}

// Logger returns the mock logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the mock format or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// GeminiAPIKey returns the mock key or "".
func (m *Mock) GeminiAPIKey() string {
	if m.GeminiAPIKeyFunc != nil {
		return m.GeminiAPIKeyFunc()
	}
	return ""
}

// GeminiModel returns the mock model or "".
func (m *Mock) GeminiModel() string {
	if m.GeminiModelFunc != nil {
		return m.GeminiModelFunc()
	}
	return ""
}

// Version returns the mock version or "test".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }
