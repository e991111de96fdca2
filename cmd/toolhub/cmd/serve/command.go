// Package serve provides the HTTP server command.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/toolhub/internal/analytics"
	"github.com/agentstation/toolhub/internal/cmd/application"
	"github.com/agentstation/toolhub/internal/cmd/cmdutil"
	"github.com/agentstation/toolhub/internal/cmd/emoji"
	"github.com/agentstation/toolhub/internal/server"
	"github.com/agentstation/toolhub/pkg/constants"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the catalog REST API server",
		Long: `Start the REST API for the tools and guides catalog.

Features:
  - Search, facets and paging over tools and guides
  - Admin create, update, delete, import and export (API key protected)
  - View and click counters
  - Page-view analytics with a nightly rollup
  - WebSocket (/api/v1/updates/ws) and SSE (/api/v1/updates/stream) updates
  - Response caching, rate limiting, CORS and Prometheus metrics`,
		Example: `  # Start on the default port
  toolhub serve

  # Protect admin routes
  TOOLHUB_API_KEY=secret toolhub serve --auth

  # Allow a browser front end
  toolhub serve --cors-origins "https://tools.example.com"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, args, app)
		},
	}

	cmd.Flags().Int("port", defaults.Port, "Server port")
	cmd.Flags().String("host", defaults.Host, "Bind address")

	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	cmd.Flags().Bool("auth", false, "Require an API key on admin routes")
	cmd.Flags().String("auth-header", defaults.AuthHeader, "Authentication header name")
	cmd.Flags().String("api-key", "", "Admin API key (default $TOOLHUB_API_KEY)")

	cmd.Flags().Int("rate-limit", defaults.RateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Int("rate-burst", defaults.RateBurst, "Requests allowed in a burst")
	cmd.Flags().Duration("cache-ttl", constants.CacheTTL, "Response cache TTL")

	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	cmd.Flags().Bool("metrics", true, "Enable the /metrics endpoint")
	cmd.Flags().String("prefix", defaults.PathPrefix, "API path prefix")

	cmd.Flags().Bool("analytics", true, "Run the nightly analytics rollup")
	cmd.Flags().String("analytics-schedule", constants.DailyAggregationSchedule, "Cron schedule for the rollup")
	cmd.Flags().Duration("analytics-retention", constants.AnalyticsRetention, "How long raw events are kept")

	return cmd
}

// settings is the configuration the CLI app carries beyond Application.
// Flags that were set explicitly win over it.
type settings interface {
	APIKey() string
	AnalyticsSchedule() string
	AnalyticsRetention() time.Duration
}

func runServer(cmd *cobra.Command, _ []string, app application.Application) error {
	cfg, err := parseConfig(cmd)
	if err != nil {
		return err
	}
	schedule := cmdutil.MustGetString(cmd, "analytics-schedule")
	retention := cmdutil.MustGetDuration(cmd, "analytics-retention")
	if st, ok := app.(settings); ok {
		if cfg.APIKey == "" {
			cfg.APIKey = st.APIKey()
		}
		if !cmd.Flags().Changed("analytics-schedule") && st.AnalyticsSchedule() != "" {
			schedule = st.AnalyticsSchedule()
		}
		if !cmd.Flags().Changed("analytics-retention") && st.AnalyticsRetention() > 0 {
			retention = st.AnalyticsRetention()
		}
	}
	logger := app.Logger()

	if cfg.AuthEnabled && cfg.APIKey == "" {
		return fmt.Errorf("--auth requires --api-key or TOOLHUB_API_KEY")
	}

	logger.Info().
		Str("addr", cfg.Addr()).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting API server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	srv.Start()

	var scheduler *analytics.Scheduler
	if cmdutil.MustGetBool(cmd, "analytics") {
		log, err := app.Analytics()
		if err != nil {
			_ = srv.Shutdown(context.Background())
			return fmt.Errorf("opening analytics: %w", err)
		}
		scheduler = analytics.NewScheduler(log,
			analytics.WithSchedule(schedule),
			analytics.WithRetention(retention),
			analytics.WithLogger(logger),
		)
		if err := scheduler.Start(cmd.Context()); err != nil {
			_ = srv.Shutdown(context.Background())
			return fmt.Errorf("starting analytics scheduler: %w", err)
		}
	}

	return startWithGracefulShutdown(cmd.Context(), srv.HTTPServer(), srv, scheduler, logger)
}

// parseConfig reads flags, then HTTP_PORT and HTTP_HOST overrides.
func parseConfig(cmd *cobra.Command) (server.Config, error) {
	cfg := server.Config{
		Host:           cmdutil.MustGetString(cmd, "host"),
		Port:           cmdutil.MustGetInt(cmd, "port"),
		PathPrefix:     cmdutil.MustGetString(cmd, "prefix"),
		CORSEnabled:    cmdutil.MustGetBool(cmd, "cors"),
		CORSOrigins:    cmdutil.MustGetStringSlice(cmd, "cors-origins"),
		AuthEnabled:    cmdutil.MustGetBool(cmd, "auth"),
		AuthHeader:     cmdutil.MustGetString(cmd, "auth-header"),
		APIKey:         cmdutil.MustGetString(cmd, "api-key"),
		RateLimit:      cmdutil.MustGetInt(cmd, "rate-limit"),
		RateBurst:      cmdutil.MustGetInt(cmd, "rate-burst"),
		CacheTTL:       cmdutil.MustGetDuration(cmd, "cache-ttl"),
		ReadTimeout:    cmdutil.MustGetDuration(cmd, "read-timeout"),
		WriteTimeout:   cmdutil.MustGetDuration(cmd, "write-timeout"),
		IdleTimeout:    cmdutil.MustGetDuration(cmd, "idle-timeout"),
		MetricsEnabled: cmdutil.MustGetBool(cmd, "metrics"),
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("TOOLHUB_API_KEY")
	}
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" {
		port, err := parsePort(envPort)
		if err != nil {
			return cfg, err
		}
		cfg.Port = port
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" {
		cfg.Host = envHost
	}
	return cfg, nil
}

func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

// startWithGracefulShutdown serves until ctx is cancelled, then drains the
// HTTP server, the scheduler and the background services in that order.
func startWithGracefulShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, scheduler *analytics.Scheduler, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		fmt.Printf("%s API server listening on %s\n", emoji.Rocket, httpServer.Addr)
		fmt.Println("   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	var runErr error
	select {
	case runErr = <-serverErr:
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
		fmt.Printf("\n%s Shutting down API server...\n", emoji.Stop)
	}

	// ctx is already done here.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("server shutdown failed: %w", err)
	}
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Background services shutdown had issues")
	}

	if runErr == nil {
		logger.Info().Msg("Server stopped gracefully")
		fmt.Printf("%s API server stopped gracefully\n", emoji.Success)
	}
	return runErr
}
