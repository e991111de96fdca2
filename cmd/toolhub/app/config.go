package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/toolhub/internal/enrich"
	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/errors"
)

// Config holds the application configuration loaded from flags,
// environment variables, .env files and the config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	ConfigFile string

	// Storage
	DBPath   string
	CacheTTL time.Duration

	// Query engine
	ToolPageSize   int
	GuidePageSize  int
	PaginateSearch bool

	// Admin API key for the HTTP server
	APIKey string

	// Description enrichment
	GeminiAPIKey string
	GeminiModel  string

	// Analytics rollup
	AnalyticsSchedule  string
	AnalyticsRetention time.Duration

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// envBindings maps config keys to the environment variables read for them.
var envBindings = map[string][]string{
	"db":                  {"TOOLHUB_DB"},
	"cache_ttl":           {"TOOLHUB_CACHE_TTL"},
	"tool_page_size":      {"TOOLHUB_TOOL_PAGE_SIZE"},
	"guide_page_size":     {"TOOLHUB_GUIDE_PAGE_SIZE"},
	"paginate_search":     {"TOOLHUB_PAGINATE_SEARCH"},
	"api_key":             {"TOOLHUB_API_KEY"},
	"gemini_api_key":      {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"gemini_model":        {"GEMINI_MODEL"},
	"analytics_schedule":  {"TOOLHUB_ANALYTICS_SCHEDULE"},
	"analytics_retention": {"TOOLHUB_ANALYTICS_RETENTION"},
	"format":              {"TOOLHUB_FORMAT", "OUTPUT"},
	"verbose":             {"VERBOSE"},
	"quiet":               {"QUIET"},
	"no_color":            {"NO_COLOR"},
}

// LoadConfig loads configuration in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.toolhub.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(os.Getenv("TOOLHUB_CONFIG"))
}

// loadConfig loads configuration, reading configFile when it is set and
// ~/.toolhub.yaml otherwise.
func loadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	v.SetDefault("db", constants.DefaultDataPath)
	v.SetDefault("cache_ttl", constants.CacheTTL)
	v.SetDefault("tool_page_size", constants.DefaultPageSize)
	v.SetDefault("guide_page_size", constants.DefaultPageSize)
	v.SetDefault("gemini_model", enrich.DefaultModel)
	v.SetDefault("analytics_schedule", constants.DailyAggregationSchedule)
	v.SetDefault("analytics_retention", constants.AnalyticsRetention)

	if configFile != "" {
		v.SetConfigFile(expandHome(configFile))
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
		// A missing default config file is fine.
		_ = v.ReadInConfig()
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DBPath:   expandHome(v.GetString("db")),
		CacheTTL: v.GetDuration("cache_ttl"),

		ToolPageSize:   v.GetInt("tool_page_size"),
		GuidePageSize:  v.GetInt("guide_page_size"),
		PaginateSearch: v.GetBool("paginate_search"),

		APIKey: v.GetString("api_key"),

		GeminiAPIKey: v.GetString("gemini_api_key"),
		GeminiModel:  v.GetString("gemini_model"),

		AnalyticsSchedule:  v.GetString("analytics_schedule"),
		AnalyticsRetention: v.GetDuration("analytics_retention"),

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// UpdateFromFlags applies parsed persistent flags over loaded values.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, dbPath string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if dbPath != "" {
		c.DBPath = expandHome(dbPath)
	}
}

// loadEnvFiles loads .env then .env.local. Variables already set win.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
