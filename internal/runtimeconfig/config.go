package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrLinkTargetRequired = errors.New("glossary config: a base url or a route config is required to build links")
var ErrRouteNameRequired = errors.New("glossary config: route group and route name are required with a route config")
var ErrFieldsRequired = errors.New("glossary config: at least one content field is required")
var ErrStorageDriverUnknown = errors.New("glossary config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("glossary config: storage dsn is required")
var ErrCacheTTLInvalid = errors.New("glossary config: cache ttl must be positive when cache is enabled")
var ErrHTTPAddrRequired = errors.New("glossary config: http address is required")
var ErrCommandsFeatureRequired = errors.New("glossary config: commands feature must be enabled to auto-register the dispatcher")
var ErrLoggingProviderRequired = errors.New("glossary config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("glossary config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("glossary config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("glossary config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the glossary module.
type Config struct {
	Glossary GlossaryConfig `mapstructure:"glossary"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Commands CommandsConfig `mapstructure:"commands"`
	Markdown MarkdownConfig `mapstructure:"markdown"`
	Features Features       `mapstructure:"features"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// GlossaryConfig controls how vocabularies resolve and which fields are linked.
type GlossaryConfig struct {
	// BaseURL is the glossary page that links point to.
	BaseURL string `mapstructure:"base_url"`
	// Fields is the priority order of article content fields.
	Fields []string `mapstructure:"fields"`
	// RouteConfig switches link building to go-urlkit when set.
	RouteConfig *urlkit.Config `mapstructure:"route_config"`
	RouteGroup  string         `mapstructure:"route_group"`
	RouteName   string         `mapstructure:"route_name"`
	SearchParam string         `mapstructure:"search_param"`
	CategoryKey string         `mapstructure:"category_key"`
}

// StorageConfig selects the database backing the bun repositories.
type StorageConfig struct {
	// Driver is "sqlite3" or "postgres".
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr     string `mapstructure:"addr"`
	BasePath string `mapstructure:"base_path"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool          `mapstructure:"enabled"`
	AutoRegisterDispatcher bool          `mapstructure:"auto_register_dispatcher"`
	Timeout                time.Duration `mapstructure:"timeout"`
}

// MarkdownConfig captures article discovery and preview rendering options.
type MarkdownConfig struct {
	Pattern   string               `mapstructure:"pattern"`
	Recursive bool                 `mapstructure:"recursive"`
	Parser    MarkdownParserConfig `mapstructure:"parser"`
}

// MarkdownParserConfig mirrors markdown.RenderOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `mapstructure:"extensions"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// Features toggles module functionality. Without Storage the repositories
// live in memory.
type Features struct {
	Storage  bool `mapstructure:"storage"`
	Metrics  bool `mapstructure:"metrics"`
	Commands bool `mapstructure:"commands"`
	Markdown bool `mapstructure:"markdown"`
	Logger   bool `mapstructure:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns defaults suitable for a local sqlite database.
func DefaultConfig() Config {
	return Config{
		Glossary: GlossaryConfig{
			BaseURL:     "/glossary",
			Fields:      []string{"contentTop", "contentMiddle", "contentBottom"},
			SearchParam: "search",
			CategoryKey: "category",
		},
		Storage: StorageConfig{
			Driver:      "sqlite3",
			DSN:         "file:glossary.db?cache=shared&_fk=1",
			AutoMigrate: true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		HTTP: HTTPConfig{
			Addr:     ":8080",
			BasePath: "/glossary-magic",
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
		Markdown: MarkdownConfig{
			Pattern:   "*.md",
			Recursive: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Glossary.RouteConfig != nil {
		if strings.TrimSpace(cfg.Glossary.RouteGroup) == "" || strings.TrimSpace(cfg.Glossary.RouteName) == "" {
			return ErrRouteNameRequired
		}
	} else if strings.TrimSpace(cfg.Glossary.BaseURL) == "" {
		return ErrLinkTargetRequired
	}
	if !hasField(cfg.Glossary.Fields) {
		return ErrFieldsRequired
	}

	driver := NormalizeDriver(cfg.Storage.Driver)
	if !isSupportedDriver(driver) {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		return ErrHTTPAddrRequired
	}
	if cfg.Commands.AutoRegisterDispatcher && !cfg.Features.Commands {
		return ErrCommandsFeatureRequired
	}

	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// NormalizeDriver maps driver aliases onto "sqlite3" or "postgres".
func NormalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return "sqlite3"
	case "postgres", "postgresql", "pg":
		return "postgres"
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}

func isSupportedDriver(driver string) bool {
	return driver == "sqlite3" || driver == "postgres"
}

func hasField(fields []string) bool {
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			return true
		}
	}
	return false
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
