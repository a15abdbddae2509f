package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. GLOSSARY_STORAGE_DSN.
const EnvPrefix = "GLOSSARY"

var ErrConfigFileNotFound = errors.New("glossary config: config file not found")

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFile is read when set; its extension selects the format.
	ConfigFile string
	// EnvPrefix overrides the default environment prefix.
	EnvPrefix string
}

// Load layers defaults, an optional config file and environment variables,
// then validates the result.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	prefix := strings.TrimSpace(opts.EnvPrefix)
	if prefix == "" {
		prefix = EnvPrefix
	}
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := strings.TrimSpace(opts.ConfigFile); path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Storage.Driver = NormalizeDriver(cfg.Storage.Driver)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every scalar key so environment variables can
// override keys that no config file mentions.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("glossary.base_url", cfg.Glossary.BaseURL)
	v.SetDefault("glossary.fields", cfg.Glossary.Fields)
	v.SetDefault("glossary.route_group", cfg.Glossary.RouteGroup)
	v.SetDefault("glossary.route_name", cfg.Glossary.RouteName)
	v.SetDefault("glossary.search_param", cfg.Glossary.SearchParam)
	v.SetDefault("glossary.category_key", cfg.Glossary.CategoryKey)

	v.SetDefault("storage.driver", cfg.Storage.Driver)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("storage.auto_migrate", cfg.Storage.AutoMigrate)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.default_ttl", cfg.Cache.DefaultTTL)

	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.base_path", cfg.HTTP.BasePath)

	v.SetDefault("commands.enabled", cfg.Commands.Enabled)
	v.SetDefault("commands.auto_register_dispatcher", cfg.Commands.AutoRegisterDispatcher)
	v.SetDefault("commands.timeout", cfg.Commands.Timeout)

	v.SetDefault("markdown.pattern", cfg.Markdown.Pattern)
	v.SetDefault("markdown.recursive", cfg.Markdown.Recursive)
	v.SetDefault("markdown.parser.extensions", cfg.Markdown.Parser.Extensions)
	v.SetDefault("markdown.parser.hard_wraps", cfg.Markdown.Parser.HardWraps)
	v.SetDefault("markdown.parser.safe_mode", cfg.Markdown.Parser.SafeMode)

	v.SetDefault("features.storage", cfg.Features.Storage)
	v.SetDefault("features.metrics", cfg.Features.Metrics)
	v.SetDefault("features.commands", cfg.Features.Commands)
	v.SetDefault("features.markdown", cfg.Features.Markdown)
	v.SetDefault("features.logger", cfg.Features.Logger)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}
