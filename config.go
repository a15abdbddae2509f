package glossarymagic

import "github.com/aldo555/glossary-magic/internal/runtimeconfig"

var (
	ErrLinkTargetRequired      = runtimeconfig.ErrLinkTargetRequired
	ErrRouteNameRequired       = runtimeconfig.ErrRouteNameRequired
	ErrFieldsRequired          = runtimeconfig.ErrFieldsRequired
	ErrStorageDriverUnknown    = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
	ErrHTTPAddrRequired        = runtimeconfig.ErrHTTPAddrRequired
	ErrCommandsFeatureRequired = runtimeconfig.ErrCommandsFeatureRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	GlossaryConfig       = runtimeconfig.GlossaryConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	HTTPConfig           = runtimeconfig.HTTPConfig
	CommandsConfig       = runtimeconfig.CommandsConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the runtime defaults.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
