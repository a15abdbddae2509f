package di

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"

	"github.com/aldo555/glossary-magic/internal/glossary"
	glossaryhttp "github.com/aldo555/glossary-magic/internal/http"
	"github.com/aldo555/glossary-magic/internal/logging"
	"github.com/aldo555/glossary-magic/internal/logging/console"
	"github.com/aldo555/glossary-magic/internal/logging/gologger"
	"github.com/aldo555/glossary-magic/internal/markdown"
	"github.com/aldo555/glossary-magic/internal/runtimeconfig"
	"github.com/aldo555/glossary-magic/internal/storage"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
)

// Container wires module dependencies. Without storage the repositories are
// in-memory.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	routeManager *urlkit.RouteManager
	linkBuilder  glossary.LinkBuilder

	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	metrics    interfaces.GlossaryMetrics

	files fs.FS

	categoryRepo glossary.CategoryRepository
	articleRepo  glossary.ArticleRepository
	termRepo     glossary.TermRepository
	relationRepo glossary.RelationRepository

	glossarySvc glossary.Service
	importer    *markdown.Importer
	loader      *markdown.Loader
	renderer    *markdown.Renderer
	api         *glossaryhttp.GlossaryAPI
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an open database. The caller keeps ownership and the
// schema is not migrated.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache provider.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithMetricsRegisterer registers the glossary collectors with reg instead
// of a private registry.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		c.registerer = reg
	}
}

// WithMetrics overrides the metrics sink, bypassing Prometheus.
func WithMetrics(metrics interfaces.GlossaryMetrics) Option {
	return func(c *Container) {
		c.metrics = metrics
	}
}

// WithLinkBuilder overrides the builder derived from the glossary config.
func WithLinkBuilder(builder glossary.LinkBuilder) Option {
	return func(c *Container) {
		c.linkBuilder = builder
	}
}

// WithGlossaryService overrides the default glossary service binding.
func WithGlossaryService(svc glossary.Service) Option {
	return func(c *Container) {
		c.glossarySvc = svc
	}
}

// WithFS sets the filesystem markdown articles and vocabularies are read
// from. Defaults to the working directory.
func WithFS(files fs.FS) Option {
	return func(c *Container) {
		c.files = files
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:       cfg,
		cacheTTL:     cacheTTL,
		categoryRepo: glossary.NewMemoryCategoryRepository(),
		articleRepo:  glossary.NewMemoryArticleRepository(),
		termRepo:     glossary.NewMemoryTermRepository(),
		relationRepo: glossary.NewMemoryRelationRepository(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(context.Background()); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureLinks(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.configureMetrics(); err != nil {
		c.Close()
		return nil, err
	}

	if c.glossarySvc == nil {
		c.glossarySvc = glossary.NewService(
			c.articleRepo,
			c.categoryRepo,
			c.termRepo,
			c.relationRepo,
			glossary.WithLinkBuilder(c.linkBuilder),
			glossary.WithFields(cfg.Glossary.Fields),
			glossary.WithLogger(logging.ServiceLogger(c.loggerProvider)),
			glossary.WithMetrics(c.metrics),
		)
	}

	if c.files == nil {
		c.files = os.DirFS(".")
	}
	markdownLogger := logging.MarkdownLogger(c.loggerProvider)
	c.importer = markdown.NewImporter(markdown.ImporterConfig{
		Categories: c.categoryRepo,
		Terms:      c.termRepo,
		Articles:   c.articleRepo,
		Logger:     markdownLogger,
	})
	c.loader = markdown.NewLoader(c.files, markdown.LoaderConfig{
		Pattern:   cfg.Markdown.Pattern,
		Recursive: cfg.Markdown.Recursive,
	})
	c.renderer = markdown.NewRenderer(markdown.RenderOptions{
		Extensions: cfg.Markdown.Parser.Extensions,
		HardWraps:  cfg.Markdown.Parser.HardWraps,
		SafeMode:   cfg.Markdown.Parser.SafeMode,
	})

	c.api = glossaryhttp.NewGlossaryAPI(c.glossarySvc,
		glossaryhttp.WithBasePath(cfg.HTTP.BasePath),
		glossaryhttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		c.loggerProvider = logging.NoOpProvider()
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return fmt.Errorf("configure go-logger provider: %w", err)
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB != nil || !c.Config.Features.Storage {
		return nil
	}

	logger := logging.StorageLogger(c.loggerProvider)
	db, err := storage.Open(c.Config.Storage)
	if err != nil {
		return err
	}
	if c.Config.Storage.AutoMigrate {
		if err := storage.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("migrate storage: %w", err)
		}
	}

	c.bunDB = db
	c.ownsDB = true
	logger.Info("storage.configured",
		"driver", runtimeconfig.NormalizeDriver(c.Config.Storage.Driver),
		"auto_migrate", c.Config.Storage.AutoMigrate,
	)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}
	c.categoryRepo = glossary.NewBunCategoryRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.articleRepo = glossary.NewBunArticleRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.termRepo = glossary.NewBunTermRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.relationRepo = glossary.NewBunRelationRepository(c.bunDB)
}

func (c *Container) configureLinks() error {
	if c.linkBuilder != nil {
		return nil
	}

	glossaryCfg := c.Config.Glossary
	if glossaryCfg.RouteConfig == nil {
		c.linkBuilder = glossary.NewQueryLinkBuilder(glossaryCfg.BaseURL)
		return nil
	}

	manager, err := newRouteManager(glossaryCfg.RouteConfig)
	if err != nil {
		return err
	}
	c.routeManager = manager
	c.linkBuilder = glossary.NewURLKitLinkBuilder(glossary.URLKitLinkBuilderOptions{
		Manager:     manager,
		Group:       glossaryCfg.RouteGroup,
		Route:       glossaryCfg.RouteName,
		SearchParam: glossaryCfg.SearchParam,
		CategoryKey: glossaryCfg.CategoryKey,
	})
	return nil
}

// newRouteManager converts urlkit panics on malformed route tables into errors.
func newRouteManager(cfg *urlkit.Config) (manager *urlkit.RouteManager, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("glossary: invalid route config: %v", r)
		}
	}()
	return urlkit.NewRouteManager(cfg), nil
}

func (c *Container) configureMetrics() error {
	if c.metrics != nil {
		return nil
	}
	if !c.Config.Features.Metrics {
		c.metrics = glossary.NoOpMetrics()
		return nil
	}

	if c.registerer == nil {
		registry := prometheus.NewRegistry()
		c.registerer = registry
		c.gatherer = registry
	} else if gatherer, ok := c.registerer.(prometheus.Gatherer); ok {
		c.gatherer = gatherer
	}

	metrics, err := glossary.NewPrometheusMetrics(c.registerer)
	if err != nil {
		return fmt.Errorf("register glossary metrics: %w", err)
	}
	c.metrics = metrics
	return nil
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	return err
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// DB exposes the bun handle, nil when running in memory.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// RouteManager exposes the go-urlkit manager when routes are configured.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// LinkBuilder exposes the configured link builder.
func (c *Container) LinkBuilder() glossary.LinkBuilder {
	return c.linkBuilder
}

// Metrics exposes the glossary metrics sink.
func (c *Container) Metrics() interfaces.GlossaryMetrics {
	return c.metrics
}

// Gatherer exposes the Prometheus registry, nil when metrics are disabled or
// the supplied registerer cannot gather.
func (c *Container) Gatherer() prometheus.Gatherer {
	return c.gatherer
}

// Files exposes the filesystem markdown sources are read from.
func (c *Container) Files() fs.FS {
	return c.files
}

// CategoryRepository exposes the configured category repository.
func (c *Container) CategoryRepository() glossary.CategoryRepository {
	return c.categoryRepo
}

// ArticleRepository exposes the configured article repository.
func (c *Container) ArticleRepository() glossary.ArticleRepository {
	return c.articleRepo
}

// TermRepository exposes the configured term repository.
func (c *Container) TermRepository() glossary.TermRepository {
	return c.termRepo
}

// RelationRepository exposes the configured relation repository.
func (c *Container) RelationRepository() glossary.RelationRepository {
	return c.relationRepo
}

// GlossaryService returns the configured glossary service.
func (c *Container) GlossaryService() glossary.Service {
	return c.glossarySvc
}

// Importer returns the markdown importer writing into the container repositories.
func (c *Container) Importer() *markdown.Importer {
	return c.importer
}

// Loader returns the markdown article loader.
func (c *Container) Loader() *markdown.Loader {
	return c.loader
}

// Renderer returns the goldmark renderer used for previews.
func (c *Container) Renderer() *markdown.Renderer {
	return c.renderer
}

// API returns the HTTP endpoints bound to the glossary service.
func (c *Container) API() *glossaryhttp.GlossaryAPI {
	return c.api
}

// Workspace builds an in-memory markdown workspace for vocabulary. Configured
// routes take precedence over the vocabulary base_url, which takes precedence
// over the configured base URL.
func (c *Container) Workspace(ctx context.Context, vocabulary *markdown.VocabularyFile) (*markdown.Workspace, error) {
	opts := markdown.WorkspaceOptions{
		Fields: c.workspaceFields(),
		Logger: logging.MarkdownLogger(c.loggerProvider),
	}
	switch {
	case c.routeManager != nil:
		opts.LinkBuilder = c.linkBuilder
	case vocabulary == nil || strings.TrimSpace(vocabulary.BaseURL) == "":
		opts.BaseURL = c.Config.Glossary.BaseURL
	}
	return markdown.NewWorkspace(ctx, vocabulary, opts)
}

func (c *Container) workspaceFields() []string {
	fields := append([]string(nil), c.Config.Glossary.Fields...)
	if !slices.Contains(fields, markdown.BodyField) {
		fields = append(fields, markdown.BodyField)
	}
	return fields
}
