package markdowncmd

import (
	"context"
	"errors"
	"io/fs"

	"github.com/aldo555/glossary-magic/internal/commands"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// Services bundles the collaborators the markdown handlers delegate to.
type Services struct {
	Importer Importer
	Loader   DocumentLoader
	// Files backs vocabulary reads.
	Files fs.FS
	// Connector is optional.
	Connector Connector
}

// HandlerSet groups the markdown command handlers produced by RegisterMarkdownCommands.
type HandlerSet struct {
	Vocabulary *ImportVocabularyHandler
	Articles   *ImportArticlesHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	vocabularyHandlerOpts []commands.HandlerOption[ImportVocabularyCommand]
	articlesHandlerOpts   []commands.HandlerOption[ImportArticlesCommand]
}

// WithVocabularyHandlerOptions forwards options to the ImportVocabularyHandler constructor.
func WithVocabularyHandlerOptions(opts ...commands.HandlerOption[ImportVocabularyCommand]) Option {
	return func(cfg *options) {
		cfg.vocabularyHandlerOpts = append(cfg.vocabularyHandlerOpts, opts...)
	}
}

// WithArticlesHandlerOptions forwards options to the ImportArticlesHandler constructor.
func WithArticlesHandlerOptions(opts ...commands.HandlerOption[ImportArticlesCommand]) Option {
	return func(cfg *options) {
		cfg.articlesHandlerOpts = append(cfg.articlesHandlerOpts, opts...)
	}
}

// RegisterMarkdownCommands builds markdown command handlers and registers them with the provided
// registry. A HandlerSet containing the constructed handlers is returned so callers can wire
// additional integrations (dispatcher, cron) as needed.
func RegisterMarkdownCommands(reg CommandRegistry, services Services, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if services.Importer == nil {
		return nil, errors.New("markdown command registration: importer is nil")
	}
	if services.Loader == nil {
		return nil, errors.New("markdown command registration: loader is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "markdown")

	vocabularyHandler := NewImportVocabularyHandler(services.Importer, services.Files, logger, gates, cfg.vocabularyHandlerOpts...)
	articlesHandler := NewImportArticlesHandler(services.Importer, services.Loader, services.Connector, logger, gates, cfg.articlesHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(vocabularyHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(articlesHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Vocabulary: vocabularyHandler,
		Articles:   articlesHandler,
	}, nil
}

// RegisterMarkdownCron wires the provided articles handler into a cron registrar using the
// supplied command configuration and message payload. The handler is executed with a
// background context.
func RegisterMarkdownCron(reg CronRegistrar, handler *ImportArticlesHandler, cfg command.HandlerConfig, msg ImportArticlesCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
