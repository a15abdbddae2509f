package commands

import (
	"errors"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	cmdsupport "github.com/aldo555/glossary-magic/internal/commands"
	glossarycmd "github.com/aldo555/glossary-magic/internal/commands/glossary"
	markdowncmd "github.com/aldo555/glossary-magic/internal/commands/markdown"
	"github.com/aldo555/glossary-magic/internal/di"
	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider

	// ConnectCron re-runs connect for ConnectArticles on the given expression.
	ConnectCron     string
	ConnectArticles []uuid.UUID
	// ImportCron re-imports ImportDirectory, connecting every article.
	ImportCron      string
	ImportDirectory string

	// OnLink and OnConnect receive successful command results.
	OnLink    func(*glossary.LinkResult)
	OnConnect func(*glossary.ConnectResult)
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterContainerCommands builds the command handlers exposed by the provided container and
// optionally registers them with registry/dispatcher/cron integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	cfg := container.Config

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	dispatcher := opts.Dispatcher
	if dispatcher == nil && cfg.Commands.AutoRegisterDispatcher {
		dispatcher = NewDispatcher()
	}

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if dispatcher != nil {
			subscription, err := dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	timeout := cfg.Commands.Timeout

	// Glossary commands.
	var glossarySet *glossarycmd.HandlerSet
	if service := container.GlossaryService(); service != nil && cfg.Features.Commands {
		set, err := glossarycmd.RegisterGlossaryCommands(nil, service, provider,
			glossarycmd.WithMetrics(container.Metrics()),
			glossarycmd.WithLinkResults(opts.OnLink),
			glossarycmd.WithConnectResults(opts.OnConnect),
			glossarycmd.WithLinkHandlerOptions(cmdsupport.WithTimeout[glossarycmd.LinkArticleCommand](timeout)),
			glossarycmd.WithConnectHandlerOptions(cmdsupport.WithTimeout[glossarycmd.ConnectArticleCommand](timeout)),
			glossarycmd.WithSyncHandlerOptions(cmdsupport.WithTimeout[glossarycmd.SyncArticleTermsCommand](timeout)),
			glossarycmd.WithDisconnectHandlerOptions(cmdsupport.WithTimeout[glossarycmd.DisconnectArticleCommand](timeout)),
		)
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			glossarySet = set
			register(set.Link)
			register(set.Connect)
			register(set.Sync)
			register(set.Disconnect)
		}
	}

	// Markdown commands.
	var markdownSet *markdowncmd.HandlerSet
	if importer := container.Importer(); importer != nil && cfg.Features.Commands && cfg.Features.Markdown {
		gates := markdowncmd.FeatureGates{
			MarkdownEnabled: func() bool { return cfg.Features.Markdown },
		}
		set, err := markdowncmd.RegisterMarkdownCommands(nil, markdowncmd.Services{
			Importer:  importer,
			Loader:    container.Loader(),
			Files:     container.Files(),
			Connector: container.GlossaryService(),
		}, provider, gates,
			markdowncmd.WithVocabularyHandlerOptions(cmdsupport.WithTimeout[markdowncmd.ImportVocabularyCommand](timeout)),
			markdowncmd.WithArticlesHandlerOptions(cmdsupport.WithTimeout[markdowncmd.ImportArticlesCommand](timeout)),
		)
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			markdownSet = set
			register(set.Vocabulary)
			register(set.Articles)
		}
	}

	// Cron schedules.
	if opts.CronRegistrar != nil {
		if expr := strings.TrimSpace(opts.ConnectCron); expr != "" && glossarySet != nil {
			for _, articleID := range opts.ConnectArticles {
				msg := glossarycmd.ConnectArticleCommand{ArticleID: articleID}
				if err := glossarycmd.RegisterConnectCron(glossarycmd.CronRegistrar(opts.CronRegistrar), glossarySet.Connect, command.HandlerConfig{Expression: expr}, msg); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
		if expr := strings.TrimSpace(opts.ImportCron); expr != "" && markdownSet != nil {
			msg := markdowncmd.ImportArticlesCommand{Directory: opts.ImportDirectory, Connect: true}
			if err := markdowncmd.RegisterMarkdownCron(markdowncmd.CronRegistrar(opts.CronRegistrar), markdownSet.Articles, command.HandlerConfig{Expression: expr}, msg); err != nil {
				errs = errors.Join(errs, err)
			}
		}
	}

	if errs != nil && len(result.Handlers) == 0 {
		return result, errs
	}

	if len(result.Handlers) == 0 {
		return result, errors.New("no command handlers registered; enable the commands feature")
	}

	return result, errs
}
