package glossarycmd

import (
	"context"
	"errors"

	"github.com/aldo555/glossary-magic/internal/commands"
	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the glossary command handlers produced by RegisterGlossaryCommands.
type HandlerSet struct {
	Link       *LinkArticleHandler
	Connect    *ConnectArticleHandler
	Sync       *SyncArticleTermsHandler
	Disconnect *DisconnectArticleHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	metrics        interfaces.GlossaryMetrics
	onLink         func(*glossary.LinkResult)
	onConnect      func(*glossary.ConnectResult)
	linkOpts       []commands.HandlerOption[LinkArticleCommand]
	connectOpts    []commands.HandlerOption[ConnectArticleCommand]
	syncOpts       []commands.HandlerOption[SyncArticleTermsCommand]
	disconnectOpts []commands.HandlerOption[DisconnectArticleCommand]
}

// WithMetrics records every command execution as a glossary action.
func WithMetrics(metrics interfaces.GlossaryMetrics) Option {
	return func(cfg *options) {
		cfg.metrics = metrics
	}
}

// WithLinkResults forwards successful link passes to fn.
func WithLinkResults(fn func(*glossary.LinkResult)) Option {
	return func(cfg *options) {
		cfg.onLink = fn
	}
}

// WithConnectResults forwards successful connect runs to fn.
func WithConnectResults(fn func(*glossary.ConnectResult)) Option {
	return func(cfg *options) {
		cfg.onConnect = fn
	}
}

// WithLinkHandlerOptions forwards options to the LinkArticleHandler constructor.
func WithLinkHandlerOptions(opts ...commands.HandlerOption[LinkArticleCommand]) Option {
	return func(cfg *options) {
		cfg.linkOpts = append(cfg.linkOpts, opts...)
	}
}

// WithConnectHandlerOptions forwards options to the ConnectArticleHandler constructor.
func WithConnectHandlerOptions(opts ...commands.HandlerOption[ConnectArticleCommand]) Option {
	return func(cfg *options) {
		cfg.connectOpts = append(cfg.connectOpts, opts...)
	}
}

// WithSyncHandlerOptions forwards options to the SyncArticleTermsHandler constructor.
func WithSyncHandlerOptions(opts ...commands.HandlerOption[SyncArticleTermsCommand]) Option {
	return func(cfg *options) {
		cfg.syncOpts = append(cfg.syncOpts, opts...)
	}
}

// WithDisconnectHandlerOptions forwards options to the DisconnectArticleHandler constructor.
func WithDisconnectHandlerOptions(opts ...commands.HandlerOption[DisconnectArticleCommand]) Option {
	return func(cfg *options) {
		cfg.disconnectOpts = append(cfg.disconnectOpts, opts...)
	}
}

// RegisterGlossaryCommands builds the glossary command handlers and registers them with the
// provided registry. The registry may be nil, in which case handlers are only constructed.
func RegisterGlossaryCommands(reg CommandRegistry, service glossary.Service, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("glossary command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "glossary")

	linkOpts := cfg.linkOpts
	connectOpts := cfg.connectOpts
	syncOpts := cfg.syncOpts
	disconnectOpts := cfg.disconnectOpts
	if cfg.metrics != nil {
		linkOpts = append([]commands.HandlerOption[LinkArticleCommand]{
			commands.WithTelemetry(commands.MetricsTelemetry(cfg.metrics, commands.DefaultTelemetry[LinkArticleCommand](logger))),
		}, linkOpts...)
		connectOpts = append([]commands.HandlerOption[ConnectArticleCommand]{
			commands.WithTelemetry(commands.MetricsTelemetry(cfg.metrics, commands.DefaultTelemetry[ConnectArticleCommand](logger))),
		}, connectOpts...)
		syncOpts = append([]commands.HandlerOption[SyncArticleTermsCommand]{
			commands.WithTelemetry(commands.MetricsTelemetry(cfg.metrics, commands.DefaultTelemetry[SyncArticleTermsCommand](logger))),
		}, syncOpts...)
		disconnectOpts = append([]commands.HandlerOption[DisconnectArticleCommand]{
			commands.WithTelemetry(commands.MetricsTelemetry(cfg.metrics, commands.DefaultTelemetry[DisconnectArticleCommand](logger))),
		}, disconnectOpts...)
	}

	set := &HandlerSet{
		Link:       NewLinkArticleHandler(service, logger, cfg.onLink, linkOpts...),
		Connect:    NewConnectArticleHandler(service, logger, cfg.onConnect, connectOpts...),
		Sync:       NewSyncArticleTermsHandler(service, logger, syncOpts...),
		Disconnect: NewDisconnectArticleHandler(service, logger, disconnectOpts...),
	}

	if reg != nil {
		for _, handler := range []any{set.Link, set.Connect, set.Sync, set.Disconnect} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// RegisterConnectCron runs the connect handler for msg on the schedule in cfg.
// The handler is executed with a background context.
func RegisterConnectCron(reg CronRegistrar, handler *ConnectArticleHandler, cfg command.HandlerConfig, msg ConnectArticleCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
