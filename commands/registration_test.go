package commands

import (
	"errors"
	"testing"
	"testing/fstest"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	glossarycmd "github.com/aldo555/glossary-magic/internal/commands/glossary"
	markdowncmd "github.com/aldo555/glossary-magic/internal/commands/markdown"
	"github.com/aldo555/glossary-magic/internal/di"
	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/runtimeconfig"
)

func newContainer(t *testing.T, mutate func(*runtimeconfig.Config)) *di.Container {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Commands = true
	if mutate != nil {
		mutate(&cfg)
	}
	files := fstest.MapFS{
		"articles/scaling.md": {Data: []byte("---\ntitle: Scaling\ncategory: Networking\n---\nBody\n")},
	}
	container, err := di.NewContainer(cfg, di.WithFS(files))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	return container
}

func TestRegisterContainerCommandsBuildsHandlers(t *testing.T) {
	container := newContainer(t, func(cfg *runtimeconfig.Config) {
		cfg.Features.Markdown = true
	})

	registry := &recordingRegistry{}
	dispatcher := &recordingDispatcher{}
	cron := &recordingCron{}

	result, err := RegisterContainerCommands(container, RegistrationOptions{
		Registry:        registry,
		Dispatcher:      dispatcher,
		CronRegistrar:   cron.Registrar(),
		ConnectCron:     "@hourly",
		ConnectArticles: []uuid.UUID{uuid.New(), uuid.New()},
		ImportCron:      "@daily",
		ImportDirectory: "articles",
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if len(result.Handlers) != 6 {
		t.Fatalf("expected six handlers, got %d", len(result.Handlers))
	}
	if len(result.Handlers) != len(registry.handlers) {
		t.Fatalf("expected registry to record all handlers, got %d of %d", len(registry.handlers), len(result.Handlers))
	}
	if len(dispatcher.subscriptions) != len(result.Handlers) {
		t.Fatalf("expected a dispatcher subscription per handler, got %d", len(dispatcher.subscriptions))
	}
	if len(cron.registrations) != 3 {
		t.Fatalf("expected two connect and one import cron registrations, got %d", len(cron.registrations))
	}
	if got := cron.registrations[0].config.Expression; got != "@hourly" {
		t.Fatalf("expected connect cron expression, got %q", got)
	}
	if got := cron.registrations[2].config.Expression; got != "@daily" {
		t.Fatalf("expected import cron expression, got %q", got)
	}
	if err := cron.registrations[2].handler(); err != nil {
		t.Fatalf("import cron run: %v", err)
	}
	if _, err := container.ArticleRepository().GetBySlug(t.Context(), "scaling"); err != nil {
		t.Fatalf("expected cron import to store the article: %v", err)
	}
}

func TestRegisterContainerCommandsWithoutRegistrars(t *testing.T) {
	container := newContainer(t, nil)

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) != 4 {
		t.Fatalf("expected the four glossary handlers, got %d", len(result.Handlers))
	}
	if len(result.Subscriptions) != 0 {
		t.Fatalf("expected no dispatcher subscriptions without dispatcher, got %d", len(result.Subscriptions))
	}
	for _, handler := range result.Handlers {
		if _, ok := handler.(*markdowncmd.ImportArticlesHandler); ok {
			t.Fatal("expected markdown handlers to stay unregistered while the markdown feature is off")
		}
	}
}

func TestRegisterContainerCommandsRequiresCommandsFeature(t *testing.T) {
	container := newContainer(t, func(cfg *runtimeconfig.Config) {
		cfg.Features.Commands = false
	})

	if _, err := RegisterContainerCommands(container, RegistrationOptions{}); err == nil {
		t.Fatal("expected error when no handlers can be registered")
	}
}

func TestRegisterContainerCommandsJoinsRegistryErrors(t *testing.T) {
	container := newContainer(t, nil)
	dispatcher := &recordingDispatcher{err: errors.New("dispatcher closed")}

	result, err := RegisterContainerCommands(container, RegistrationOptions{Dispatcher: dispatcher})
	if err == nil {
		t.Fatal("expected dispatcher error to surface")
	}
	if len(result.Handlers) != 4 {
		t.Fatalf("expected handlers built despite dispatcher errors, got %d", len(result.Handlers))
	}
}

func TestRegisterContainerCommandsAutoDispatcher(t *testing.T) {
	container := newContainer(t, func(cfg *runtimeconfig.Config) {
		cfg.Commands.AutoRegisterDispatcher = true
	})

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	t.Cleanup(func() {
		for _, sub := range result.Subscriptions {
			sub.Unsubscribe()
		}
	})
	if len(result.Subscriptions) != len(result.Handlers) {
		t.Fatalf("expected auto dispatcher subscriptions, got %d of %d", len(result.Subscriptions), len(result.Handlers))
	}
}

func TestDispatcherRejectsUnknownHandler(t *testing.T) {
	if _, err := NewDispatcher().RegisterCommand(struct{}{}); err == nil {
		t.Fatal("expected unknown handler to be rejected")
	}
}

func TestRegisterContainerCommandsForwardsConnectResults(t *testing.T) {
	container := newContainer(t, func(cfg *runtimeconfig.Config) {
		cfg.Features.Markdown = true
	})
	var results []*glossary.ConnectResult

	reg, err := RegisterContainerCommands(container, RegistrationOptions{
		OnConnect: func(result *glossary.ConnectResult) { results = append(results, result) },
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	var (
		connect *glossarycmd.ConnectArticleHandler
		imports *markdowncmd.ImportArticlesHandler
	)
	for _, handler := range reg.Handlers {
		switch h := handler.(type) {
		case *glossarycmd.ConnectArticleHandler:
			connect = h
		case *markdowncmd.ImportArticlesHandler:
			imports = h
		}
	}
	if connect == nil || imports == nil {
		t.Fatalf("expected connect and import handlers, got %d handlers", len(reg.Handlers))
	}

	ctx := t.Context()
	if err := imports.Execute(ctx, markdowncmd.ImportArticlesCommand{Directory: "articles"}); err != nil {
		t.Fatalf("import articles: %v", err)
	}
	article, err := container.ArticleRepository().GetBySlug(ctx, "scaling")
	if err != nil {
		t.Fatalf("lookup article: %v", err)
	}
	if err := connect.Execute(ctx, glossarycmd.ConnectArticleCommand{ArticleID: article.ID}); err != nil {
		t.Fatalf("connect article: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected one forwarded connect result, got %d", len(results))
	}
	if !results[0].Skipped {
		t.Fatal("expected connect to skip an article without links")
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type cronRegistration struct {
	config  command.HandlerConfig
	handler func() error
}

type recordingCron struct {
	registrations []cronRegistration
	err           error
}

func (c *recordingCron) Registrar() CronRegistrar {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		var fn func() error
		if h, ok := handler.(func() error); ok {
			fn = h
		}
		c.registrations = append(c.registrations, cronRegistration{
			config:  cfg,
			handler: fn,
		})
		return nil
	}
}

type recordingDispatcher struct {
	handlers      []any
	subscriptions []*recordingSubscription
	err           error
}

func (d *recordingDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.handlers = append(d.handlers, handler)
	sub := &recordingSubscription{handler: handler}
	d.subscriptions = append(d.subscriptions, sub)
	return sub, nil
}

type recordingSubscription struct {
	handler      any
	unsubscribed bool
}

func (s *recordingSubscription) Unsubscribe() {
	s.unsubscribed = true
}
