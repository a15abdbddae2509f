package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	glossarymagic "github.com/aldo555/glossary-magic"
	"github.com/aldo555/glossary-magic/commands"
	"github.com/aldo555/glossary-magic/internal/logging"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr            string
	connectCron     string
	connectArticles []string
	importCron      string
	importDirectory string
}

func newServeCommand(a *app) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the glossary HTTP API",
		Long: `Serve the glossary endpoints under the configured base path, plus
/metrics when the metrics feature is enabled. Cron flags schedule connect
passes and markdown re-imports while the server runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (defaults to http.addr)")
	cmd.Flags().StringVar(&opts.connectCron, "connect-cron", "", "cron expression re-running connect for --connect-article")
	cmd.Flags().StringSliceVar(&opts.connectArticles, "connect-article", nil, "article id connected by --connect-cron")
	cmd.Flags().StringVar(&opts.importCron, "import-cron", "", "cron expression re-importing --import-dir")
	cmd.Flags().StringVar(&opts.importDirectory, "import-dir", "", "markdown directory imported by --import-cron")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.HTTP.Addr = opts.addr
	}
	scheduled := opts.connectCron != "" || opts.importCron != ""
	if scheduled {
		cfg.Features.Commands = true
		cfg.Features.Markdown = cfg.Features.Markdown || opts.importCron != ""
	}
	articleIDs, err := parseArticleIDs(opts.connectArticles)
	if err != nil {
		return err
	}

	module, err := a.newModule(cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	logger := logging.CLILogger(module.Container().LoggerProvider())

	mux, err := newServeMux(module)
	if err != nil {
		return err
	}

	scheduler := cron.New()
	if scheduled {
		_, err := commands.RegisterContainerCommands(module.Container(), commands.RegistrationOptions{
			CronRegistrar:   cronRegistrar(scheduler, logger),
			ConnectCron:     opts.connectCron,
			ConnectArticles: articleIDs,
			ImportCron:      opts.importCron,
			ImportDirectory: opts.importDirectory,
		})
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return serve(cmd.Context(), server, logger)
}

// newServeMux mounts the glossary API and, when a gatherer is configured,
// the Prometheus handler.
func newServeMux(module *glossarymagic.Module) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	if err := module.API().Register(mux); err != nil {
		return nil, err
	}
	if gatherer := module.Container().Gatherer(); gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux, nil
}

func serve(ctx context.Context, server *http.Server, logger interfaces.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("cli.serve.listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("cli.serve.shutdown")
	return server.Shutdown(shutdownCtx)
}

// cronRegistrar adapts the command cron contract to a robfig scheduler.
func cronRegistrar(scheduler *cron.Cron, logger interfaces.Logger) commands.CronRegistrar {
	return func(cfg command.HandlerConfig, handler any) error {
		run, ok := handler.(func() error)
		if !ok {
			return fmt.Errorf("cron: unsupported handler %T", handler)
		}
		_, err := scheduler.AddFunc(cfg.Expression, func() {
			if err := run(); err != nil {
				logger.Error("cli.cron.failed", "expression", cfg.Expression, "error", err)
			}
		})
		return err
	}
}

func parseArticleIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("parse article id %q: %w", value, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
