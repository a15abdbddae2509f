package markdowncmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/aldo555/glossary-magic/internal/commands"
	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/logging"
	"github.com/aldo555/glossary-magic/internal/markdown"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	importVocabularyOperation = "markdown.import_vocabulary"
	importArticlesOperation   = "markdown.import_articles"
)

// ErrFilesystemRequired is returned when a vocabulary import has no filesystem to read from.
var ErrFilesystemRequired = errors.New("markdown command: filesystem is required")

var (
	_ command.Commander[ImportVocabularyCommand] = (*ImportVocabularyHandler)(nil)
	_ command.Commander[ImportArticlesCommand]   = (*ImportArticlesHandler)(nil)
)

// Importer persists parsed vocabularies and articles.
type Importer interface {
	ImportVocabulary(ctx context.Context, file *markdown.VocabularyFile) (*markdown.VocabularyImportResult, error)
	ImportArticle(ctx context.Context, doc *markdown.ArticleDocument) (*glossary.Article, error)
}

// DocumentLoader discovers markdown articles under a directory.
type DocumentLoader interface {
	LoadDirectory(ctx context.Context, dir string) ([]*markdown.DocumentResult, error)
}

// Connector relates an article to the terms it already links to.
type Connector interface {
	Connect(ctx context.Context, req glossary.ConnectRequest) (*glossary.ConnectResult, error)
}

// ImportVocabularyHandler loads vocabulary files through the shared command handler foundation.
type ImportVocabularyHandler struct {
	inner *commands.Handler[ImportVocabularyCommand]
}

// NewImportVocabularyHandler creates a handler reading vocabulary files from files.
func NewImportVocabularyHandler(importer Importer, files fs.FS, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ImportVocabularyCommand]) *ImportVocabularyHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportVocabularyCommand) error {
		if err := gates.check(); err != nil {
			return err
		}
		if files == nil {
			return ErrFilesystemRequired
		}

		source, err := fs.ReadFile(files, cleanPath(msg.Path))
		if err != nil {
			return fmt.Errorf("read vocabulary %s: %w", msg.Path, err)
		}
		vocabulary, err := markdown.LoadVocabulary(source)
		if err != nil {
			return err
		}
		result, err := importer.ImportVocabulary(ctx, vocabulary)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"categories_created": result.CategoriesCreated,
			"terms_created":      result.TermsCreated,
			"terms_updated":      result.TermsUpdated,
			"terms_unchanged":    result.TermsUnchanged,
			"assignments":        result.Assignments,
		}).Info("markdown.command.import_vocabulary.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportVocabularyCommand]{
		commands.WithLogger[ImportVocabularyCommand](baseLogger),
		commands.WithOperation[ImportVocabularyCommand](importVocabularyOperation),
		commands.WithMessageFields(func(msg ImportVocabularyCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportVocabularyCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportVocabularyHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportVocabularyCommand].
func (h *ImportVocabularyHandler) Execute(ctx context.Context, msg ImportVocabularyCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportArticlesHandler stores every markdown article found under a directory.
type ImportArticlesHandler struct {
	inner *commands.Handler[ImportArticlesCommand]
}

// NewImportArticlesHandler creates a handler bound to the supplied importer and
// loader. connector may be nil, in which case Connect requests fail.
func NewImportArticlesHandler(importer Importer, loader DocumentLoader, connector Connector, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ImportArticlesCommand]) *ImportArticlesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportArticlesCommand) error {
		if err := gates.check(); err != nil {
			return err
		}
		if msg.Connect && connector == nil {
			return errors.New("markdown command: connect requested without a glossary service")
		}

		documents, err := loader.LoadDirectory(ctx, msg.Directory)
		if err != nil {
			return err
		}

		var (
			imported  int
			connected int
			failures  error
		)
		for _, doc := range documents {
			if err := ctx.Err(); err != nil {
				return err
			}
			if msg.DryRun {
				continue
			}
			article, err := importer.ImportArticle(ctx, doc.Document)
			if err != nil {
				failures = errors.Join(failures, fmt.Errorf("%s: %w", doc.Document.Path, err))
				continue
			}
			imported++
			if !msg.Connect {
				continue
			}
			result, err := connector.Connect(ctx, glossary.ConnectRequest{ArticleID: article.ID})
			if err != nil {
				failures = errors.Join(failures, fmt.Errorf("%s: %w", doc.Document.Path, err))
				continue
			}
			if !result.Skipped {
				connected++
			}
		}

		logging.WithFields(baseLogger, map[string]any{
			"found_count":     len(documents),
			"imported_count":  imported,
			"connected_count": connected,
			"dry_run":         msg.DryRun,
			"failed":          failures != nil,
		}).Info("markdown.command.import_articles.completed")
		return failures
	}

	handlerOpts := []commands.HandlerOption[ImportArticlesCommand]{
		commands.WithLogger[ImportArticlesCommand](baseLogger),
		commands.WithOperation[ImportArticlesCommand](importArticlesOperation),
		commands.WithMessageFields(func(msg ImportArticlesCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Connect {
				fields["connect"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportArticlesCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportArticlesHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportArticlesCommand].
func (h *ImportArticlesHandler) Execute(ctx context.Context, msg ImportArticlesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// cleanPath turns a user supplied path into an fs.FS compatible one.
func cleanPath(p string) string {
	p = strings.TrimPrefix(path.Clean(strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")), "/")
	if p == "" {
		return "."
	}
	return p
}
