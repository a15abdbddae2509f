package glossarycmd

import (
	"context"

	"github.com/aldo555/glossary-magic/internal/commands"
	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/logging"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	linkOperation       = "glossary.link"
	connectOperation    = "glossary.connect"
	syncOperation       = "glossary.sync_terms"
	disconnectOperation = "glossary.disconnect"
)

var (
	_ command.Commander[LinkArticleCommand]       = (*LinkArticleHandler)(nil)
	_ command.Commander[ConnectArticleCommand]    = (*ConnectArticleHandler)(nil)
	_ command.Commander[SyncArticleTermsCommand]  = (*SyncArticleTermsHandler)(nil)
	_ command.Commander[DisconnectArticleCommand] = (*DisconnectArticleHandler)(nil)
)

// LinkArticleHandler casts glossary links over an article.
type LinkArticleHandler struct {
	inner *commands.Handler[LinkArticleCommand]
}

// NewLinkArticleHandler constructs a handler bound to the glossary service.
// onResult, when set, receives every successful pass.
func NewLinkArticleHandler(service glossary.Service, logger interfaces.Logger, onResult func(*glossary.LinkResult), opts ...commands.HandlerOption[LinkArticleCommand]) *LinkArticleHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg LinkArticleCommand) error {
		result, err := service.Link(ctx, glossary.LinkRequest{
			ArticleID: msg.ArticleID,
			Fields:    msg.Fields,
			Save:      msg.Save,
		})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"article_id":    result.ArticleID,
			"used_words":    result.UsedWords,
			"changed_count": len(result.Changes),
			"saved":         result.Saved,
		}).Info("glossary.command.link.completed")
		if onResult != nil {
			onResult(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LinkArticleCommand]{
		commands.WithLogger[LinkArticleCommand](baseLogger),
		commands.WithOperation[LinkArticleCommand](linkOperation),
		commands.WithMessageFields(func(msg LinkArticleCommand) map[string]any {
			fields := map[string]any{"article_id": msg.ArticleID}
			if msg.Save {
				fields["save"] = true
			}
			if msg.Fields != nil {
				fields["field_count"] = len(msg.Fields)
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[LinkArticleCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LinkArticleHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[LinkArticleCommand].
func (h *LinkArticleHandler) Execute(ctx context.Context, msg LinkArticleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ConnectArticleHandler syncs article relations with the terms it links to.
type ConnectArticleHandler struct {
	inner *commands.Handler[ConnectArticleCommand]
}

// NewConnectArticleHandler constructs a handler bound to the glossary service.
func NewConnectArticleHandler(service glossary.Service, logger interfaces.Logger, onResult func(*glossary.ConnectResult), opts ...commands.HandlerOption[ConnectArticleCommand]) *ConnectArticleHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ConnectArticleCommand) error {
		result, err := service.Connect(ctx, glossary.ConnectRequest{
			ArticleID: msg.ArticleID,
			Fields:    msg.Fields,
		})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"article_id": result.ArticleID,
			"words":      result.Words,
			"skipped":    result.Skipped,
		}).Info("glossary.command.connect.completed")
		if onResult != nil {
			onResult(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ConnectArticleCommand]{
		commands.WithLogger[ConnectArticleCommand](baseLogger),
		commands.WithOperation[ConnectArticleCommand](connectOperation),
		commands.WithMessageFields(func(msg ConnectArticleCommand) map[string]any {
			return map[string]any{"article_id": msg.ArticleID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ConnectArticleCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ConnectArticleHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ConnectArticleCommand].
func (h *ConnectArticleHandler) Execute(ctx context.Context, msg ConnectArticleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncArticleTermsHandler applies explicit relation deltas.
type SyncArticleTermsHandler struct {
	inner *commands.Handler[SyncArticleTermsCommand]
}

// NewSyncArticleTermsHandler constructs a handler bound to the glossary service.
func NewSyncArticleTermsHandler(service glossary.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SyncArticleTermsCommand]) *SyncArticleTermsHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SyncArticleTermsCommand) error {
		result, err := service.SyncRelations(ctx, glossary.SyncRequest{
			ArticleID:      msg.ArticleID,
			AllTermIDs:     msg.AllTermIDs,
			ConnectTermIDs: msg.ConnectTermIDs,
		})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"article_id":         result.ArticleID,
			"connected_count":    len(result.Connected),
			"disconnected_count": len(result.Disconnected),
		}).Info("glossary.command.sync_terms.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncArticleTermsCommand]{
		commands.WithLogger[SyncArticleTermsCommand](baseLogger),
		commands.WithOperation[SyncArticleTermsCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncArticleTermsCommand) map[string]any {
			return map[string]any{
				"article_id":    msg.ArticleID,
				"all_count":     len(msg.AllTermIDs),
				"connect_count": len(msg.ConnectTermIDs),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncArticleTermsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncArticleTermsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SyncArticleTermsCommand].
func (h *SyncArticleTermsHandler) Execute(ctx context.Context, msg SyncArticleTermsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DisconnectArticleHandler removes every term association of an article.
type DisconnectArticleHandler struct {
	inner *commands.Handler[DisconnectArticleCommand]
}

// NewDisconnectArticleHandler constructs a handler bound to the glossary service.
func NewDisconnectArticleHandler(service glossary.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DisconnectArticleCommand]) *DisconnectArticleHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg DisconnectArticleCommand) error {
		result, err := service.DisconnectAll(ctx, msg.ArticleID)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"article_id":    result.ArticleID,
			"removed_count": result.Removed,
		}).Info("glossary.command.disconnect.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[DisconnectArticleCommand]{
		commands.WithLogger[DisconnectArticleCommand](baseLogger),
		commands.WithOperation[DisconnectArticleCommand](disconnectOperation),
		commands.WithMessageFields(func(msg DisconnectArticleCommand) map[string]any {
			return map[string]any{"article_id": msg.ArticleID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DisconnectArticleCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DisconnectArticleHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DisconnectArticleCommand].
func (h *DisconnectArticleHandler) Execute(ctx context.Context, msg DisconnectArticleCommand) error {
	return h.inner.Execute(ctx, msg)
}
