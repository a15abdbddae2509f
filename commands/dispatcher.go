package commands

import (
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	glossarycmd "github.com/aldo555/glossary-magic/internal/commands/glossary"
	markdowncmd "github.com/aldo555/glossary-magic/internal/commands/markdown"
)

// Dispatcher subscribes handlers to the process-wide go-command dispatcher.
type Dispatcher struct {
	runnerOpts []runner.Option
}

// NewDispatcher returns a dispatcher applying runnerOpts to every subscription.
func NewDispatcher(runnerOpts ...runner.Option) *Dispatcher {
	return &Dispatcher{runnerOpts: runnerOpts}
}

// RegisterCommand subscribes a handler built by RegisterContainerCommands.
func (d *Dispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *glossarycmd.LinkArticleHandler:
		return dispatcher.SubscribeCommand(h, d.runnerOpts...), nil
	case *glossarycmd.ConnectArticleHandler:
		return dispatcher.SubscribeCommand(h, d.runnerOpts...), nil
	case *glossarycmd.SyncArticleTermsHandler:
		return dispatcher.SubscribeCommand(h, d.runnerOpts...), nil
	case *glossarycmd.DisconnectArticleHandler:
		return dispatcher.SubscribeCommand(h, d.runnerOpts...), nil
	case *markdowncmd.ImportVocabularyHandler:
		return dispatcher.SubscribeCommand(h, d.runnerOpts...), nil
	case *markdowncmd.ImportArticlesHandler:
		return dispatcher.SubscribeCommand(h, d.runnerOpts...), nil
	default:
		return nil, fmt.Errorf("commands: dispatcher cannot subscribe %T", handler)
	}
}
