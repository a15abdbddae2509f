package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	"github.com/google/uuid"

	"github.com/aldo555/glossary-magic/internal/commands"
	glossarycmd "github.com/aldo555/glossary-magic/internal/commands/glossary"
	"github.com/aldo555/glossary-magic/internal/glossary"
)

// flakyConnector fails the first failures Connect calls.
type flakyConnector struct {
	glossary.Service
	failures int
	attempts int
}

func (f *flakyConnector) Connect(_ context.Context, req glossary.ConnectRequest) (*glossary.ConnectResult, error) {
	f.attempts++
	if f.attempts <= f.failures {
		return nil, errors.New("relation store unavailable")
	}
	return &glossary.ConnectResult{ArticleID: req.ArticleID, Skipped: true}, nil
}

func TestDispatcherRetriesConnectUntilSuccess(t *testing.T) {
	service := &flakyConnector{failures: 1}
	handler := glossarycmd.NewConnectArticleHandler(service, nil, nil,
		commands.WithTimeout[glossarycmd.ConnectArticleCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), glossarycmd.ConnectArticleCommand{ArticleID: uuid.New()}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if service.attempts != 2 {
		t.Fatalf("expected 2 attempts (initial + retry), got %d", service.attempts)
	}
}

func TestDispatcherRetryExhaustionPropagatesError(t *testing.T) {
	service := &flakyConnector{failures: 10}
	handler := glossarycmd.NewConnectArticleHandler(service, nil, nil,
		commands.WithTimeout[glossarycmd.ConnectArticleCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), glossarycmd.ConnectArticleCommand{ArticleID: uuid.New()})
	if err == nil {
		t.Fatal("expected dispatcher to return error after exhausting retries")
	}
	if service.attempts != 3 {
		t.Fatalf("expected 3 attempts (initial + 2 retries), got %d", service.attempts)
	}
}
