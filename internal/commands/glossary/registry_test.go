package glossarycmd

import (
	"context"
	"errors"
	"testing"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/aldo555/glossary-magic/internal/commands"
	"github.com/aldo555/glossary-magic/internal/commands/fixtures"
)

func TestRegisterGlossaryCommandsRegistersHandlers(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()

	set, err := RegisterGlossaryCommands(reg, &stubService{}, nil)
	if err != nil {
		t.Fatalf("register glossary commands: %v", err)
	}
	if set.Link == nil || set.Connect == nil || set.Sync == nil || set.Disconnect == nil {
		t.Fatalf("expected every handler built, got %#v", set)
	}
	if len(reg.Handlers) != 4 {
		t.Fatalf("expected four handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != set.Link || reg.Handlers[3] != set.Disconnect {
		t.Fatalf("unexpected registration order %#v", reg.Handlers)
	}
}

func TestRegisterGlossaryCommandsPropagatesRegistryError(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	reg.Err = errors.New("registry closed")

	if _, err := RegisterGlossaryCommands(reg, &stubService{}, nil); err == nil {
		t.Fatal("expected registry error")
	}
}

func TestRegisterGlossaryCommandsNilServiceError(t *testing.T) {
	if _, err := RegisterGlossaryCommands(nil, nil, nil); err == nil {
		t.Fatal("expected error when service is nil")
	}
}

func TestRegisterGlossaryCommandsHandlerOptionsApplied(t *testing.T) {
	linkApplied := false
	disconnectApplied := false

	_, err := RegisterGlossaryCommands(nil, &stubService{}, nil,
		WithLinkHandlerOptions(func(h *commands.Handler[LinkArticleCommand]) {
			linkApplied = true
		}),
		WithDisconnectHandlerOptions(func(h *commands.Handler[DisconnectArticleCommand]) {
			disconnectApplied = true
		}),
	)
	if err != nil {
		t.Fatalf("register glossary commands: %v", err)
	}
	if !linkApplied || !disconnectApplied {
		t.Fatalf("expected handler options applied (link=%v disconnect=%v)", linkApplied, disconnectApplied)
	}
}

type countingMetrics struct {
	actions map[string]int
}

func (m *countingMetrics) ObserveAction(action, outcome string, _ time.Duration) {
	if m.actions == nil {
		m.actions = map[string]int{}
	}
	m.actions[action+":"+outcome]++
}

func (m *countingMetrics) AddLinkedTerms(int) {}

func (m *countingMetrics) AddRelationChanges(string, int) {}

func TestRegisterGlossaryCommandsRecordsMetrics(t *testing.T) {
	metrics := &countingMetrics{}
	set, err := RegisterGlossaryCommands(nil, &stubService{}, nil, WithMetrics(metrics))
	if err != nil {
		t.Fatalf("register glossary commands: %v", err)
	}

	if err := set.Link.Execute(context.Background(), LinkArticleCommand{ArticleID: uuid.New()}); err != nil {
		t.Fatalf("execute link: %v", err)
	}
	if metrics.actions["command.glossary.link:success"] != 1 {
		t.Fatalf("expected link success recorded, got %v", metrics.actions)
	}
}

func TestRegisterConnectCron(t *testing.T) {
	service := &stubService{}
	set, err := RegisterGlossaryCommands(nil, service, nil)
	if err != nil {
		t.Fatalf("register glossary commands: %v", err)
	}

	recorder := fixtures.NewCronRecorder()
	cfg := command.HandlerConfig{Expression: "@hourly"}
	msg := ConnectArticleCommand{ArticleID: uuid.New()}
	if err := RegisterConnectCron(recorder.Registrar(), set.Connect, cfg, msg); err != nil {
		t.Fatalf("register cron: %v", err)
	}
	if len(recorder.Entries) != 1 {
		t.Fatalf("expected one cron entry, got %d", len(recorder.Entries))
	}
	if got := recorder.Entries[0].Config.Expression; got != "@hourly" {
		t.Fatalf("unexpected cron expression %q", got)
	}
	if err := recorder.Run(0); err != nil {
		t.Fatalf("cron run: %v", err)
	}
	if len(service.connectCalls) != 1 || service.connectCalls[0].ArticleID != msg.ArticleID {
		t.Fatalf("expected cron to connect article, got %+v", service.connectCalls)
	}

	if err := RegisterConnectCron(nil, set.Connect, cfg, msg); err != nil {
		t.Fatalf("nil registrar should be ignored: %v", err)
	}
}
