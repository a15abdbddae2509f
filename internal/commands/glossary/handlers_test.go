package glossarycmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/logging"
)

type stubService struct {
	linkCalls       []glossary.LinkRequest
	connectCalls    []glossary.ConnectRequest
	syncCalls       []glossary.SyncRequest
	disconnectCalls []uuid.UUID

	err error
}

func (s *stubService) Vocabulary(context.Context, uuid.UUID) ([]glossary.VocabularyEntry, error) {
	return nil, s.err
}

func (s *stubService) Link(_ context.Context, req glossary.LinkRequest) (*glossary.LinkResult, error) {
	s.linkCalls = append(s.linkCalls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &glossary.LinkResult{ArticleID: req.ArticleID, UsedWords: []string{"cache"}}, nil
}

func (s *stubService) Connect(_ context.Context, req glossary.ConnectRequest) (*glossary.ConnectResult, error) {
	s.connectCalls = append(s.connectCalls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &glossary.ConnectResult{ArticleID: req.ArticleID, Words: []string{"Node"}}, nil
}

func (s *stubService) SyncRelations(_ context.Context, req glossary.SyncRequest) (*glossary.SyncResult, error) {
	s.syncCalls = append(s.syncCalls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &glossary.SyncResult{ArticleID: req.ArticleID, Connected: req.ConnectTermIDs}, nil
}

func (s *stubService) DisconnectAll(_ context.Context, articleID uuid.UUID) (*glossary.DisconnectResult, error) {
	s.disconnectCalls = append(s.disconnectCalls, articleID)
	if s.err != nil {
		return nil, s.err
	}
	return &glossary.DisconnectResult{ArticleID: articleID, Removed: 2}, nil
}

func TestLinkArticleHandlerForwardsRequest(t *testing.T) {
	service := &stubService{}
	var got *glossary.LinkResult
	handler := NewLinkArticleHandler(service, logging.NoOp(), func(result *glossary.LinkResult) {
		got = result
	})

	articleID := uuid.New()
	msg := LinkArticleCommand{ArticleID: articleID, Fields: map[string]string{"body": "cache"}, Save: true}
	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(service.linkCalls) != 1 {
		t.Fatalf("expected one link call, got %d", len(service.linkCalls))
	}
	call := service.linkCalls[0]
	if call.ArticleID != articleID || !call.Save || call.Fields["body"] != "cache" {
		t.Fatalf("unexpected link request %+v", call)
	}
	if got == nil || got.ArticleID != articleID {
		t.Fatalf("expected result callback, got %+v", got)
	}
}

func TestLinkArticleHandlerValidationFailure(t *testing.T) {
	service := &stubService{}
	handler := NewLinkArticleHandler(service, nil, nil)

	err := handler.Execute(context.Background(), LinkArticleCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.linkCalls) != 0 {
		t.Fatal("expected service not to be called")
	}
}

func TestConnectArticleHandlerWrapsServiceErrors(t *testing.T) {
	service := &stubService{err: glossary.ErrActionInProgress}
	handler := NewConnectArticleHandler(service, nil, nil)

	err := handler.Execute(context.Background(), ConnectArticleCommand{ArticleID: uuid.New()})
	if err == nil {
		t.Fatal("expected error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, glossary.ErrActionInProgress) {
		t.Fatalf("expected wrapped ErrActionInProgress, got %v", err)
	}
}

func TestSyncArticleTermsHandlerForwardsIDs(t *testing.T) {
	service := &stubService{}
	handler := NewSyncArticleTermsHandler(service, nil)

	articleID, termID := uuid.New(), uuid.New()
	msg := SyncArticleTermsCommand{
		ArticleID:      articleID,
		AllTermIDs:     []uuid.UUID{termID, uuid.New()},
		ConnectTermIDs: []uuid.UUID{termID},
	}
	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(service.syncCalls) != 1 || len(service.syncCalls[0].AllTermIDs) != 2 {
		t.Fatalf("unexpected sync calls %+v", service.syncCalls)
	}
}

func TestDisconnectArticleHandlerCallsService(t *testing.T) {
	service := &stubService{}
	handler := NewDisconnectArticleHandler(service, nil)

	articleID := uuid.New()
	if err := handler.Execute(context.Background(), DisconnectArticleCommand{ArticleID: articleID}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(service.disconnectCalls) != 1 || service.disconnectCalls[0] != articleID {
		t.Fatalf("unexpected disconnect calls %+v", service.disconnectCalls)
	}
}

func TestHandlersHonourCancelledContext(t *testing.T) {
	service := &stubService{}
	handler := NewDisconnectArticleHandler(service, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, DisconnectArticleCommand{ArticleID: uuid.New()})
	if err == nil {
		t.Fatal("expected context error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if len(service.disconnectCalls) != 0 {
		t.Fatal("expected service not to be called")
	}
}
