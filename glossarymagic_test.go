package glossarymagic_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	glossarymagic "github.com/aldo555/glossary-magic"
	"github.com/aldo555/glossary-magic/internal/markdown"
)

const vocabularyYAML = `base_url: https://example.com/glossary
categories:
  - name: Networking
terms:
  - word: Node Pool
    categories: [Networking]
  - word: cache
`

const articleMarkdown = `---
title: Scaling
category: Networking
fields:
  contentTop: Add a Node Pool before traffic peaks.
  contentMiddle: A warm cache hides the cold start.
---
`

func TestModuleLinksImportedArticle(t *testing.T) {
	module, err := glossarymagic.New(glossarymagic.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	ctx := context.Background()
	vocabulary, err := markdown.LoadVocabulary([]byte(vocabularyYAML))
	if err != nil {
		t.Fatalf("load vocabulary: %v", err)
	}
	if _, err := module.Importer().ImportVocabulary(ctx, vocabulary); err != nil {
		t.Fatalf("import vocabulary: %v", err)
	}
	doc, err := markdown.ParseArticle([]byte(articleMarkdown))
	if err != nil {
		t.Fatalf("parse article: %v", err)
	}
	article, err := module.Importer().ImportArticle(ctx, doc)
	if err != nil {
		t.Fatalf("import article: %v", err)
	}

	result, err := module.Glossary().Link(ctx, glossarymagic.LinkRequest{ArticleID: article.ID, Save: true})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if got := strings.Join(result.UsedWords, ","); got != "Node Pool,cache" {
		t.Fatalf("unexpected used words %q", got)
	}
	if !result.Saved {
		t.Fatal("expected linked content to be saved")
	}

	connected, err := module.Glossary().Connect(ctx, glossarymagic.ConnectRequest{ArticleID: article.ID})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if len(connected.TermIDs) != 2 {
		t.Fatalf("expected two connected terms, got %d", len(connected.TermIDs))
	}
	if module.API() == nil {
		t.Fatal("expected http api to be exposed")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := glossarymagic.DefaultConfig()
	cfg.Glossary.Fields = nil

	if _, err := glossarymagic.New(cfg); !errors.Is(err, glossarymagic.ErrFieldsRequired) {
		t.Fatalf("expected ErrFieldsRequired, got %v", err)
	}
}

func TestConfigValidateLoggingProvider(t *testing.T) {
	cfg := glossarymagic.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, glossarymagic.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidateDispatcherRequiresCommands(t *testing.T) {
	cfg := glossarymagic.DefaultConfig()
	cfg.Commands.AutoRegisterDispatcher = true

	if err := cfg.Validate(); !errors.Is(err, glossarymagic.ErrCommandsFeatureRequired) {
		t.Fatalf("expected ErrCommandsFeatureRequired, got %v", err)
	}
}
