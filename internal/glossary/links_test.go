package glossary_test

import (
	"errors"
	"net/url"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/aldo555/glossary-magic/internal/glossary"
)

func TestQueryLinkBuilder(t *testing.T) {
	category := &glossary.Category{Name: "Data & Storage"}

	cases := []struct {
		name     string
		base     string
		word     string
		category *glossary.Category
		want     string
	}{
		{name: "global", base: "/glossary", word: "cache", want: "/glossary?search=cache"},
		{name: "scoped", base: "/glossary", word: "cache", category: category, want: "/glossary?search=cache&category=Data+%26+Storage"},
		{name: "existing query", base: "/g?lang=en", word: "Node Pool", want: "/g?lang=en&search=Node+Pool"},
		{name: "parentheses", base: "/g", word: "glossary(s)", want: "/g?search=glossary%28s%29"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			link, err := glossary.NewQueryLinkBuilder(tc.base).Build(&glossary.Term{Word: tc.word}, tc.category)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if link != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, link)
			}
		})
	}
}

func TestQueryLinkBuilderRequiresBase(t *testing.T) {
	_, err := glossary.NewQueryLinkBuilder("  ").Build(&glossary.Term{Word: "cache"}, nil)
	if !errors.Is(err, glossary.ErrLinkBaseRequired) {
		t.Fatalf("expected ErrLinkBaseRequired, got %v", err)
	}
}

func newRouteManager() *urlkit.RouteManager {
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "frontend",
				BaseURL: "https://example.com",
				Paths: map[string]string{
					"glossary": "/glossary",
				},
				Groups: []urlkit.GroupConfig{
					{
						Name: "docs",
						Path: "/docs",
						Paths: map[string]string{
							"glossary": "/terms",
						},
					},
				},
			},
		},
	})
}

func TestURLKitLinkBuilderAddsQuery(t *testing.T) {
	builder := glossary.NewURLKitLinkBuilder(glossary.URLKitLinkBuilderOptions{
		Manager: newRouteManager(),
		Group:   "frontend.docs",
		Route:   "glossary",
	})

	link, err := builder.Build(&glossary.Term{Word: "Node Pool"}, &glossary.Category{Name: "Networking"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse %q: %v", link, err)
	}
	if parsed.Host != "example.com" {
		t.Fatalf("expected example.com host, got %q", parsed.Host)
	}
	if got := parsed.Query().Get("search"); got != "Node Pool" {
		t.Fatalf("expected search=Node Pool, got %q", got)
	}
	if got := parsed.Query().Get("category"); got != "Networking" {
		t.Fatalf("expected category=Networking, got %q", got)
	}
}

func TestURLKitLinkBuilderOmitsCategoryForGlobalTerms(t *testing.T) {
	builder := glossary.NewURLKitLinkBuilder(glossary.URLKitLinkBuilderOptions{
		Manager:     newRouteManager(),
		Group:       "frontend",
		Route:       "glossary",
		SearchParam: "q",
	})

	link, err := builder.Build(&glossary.Term{Word: "cache"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse %q: %v", link, err)
	}
	if got := parsed.Query().Get("q"); got != "cache" {
		t.Fatalf("expected q=cache, got %q", got)
	}
	if parsed.Query().Has("category") {
		t.Fatalf("expected no category parameter in %q", link)
	}
}

func TestURLKitLinkBuilderUnknownGroup(t *testing.T) {
	builder := glossary.NewURLKitLinkBuilder(glossary.URLKitLinkBuilderOptions{
		Manager: newRouteManager(),
		Group:   "frontend.missing",
		Route:   "glossary",
	})
	if _, err := builder.Build(&glossary.Term{Word: "cache"}, nil); err == nil {
		t.Fatalf("expected error for unknown group")
	}
}

func TestURLKitLinkBuilderWithoutManager(t *testing.T) {
	builder := glossary.NewURLKitLinkBuilder(glossary.URLKitLinkBuilderOptions{Group: "frontend", Route: "glossary"})
	if _, err := builder.Build(&glossary.Term{Word: "cache"}, nil); err == nil {
		t.Fatalf("expected error without route manager")
	}
}
