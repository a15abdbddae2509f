package glossary

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// LinkBuilder produces the destination a glossary reference points to.
// category is nil for global terms.
type LinkBuilder interface {
	Build(term *Term, category *Category) (string, error)
}

var ErrLinkBaseRequired = errors.New("glossary: link base url required")

// QueryLinkBuilder appends search (and category, for scoped terms) query
// parameters to a fixed base URL.
type QueryLinkBuilder struct {
	BaseURL string
}

// NewQueryLinkBuilder constructs a builder for base.
func NewQueryLinkBuilder(base string) QueryLinkBuilder {
	return QueryLinkBuilder{BaseURL: strings.TrimSpace(base)}
}

func (b QueryLinkBuilder) Build(term *Term, category *Category) (string, error) {
	if b.BaseURL == "" {
		return "", ErrLinkBaseRequired
	}
	if term == nil {
		return "", fmt.Errorf("glossary: term required to build link")
	}

	// QueryEscape encodes parentheses, so a word containing ")" cannot end
	// the markdown destination early.
	var sb strings.Builder
	sb.WriteString(b.BaseURL)
	if strings.Contains(b.BaseURL, "?") {
		sb.WriteByte('&')
	} else {
		sb.WriteByte('?')
	}
	sb.WriteString("search=")
	sb.WriteString(url.QueryEscape(term.Word))
	if category != nil {
		sb.WriteString("&category=")
		sb.WriteString(url.QueryEscape(category.Name))
	}
	return sb.String(), nil
}

// URLKitLinkBuilderOptions configures the go-urlkit backed builder.
type URLKitLinkBuilderOptions struct {
	Manager     *urlkit.RouteManager
	Group       string
	Route       string
	SearchParam string
	CategoryKey string
}

// URLKitLinkBuilder resolves glossary links through a go-urlkit route.
type URLKitLinkBuilder struct {
	manager     *urlkit.RouteManager
	group       string
	route       string
	searchParam string
	categoryKey string
}

// NewURLKitLinkBuilder constructs a builder backed by go-urlkit.
func NewURLKitLinkBuilder(opts URLKitLinkBuilderOptions) *URLKitLinkBuilder {
	if opts.SearchParam == "" {
		opts.SearchParam = "search"
	}
	if opts.CategoryKey == "" {
		opts.CategoryKey = "category"
	}
	return &URLKitLinkBuilder{
		manager:     opts.Manager,
		group:       strings.TrimSpace(opts.Group),
		route:       strings.TrimSpace(opts.Route),
		searchParam: opts.SearchParam,
		categoryKey: opts.CategoryKey,
	}
}

func (b *URLKitLinkBuilder) Build(term *Term, category *Category) (string, error) {
	if term == nil {
		return "", fmt.Errorf("glossary: term required to build link")
	}
	group, err := b.lookupGroup()
	if err != nil {
		return "", err
	}
	if group == nil {
		return "", fmt.Errorf("glossary: route group %q not found", b.group)
	}
	builder, err := safeBuilder(group, b.route)
	if err != nil {
		return "", err
	}

	builder.WithQuery(b.searchParam, term.Word)
	if category != nil {
		builder.WithQuery(b.categoryKey, category.Name)
	}
	return builder.Build()
}

func (b *URLKitLinkBuilder) lookupGroup() (group *urlkit.Group, err error) {
	if b.manager == nil {
		return nil, fmt.Errorf("glossary: route manager not configured")
	}
	parts := strings.Split(b.group, ".")
	defer func() {
		if rec := recover(); rec != nil {
			group, err = nil, fmt.Errorf("glossary: route group %q not found", b.group)
		}
	}()

	group = b.manager.Group(parts[0])
	for _, part := range parts[1:] {
		group = group.Group(part)
	}
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder, err = nil, fmt.Errorf("glossary: urlkit route %q unavailable: %v", route, rec)
		}
	}()
	return group.Builder(route), nil
}
