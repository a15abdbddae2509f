package glossary

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/aldo555/glossary-magic/internal/linker"
	"github.com/aldo555/glossary-magic/internal/logging"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes the glossary actions available on an article.
type Service interface {
	// Vocabulary resolves the terms applicable to an article, with links.
	Vocabulary(ctx context.Context, articleID uuid.UUID) ([]VocabularyEntry, error)
	// Link inserts glossary links into the article fields.
	Link(ctx context.Context, req LinkRequest) (*LinkResult, error)
	// Connect relates the article to every term it already links to.
	Connect(ctx context.Context, req ConnectRequest) (*ConnectResult, error)
	// SyncRelations applies an explicit connect/disconnect delta.
	SyncRelations(ctx context.Context, req SyncRequest) (*SyncResult, error)
	// DisconnectAll removes every term association of the article.
	DisconnectAll(ctx context.Context, articleID uuid.UUID) (*DisconnectResult, error)
}

// LinkRequest describes a linking pass. When Fields is nil the stored article
// content is used.
type LinkRequest struct {
	ArticleID uuid.UUID
	Fields    map[string]string
	Save      bool
}

// LinkResult reports the outcome of a linking pass.
type LinkResult struct {
	ArticleID      uuid.UUID            `json:"article_id"`
	UsedWords      []string             `json:"used_words"`
	Changes        []linker.FieldChange `json:"changes"`
	Fields         map[string]string    `json:"fields"`
	VocabularySize int                  `json:"vocabulary_size"`
	Saved          bool                 `json:"saved"`
}

// ConnectRequest resolves connections from Fields, or from the stored
// article content when Fields is nil.
type ConnectRequest struct {
	ArticleID uuid.UUID
	Fields    map[string]string
}

// ConnectResult reports the terms found linked in the article. Skipped is set
// when none were found and relations were left untouched.
type ConnectResult struct {
	ArticleID uuid.UUID   `json:"article_id"`
	Words     []string    `json:"words"`
	TermIDs   []uuid.UUID `json:"term_ids"`
	Skipped   bool        `json:"skipped"`
	Sync      *SyncResult `json:"sync,omitempty"`
}

// SyncRequest connects ConnectTermIDs and disconnects the rest of AllTermIDs.
type SyncRequest struct {
	ArticleID      uuid.UUID
	AllTermIDs     []uuid.UUID
	ConnectTermIDs []uuid.UUID
}

// SyncResult lists the relation changes applied.
type SyncResult struct {
	ArticleID    uuid.UUID   `json:"article_id"`
	Connected    []uuid.UUID `json:"connected"`
	Disconnected []uuid.UUID `json:"disconnected"`
}

// DisconnectResult reports how many associations were removed.
type DisconnectResult struct {
	ArticleID uuid.UUID `json:"article_id"`
	Removed   int       `json:"removed"`
}

var (
	ErrArticleRepositoryRequired  = errors.New("glossary: article repository required")
	ErrCategoryRepositoryRequired = errors.New("glossary: category repository required")
	ErrTermRepositoryRequired     = errors.New("glossary: term repository required")
	ErrRelationRepositoryRequired = errors.New("glossary: relation repository required")

	ErrArticleIDRequired    = errors.New("glossary: article id required")
	ErrAllTermsRequired     = errors.New("glossary: all terms required")
	ErrConnectTermsRequired = errors.New("glossary: terms to connect required")
	ErrCategoryNotFound     = errors.New("glossary: article category not found")
	ErrActionInProgress     = errors.New("glossary: another action is in progress for this article")
)

// DefaultFields is the field priority order used when none is configured.
var DefaultFields = []string{"contentTop", "contentMiddle", "contentBottom"}

const (
	actionLink       = "link"
	actionConnect    = "connect"
	actionSync       = "sync"
	actionDisconnect = "disconnect"
)

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithLinkBuilder overrides how term links are produced.
func WithLinkBuilder(builder LinkBuilder) ServiceOption {
	return func(s *service) {
		if builder != nil {
			s.links = builder
		}
	}
}

// WithFields sets the field priority order for linking passes.
func WithFields(fields []string) ServiceOption {
	return func(s *service) {
		cleaned := make([]string, 0, len(fields))
		for _, field := range fields {
			if trimmed := strings.TrimSpace(field); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			s.fields = cleaned
		}
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(metrics interfaces.GlossaryMetrics) ServiceOption {
	return func(s *service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithNow overrides the time source (primarily for tests).
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLinker overrides the linking engine.
func WithLinker(l *linker.Linker) ServiceOption {
	return func(s *service) {
		if l != nil {
			s.linker = l
		}
	}
}

type service struct {
	articles   ArticleRepository
	categories CategoryRepository
	terms      TermRepository
	relations  RelationRepository

	links   LinkBuilder
	linker  *linker.Linker
	fields  []string
	guard   *articleGuard
	logger  interfaces.Logger
	metrics interfaces.GlossaryMetrics
	now     func() time.Time
}

// NewService constructs a glossary service instance.
func NewService(articles ArticleRepository, categories CategoryRepository, terms TermRepository, relations RelationRepository, opts ...ServiceOption) Service {
	if articles == nil {
		panic(ErrArticleRepositoryRequired)
	}
	if categories == nil {
		panic(ErrCategoryRepositoryRequired)
	}
	if terms == nil {
		panic(ErrTermRepositoryRequired)
	}
	if relations == nil {
		panic(ErrRelationRepositoryRequired)
	}

	s := &service{
		articles:   articles,
		categories: categories,
		terms:      terms,
		relations:  relations,
		links:      NewQueryLinkBuilder("/glossary"),
		linker:     linker.New(),
		fields:     append([]string(nil), DefaultFields...),
		guard:      newArticleGuard(),
		logger:     logging.NoOp(),
		metrics:    NoOpMetrics(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Link(ctx context.Context, req LinkRequest) (result *LinkResult, err error) {
	if req.ArticleID == uuid.Nil {
		return nil, ErrArticleIDRequired
	}
	release, err := s.begin(req.ArticleID, actionLink)
	if err != nil {
		return nil, err
	}
	defer release(&err)

	logger := s.actionLogger(ctx, req.ArticleID, actionLink)

	article, err := s.articles.GetByID(ctx, req.ArticleID)
	if err != nil {
		return nil, err
	}
	vocabulary, err := s.vocabulary(ctx, article)
	if err != nil {
		return nil, err
	}

	source := req.Fields
	if source == nil {
		source = article.Content
	}
	fields := s.orderFields(source)

	pass, err := s.linker.Link(linkerTerms(vocabulary), fields)
	if err != nil {
		logger.Error("glossary.link.failed", "error", err)
		return nil, err
	}

	result = &LinkResult{
		ArticleID:      article.ID,
		UsedWords:      pass.Used,
		Changes:        pass.Changes,
		Fields:         fieldMap(pass.Fields),
		VocabularySize: len(vocabulary),
	}

	if req.Save && pass.Changed() {
		content := make(map[string]string, len(article.Content)+len(pass.Changes))
		for key, value := range article.Content {
			content[key] = value
		}
		for _, change := range pass.Changes {
			content[change.Field] = change.Text
		}
		article.Content = content
		article.UpdatedAt = s.now().UTC()
		if _, err := s.articles.Update(ctx, article); err != nil {
			logger.Error("glossary.link.save_failed", "error", err)
			return nil, err
		}
		result.Saved = true
	}

	s.metrics.AddLinkedTerms(len(pass.Used))
	logger.Info("glossary.link.completed",
		"used_words", pass.Used,
		"changed_fields", len(pass.Changes),
		"saved", result.Saved,
	)
	return result, nil
}

func (s *service) Connect(ctx context.Context, req ConnectRequest) (result *ConnectResult, err error) {
	if req.ArticleID == uuid.Nil {
		return nil, ErrArticleIDRequired
	}
	release, err := s.begin(req.ArticleID, actionConnect)
	if err != nil {
		return nil, err
	}
	defer release(&err)

	logger := s.actionLogger(ctx, req.ArticleID, actionConnect)

	article, err := s.articles.GetByID(ctx, req.ArticleID)
	if err != nil {
		return nil, err
	}
	vocabulary, err := s.vocabulary(ctx, article)
	if err != nil {
		return nil, err
	}

	source := req.Fields
	if source == nil {
		source = article.Content
	}
	connected, err := s.linker.Connected(linkerTerms(vocabulary), s.orderFields(source))
	if err != nil {
		logger.Error("glossary.connect.failed", "error", err)
		return nil, err
	}

	result = &ConnectResult{
		ArticleID: article.ID,
		Words:     make([]string, 0, len(connected)),
		TermIDs:   make([]uuid.UUID, 0, len(connected)),
	}
	for _, term := range connected {
		result.Words = append(result.Words, term.Word)
		result.TermIDs = append(result.TermIDs, uuid.MustParse(term.ID))
	}

	if len(connected) == 0 {
		result.Skipped = true
		logger.Info("glossary.connect.skipped", "reason", "no linked terms")
		return result, nil
	}

	all := make([]uuid.UUID, 0, len(vocabulary))
	for _, entry := range vocabulary {
		all = append(all, entry.ID)
	}
	sync, err := s.syncRelations(ctx, article.ID, all, result.TermIDs)
	if err != nil {
		return nil, err
	}
	result.Sync = sync

	logger.Info("glossary.connect.completed", "words", result.Words)
	return result, nil
}

func (s *service) SyncRelations(ctx context.Context, req SyncRequest) (result *SyncResult, err error) {
	if req.ArticleID == uuid.Nil {
		return nil, ErrArticleIDRequired
	}
	if len(req.AllTermIDs) == 0 {
		return nil, ErrAllTermsRequired
	}
	if len(req.ConnectTermIDs) == 0 {
		return nil, ErrConnectTermsRequired
	}
	release, err := s.begin(req.ArticleID, actionSync)
	if err != nil {
		return nil, err
	}
	defer release(&err)

	if _, err := s.articles.GetByID(ctx, req.ArticleID); err != nil {
		return nil, err
	}
	return s.syncRelations(ctx, req.ArticleID, req.AllTermIDs, req.ConnectTermIDs)
}

// syncRelations walks the known terms of all: members of connect are
// associated with the article, the others are released. Unknown IDs are
// ignored.
func (s *service) syncRelations(ctx context.Context, articleID uuid.UUID, all, connect []uuid.UUID) (*SyncResult, error) {
	wanted := make(map[uuid.UUID]struct{}, len(connect))
	for _, id := range connect {
		wanted[id] = struct{}{}
	}

	result := &SyncResult{
		ArticleID:    articleID,
		Connected:    []uuid.UUID{},
		Disconnected: []uuid.UUID{},
	}
	seen := make(map[uuid.UUID]struct{}, len(all))
	for _, termID := range all {
		if _, dup := seen[termID]; dup {
			continue
		}
		seen[termID] = struct{}{}

		if _, err := s.terms.GetByID(ctx, termID); err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return nil, err
		}

		if _, ok := wanted[termID]; ok {
			if err := s.relations.Connect(ctx, articleID, termID); err != nil {
				return nil, err
			}
			result.Connected = append(result.Connected, termID)
			continue
		}
		if err := s.relations.Disconnect(ctx, articleID, termID); err != nil {
			return nil, err
		}
		result.Disconnected = append(result.Disconnected, termID)
	}

	s.metrics.AddRelationChanges("connect", len(result.Connected))
	s.metrics.AddRelationChanges("disconnect", len(result.Disconnected))
	s.actionLogger(ctx, articleID, actionSync).Info("glossary.relations.synced",
		"connected", len(result.Connected),
		"disconnected", len(result.Disconnected),
	)
	return result, nil
}

func (s *service) DisconnectAll(ctx context.Context, articleID uuid.UUID) (result *DisconnectResult, err error) {
	if articleID == uuid.Nil {
		return nil, ErrArticleIDRequired
	}
	release, err := s.begin(articleID, actionDisconnect)
	if err != nil {
		return nil, err
	}
	defer release(&err)

	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	removed, err := s.relations.DisconnectAll(ctx, articleID)
	if err != nil {
		return nil, err
	}

	s.metrics.AddRelationChanges("disconnect", removed)
	s.actionLogger(ctx, articleID, actionDisconnect).Info("glossary.disconnect.completed", "removed", removed)
	return &DisconnectResult{ArticleID: articleID, Removed: removed}, nil
}

// begin takes the article guard and returns a release func that records the
// action outcome.
func (s *service) begin(articleID uuid.UUID, action string) (func(*error), error) {
	started := s.now()
	unlock, ok := s.guard.tryAcquire(articleID)
	if !ok {
		s.metrics.ObserveAction(action, "busy", 0)
		return nil, ErrActionInProgress
	}
	return func(errp *error) {
		unlock()
		outcome := "success"
		if errp != nil && *errp != nil {
			outcome = "error"
		}
		s.metrics.ObserveAction(action, outcome, s.now().Sub(started))
	}, nil
}

func (s *service) actionLogger(ctx context.Context, articleID uuid.UUID, action string) interfaces.Logger {
	return logging.WithArticleContext(s.logger.WithContext(ctx), articleID.String(), action)
}

// orderFields lays out source in the configured priority order; keys outside
// that order follow alphabetically.
func (s *service) orderFields(source map[string]string) []linker.Field {
	out := make([]linker.Field, 0, len(s.fields)+len(source))
	known := make(map[string]struct{}, len(s.fields))
	for _, name := range s.fields {
		known[name] = struct{}{}
		out = append(out, linker.Field{Name: name, Text: source[name]})
	}

	var extra []string
	for name := range source {
		if _, ok := known[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, linker.Field{Name: name, Text: source[name]})
	}
	return out
}

func linkerTerms(vocabulary []VocabularyEntry) []linker.Term {
	terms := make([]linker.Term, 0, len(vocabulary))
	for _, entry := range vocabulary {
		terms = append(terms, linker.Term{
			ID:   entry.ID.String(),
			Word: entry.Word,
			Link: entry.Link,
		})
	}
	return terms
}

func fieldMap(fields []linker.Field) map[string]string {
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		out[field.Name] = field.Text
	}
	return out
}
