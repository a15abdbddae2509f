package glossarymagic

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/aldo555/glossary-magic/internal/di"
	"github.com/aldo555/glossary-magic/internal/glossary"
	glossaryhttp "github.com/aldo555/glossary-magic/internal/http"
	"github.com/aldo555/glossary-magic/internal/markdown"
	"github.com/aldo555/glossary-magic/internal/storage"
)

// Service exports the glossary service contract for consumers of the package.
type Service = glossary.Service

// LinkRequest exports the link request DTO.
type LinkRequest = glossary.LinkRequest

// LinkResult exports the link result DTO.
type LinkResult = glossary.LinkResult

// ConnectRequest exports the connect request DTO.
type ConnectRequest = glossary.ConnectRequest

// ConnectResult exports the connect result DTO.
type ConnectResult = glossary.ConnectResult

// SyncRequest exports the relation sync request DTO.
type SyncRequest = glossary.SyncRequest

// LinkBuilder exports the glossary link builder contract.
type LinkBuilder = glossary.LinkBuilder

// API exports the HTTP handlers for the glossary endpoints.
type API = *glossaryhttp.GlossaryAPI

// Importer exports the markdown vocabulary and article importer.
type Importer = *markdown.Importer

// Module represents the top level glossary runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a glossary module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Glossary returns the configured glossary service.
func (m *Module) Glossary() Service {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.GlossaryService()
}

// API returns the HTTP handlers bound to the glossary service.
func (m *Module) API() API {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.API()
}

// Importer returns the markdown importer bound to the module repositories.
func (m *Module) Importer() Importer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Importer()
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Migrate creates the glossary tables on a database managed by the host.
func Migrate(ctx context.Context, db *bun.DB) error {
	return storage.Migrate(ctx, db)
}
