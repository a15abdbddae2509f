package glossary

import (
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// articleGuard serialises mutating actions per article. A second action on
// the same article fails fast instead of queueing behind the first. Entries
// exist only while an action holds them.
type articleGuard struct {
	held *xsync.MapOf[uuid.UUID, struct{}]
}

func newArticleGuard() *articleGuard {
	return &articleGuard{held: xsync.NewMapOf[uuid.UUID, struct{}]()}
}

func (g *articleGuard) tryAcquire(articleID uuid.UUID) (func(), bool) {
	if _, busy := g.held.LoadOrStore(articleID, struct{}{}); busy {
		return nil, false
	}
	return func() { g.held.Delete(articleID) }, true
}
