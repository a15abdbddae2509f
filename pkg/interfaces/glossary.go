package interfaces

import "time"

// GlossaryMetrics records glossary action telemetry. Implementations must be
// safe for concurrent use.
type GlossaryMetrics interface {
	// ObserveAction records one link/connect/disconnect action and its outcome.
	ObserveAction(action, outcome string, duration time.Duration)
	// AddLinkedTerms counts links inserted by linking passes.
	AddLinkedTerms(count int)
	// AddRelationChanges counts article/term associations connected or disconnected.
	AddRelationChanges(change string, count int)
}
