package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

// Predictor fetches extra candidates from the remote search endpoint for
// the query being typed. At most one fetch is in flight; results for a
// superseded query are discarded.
type Predictor interface {
	// Debounce returns the input quiescence required before a fetch.
	Debounce() time.Duration

	// Begin starts a new prediction for query, invalidating older tickets.
	// Returns false when the query is too short or no searcher is configured.
	Begin(query string) (domain.PredictTicket, bool)

	// IsCurrent reports whether ticket is still the latest one.
	IsCurrent(ticket domain.PredictTicket) bool

	// Fetch performs the remote call for ticket. Failures yield nil results.
	Fetch(ctx context.Context, ticket domain.PredictTicket) []domain.RemoteResult

	// Apply merges results if ticket is still relevant. Returns whether it did.
	Apply(ticket domain.PredictTicket, results []domain.RemoteResult) bool

	// ResolveParent asks the parent lookup endpoint for an unmapped tag.
	ResolveParent(ctx context.Context, text string) (string, bool)

	// Close cancels any in-flight fetch.
	Close()
}
