package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driven"
	"github.com/custodia-labs/tagsearch/internal/core/ports/driving"
	"github.com/custodia-labs/tagsearch/internal/logger"
)

// Verify interface compliance.
var _ driving.Predictor = (*Predictor)(nil)

const defaultRemoteLimit = 8

// Predictor fetches extra candidates from the remote search endpoint while
// the user types. At most one fetch is in flight; issuing a new ticket
// cancels the previous fetch and makes its results stale.
//
// Adapters drive Begin, Fetch and Apply themselves; the TUI debounces
// with tea.Tick before calling Fetch.
type Predictor struct {
	engine   driving.TagFilter
	searcher driven.RemoteSearcher
	lookup   driven.ParentLookup
	settings domain.RemoteSettings

	mu       sync.Mutex
	seq      uint64
	inflight context.CancelFunc
	closed   bool

	log logger.Scoped
}

// NewPredictor creates a predictor feeding engine. A nil searcher disables
// predictive fetching; a nil lookup disables parent resolution.
func NewPredictor(
	engine driving.TagFilter,
	searcher driven.RemoteSearcher,
	lookup driven.ParentLookup,
	settings domain.RemoteSettings,
) *Predictor {
	if settings.Limit <= 0 {
		settings.Limit = defaultRemoteLimit
	}
	return &Predictor{
		engine:   engine,
		searcher: searcher,
		lookup:   lookup,
		settings: settings,
		log:      logger.WithScope("predictor"),
	}
}

// Debounce returns the quiescence period required before a fetch.
func (p *Predictor) Debounce() time.Duration {
	return p.settings.EffectiveDebounce()
}

// Begin issues a ticket for query, superseding every earlier ticket and
// cancelling any in-flight fetch. It reports false when the query is too
// short or remote search is not configured.
func (p *Predictor) Begin(query string) (domain.PredictTicket, bool) {
	trimmed := strings.TrimSpace(query)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	p.stopLocked()
	ticket := domain.PredictTicket{Seq: p.seq, Query: trimmed}

	if p.closed || p.searcher == nil || trimmed == "" {
		return ticket, false
	}
	if utf8.RuneCountInString(trimmed) < p.settings.MinQueryLength {
		return ticket, false
	}
	return ticket, true
}

// stopLocked cancels the in-flight fetch.
func (p *Predictor) stopLocked() {
	if p.inflight != nil {
		p.inflight()
		p.inflight = nil
	}
}

// IsCurrent reports whether ticket is the latest one issued.
func (p *Predictor) IsCurrent(ticket domain.PredictTicket) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed && ticket.Seq == p.seq
}

// Fetch queries the remote endpoint for ticket. Failures are logged and
// yield no results; there is no retry.
func (p *Predictor) Fetch(ctx context.Context, ticket domain.PredictTicket) []domain.RemoteResult {
	if p.searcher == nil {
		return nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.mu.Lock()
	if p.closed || ticket.Seq != p.seq {
		p.mu.Unlock()
		return nil
	}
	p.inflight = cancel
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if ticket.Seq == p.seq {
			p.inflight = nil
		}
		p.mu.Unlock()
	}()

	results, err := p.searcher.Search(fetchCtx, ticket.Query, p.settings.Limit)
	if err != nil {
		if errors.Is(err, context.Canceled) || fetchCtx.Err() != nil {
			p.log.Debug("fetch %q cancelled", ticket.Query)
		} else {
			p.log.Warn("fetch %q failed: %v", ticket.Query, err)
		}
		return nil
	}
	p.log.Debug("fetch %q returned %d results", ticket.Query, len(results))
	return results
}

// Apply merges results into the engine if ticket is still current and the
// engine's query has not moved on. It reports whether the merge happened.
func (p *Predictor) Apply(ticket domain.PredictTicket, results []domain.RemoteResult) bool {
	if !p.IsCurrent(ticket) {
		p.log.Debug("discarding stale results for %q", ticket.Query)
		return false
	}
	if strings.TrimSpace(p.engine.CurrentQuery()) != ticket.Query {
		p.log.Debug("discarding results for %q: query changed", ticket.Query)
		return false
	}
	p.engine.MergeRemote(results)
	return true
}

// ResolveParent returns the parent tag for text, consulting the engine's
// alias map first and the parent lookup endpoint second. A parent found
// remotely is registered as an alias.
func (p *Predictor) ResolveParent(ctx context.Context, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if parent, ok := p.engine.ResolveAlias(text); ok {
		return parent, true
	}
	if p.lookup == nil {
		return "", false
	}

	parent, err := p.lookup.LookupParent(ctx, text)
	if err != nil {
		p.log.Warn("parent lookup for %q failed: %v", text, err)
		return "", false
	}
	parent = strings.TrimSpace(parent)
	if parent == "" || domain.FoldKey(parent) == domain.FoldKey(text) {
		return "", false
	}

	p.engine.AddAlias(text, parent)
	p.log.Debug("learned alias %q -> %q", text, parent)
	return parent, true
}

// Close cancels any in-flight fetch. Later tickets are never current.
func (p *Predictor) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.seq++
	p.stopLocked()
}
