package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/custodia-labs/tagsearch/internal/core/domain"
)

// fakeSearcher records calls and answers from a fixed table.
type fakeSearcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]domain.RemoteResult
	err     error

	// block, when set, makes Search wait for ctx cancellation.
	block   bool
	started chan struct{}
}

func (f *fakeSearcher) Search(ctx context.Context, query string, _ int) ([]domain.RemoteResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	block, started := f.block, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeLookup struct {
	mu      sync.Mutex
	parents map[string]string
	err     error
	calls   int
}

func (f *fakeLookup) LookupParent(_ context.Context, tag string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.parents[tag], nil
}

func remoteSettings() domain.RemoteSettings {
	settings := domain.DefaultAppSettings().Remote
	settings.SearchURL = "http://remote.test/search"
	return settings
}

func TestPredictor_Begin(t *testing.T) {
	engine := newTestEngine("Overtime")
	p := NewPredictor(engine, &fakeSearcher{}, nil, remoteSettings())
	defer p.Close()

	_, ok := p.Begin("ov")
	assert.False(t, ok, "shorter than the minimum query length")

	_, ok = p.Begin("   ")
	assert.False(t, ok)

	ticket, ok := p.Begin("  over ")
	assert.True(t, ok)
	assert.Equal(t, "over", ticket.Query)
	assert.True(t, p.IsCurrent(ticket))
}

func TestPredictor_Begin_NoSearcher(t *testing.T) {
	p := NewPredictor(newTestEngine(), nil, nil, remoteSettings())
	defer p.Close()

	_, ok := p.Begin("overtime")
	assert.False(t, ok)
	assert.Nil(t, p.Fetch(context.Background(), domain.PredictTicket{Seq: 1, Query: "overtime"}))
}

func TestPredictor_StaleTicketDiscarded(t *testing.T) {
	engine := newTestEngine("Overtime")
	p := NewPredictor(engine, &fakeSearcher{}, nil, remoteSettings())
	defer p.Close()

	engine.Filter("sev")
	first, _ := p.Begin("sev")
	second, _ := p.Begin("sev")

	assert.False(t, p.IsCurrent(first))
	assert.False(t, p.Apply(first, []domain.RemoteResult{{Text: "Severance"}}))
	assert.Len(t, engine.Candidates(), 1)

	assert.True(t, p.Apply(second, []domain.RemoteResult{{Text: "Severance"}}))
	assert.Len(t, engine.Candidates(), 2)
}

func TestPredictor_Apply_QueryChanged(t *testing.T) {
	engine := newTestEngine("Overtime")
	p := NewPredictor(engine, &fakeSearcher{}, nil, remoteSettings())
	defer p.Close()

	engine.Filter("sev")
	ticket, ok := p.Begin("sev")
	require.True(t, ok)

	engine.Filter("seve")

	assert.False(t, p.Apply(ticket, []domain.RemoteResult{{Text: "Severance"}}))
	assert.Len(t, engine.Candidates(), 1)
}

func TestPredictor_FetchAndApply(t *testing.T) {
	defer goleak.VerifyNone(t)

	engine := newTestEngine("Overtime")
	searcher := &fakeSearcher{results: map[string][]domain.RemoteResult{
		"sever": {{Text: "Severance"}, {Text: "Severance Pay", IsParent: true}},
	}}
	p := NewPredictor(engine, searcher, nil, remoteSettings())
	defer p.Close()

	engine.Filter("sever")
	ticket, ok := p.Begin("sever")
	require.True(t, ok)

	results := p.Fetch(context.Background(), ticket)
	require.Len(t, results, 2)
	require.True(t, p.Apply(ticket, results))

	want := []string{"Severance", "Severance Pay"}
	if diff := cmp.Diff(want, engine.Results().IDs()); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "sever", engine.CurrentQuery())
}

func TestPredictor_Fetch_ErrorSwallowed(t *testing.T) {
	engine := newTestEngine("Overtime")
	p := NewPredictor(engine, &fakeSearcher{err: errors.New("connection refused")}, nil, remoteSettings())
	defer p.Close()

	ticket, ok := p.Begin("overtime")
	require.True(t, ok)

	assert.Nil(t, p.Fetch(context.Background(), ticket))
}

func TestPredictor_Begin_CancelsInflightFetch(t *testing.T) {
	defer goleak.VerifyNone(t)

	engine := newTestEngine()
	searcher := &fakeSearcher{block: true, started: make(chan struct{}, 1)}
	p := NewPredictor(engine, searcher, nil, remoteSettings())
	defer p.Close()

	ticket, ok := p.Begin("overtime")
	require.True(t, ok)

	done := make(chan []domain.RemoteResult)
	go func() {
		done <- p.Fetch(context.Background(), ticket)
	}()

	<-searcher.started
	_, _ = p.Begin("overtime pay")

	select {
	case results := <-done:
		assert.Nil(t, results)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight fetch was not cancelled")
	}
}

func TestPredictor_Close_InvalidatesTickets(t *testing.T) {
	engine := newTestEngine("Overtime")
	searcher := &fakeSearcher{}
	p := NewPredictor(engine, searcher, nil, remoteSettings())

	engine.Filter("overtime")
	ticket, ok := p.Begin("overtime")
	require.True(t, ok)
	p.Close()

	assert.Nil(t, p.Fetch(context.Background(), ticket))
	assert.False(t, p.IsCurrent(ticket))
	assert.Empty(t, searcher.Calls())
	_, ok = p.Begin("overtime")
	assert.False(t, ok, "closed predictor issues no tickets")
}

func TestPredictor_Close_CancelsInflightFetch(t *testing.T) {
	defer goleak.VerifyNone(t)

	engine := newTestEngine()
	searcher := &fakeSearcher{block: true, started: make(chan struct{}, 1)}
	p := NewPredictor(engine, searcher, nil, remoteSettings())

	engine.Filter("overtime")
	ticket, ok := p.Begin("overtime")
	require.True(t, ok)

	done := make(chan []domain.RemoteResult, 1)
	go func() {
		done <- p.Fetch(context.Background(), ticket)
	}()
	<-searcher.started
	p.Close()

	select {
	case results := <-done:
		assert.Nil(t, results)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight fetch was not cancelled")
	}
	assert.Equal(t, []string{"overtime"}, searcher.Calls())
}

func TestPredictor_ResolveParent(t *testing.T) {
	engine := NewTagFilterEngine(candidates("Wage & Hour"), map[string]string{"Back Wages": "Wage & Hour"}, domain.DefaultFilterSettings())
	lookup := &fakeLookup{parents: map[string]string{
		"Unpaid Overtime": "Wage & Hour",
		"Overtime":        "overtime",
	}}
	p := NewPredictor(engine, nil, lookup, remoteSettings())
	defer p.Close()

	parent, ok := p.ResolveParent(context.Background(), "Back Wages")
	assert.True(t, ok)
	assert.Equal(t, "Wage & Hour", parent)
	assert.Zero(t, lookup.calls, "static alias map wins")

	parent, ok = p.ResolveParent(context.Background(), "Unpaid Overtime")
	assert.True(t, ok)
	assert.Equal(t, "Wage & Hour", parent)

	_, ok = p.ResolveParent(context.Background(), "Unpaid Overtime")
	assert.True(t, ok)
	assert.Equal(t, 1, lookup.calls, "learned alias is reused")

	_, ok = p.ResolveParent(context.Background(), "Overtime")
	assert.False(t, ok, "self parent ignored")

	_, ok = p.ResolveParent(context.Background(), "Retaliation")
	assert.False(t, ok, "no parent")

	outcome := engine.Select("unpaid overtime")
	assert.Equal(t, "Wage & Hour", outcome.Entry.ID)
}

func TestPredictor_ResolveParent_LookupError(t *testing.T) {
	engine := newTestEngine()
	p := NewPredictor(engine, nil, &fakeLookup{err: errors.New("boom")}, remoteSettings())
	defer p.Close()

	_, ok := p.ResolveParent(context.Background(), "Overtime")
	assert.False(t, ok)

	_, ok = NewPredictor(engine, nil, nil, remoteSettings()).ResolveParent(context.Background(), "Overtime")
	assert.False(t, ok)
}
