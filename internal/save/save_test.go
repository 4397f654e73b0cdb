package save

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/debemdeboas/denuo-web/internal/model"
)

// gatedStore blocks each Set until its gate is released. release returns once that Set has
// finished, so tests control completion order.
type gatedStore struct {
	mu     sync.Mutex
	calls  []*model.SiteContent
	gates  []chan error
	stored *model.SiteContent
	ctxs   []context.Context

	started chan struct{}
	landed  chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{started: make(chan struct{}, 16), landed: make(chan struct{}, 16)}
}

func (s *gatedStore) Set(ctx context.Context, key model.DocumentKey, content *model.SiteContent) error {
	gate := make(chan error, 1)

	s.mu.Lock()
	s.calls = append(s.calls, content)
	s.gates = append(s.gates, gate)
	s.ctxs = append(s.ctxs, ctx)
	s.mu.Unlock()

	s.started <- struct{}{}
	defer func() { s.landed <- struct{}{} }()

	if err := <-gate; err != nil {
		return err
	}

	s.mu.Lock()
	s.stored = content
	s.mu.Unlock()
	return nil
}

func (s *gatedStore) release(i int, err error) {
	s.mu.Lock()
	gate := s.gates[i]
	s.mu.Unlock()
	gate <- err
	<-s.landed
}

func (s *gatedStore) waitStarted(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-s.started:
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for write %d to start", i)
		}
	}
}

type funcStore func(ctx context.Context, key model.DocumentKey, content *model.SiteContent) error

func (f funcStore) Set(ctx context.Context, key model.DocumentKey, content *model.SiteContent) error {
	return f(ctx, key, content)
}

func TestSaveWritesWholeDocumentOnce(t *testing.T) {
	var calls int
	var gotKey model.DocumentKey
	var got *model.SiteContent

	store := funcStore(func(_ context.Context, key model.DocumentKey, content *model.SiteContent) error {
		calls++
		gotKey = key
		got = content
		return nil
	})

	var saved *model.SiteContent
	c := NewController(store, "siteContent/public", func(c *model.SiteContent) { saved = c })

	draft := model.DefaultContent()
	if err := c.Save(context.Background(), draft); err != nil {
		t.Fatalf("Expected save to succeed, got %v", err)
	}

	if calls != 1 {
		t.Errorf("Expected exactly one write, got %d", calls)
	}
	if gotKey != "siteContent/public" {
		t.Errorf("Expected key siteContent/public, got %q", gotKey)
	}
	if !got.Equal(draft) {
		t.Error("Expected the whole draft to be written")
	}
	if saved == nil || !saved.Equal(draft) {
		t.Error("Expected onSaved to receive the committed document")
	}
	if c.Saving() {
		t.Error("Expected Saving to be false after completion")
	}
}

func TestSaveFailure(t *testing.T) {
	storeErr := errors.New("permission denied")
	calls := 0
	store := funcStore(func(context.Context, model.DocumentKey, *model.SiteContent) error {
		calls++
		return storeErr
	})

	savedCalled := false
	c := NewController(store, "k", func(*model.SiteContent) { savedCalled = true })

	err := c.Save(context.Background(), model.DefaultContent())

	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("Expected *SaveError, got %T", err)
	}
	if !errors.Is(err, storeErr) {
		t.Error("Expected SaveError to wrap the store error")
	}
	if err.Error() != "save failed: permission denied" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if calls != 1 {
		t.Errorf("Expected no retry, got %d calls", calls)
	}
	if savedCalled {
		t.Error("Expected onSaved not to be called on failure")
	}
}

func TestSaveIgnoresCallerCancellation(t *testing.T) {
	var writeCtx context.Context
	store := funcStore(func(ctx context.Context, _ model.DocumentKey, _ *model.SiteContent) error {
		writeCtx = ctx
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewController(store, "k", nil)
	if err := c.Save(ctx, model.DefaultContent()); err != nil {
		t.Fatalf("Expected save to proceed, got %v", err)
	}
	if writeCtx.Err() != nil {
		t.Error("Expected write context to be detached from caller cancellation")
	}
}

func TestSaveSnapshotsDraft(t *testing.T) {
	store := newGatedStore()
	c := NewController(store, "k", nil)

	draft := model.DefaultContent()
	done := make(chan error, 1)
	go func() { done <- c.Save(context.Background(), draft) }()

	store.waitStarted(t, 1)
	draft.Hero.Title = "edited while saving"
	store.release(0, nil)
	<-done

	if store.stored.Hero.Title == "edited while saving" {
		t.Error("Expected the write to use a snapshot of the draft")
	}
}

func TestConcurrentSavesLastLandingWins(t *testing.T) {
	store := newGatedStore()
	c := NewController(store, "k", nil)

	first := model.DefaultContent()
	first.Hero.Title = "first"
	second := model.DefaultContent()
	second.Hero.Title = "second"

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = c.Save(context.Background(), first)
	}()
	store.waitStarted(t, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[1] = c.Save(context.Background(), second)
	}()
	store.waitStarted(t, 1)

	if !c.Saving() {
		t.Error("Expected Saving while writes are in flight")
	}

	// Complete in reverse order: the first call lands last.
	store.release(1, nil)
	store.release(0, nil)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Save %d failed: %v", i, err)
		}
	}
	if len(store.calls) != 2 {
		t.Fatalf("Expected two writes, got %d", len(store.calls))
	}
	if store.stored.Hero.Title != "first" {
		t.Errorf("Expected last landing write to win, got %q", store.stored.Hero.Title)
	}
	if c.Saving() {
		t.Error("Expected Saving to clear after both writes")
	}
}
