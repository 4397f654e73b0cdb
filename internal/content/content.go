// Package content owns the authoritative copy of the published document.
package content

import (
	"context"
	"sync"

	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/store"
	"github.com/debemdeboas/denuo-web/internal/util"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var contentLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	contentLogger = l
}

// Service caches the current document and tells listeners when it changes.
type Service struct {
	store store.DocumentStore
	key   model.DocumentKey

	mu      sync.RWMutex
	current *model.SiteContent
	hash    string

	listenersMu sync.Mutex
	listeners   []func(*model.SiteContent)

	unsubscribe store.Unsubscribe
}

func NewService(s store.DocumentStore, key model.DocumentKey) *Service {
	return &Service{
		store:   s,
		key:     key,
		current: model.DefaultContent(),
	}
}

// Load reads the document, falling back to the built-in content when none has been saved.
func (s *Service) Load(ctx context.Context) error {
	doc, err := s.store.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		contentLogger.Info().Str("key", string(s.key)).Msg("No published content, using defaults")
		doc = model.DefaultContent()
	} else if err != nil {
		return err
	}

	s.set(doc)
	return nil
}

// Start subscribes to upstream changes until Stop.
func (s *Service) Start() {
	s.unsubscribe = s.store.Subscribe(s.key, func(doc *model.SiteContent) {
		if s.set(doc) {
			s.notify(doc)
		}
	})
}

func (s *Service) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Current returns a copy of the authoritative document.
func (s *Service) Current() *model.SiteContent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Clone()
}

// Hash identifies the current document; it changes whenever the content does.
func (s *Service) Hash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.hash
}

// Replace installs a document that was just written, without waiting for the store to echo it.
func (s *Service) Replace(doc *model.SiteContent) {
	if s.set(doc) {
		s.notify(doc)
	}
}

// OnChange registers fn for every change of the authoritative document.
func (s *Service) OnChange(fn func(*model.SiteContent)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.listeners = append(s.listeners, fn)
}

// set stores doc and reports whether it differs from what was there.
func (s *Service) set(doc *model.SiteContent) bool {
	hash, err := util.DocumentHash(doc)
	if err != nil {
		contentLogger.Error().Err(err).Msg("Error hashing content")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hash != "" && hash == s.hash {
		return false
	}
	s.current = doc.Clone()
	s.hash = hash

	contentLogger.Info().Str("hash", util.ShortHash(hash)).Msg("Content updated")
	return true
}

func (s *Service) notify(doc *model.SiteContent) {
	s.listenersMu.Lock()
	fns := append([]func(*model.SiteContent){}, s.listeners...)
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(doc.Clone())
	}
}
