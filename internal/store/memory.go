package store

import (
	"context"
	"sync"

	"github.com/debemdeboas/denuo-web/internal/model"
)

type subscriber struct {
	id       int
	onChange func(*model.SiteContent)
}

// MemoryStore keeps documents in process. Subscribers are notified synchronously on Set.
type MemoryStore struct {
	mu          sync.Mutex
	documents   map[model.DocumentKey]*model.SiteContent
	subscribers map[model.DocumentKey][]subscriber
	nextID      int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents:   make(map[model.DocumentKey]*model.SiteContent),
		subscribers: make(map[model.DocumentKey][]subscriber),
	}
}

func (s *MemoryStore) Get(_ context.Context, key model.DocumentKey) (*model.SiteContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[key]
	if !ok {
		return nil, wrap("get", key, ErrNotFound)
	}
	return doc.Clone(), nil
}

func (s *MemoryStore) Set(ctx context.Context, key model.DocumentKey, content *model.SiteContent) error {
	if err := ctx.Err(); err != nil {
		return wrap("set", key, err)
	}

	s.mu.Lock()
	s.documents[key] = content.Clone()
	subs := append([]subscriber(nil), s.subscribers[key]...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.onChange(content.Clone())
	}
	return nil
}

func (s *MemoryStore) Subscribe(key model.DocumentKey, onChange func(*model.SiteContent)) Unsubscribe {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subscribers[key] = append(s.subscribers[key], subscriber{id: id, onChange: onChange})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		subs := s.subscribers[key]
		for i, sub := range subs {
			if sub.id == id {
				s.subscribers[key] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = make(map[model.DocumentKey][]subscriber)
	return nil
}
