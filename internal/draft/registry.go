package draft

import (
	"sync"

	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/rs/zerolog"
)

var draftLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	draftLogger = l
}

// Registry keeps one draft per signed-in session.
type Registry struct {
	drafts sync.Map
	policy SyncPolicy
}

func NewRegistry(policy SyncPolicy) *Registry {
	return &Registry{policy: policy}
}

// Open returns the session's draft, creating it from content when the session has none.
func (r *Registry) Open(sessionID string, content *model.SiteContent) *Store {
	if d, ok := r.drafts.Load(sessionID); ok {
		return d.(*Store)
	}

	d, loaded := r.drafts.LoadOrStore(sessionID, New(content, r.policy))
	if !loaded {
		draftLogger.Debug().Str("session_id", sessionID).Msg("Draft opened")
	}
	return d.(*Store)
}

func (r *Registry) Get(sessionID string) (*Store, bool) {
	if d, ok := r.drafts.Load(sessionID); ok {
		return d.(*Store), true
	}
	return nil, false
}

func (r *Registry) Discard(sessionID string) {
	if _, ok := r.drafts.LoadAndDelete(sessionID); ok {
		draftLogger.Debug().Str("session_id", sessionID).Msg("Draft discarded")
	}
}

func (r *Registry) Each(fn func(sessionID string, d *Store)) {
	r.drafts.Range(func(key, value any) bool {
		fn(key.(string), value.(*Store))
		return true
	})
}

// ApplyUpstream hands new authoritative content to every open draft and returns how many were reset.
func (r *Registry) ApplyUpstream(content *model.SiteContent) int {
	reset := 0
	r.Each(func(sessionID string, d *Store) {
		if d.ApplyUpstream(content) {
			reset++
			return
		}
		draftLogger.Info().Str("session_id", sessionID).Msg("Upstream change held behind unsaved edits")
	})
	return reset
}

func (r *Registry) Len() int {
	n := 0
	r.drafts.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
