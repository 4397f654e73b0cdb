package store

import (
	"context"
	"sync"
	"time"

	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/pkg/errors"
)

// fingerprintFunc returns a value that changes whenever the document does, or "" when it is missing.
type fingerprintFunc func(ctx context.Context) (string, error)

type loadFunc func(ctx context.Context) (*model.SiteContent, error)

// watch polls fingerprint every interval and loads the document when the fingerprint moves.
// The baseline is taken before watch returns, so writes made after Subscribe are never missed.
func watch(key model.DocumentKey, interval time.Duration, fingerprint fingerprintFunc, load loadFunc, onChange func(*model.SiteContent)) Unsubscribe {
	ctx, cancel := context.WithCancel(context.Background())

	last, err := fingerprint(ctx)
	if err != nil {
		storeLogger.Error().Err(err).Str("key", string(key)).Msg("Error reading initial fingerprint")
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			current, err := fingerprint(ctx)
			if err != nil {
				if ctx.Err() == nil {
					storeLogger.Error().Err(err).Str("key", string(key)).Msg("Error checking document fingerprint")
				}
				continue
			}

			if current == last {
				storeLogger.Debug().Str("key", string(key)).Msg("Document not modified, skipping reload")
				continue
			}

			content, err := load(ctx)
			if errors.Is(err, ErrNotFound) {
				last = current
				storeLogger.Warn().Str("key", string(key)).Msg("Document removed upstream")
				continue
			}
			if err != nil {
				storeLogger.Error().Err(err).Str("key", string(key)).Msg("Error reloading document")
				continue
			}

			last = current
			storeLogger.Info().Str("key", string(key)).Str("fingerprint", current).Msg("Document changed, notifying subscriber")
			onChange(content)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}
