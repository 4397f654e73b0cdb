package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/util"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
    key TEXT PRIMARY KEY,
    content JSONB NOT NULL,
    content_hash TEXT NOT NULL,
    modified_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const listenRetryDelay = 5 * time.Second

// PostgresStore keeps documents as jsonb and announces writes with pg_notify on channel.
type PostgresStore struct {
	pool    *pgxpool.Pool
	channel string
}

func NewPostgresStore(ctx context.Context, url, channel string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "error creating postgres pool")
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "error creating schema")
	}

	return &PostgresStore{pool: pool, channel: channel}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key model.DocumentKey) (*model.SiteContent, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT content FROM documents WHERE key = $1`, string(key)).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, wrap("get", key, ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get", key, errors.Wrap(err, "error querying document"))
	}

	var content model.SiteContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, wrap("get", key, errors.Wrap(err, "error decoding document"))
	}
	return &content, nil
}

func (s *PostgresStore) Set(ctx context.Context, key model.DocumentKey, content *model.SiteContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return wrap("set", key, errors.Wrap(err, "error encoding document"))
	}
	hash := util.ContentHash(data)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrap("set", key, errors.Wrap(err, "error starting transaction"))
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO documents (key, content, content_hash, modified_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (key) DO UPDATE SET content = EXCLUDED.content,
		 content_hash = EXCLUDED.content_hash, modified_at = EXCLUDED.modified_at`,
		string(key), data, hash,
	)
	if err != nil {
		return wrap("set", key, errors.Wrap(err, "error saving document"))
	}

	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, s.channel, string(key)); err != nil {
		return wrap("set", key, errors.Wrap(err, "error notifying listeners"))
	}

	if err := tx.Commit(ctx); err != nil {
		return wrap("set", key, errors.Wrap(err, "error committing document"))
	}

	storeLogger.Debug().Str("key", string(key)).Str("hash", util.ShortHash(hash)).Msg("Document saved")
	return nil
}

// Subscribe holds one pooled connection in LISTEN until unsubscribed, reconnecting on failure.
func (s *PostgresStore) Subscribe(key model.DocumentKey, onChange func(*model.SiteContent)) Unsubscribe {
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})

	go func() {
		var signalled sync.Once
		defer signalled.Do(func() { close(ready) })

		for ctx.Err() == nil {
			err := s.listen(ctx, key, onChange, func() { signalled.Do(func() { close(ready) }) })
			if ctx.Err() != nil {
				return
			}
			storeLogger.Error().Err(err).Str("channel", s.channel).Msg("Listener stopped, retrying")

			select {
			case <-ctx.Done():
				return
			case <-time.After(listenRetryDelay):
			}
		}
	}()

	// LISTEN should be in place before returning so writes after Subscribe are seen.
	select {
	case <-ready:
	case <-time.After(listenRetryDelay):
		storeLogger.Warn().Str("channel", s.channel).Msg("Listener not ready, continuing in background")
	}

	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}

func (s *PostgresStore) listen(ctx context.Context, key model.DocumentKey, onChange func(*model.SiteContent), listening func()) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return errors.Wrap(err, "error acquiring connection")
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.channel}.Sanitize()); err != nil {
		return errors.Wrap(err, "error listening on channel")
	}
	listening()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return errors.Wrap(err, "error waiting for notification")
		}
		if notification.Payload != string(key) {
			continue
		}

		content, err := s.Get(ctx, key)
		if err != nil {
			storeLogger.Error().Err(err).Str("key", string(key)).Msg("Error reloading document")
			continue
		}

		storeLogger.Info().Str("key", string(key)).Msg("Document changed, notifying subscriber")
		onChange(content)
	}
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
