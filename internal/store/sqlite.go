package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/debemdeboas/denuo-web/internal/db"
	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/util"
	"github.com/debemdeboas/denuo-web/internal/util/compression"
	"github.com/pkg/errors"
)

// SQLiteStore keeps compressed JSON documents in the documents table and polls content_hash for changes.
type SQLiteStore struct {
	db         db.DB
	compressor compression.Compressor
	interval   time.Duration
}

func NewSQLiteStore(conn db.DB, interval time.Duration) *SQLiteStore {
	return &SQLiteStore{
		db:         conn,
		compressor: compression.ZstdCompressor{},
		interval:   interval,
	}
}

func (s *SQLiteStore) Get(ctx context.Context, key model.DocumentKey) (*model.SiteContent, error) {
	var payload []byte
	var codec string

	err := s.db.QueryRow(ctx, `SELECT content, compression FROM documents WHERE key = ?`, string(key)).Scan(&payload, &codec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wrap("get", key, ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get", key, errors.Wrap(err, "error querying document"))
	}

	decompressor, err := compression.ByName(codec)
	if err != nil {
		return nil, wrap("get", key, err)
	}

	data, err := decompressor.Decompress(payload)
	if err != nil {
		return nil, wrap("get", key, errors.Wrap(err, "error decompressing document"))
	}

	var content model.SiteContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, wrap("get", key, errors.Wrap(err, "error decoding document"))
	}
	return &content, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key model.DocumentKey, content *model.SiteContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return wrap("set", key, errors.Wrap(err, "error encoding document"))
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return wrap("set", key, errors.Wrap(err, "error compressing document"))
	}

	hash := util.ContentHash(data)

	res, err := s.db.Exec(ctx,
		`INSERT INTO documents (key, content, compression, content_hash, modified_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET content = excluded.content, compression = excluded.compression,
		 content_hash = excluded.content_hash, modified_at = excluded.modified_at`,
		string(key), compressed, s.compressor.Name(), hash, time.Now().UTC(),
	)
	if err != nil {
		return wrap("set", key, errors.Wrap(err, "error saving document"))
	}

	storeLogger.Debug().Interface("result", res).Str("key", string(key)).Str("hash", util.ShortHash(hash)).Msg("Document saved")
	return nil
}

func (s *SQLiteStore) fingerprint(key model.DocumentKey) fingerprintFunc {
	return func(ctx context.Context) (string, error) {
		var hash string
		err := s.db.QueryRow(ctx, `SELECT content_hash FROM documents WHERE key = ?`, string(key)).Scan(&hash)
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		if err != nil {
			return "", errors.Wrap(err, "error scanning content hash")
		}
		return hash, nil
	}
}

func (s *SQLiteStore) Subscribe(key model.DocumentKey, onChange func(*model.SiteContent)) Unsubscribe {
	return watch(key, s.interval, s.fingerprint(key), func(ctx context.Context) (*model.SiteContent, error) {
		return s.Get(ctx, key)
	}, onChange)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
