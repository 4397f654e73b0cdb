package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/util"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps documents under <prefix><key> and publishes on the same name after every write.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing redis url")
	}

	return &RedisStore{
		client: redis.NewClient(opts),
		prefix: prefix,
	}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) name(key model.DocumentKey) string {
	return s.prefix + string(key)
}

func (s *RedisStore) Get(ctx context.Context, key model.DocumentKey) (*model.SiteContent, error) {
	data, err := s.client.Get(ctx, s.name(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, wrap("get", key, ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get", key, errors.Wrap(err, "error reading document"))
	}

	var content model.SiteContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, wrap("get", key, errors.Wrap(err, "error decoding document"))
	}
	return &content, nil
}

func (s *RedisStore) Set(ctx context.Context, key model.DocumentKey, content *model.SiteContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return wrap("set", key, errors.Wrap(err, "error encoding document"))
	}

	hash := util.ContentHash(data)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.name(key), data, 0)
		pipe.Publish(ctx, s.name(key), hash)
		return nil
	})
	if err != nil {
		return wrap("set", key, errors.Wrap(err, "error writing document"))
	}

	storeLogger.Debug().Str("key", string(key)).Str("hash", util.ShortHash(hash)).Msg("Document saved and published")
	return nil
}

func (s *RedisStore) Subscribe(key model.DocumentKey, onChange func(*model.SiteContent)) Unsubscribe {
	ctx, cancel := context.WithCancel(context.Background())
	pubsub := s.client.Subscribe(ctx, s.name(key))

	// Wait for the subscription to be confirmed so no publish after this call is lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		storeLogger.Error().Err(err).Str("key", string(key)).Msg("Error subscribing to document channel")
	}

	go func() {
		for msg := range pubsub.Channel() {
			content, err := s.Get(ctx, key)
			if err != nil {
				if ctx.Err() == nil {
					storeLogger.Error().Err(err).Str("key", string(key)).Msg("Error reloading document")
				}
				continue
			}

			storeLogger.Info().Str("key", string(key)).Str("hash", util.ShortHash(msg.Payload)).Msg("Document changed, notifying subscriber")
			onChange(content)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			pubsub.Close()
		})
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
