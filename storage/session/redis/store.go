package redisstore

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/studentsphere/portal/core"
	"github.com/studentsphere/portal/core/session"
)

const keyPrefix = "session:"

// Store persists session records in Redis. It fails safe: when Redis is
// unavailable, reads behave like a miss and writes are dropped, so a broken
// store never takes the login flow down with it.
type Store struct {
	client *redis.Client
}

var _ session.Store = (*Store)(nil) // interface compliance check

func NewStore(conf *core.Config) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Address,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		}),
	}
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if s == nil || s.client == nil {
		return nil
	}
	_ = s.client.Set(ctx, keyPrefix+key, data, 0).Err()
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, nil
	}
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		// redis.Nil and connectivity errors both read as a miss
		return nil, nil
	}
	return data, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return nil
	}
	_ = s.client.Del(ctx, keyPrefix+key).Err()
	return nil
}
