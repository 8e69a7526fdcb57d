package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceTTL = 90 * time.Second

// PresenceStore keeps online flags in redis so any instance can answer
// presence queries. A nil store (redis disabled) reports everyone offline.
type PresenceStore struct {
	cli    *redis.Client
	prefix string
}

func NewPresenceStore(cli *redis.Client, prefix string) *PresenceStore {
	return &PresenceStore{cli: cli, prefix: prefix}
}

func (s *PresenceStore) key(userID string) string {
	return s.prefix + ":presence:" + userID
}

func (s *PresenceStore) SetOnline(ctx context.Context, userID string) error {
	if s == nil || s.cli == nil {
		return nil
	}
	return s.cli.Set(ctx, s.key(userID), "1", presenceTTL).Err()
}

func (s *PresenceStore) SetOffline(ctx context.Context, userID string) error {
	if s == nil || s.cli == nil {
		return nil
	}
	return s.cli.Del(ctx, s.key(userID)).Err()
}

func (s *PresenceStore) IsOnline(ctx context.Context, userID string) (bool, error) {
	if s == nil || s.cli == nil {
		return false, nil
	}
	_, err := s.cli.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
