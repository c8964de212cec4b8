package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultBestScoreKey is the key prefix of persisted best scores.
const DefaultBestScoreKey = "bf007_best"

// saveMax only ever raises the stored value.
var saveMax = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
local score = tonumber(ARGV[1])
if score > current then
  redis.call("SET", KEYS[1], ARGV[1])
  return score
end
return current
`)

// BestScoreStore keeps one best score per installation: {prefix}:{installID} -> score.
type BestScoreStore struct {
	client *redis.Client
	prefix string
}

func NewBestScoreStore(client *redis.Client, prefix string) *BestScoreStore {
	if prefix == "" {
		prefix = DefaultBestScoreKey
	}
	return &BestScoreStore{client: client, prefix: prefix}
}

func (s *BestScoreStore) BestScore(ctx context.Context, installID string) (int, error) {
	score, err := s.client.Get(ctx, s.key(installID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return score, err
}

func (s *BestScoreStore) SaveBestScore(ctx context.Context, installID string, score int) (int, error) {
	return saveMax.Run(ctx, s.client, []string{s.key(installID)}, score).Int()
}

func (s *BestScoreStore) key(installID string) string {
	return s.prefix + ":" + installID
}
