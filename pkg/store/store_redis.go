package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kotrzina/russtea/pkg/config"
	"github.com/kotrzina/russtea/pkg/offers"
)

const offersKeyPrefix = "russtea:offers:"

// RedisStore caches search results between identical price searches
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(config *config.Config) *RedisStore {
	return &RedisStore{
		Client: redis.NewClient(&redis.Options{
			Addr: config.RedisAddr,
			DB:   config.RedisDB,
		}),
	}
}

func (s *RedisStore) GetOffers(ctx context.Context, key string) ([]offers.Offer, bool, error) {
	res, err := s.Client.Get(ctx, offersKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("could not read cached offers: %w", err)
	}

	var found []offers.Offer
	if err := json.Unmarshal(res, &found); err != nil {
		return nil, false, fmt.Errorf("invalid cached offers: %w", err)
	}

	return found, true, nil
}

func (s *RedisStore) SetOffers(ctx context.Context, key string, found []offers.Offer, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(found)
	if err != nil {
		return fmt.Errorf("could not marshal offers: %w", err)
	}

	return s.Client.Set(ctx, offersKeyPrefix+key, data, ttl).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
