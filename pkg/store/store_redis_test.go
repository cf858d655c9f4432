package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kotrzina/russtea/pkg/config"
	"github.com/kotrzina/russtea/pkg/offers"
)

func setupTestRedis(t *testing.T) *RedisStore {
	t.Helper()

	_ = godotenv.Load("../../.env")
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	s := NewRedisStore(&config.Config{RedisAddr: addr, RedisDB: 15})
	t.Cleanup(func() { _ = s.Client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		t.Skipf("Skipping test: could not connect to test redis: %v", err)
	}

	return s
}

func TestRedisStore_Offers(t *testing.T) {
	s := setupTestRedis(t)
	ctx := context.Background()
	found := []offers.Offer{
		{ShopName: "OZON", Price: 450, URL: "https://www.ozon.ru/p/1", Weight: "100g", InStock: true, Currency: offers.Currency},
		{ShopName: "Wildberries", Price: 399, Currency: offers.Currency},
	}

	tests := []struct {
		name    string
		ttl     time.Duration
		wantHit bool
	}{
		{"cached with ttl", time.Minute, true},
		{"zero ttl is not cached", 0, false},
		{"negative ttl is not cached", -time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "test " + uuid.NewString()
			t.Cleanup(func() { _ = s.Client.Del(ctx, offersKeyPrefix+key).Err() })

			_, ok, err := s.GetOffers(ctx, key)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.SetOffers(ctx, key, found, tt.ttl))

			cached, ok, err := s.GetOffers(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHit, ok)
			if !tt.wantHit {
				assert.Nil(t, cached)
				return
			}

			assert.Equal(t, found, cached)
			ttl, err := s.Client.TTL(ctx, offersKeyPrefix+key).Result()
			require.NoError(t, err)
			assert.Greater(t, ttl, time.Duration(0))
			assert.LessOrEqual(t, ttl, tt.ttl)
		})
	}
}

func TestRedisStore_InvalidCachedValue(t *testing.T) {
	s := setupTestRedis(t)
	ctx := context.Background()
	key := "broken " + uuid.NewString()
	t.Cleanup(func() { _ = s.Client.Del(ctx, offersKeyPrefix+key).Err() })

	require.NoError(t, s.Client.Set(ctx, offersKeyPrefix+key, "{not json", time.Minute).Err())

	_, ok, err := s.GetOffers(ctx, key)
	assert.Error(t, err)
	assert.False(t, ok)
}
