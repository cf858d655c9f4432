package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/kotrzina/russtea/pkg/catalog"
	"github.com/kotrzina/russtea/pkg/config"
	"github.com/kotrzina/russtea/pkg/hook"
	"github.com/kotrzina/russtea/pkg/offers"
	"github.com/kotrzina/russtea/pkg/pricesearch"
	"github.com/kotrzina/russtea/pkg/prometheus"
	"github.com/kotrzina/russtea/pkg/shops"
	"github.com/kotrzina/russtea/pkg/store"
	"github.com/kotrzina/russtea/pkg/web"
)

func main() {
	// for development purposes
	// we don't care about errors here
	_ = godotenv.Load(".env")
	conf := config.NewConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := createLogger(conf.Debug)
	mon := prometheus.New()

	storage, err := createStorage(ctx, conf)
	if err != nil {
		logger.Fatalf("Could not open %s storage: %v", conf.StoreBackend, err)
	}

	drinks := catalog.New(storage, hook.New(conf.DiscordHookURL), mon, logger)
	if _, err := drinks.Seed(); err != nil {
		logger.Fatalf("Could not seed the catalog: %v", err)
	}

	var provider pricesearch.Provider = pricesearch.NewRapidAPI(pricesearch.RapidAPIConfig{
		Key:      conf.RapidAPIKey,
		Host:     conf.RapidAPIHost,
		BaseURL:  conf.RapidAPIURL,
		Country:  conf.SearchCountry,
		Language: conf.SearchLanguage,
		Limit:    conf.SearchLimit,
	})
	if conf.RapidAPIKey == "" && conf.ShopSearchURL == "" {
		logger.Warn("Neither RAPIDAPI_KEY nor SHOP_SEARCH_URL is set, price searches will fail")
	}
	if conf.ShopSearchURL != "" {
		provider = pricesearch.NewFallback(provider, shops.New(shops.Config{
			Name:      conf.ShopName,
			SearchURL: conf.ShopSearchURL,
		}))
	}

	prices := pricesearch.NewService(
		provider,
		offers.New(offers.DefaultConfig()),
		createOfferCache(ctx, conf, logger),
		storage,
		pricesearch.Options{
			CacheTTL:  conf.OfferCacheTTL,
			MaxOffers: conf.MaxOffers,
		},
		mon,
		logger,
	)

	hr := web.NewHandlerRepository(drinks, prices, conf, mon, logger)
	web.StartServer(web.NewRouter(hr), conf.Port, logger)
}

func createLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

func createStorage(ctx context.Context, conf *config.Config) (store.Storage, error) {
	switch conf.StoreBackend {
	case config.StoreBackendFile:
		return store.NewFileStore(conf.DataFile)
	case config.StoreBackendPostgres:
		return store.NewPostgresStore(ctx, conf.DBString)
	case config.StoreBackendMemory:
		return store.NewFakeStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", conf.StoreBackend)
	}
}

// createOfferCache prefers Redis and falls back to process memory when Redis is not configured or unreachable
func createOfferCache(ctx context.Context, conf *config.Config, logger *logrus.Logger) pricesearch.OfferCache {
	if conf.RedisAddr == "" {
		return store.NewFakeStore()
	}

	redisStore := store.NewRedisStore(conf)
	if err := redisStore.Ping(ctx); err != nil {
		logger.Warnf("Redis at %s is not reachable, caching offers in memory: %v", conf.RedisAddr, err)
		return store.NewFakeStore()
	}

	return redisStore
}
