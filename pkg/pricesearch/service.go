package pricesearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kotrzina/russtea/pkg/offers"
	"github.com/kotrzina/russtea/pkg/prometheus"
	"github.com/kotrzina/russtea/pkg/store"
)

// OfferCache keeps search results keyed by the built search query
type OfferCache interface {
	GetOffers(ctx context.Context, key string) ([]offers.Offer, bool, error)
	SetOffers(ctx context.Context, key string, found []offers.Offer, ttl time.Duration) error
}

type Result struct {
	Query  string         `json:"query"`
	Offers []offers.Offer `json:"offers"`
	Cached bool           `json:"cached"`
}

type Options struct {
	CacheTTL  time.Duration
	MaxOffers int // zero keeps every offer
}

type Service struct {
	provider   Provider
	normalizer *offers.Normalizer
	cache      OfferCache // optional
	storage    store.Storage
	options    Options

	monitor *prometheus.Monitor
	logger  *logrus.Logger
	now     func() time.Time
}

func NewService(
	provider Provider,
	normalizer *offers.Normalizer,
	cache OfferCache,
	storage store.Storage,
	options Options,
	monitor *prometheus.Monitor,
	logger *logrus.Logger,
) *Service {
	return &Service{
		provider:   provider,
		normalizer: normalizer,
		cache:      cache,
		storage:    storage,
		options:    options,
		monitor:    monitor,
		logger:     logger,
		now:        time.Now,
	}
}

// Search looks up offers for a product name, cheapest first
func (s *Service) Search(ctx context.Context, name string) (Result, error) {
	query := s.normalizer.BuildQuery(name)
	key := cacheKey(query)
	logger := s.logger.WithFields(logrus.Fields{
		"name":  name,
		"query": query,
	})

	if found, ok := s.fromCache(ctx, key, logger); ok {
		return Result{Query: query, Offers: found, Cached: true}, nil
	}

	start := time.Now()
	raw, err := s.provider.Search(ctx, query)
	s.monitor.ProviderDuration.WithLabelValues(s.provider.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		s.monitor.PriceSearches.WithLabelValues(resultLabel(err)).Inc()
		logger.Warnf("Search provider failed: %v", err)
		return Result{}, fmt.Errorf("could not search prices: %w", err)
	}

	found, err := s.normalizer.Normalize(raw, name)
	s.monitor.OffersFound.WithLabelValues().Observe(float64(len(found)))
	if err != nil {
		s.monitor.PriceSearches.WithLabelValues(resultLabel(err)).Inc()
		logger.Infof("No offers in provider response: %v", err)
		return Result{}, err
	}

	if s.options.MaxOffers > 0 && len(found) > s.options.MaxOffers {
		found = found[:s.options.MaxOffers]
	}

	if s.cache != nil {
		if err := s.cache.SetOffers(ctx, key, found, s.options.CacheTTL); err != nil {
			logger.Warnf("Could not cache offers: %v", err)
		}
	}

	s.monitor.PriceSearches.WithLabelValues(resultLabel(nil)).Inc()
	logger.WithField("offers", len(found)).Info("Price search finished")

	return Result{Query: query, Offers: found}, nil
}

// SearchForDrink searches offers for a catalog drink and keeps them as its saved prices
func (s *Service) SearchForDrink(ctx context.Context, drinkID string) (store.SavedPrices, error) {
	drink, err := s.findDrink(drinkID)
	if err != nil {
		return store.SavedPrices{}, err
	}

	result, err := s.Search(ctx, drink.Name)
	if err != nil {
		return store.SavedPrices{}, err
	}

	saved := store.SavedPrices{
		DrinkID: drink.ID,
		Offers:  result.Offers,
		SavedAt: s.now(),
	}
	if err := s.storage.SavePrices(saved); err != nil {
		return store.SavedPrices{}, fmt.Errorf("could not save prices for drink %s: %w", drink.ID, err)
	}

	return saved, nil
}

// SavedPrices returns the last offers saved for a drink
func (s *Service) SavedPrices(drinkID string) (store.SavedPrices, error) {
	prices, err := s.storage.GetSavedPrices(drinkID)
	if err != nil {
		return store.SavedPrices{}, fmt.Errorf("could not load saved prices for drink %s: %w", drinkID, err)
	}

	return prices, nil
}

func (s *Service) fromCache(ctx context.Context, key string, logger *logrus.Entry) ([]offers.Offer, bool) {
	if s.cache == nil || s.options.CacheTTL <= 0 {
		return nil, false
	}

	found, ok, err := s.cache.GetOffers(ctx, key)
	switch {
	case err != nil:
		s.monitor.OfferCache.WithLabelValues("error").Inc()
		logger.Warnf("Could not read offer cache: %v", err)
		return nil, false
	case !ok:
		s.monitor.OfferCache.WithLabelValues("miss").Inc()
		return nil, false
	}

	s.monitor.OfferCache.WithLabelValues("hit").Inc()
	logger.Debug("Offers served from cache")
	return found, true
}

func (s *Service) findDrink(id string) (store.Drink, error) {
	drinks, err := s.storage.GetDrinks()
	if err != nil {
		return store.Drink{}, fmt.Errorf("could not load drinks: %w", err)
	}

	for _, drink := range drinks {
		if drink.ID == id {
			return drink, nil
		}
	}

	return store.Drink{}, fmt.Errorf("drink %s: %w", id, store.ErrNotFound)
}

func cacheKey(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, offers.ErrNoCandidateRecords):
		return "no_candidates"
	case errors.Is(err, offers.ErrNoPriceableRecords):
		return "no_prices"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "unavailable"
	}
}
