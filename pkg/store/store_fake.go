package store

import (
	"context"
	"sync"
	"time"

	"github.com/kotrzina/russtea/pkg/offers"
)

// FakeStore keeps everything in memory
// It is used by tests and by the memory backend.
type FakeStore struct {
	mtx sync.RWMutex
	doc *document

	cache map[string]cachedOffers
	now   func() time.Time
}

type cachedOffers struct {
	offers    []offers.Offer
	expiresAt time.Time
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		doc:   newDocument(),
		cache: map[string]cachedOffers{},
		now:   time.Now,
	}
}

func (s *FakeStore) GetDrinks() ([]Drink, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.doc.drinks(), nil
}

func (s *FakeStore) AddDrink(drink Drink) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.doc.addDrink(drink)
}

func (s *FakeStore) DeleteDrink(id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.doc.deleteDrink(id)
}

func (s *FakeStore) CountDrinks() (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.doc.Drinks), nil
}

func (s *FakeStore) GetFavorites(userEmail string) ([]Favorite, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.doc.favorites(userEmail), nil
}

func (s *FakeStore) AddFavorite(favorite Favorite) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.doc.addFavorite(favorite)
}

func (s *FakeStore) DeleteFavorite(id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.doc.deleteFavorite(id)
}

func (s *FakeStore) SavePrices(prices SavedPrices) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.doc.savePrices(prices)
	return nil
}

func (s *FakeStore) GetSavedPrices(drinkID string) (SavedPrices, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.doc.savedPrices(drinkID)
}

func (s *FakeStore) GetOffers(_ context.Context, key string) ([]offers.Offer, bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	cached, ok := s.cache[key]
	if !ok || !s.now().Before(cached.expiresAt) {
		return nil, false, nil
	}

	return cached.offers, true, nil
}

func (s *FakeStore) SetOffers(_ context.Context, key string, found []offers.Offer, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.cache[key] = cachedOffers{
		offers:    found,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}
