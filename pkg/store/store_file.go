package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the catalog in a single JSON document on disk
// Every change rewrites the whole file.
type FileStore struct {
	mtx  sync.RWMutex
	path string
	doc  *document
}

// NewFileStore opens the document at path, a missing file means an empty catalog
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		doc:  newDocument(),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read data file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, s.doc); err != nil {
		return nil, fmt.Errorf("could not parse data file %s: %w", path, err)
	}
	if s.doc.Drinks == nil {
		s.doc.Drinks = []Drink{}
	}
	if s.doc.Favorites == nil {
		s.doc.Favorites = []Favorite{}
	}

	return s, nil
}

func (s *FileStore) GetDrinks() ([]Drink, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.doc.drinks(), nil
}

func (s *FileStore) AddDrink(drink Drink) error {
	return s.update(func(doc *document) error {
		return doc.addDrink(drink)
	})
}

func (s *FileStore) DeleteDrink(id string) error {
	return s.update(func(doc *document) error {
		return doc.deleteDrink(id)
	})
}

func (s *FileStore) CountDrinks() (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.doc.Drinks), nil
}

func (s *FileStore) GetFavorites(userEmail string) ([]Favorite, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.doc.favorites(userEmail), nil
}

func (s *FileStore) AddFavorite(favorite Favorite) error {
	return s.update(func(doc *document) error {
		return doc.addFavorite(favorite)
	})
}

func (s *FileStore) DeleteFavorite(id string) error {
	return s.update(func(doc *document) error {
		return doc.deleteFavorite(id)
	})
}

func (s *FileStore) SavePrices(prices SavedPrices) error {
	return s.update(func(doc *document) error {
		doc.savePrices(prices)
		return nil
	})
}

func (s *FileStore) GetSavedPrices(drinkID string) (SavedPrices, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.doc.savedPrices(drinkID)
}

// update applies fn to a copy of the document, memory only changes once the copy is on disk
func (s *FileStore) update(fn func(doc *document) error) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	next := s.doc.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.flush(next); err != nil {
		return err
	}

	s.doc = next
	return nil
}

// flush writes the document to a temporary file and renames it over the old one
func (s *FileStore) flush(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal data file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".russtea-*.json")
	if err != nil {
		return fmt.Errorf("could not create temporary data file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write data file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace data file: %w", err)
	}

	return nil
}
