// Package catalog manages the tea catalog: drinks, categories and user favorites.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/kotrzina/russtea/pkg/prometheus"
	"github.com/kotrzina/russtea/pkg/store"
)

var (
	ErrNotFound     = store.ErrNotFound
	ErrInvalidDrink = errors.New("invalid drink")
	ErrInvalidEmail = errors.New("invalid email")
)

const DefaultCaffeineLevel = "средний"

var CaffeineLevels = []string{"низкий", "средний", "высокий", "без кофеина"}

//go:embed seed.yaml
var seedContent []byte

// Notifier is told about catalog changes, failures are only logged
type Notifier interface {
	SendDrinkAdded(ctx context.Context, drink store.Drink) error
	SendDrinkDeleted(ctx context.Context, drink store.Drink) error
}

type Catalog struct {
	storage  store.Storage
	notifier Notifier
	monitor  *prometheus.Monitor
	logger   *logrus.Logger

	mtx sync.Mutex // serializes id assignment
	now func() time.Time
}

func New(storage store.Storage, notifier Notifier, monitor *prometheus.Monitor, logger *logrus.Logger) *Catalog {
	return &Catalog{
		storage:  storage,
		notifier: notifier,
		monitor:  monitor,
		logger:   logger,
		now:      time.Now,
	}
}

// Seed fills an empty catalog with the built-in drinks and returns how many were added
func (c *Catalog) Seed() (int, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	count, err := c.storage.CountDrinks()
	if err != nil {
		return 0, fmt.Errorf("could not count drinks: %w", err)
	}
	if count > 0 {
		c.monitor.Drinks.WithLabelValues().Set(float64(count))
		return 0, nil
	}

	drinks, err := seedDrinks()
	if err != nil {
		return 0, err
	}

	for _, drink := range drinks {
		if drink.CreatedDate.IsZero() {
			drink.CreatedDate = c.now()
		}
		if err := c.storage.AddDrink(drink); err != nil {
			return 0, fmt.Errorf("could not add seed drink %s: %w", drink.ID, err)
		}
	}

	c.monitor.Drinks.WithLabelValues().Set(float64(len(drinks)))
	c.logger.Infof("Catalog seeded with %d drinks", len(drinks))

	return len(drinks), nil
}

func seedDrinks() ([]store.Drink, error) {
	var seed struct {
		Drinks []store.Drink `yaml:"drinks"`
	}
	if err := yaml.Unmarshal(seedContent, &seed); err != nil {
		return nil, fmt.Errorf("could not unmarshal seed drinks: %w", err)
	}

	return seed.Drinks, nil
}

// Drinks returns all drinks ordered by sortBy, limit <= 0 means no limit
func (c *Catalog) Drinks(sortBy string, limit int) ([]store.Drink, error) {
	return c.Filter(Filter{SortBy: sortBy, Limit: limit})
}

func (c *Catalog) Drink(id string) (store.Drink, error) {
	drinks, err := c.storage.GetDrinks()
	if err != nil {
		return store.Drink{}, fmt.Errorf("could not load drinks: %w", err)
	}

	for _, drink := range drinks {
		if drink.ID == id {
			return drink, nil
		}
	}

	return store.Drink{}, fmt.Errorf("drink %s: %w", id, ErrNotFound)
}

// AddDrink validates the drink, assigns the next numeric id and stores it
func (c *Catalog) AddDrink(ctx context.Context, drink store.Drink) (store.Drink, error) {
	drink, err := cleanDrink(drink)
	if err != nil {
		return store.Drink{}, err
	}

	drink, err = c.storeDrink(drink)
	if err != nil {
		return store.Drink{}, err
	}

	c.logger.WithField("drink_id", drink.ID).Infof("Drink added: %s", drink.Name)
	if err := c.notifier.SendDrinkAdded(ctx, drink); err != nil {
		c.logger.Warnf("Could not send drink notification: %v", err)
	}

	return drink, nil
}

func (c *Catalog) storeDrink(drink store.Drink) (store.Drink, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	drinks, err := c.storage.GetDrinks()
	if err != nil {
		return store.Drink{}, fmt.Errorf("could not load drinks: %w", err)
	}

	drink.ID = nextID(drinks)
	drink.CreatedDate = c.now().UTC()
	if err := c.storage.AddDrink(drink); err != nil {
		return store.Drink{}, fmt.Errorf("could not add drink: %w", err)
	}

	c.monitor.Drinks.WithLabelValues().Set(float64(len(drinks) + 1))
	return drink, nil
}

func (c *Catalog) DeleteDrink(ctx context.Context, id string) error {
	drink, err := c.removeDrink(id)
	if err != nil {
		return err
	}

	c.logger.WithField("drink_id", id).Infof("Drink deleted: %s", drink.Name)
	if err := c.notifier.SendDrinkDeleted(ctx, drink); err != nil {
		c.logger.Warnf("Could not send drink notification: %v", err)
	}

	return nil
}

func (c *Catalog) removeDrink(id string) (store.Drink, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	drink, err := c.Drink(id)
	if err != nil {
		return store.Drink{}, err
	}

	if err := c.storage.DeleteDrink(id); err != nil {
		return store.Drink{}, fmt.Errorf("could not delete drink %s: %w", id, err)
	}

	if count, err := c.storage.CountDrinks(); err == nil {
		c.monitor.Drinks.WithLabelValues().Set(float64(count))
	}
	return drink, nil
}

func cleanDrink(drink store.Drink) (store.Drink, error) {
	drink.Name = strings.TrimSpace(drink.Name)
	if drink.Name == "" {
		return store.Drink{}, fmt.Errorf("%w: name is required", ErrInvalidDrink)
	}

	drink.CaffeineLevel = strings.ToLower(strings.TrimSpace(drink.CaffeineLevel))
	if drink.CaffeineLevel == "" {
		drink.CaffeineLevel = DefaultCaffeineLevel
	}
	if !slices.Contains(CaffeineLevels, drink.CaffeineLevel) {
		return store.Drink{}, fmt.Errorf("%w: unknown caffeine level %q", ErrInvalidDrink, drink.CaffeineLevel)
	}

	if drink.Rating < 0 || drink.Rating > 5 {
		return store.Drink{}, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidDrink)
	}

	if drink.CategoryID != "" && !isKnownCategory(drink.CategoryID) {
		return store.Drink{}, fmt.Errorf("%w: unknown category %s", ErrInvalidDrink, drink.CategoryID)
	}

	drink.Description = strings.TrimSpace(drink.Description)
	drink.Origin = strings.TrimSpace(drink.Origin)
	drink.TasteNotes = uniqueTrimmed(drink.TasteNotes)
	drink.HealthBenefits = uniqueTrimmed(drink.HealthBenefits)

	return drink, nil
}

func uniqueTrimmed(values []string) []string {
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}

	return out
}

// nextID is one above the highest numeric id, non-numeric ids are ignored
func nextID(drinks []store.Drink) string {
	highest := 0
	for _, drink := range drinks {
		if id, err := strconv.Atoi(drink.ID); err == nil && id > highest {
			highest = id
		}
	}

	return strconv.Itoa(highest + 1)
}
