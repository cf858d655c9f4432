package store

import (
	"errors"
	"time"

	"github.com/kotrzina/russtea/pkg/offers"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type Drink struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Description    string    `json:"description" yaml:"description"`
	CategoryID     string    `json:"category_id" yaml:"category_id"`
	Origin         string    `json:"origin" yaml:"origin"`
	CaffeineLevel  string    `json:"caffeine_level" yaml:"caffeine_level"`
	BrewingTemp    string    `json:"brewing_temp" yaml:"brewing_temp"`
	BrewingTime    string    `json:"brewing_time" yaml:"brewing_time"`
	Rating         float64   `json:"rating" yaml:"rating"`
	ImageURL       string    `json:"image_url" yaml:"image_url"`
	TasteNotes     []string  `json:"taste_notes" yaml:"taste_notes"`
	HealthBenefits []string  `json:"health_benefits" yaml:"health_benefits"`
	CreatedDate    time.Time `json:"created_date" yaml:"created_date"`
}

type Favorite struct {
	ID          string    `json:"id"`
	DrinkID     string    `json:"drink_id"`
	UserEmail   string    `json:"user_email"`
	CreatedDate time.Time `json:"created_date"`
}

// SavedPrices are offers found for a drink, kept for display without a new search
type SavedPrices struct {
	DrinkID string         `json:"drink_id"`
	Offers  []offers.Offer `json:"offers"`
	SavedAt time.Time      `json:"saved_at"`
}

type Storage interface {
	GetDrinks() ([]Drink, error)  // get drinks in insertion order
	AddDrink(drink Drink) error   // add drink, ErrConflict when the id is taken
	DeleteDrink(id string) error  // delete drink, ErrNotFound when missing
	CountDrinks() (int, error)    // number of stored drinks

	GetFavorites(userEmail string) ([]Favorite, error) // get favorites of a user from oldest to newest
	AddFavorite(favorite Favorite) error               // add favorite
	DeleteFavorite(id string) error                    // delete favorite, ErrNotFound when missing

	SavePrices(prices SavedPrices) error                // replace saved prices of a drink
	GetSavedPrices(drinkID string) (SavedPrices, error) // get saved prices, ErrNotFound when missing
}
