package store

import (
	"maps"
	"slices"
	"strings"
)

// document is the whole catalog state held in memory
// Callers take care of locking.
type document struct {
	Drinks    []Drink                `json:"drinks"`
	Favorites []Favorite             `json:"favorites"`
	Prices    map[string]SavedPrices `json:"prices"`
}

func newDocument() *document {
	return &document{
		Drinks:    []Drink{},
		Favorites: []Favorite{},
		Prices:    map[string]SavedPrices{},
	}
}

// clone copies everything a mutation can touch, drinks and offers are never changed in place
func (d *document) clone() *document {
	return &document{
		Drinks:    slices.Clone(d.Drinks),
		Favorites: slices.Clone(d.Favorites),
		Prices:    maps.Clone(d.Prices),
	}
}

func (d *document) drinks() []Drink {
	return slices.Clone(d.Drinks)
}

func (d *document) addDrink(drink Drink) error {
	if slices.ContainsFunc(d.Drinks, func(existing Drink) bool { return existing.ID == drink.ID }) {
		return ErrConflict
	}

	d.Drinks = append(d.Drinks, drink)
	return nil
}

func (d *document) deleteDrink(id string) error {
	i := slices.IndexFunc(d.Drinks, func(drink Drink) bool { return drink.ID == id })
	if i < 0 {
		return ErrNotFound
	}

	d.Drinks = slices.Delete(d.Drinks, i, i+1)
	d.Favorites = slices.DeleteFunc(d.Favorites, func(f Favorite) bool { return f.DrinkID == id })
	delete(d.Prices, id)
	return nil
}

func (d *document) favorites(userEmail string) []Favorite {
	out := []Favorite{}
	for _, f := range d.Favorites {
		if strings.EqualFold(f.UserEmail, userEmail) {
			out = append(out, f)
		}
	}

	return out
}

func (d *document) addFavorite(favorite Favorite) error {
	if slices.ContainsFunc(d.Favorites, func(existing Favorite) bool { return existing.ID == favorite.ID }) {
		return ErrConflict
	}

	d.Favorites = append(d.Favorites, favorite)
	return nil
}

func (d *document) deleteFavorite(id string) error {
	i := slices.IndexFunc(d.Favorites, func(f Favorite) bool { return f.ID == id })
	if i < 0 {
		return ErrNotFound
	}

	d.Favorites = slices.Delete(d.Favorites, i, i+1)
	return nil
}

func (d *document) savePrices(prices SavedPrices) {
	if d.Prices == nil {
		d.Prices = map[string]SavedPrices{}
	}
	d.Prices[prices.DrinkID] = prices
}

func (d *document) savedPrices(drinkID string) (SavedPrices, error) {
	prices, ok := d.Prices[drinkID]
	if !ok {
		return SavedPrices{}, ErrNotFound
	}

	return prices, nil
}
