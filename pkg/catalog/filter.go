package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kozaktomas/diacritics"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kotrzina/russtea/pkg/store"
)

const (
	SortRatingDesc  = "-rating"
	SortRating      = "rating"
	SortCreatedDesc = "-created_date"
	SortName        = "name"
)

// FilterAll disables a category or caffeine filter
const FilterAll = "all"

type Filter struct {
	CategoryID    string
	CaffeineLevel string
	ID            string
	Search        string // matched against name, description, origin and taste notes

	SortBy string
	Limit  int
}

func (c *Catalog) Filter(f Filter) ([]store.Drink, error) {
	drinks, err := c.storage.GetDrinks()
	if err != nil {
		return nil, fmt.Errorf("could not load drinks: %w", err)
	}

	search := normalizeText(f.Search)
	out := make([]store.Drink, 0, len(drinks))
	for _, drink := range drinks {
		if active(f.CategoryID) && drink.CategoryID != f.CategoryID {
			continue
		}
		if active(f.CaffeineLevel) && !strings.EqualFold(drink.CaffeineLevel, f.CaffeineLevel) {
			continue
		}
		if f.ID != "" && drink.ID != f.ID {
			continue
		}
		if search != "" && !matches(drink, search) {
			continue
		}
		out = append(out, drink)
	}

	sortDrinks(out, f.SortBy)

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}

	return out, nil
}

func active(value string) bool {
	return value != "" && value != FilterAll
}

// sortDrinks orders drinks in place, unknown keys keep the stored order
func sortDrinks(drinks []store.Drink, sortBy string) {
	if sortBy == "" {
		sortBy = SortRatingDesc
	}

	switch sortBy {
	case SortRatingDesc:
		sort.SliceStable(drinks, func(i, j int) bool {
			return drinks[i].Rating > drinks[j].Rating
		})
	case SortRating:
		sort.SliceStable(drinks, func(i, j int) bool {
			return drinks[i].Rating < drinks[j].Rating
		})
	case SortCreatedDesc:
		sort.SliceStable(drinks, func(i, j int) bool {
			return drinks[i].CreatedDate.After(drinks[j].CreatedDate)
		})
	case SortName:
		col := collate.New(language.Russian, collate.IgnoreCase)
		sort.SliceStable(drinks, func(i, j int) bool {
			return col.CompareString(drinks[i].Name, drinks[j].Name) < 0
		})
	}
}

func matches(drink store.Drink, search string) bool {
	fields := append([]string{drink.Name, drink.Description, drink.Origin}, drink.TasteNotes...)
	for _, field := range fields {
		if strings.Contains(normalizeText(field), search) {
			return true
		}
	}

	return false
}

// normalizeText removes diacritics and converts to lowercase for search comparison
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = strings.NewReplacer("ё", "е", "Ё", "Е").Replace(s)
	normalized, err := diacritics.Remove(s)
	if err != nil {
		normalized = s
	}

	return strings.Join(strings.Fields(strings.ToLower(normalized)), " ")
}
