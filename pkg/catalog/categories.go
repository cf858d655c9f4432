package catalog

import "fmt"

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var categories = []Category{
	{ID: "1", Name: "Зеленый чай"},
	{ID: "2", Name: "Черный чай"},
	{ID: "3", Name: "Улун"},
	{ID: "4", Name: "Пуэр"},
	{ID: "5", Name: "Травяной чай"},
	{ID: "6", Name: "Фруктовый чай"},
}

func (c *Catalog) Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c *Catalog) Category(id string) (Category, error) {
	for _, category := range categories {
		if category.ID == id {
			return category, nil
		}
	}

	return Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
}

func isKnownCategory(id string) bool {
	for _, category := range categories {
		if category.ID == id {
			return true
		}
	}

	return false
}
