// Package offers turns loosely structured product search responses into
// a sorted list of priced offers.
//
// Search providers nest their product lists under different keys and name
// fields differently. Every logical field is therefore read through an
// ordered list of candidate paths and the first usable value wins.
package offers

import "errors"

// Currency is attached to every offer, prices are always in roubles.
const Currency = "₽"

var (
	// ErrNoCandidateRecords means the response had no product list at all.
	ErrNoCandidateRecords = errors.New("provider returned no products")

	// ErrNoPriceableRecords means products were found but none had a usable price.
	ErrNoPriceableRecords = errors.New("products found but no price could be extracted")
)

// Offer is one priced product listing attributed to a merchant.
type Offer struct {
	ShopName     string   `json:"shop_name"`
	Price        float64  `json:"price"`
	URL          string   `json:"url"`
	Weight       string   `json:"weight"`
	InStock      bool     `json:"in_stock"`
	ProductTitle string   `json:"product_title"`
	Rating       *float64 `json:"rating"`
	ImageURL     *string  `json:"image_url"`
	Currency     string   `json:"currency"`
}

type Config struct {
	FallbackShopName string  // used when no merchant can be identified
	FallbackTitle    string  // used when a record has no title
	DefaultWeight    string  // used when the title carries no package size
	MaxPrice         float64 // sanity ceiling, prices above are ignored
	CategoryKeyword  string  // appended to search queries
}

func DefaultConfig() Config {
	return Config{
		FallbackShopName: "Интернет-магазин",
		FallbackTitle:    "Tea Product",
		DefaultWeight:    "100 г",
		MaxPrice:         100000,
		CategoryKeyword:  "tea",
	}
}
