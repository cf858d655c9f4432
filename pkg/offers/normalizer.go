package offers

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// Normalizer converts provider responses into offers.
// It keeps no state between calls and is safe for concurrent use.
type Normalizer struct {
	config Config
}

func New(config Config) *Normalizer {
	return &Normalizer{config: config}
}

// Normalize extracts offers from a raw JSON response, cheapest first.
// Records without a usable price are skipped. An error is returned only
// when no offer survives, wrapping ErrNoCandidateRecords or ErrNoPriceableRecords.
func (n *Normalizer) Normalize(raw []byte, query string) ([]Offer, error) {
	products := ExtractProducts(raw)
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: no product list in response", ErrNoCandidateRecords)
	}

	searchText := n.BuildQuery(query)
	out := make([]Offer, 0, len(products))
	for _, product := range products {
		if offer, ok := n.toOffer(product, searchText); ok {
			out = append(out, offer)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: checked %d products", ErrNoPriceableRecords, len(products))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price < out[j].Price
	})

	return out, nil
}

// NormalizeValue is Normalize for an already decoded JSON value.
func (n *Normalizer) NormalizeValue(v any, query string) ([]Offer, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: could not encode response: %v", ErrNoCandidateRecords, err)
	}

	return n.Normalize(raw, query)
}

func (n *Normalizer) toOffer(product gjson.Result, searchText string) (Offer, bool) {
	price, ok := n.extractPrice(product)
	if !ok {
		return Offer{}, false
	}

	title := n.extractTitle(product)
	if title == "" {
		return Offer{}, false
	}

	link := resolveDirectURL(product)
	shop := n.resolveShopName(product, link, title)
	if link == "" {
		text := title
		if title == n.config.FallbackTitle && searchText != "" {
			text = searchText
		}
		link = searchURL(shop, text)
	}

	return Offer{
		ShopName:     shop,
		Price:        price,
		URL:          link,
		Weight:       n.extractWeight(title),
		InStock:      extractInStock(product),
		ProductTitle: title,
		Rating:       extractRating(product),
		ImageURL:     extractImage(product),
		Currency:     Currency,
	}, true
}
