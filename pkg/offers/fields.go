package offers

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

var (
	priceFields = []string{
		"offer.price",
		"typical_price_range.min_price",
		"typical_price_range.max_price",
		"price",
		"current_price",
		"sale_price",
		"original_price",
		"extracted_price",
		"price.value",
		"price.amount",
	}

	titleFields = []string{
		"product_title",
		"title",
		"name",
		"product_name",
		"productName",
		"displayName",
	}

	stockFields = []string{
		"in_stock",
		"offer.in_stock",
		"availability",
		"offer.availability",
		"stock_status",
		"stock",
	}

	ratingFields = []string{
		"product_rating",
		"rating",
		"offer.rating",
		"rating.value",
		"stars",
	}

	imageFields = []string{
		"product_photos[0]",
		"product_photo",
		"image_url",
		"image",
		"thumbnail",
		"images[0]",
		"photo",
	}
)

var outOfStockValues = map[string]struct{}{
	"out_of_stock":  {},
	"outofstock":    {},
	"out of stock":  {},
	"sold_out":      {},
	"sold out":      {},
	"unavailable":   {},
	"false":         {},
	"no":            {},
	"нет в наличии": {},
	"нет":           {},
	"распродано":    {},
}

var (
	rePriceNoise = regexp.MustCompile(`[^\d,.]`)
	rePriceToken = regexp.MustCompile(`\d+[.,]\d+|\d+`)
	reWeight     = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:граммов|грамм|гр|г|кг|grams|gram|gr|g|kg)`)
)

// extractPrice returns the first valid price found in the candidate fields.
func (n *Normalizer) extractPrice(product gjson.Result) (float64, bool) {
	for _, field := range priceFields {
		v := Lookup(product, field)
		if !v.Exists() {
			continue
		}
		if price, ok := n.parsePrice(v); ok {
			return price, true
		}
	}

	return 0, false
}

func (n *Normalizer) parsePrice(v gjson.Result) (float64, bool) {
	var price float64
	switch v.Type {
	case gjson.Number:
		price = v.Num
	case gjson.String:
		p, ok := parsePriceString(v.Str)
		if !ok {
			return 0, false
		}
		price = p
	default:
		return 0, false
	}

	if price <= 0 || price > n.config.MaxPrice {
		return 0, false
	}

	return price, true
}

// parsePriceString reads prices like "450,00 ₽" or "1299.90 RUB".
// Comma is a decimal separator.
func parsePriceString(s string) (float64, bool) {
	cleaned := rePriceNoise.ReplaceAllString(s, "")
	token := rePriceToken.FindString(cleaned)
	if token == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(strings.Replace(token, ",", ".", 1))
	if err != nil {
		return 0, false
	}

	return d.InexactFloat64(), true
}

func (n *Normalizer) extractTitle(product gjson.Result) string {
	if title := firstString(product, titleFields); title != "" {
		return title
	}

	return n.config.FallbackTitle
}

// extractWeight finds a package size like "100g" or "250 гр" in the title.
func (n *Normalizer) extractWeight(title string) string {
	for _, loc := range reWeight.FindAllStringIndex(title, -1) {
		next, _ := utf8.DecodeRuneInString(title[loc[1]:])
		if unicode.IsLetter(next) {
			continue // "100 green" is not a weight
		}
		return title[loc[0]:loc[1]]
	}

	return n.config.DefaultWeight
}

// extractInStock is true unless the first availability field says otherwise.
func extractInStock(product gjson.Result) bool {
	for _, field := range stockFields {
		v := Lookup(product, field)
		switch v.Type {
		case gjson.True:
			return true
		case gjson.False:
			return false
		case gjson.Number:
			return v.Num != 0
		case gjson.String:
			s := strings.ToLower(strings.TrimSpace(v.Str))
			if s == "" {
				continue
			}
			_, out := outOfStockValues[s]
			return !out
		}
	}

	return true
}

func extractRating(product gjson.Result) *float64 {
	for _, field := range ratingFields {
		v := Lookup(product, field)
		var rating float64
		switch v.Type {
		case gjson.Number:
			rating = v.Num
		case gjson.String:
			r, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(v.Str), ",", ".", 1), 64)
			if err != nil {
				continue
			}
			rating = r
		default:
			continue
		}

		if rating > 0 {
			return &rating
		}
	}

	return nil
}

func extractImage(product gjson.Result) *string {
	if image := firstString(product, imageFields); image != "" {
		return &image
	}

	return nil
}

// firstString returns the first non-blank string among paths, whitespace collapsed.
func firstString(v gjson.Result, paths []string) string {
	for _, path := range paths {
		r := Lookup(v, path)
		if r.Type != gjson.String {
			continue
		}
		if s := strings.Join(strings.Fields(r.Str), " "); s != "" {
			return s
		}
	}

	return ""
}
