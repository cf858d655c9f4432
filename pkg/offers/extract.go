package offers

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// productListPaths are the places providers are known to put their product lists
var productListPaths = []string{
	"data.products",
	"data.data",
	"products",
	"data.items",
	"items",
	"data.results",
	"results",
	"data",
}

var reIndexSegment = regexp.MustCompile(`\[(\d+)\]`)

// Lookup resolves a dotted path like "data.items[0].offer.price" in a JSON value.
func Lookup(v gjson.Result, path string) gjson.Result {
	return v.Get(toGJSONPath(path))
}

func toGJSONPath(path string) string {
	path = reIndexSegment.ReplaceAllString(path, ".$1")
	return strings.TrimPrefix(path, ".")
}

// ExtractProducts finds the product list in a raw provider response.
// A root object without any known list is treated as a single product.
// Anything else yields an empty result.
func ExtractProducts(raw []byte) []gjson.Result {
	if !gjson.ValidBytes(raw) {
		return nil
	}

	root := gjson.ParseBytes(raw)
	for _, path := range productListPaths {
		list := Lookup(root, path)
		if !list.IsArray() {
			continue
		}
		if products := list.Array(); len(products) > 0 {
			return products
		}
	}

	if root.IsObject() {
		return []gjson.Result{root}
	}

	return nil
}
