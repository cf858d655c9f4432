package offers

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const (
	ShopOzon         = "OZON"
	ShopWildberries  = "Wildberries"
	ShopYandexMarket = "Яндекс Маркет"
	ShopYandexLavka  = "Яндекс Лавка"
	ShopAliExpress   = "AliExpress"
	ShopMegamarket   = "Мегамаркет"
	ShopCitilink     = "Ситилинк"
	ShopMVideo       = "М.Видео"
	ShopDNS          = "DNS"
	ShopEldorado     = "Эльдорадо"
	ShopMoyChay      = "Мой Чай"
	ShopVkusVill     = "ВкусВилл"
	ShopPerekrestok  = "Перекрёсток"
	ShopLenta        = "Лента"
)

// aggregatorNames are never shown as a merchant, the aggregator is not a seller
var aggregatorNames = []string{"google", "гугл"}

// merchantDomains maps merchant domains to display names.
// Subdomains match too and the longest matching domain wins.
var merchantDomains = map[string]string{
	"ozon.ru":           ShopOzon,
	"wildberries.ru":    ShopWildberries,
	"wb.ru":             ShopWildberries,
	"yandex.ru":         ShopYandexMarket,
	"market.yandex.ru":  ShopYandexMarket,
	"lavka.yandex.ru":   ShopYandexLavka,
	"aliexpress.ru":     ShopAliExpress,
	"aliexpress.com":    ShopAliExpress,
	"megamarket.ru":     ShopMegamarket,
	"sbermegamarket.ru": ShopMegamarket,
	"citilink.ru":       ShopCitilink,
	"mvideo.ru":         ShopMVideo,
	"dns-shop.ru":       ShopDNS,
	"eldorado.ru":       ShopEldorado,
	"moychay.ru":        ShopMoyChay,
	"vkusvill.ru":       ShopVkusVill,
	"perekrestok.ru":    ShopPerekrestok,
	"lenta.com":         ShopLenta,
}

// merchantKeywords recognise merchants in store names and product titles
var merchantKeywords = map[string]string{
	"ozon":          ShopOzon,
	"озон":          ShopOzon,
	"wildberries":   ShopWildberries,
	"вайлдберриз":   ShopWildberries,
	"aliexpress":    ShopAliExpress,
	"алиэкспресс":   ShopAliExpress,
	"yandex":        ShopYandexMarket,
	"яндекс":        ShopYandexMarket,
	"яндекс маркет": ShopYandexMarket,
	"яндекс лавка":  ShopYandexLavka,
	"megamarket":    ShopMegamarket,
	"мегамаркет":    ShopMegamarket,
	"citilink":      ShopCitilink,
	"ситилинк":      ShopCitilink,
	"mvideo":        ShopMVideo,
	"м.видео":       ShopMVideo,
	"dns":           ShopDNS,
	"eldorado":      ShopEldorado,
	"эльдорадо":     ShopEldorado,
	"moychay":       ShopMoyChay,
	"мой чай":       ShopMoyChay,
	"vkusvill":      ShopVkusVill,
	"вкусвилл":      ShopVkusVill,
	"perekrestok":   ShopPerekrestok,
	"перекресток":   ShopPerekrestok,
	"перекрёсток":   ShopPerekrestok,
	"lenta":         ShopLenta,
	"лента":         ShopLenta,
}

var storeFields = []string{
	"offer.store_name",
	"offer.store",
	"store_name",
	"store",
	"shop_name",
	"shop",
	"retailer",
	"seller",
	"merchant.name",
	"merchant",
	"source",
	"offers[0].store_name",
}

// resolveShopName picks the merchant display name for a product.
// Explicit store fields win over the link host, the host over title keywords.
func (n *Normalizer) resolveShopName(product gjson.Result, link, title string) string {
	for _, field := range storeFields {
		v := Lookup(product, field)
		if v.Type != gjson.String {
			continue
		}
		if name := formatStoreName(v.Str); name != "" {
			return name
		}
	}

	if link != "" {
		if u, err := url.Parse(link); err == nil {
			if name := shopByHost(u.Hostname()); name != "" {
				return name
			}
		}
	}

	if name := shopByTitle(title); name != "" {
		return name
	}

	return n.config.FallbackShopName
}

// formatStoreName maps a raw store name to its display name.
// Unknown names are capitalized, aggregator names are rejected.
func formatStoreName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	lower := strings.ToLower(raw)
	for _, aggregator := range aggregatorNames {
		if strings.Contains(lower, aggregator) {
			return ""
		}
	}

	best := ""
	for keyword := range merchantKeywords {
		if strings.Contains(lower, keyword) && longerKey(keyword, best) {
			best = keyword
		}
	}
	if best != "" {
		return merchantKeywords[best]
	}

	first, size := utf8.DecodeRuneInString(raw)
	return string(unicode.ToUpper(first)) + raw[size:]
}

// shopByHost matches a hostname against merchantDomains, most specific domain first.
func shopByHost(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return ""
	}

	best := ""
	for domain := range merchantDomains {
		if (host == domain || strings.HasSuffix(host, "."+domain)) && longerKey(domain, best) {
			best = domain
		}
	}
	if best == "" {
		return ""
	}

	return merchantDomains[best]
}

// shopByTitle looks for merchant keywords standing as separate words in a title.
func shopByTitle(title string) string {
	lower := strings.ToLower(title)

	best := ""
	for keyword := range merchantKeywords {
		if containsWord(lower, keyword) && longerKey(keyword, best) {
			best = keyword
		}
	}
	if best == "" {
		return ""
	}

	return merchantKeywords[best]
}

// longerKey orders table keys by length, ties broken alphabetically,
// so lookups do not depend on map iteration order.
func longerKey(candidate, current string) bool {
	if current == "" {
		return true
	}
	if len(candidate) != len(current) {
		return len(candidate) > len(current)
	}
	return candidate < current
}

func containsWord(text, word string) bool {
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		offset = start + 1
	}

	return false
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
