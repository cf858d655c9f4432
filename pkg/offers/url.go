package offers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/publicsuffix"
	"mvdan.cc/xurls/v2"
)

var (
	directURLFields = []string{
		"product_page_url",
		"product_url",
		"offer.offer_page_url",
		"offer_page_url",
		"product_link",
		"productUrl",
		"link",
		"url",
		"href",
	}

	nestedOfferLists = []string{"offers", "stores", "sellers", "merchants"}
	nestedURLFields  = []string{"offer_page_url", "url", "link", "store_url"}

	// redirect links of the aggregator carry the merchant link in one of these
	redirectParams = []string{
		"url",
		"q",
		"u",
		"adurl",
		"dest",
		"destination",
		"redirect",
		"redirect_url",
		"target",
		"link",
	}
)

// aggregator static and ad domains, the aggregator itself is matched by its label
var denylistedDomains = map[string]struct{}{
	"gstatic.com":           {},
	"googleusercontent.com": {},
	"googleadservices.com":  {},
	"googlesyndication.com": {},
}

const aggregatorLabel = "google"

// merchantSearchURLs build a catalog search link when no product link is known
var merchantSearchURLs = map[string]string{
	ShopOzon:         "https://www.ozon.ru/search/?text=%s&from_global=true",
	ShopWildberries:  "https://www.wildberries.ru/catalog/0/search.aspx?search=%s",
	ShopYandexMarket: "https://market.yandex.ru/search?text=%s",
	ShopAliExpress:   "https://aliexpress.ru/wholesale?SearchText=%s",
	ShopMegamarket:   "https://megamarket.ru/catalog/?q=%s",
	ShopCitilink:     "https://www.citilink.ru/search/?text=%s",
	ShopMVideo:       "https://www.mvideo.ru/product-list-page?q=%s",
	ShopDNS:          "https://www.dns-shop.ru/search/?q=%s",
	ShopEldorado:     "https://www.eldorado.ru/search/catalog.php?q=%s",
	ShopMoyChay:      "https://moychay.ru/search/?q=%s",
	ShopVkusVill:     "https://vkusvill.ru/search/?q=%s",
	ShopPerekrestok:  "https://www.perekrestok.ru/cat/search?search=%s",
	ShopLenta:        "https://lenta.com/search/?searchText=%s",
}

const genericSearchURL = "https://yandex.ru/search/?text=%s"

// resolveDirectURL returns a merchant product link or an empty string.
// Aggregator links are only used to recover the merchant link they point to.
func resolveDirectURL(product gjson.Result) string {
	var redirects []string

	check := func(v gjson.Result) string {
		if v.Type != gjson.String {
			return ""
		}
		candidate := strings.TrimSpace(v.Str)
		u, ok := parseAbsolute(candidate)
		if !ok {
			return ""
		}
		if isDenylistedHost(u.Hostname()) {
			redirects = append(redirects, candidate)
			return ""
		}
		return candidate
	}

	for _, field := range directURLFields {
		if link := check(Lookup(product, field)); link != "" {
			return link
		}
	}

	for _, list := range nestedOfferLists {
		entries := Lookup(product, list)
		if !entries.IsArray() {
			continue
		}
		for _, entry := range entries.Array() {
			for _, field := range nestedURLFields {
				if link := check(Lookup(entry, field)); link != "" {
					return link
				}
			}
		}
	}

	for _, redirect := range redirects {
		if target := recoverRedirectTarget(redirect); target != "" {
			return target
		}
	}

	return ""
}

// recoverRedirectTarget digs the merchant link out of an aggregator redirect.
func recoverRedirectTarget(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		query := u.Query()
		for _, param := range redirectParams {
			for _, value := range query[param] {
				if target := qualifyEmbedded(value); target != "" {
					return target
				}
			}
		}
	}

	for rest := raw; ; {
		i := strings.Index(rest, "url=")
		if i < 0 {
			break
		}
		rest = rest[i+len("url="):]
		value, _, _ := strings.Cut(rest, "&")
		if target := qualifyEmbedded(value); target != "" {
			return target
		}
	}

	unescaped, err := url.QueryUnescape(raw)
	if err != nil {
		unescaped = raw
	}
	for _, found := range xurls.Strict().FindAllString(unescaped, -1) {
		if target := qualifyEmbedded(found); target != "" {
			return target
		}
	}

	return ""
}

// qualifyEmbedded accepts value as is or after one more round of unescaping.
func qualifyEmbedded(value string) string {
	candidates := []string{value}
	if unescaped, err := url.QueryUnescape(value); err == nil && unescaped != value {
		candidates = append(candidates, unescaped)
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if u, ok := parseAbsolute(candidate); ok && !isDenylistedHost(u.Hostname()) {
			return candidate
		}
	}

	return ""
}

func parseAbsolute(s string) (*url.URL, bool) {
	if s == "" {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Hostname() == "" {
		return nil, false
	}

	return u, true
}

// isDenylistedHost reports whether host belongs to the aggregator
// (google.com, google.ru, ...) or one of its asset domains.
func isDenylistedHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for domain := range denylistedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}

	label, _, _ := strings.Cut(domain, ".")
	return label == aggregatorLabel
}

// searchURL builds a merchant catalog search link, or a generic web search
// when the merchant has no known search page.
func searchURL(shop, text string) string {
	template, ok := merchantSearchURLs[shop]
	if !ok {
		template = genericSearchURL
	}

	return fmt.Sprintf(template, url.QueryEscape(text))
}
