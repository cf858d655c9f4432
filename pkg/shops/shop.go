// Package shops scrapes product search pages of online tea shops.
//
// Shops mark their product cards with schema.org Product microdata, so one
// set of XPath queries covers most of them. The scraped cards are returned as
// a JSON product list the offers normalizer understands.
package shops

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"github.com/kotrzina/russtea/pkg/pricesearch"
)

const (
	productXPath      = "//*[@itemtype='http://schema.org/Product' or @itemtype='https://schema.org/Product']"
	nameXPath         = ".//*[@itemprop='name']"
	priceXPath        = ".//*[@itemprop='price']"
	availabilityXPath = ".//*[@itemprop='availability']"
	linkXPath         = ".//a[@href]"
	imageXPath        = ".//img[@src]"
)

type Config struct {
	Name      string        // shop name attached to every product
	SearchURL string        // search page, %s is replaced by the escaped query
	Timeout   time.Duration // per request
	Retries   int
}

// Shop is a pricesearch.Provider backed by a shop's own search page
type Shop struct {
	config Config
	client http.Client
}

// Product is one scraped product card
type Product struct {
	Title   string `json:"title"`
	Price   string `json:"price"`
	URL     string `json:"url,omitempty"`
	Image   string `json:"image,omitempty"`
	Store   string `json:"store"`
	InStock bool   `json:"in_stock"`
}

func New(config Config) *Shop {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Retries <= 0 {
		config.Retries = 3
	}

	return &Shop{
		config: config,
		client: http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (shop *Shop) Name() string {
	return "shop"
}

func (shop *Shop) Search(ctx context.Context, query string) ([]byte, error) {
	searchURL := strings.ReplaceAll(shop.config.SearchURL, "%s", url.QueryEscape(query))

	body, err := shop.fetch(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse html from %s: %v", pricesearch.ErrProviderUnavailable, shop.config.Name, err)
	}

	products, err := shop.parseProducts(doc, searchURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pricesearch.ErrProviderUnavailable, err)
	}

	return json.Marshal(map[string][]Product{"products": products})
}

func (shop *Shop) fetch(ctx context.Context, target string) ([]byte, error) {
	var (
		err  error
		resp *http.Response
	)

	for retries := shop.config.Retries; retries > 0; retries-- {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if reqErr != nil {
			return nil, fmt.Errorf("%w: invalid search url: %v", pricesearch.ErrProviderUnavailable, reqErr)
		}

		resp, err = shop.client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}
		if err == nil {
			_ = resp.Body.Close()
			err = fmt.Errorf("http %d", resp.StatusCode)
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err != nil {
		return nil, fmt.Errorf("%w: could not get response from %s: %v", pricesearch.ErrProviderUnavailable, shop.config.Name, err)
	}

	defer resp.Body.Close()
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read data from %s: %v", pricesearch.ErrProviderUnavailable, shop.config.Name, err)
	}

	// older Russian shops still serve windows-1251
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "windows-1251") {
		content, err = charmap.Windows1251.NewDecoder().Bytes(content)
		if err != nil {
			return nil, fmt.Errorf("%w: could not decode windows-1251: %v", pricesearch.ErrProviderUnavailable, err)
		}
	}

	return content, nil
}

func (shop *Shop) parseProducts(doc *html.Node, pageURL string) ([]Product, error) {
	cards, err := htmlquery.QueryAll(doc, productXPath)
	if err != nil {
		return nil, fmt.Errorf("could not query products: %w", err)
	}

	base, _ := url.Parse(pageURL)
	products := make([]Product, 0, len(cards))
	for _, card := range cards {
		title := sanitizeTitle(queryText(card, nameXPath))
		if title == "" {
			continue
		}

		products = append(products, Product{
			Title:   title,
			Price:   queryValue(card, priceXPath, "content"),
			URL:     resolve(base, queryAttr(card, linkXPath, "href")),
			Image:   resolve(base, queryAttr(card, imageXPath, "src")),
			Store:   shop.config.Name,
			InStock: inStock(queryValue(card, availabilityXPath, "href")),
		})
	}

	return products, nil
}

// queryValue prefers the microdata attribute and falls back to the element text
func queryValue(node *html.Node, xpath, attr string) string {
	if v := queryAttr(node, xpath, attr); v != "" {
		return v
	}

	return queryText(node, xpath)
}

func queryAttr(node *html.Node, xpath, attr string) string {
	el := htmlquery.FindOne(node, xpath)
	if el == nil {
		return ""
	}

	return strings.TrimSpace(htmlquery.SelectAttr(el, attr))
}

func queryText(node *html.Node, xpath string) string {
	el := htmlquery.FindOne(node, xpath)
	if el == nil {
		return ""
	}

	return strings.TrimSpace(htmlquery.InnerText(el))
}

func resolve(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}

	u, err := base.Parse(ref)
	if err != nil {
		return ""
	}

	return u.String()
}

func inStock(availability string) bool {
	availability = strings.ToLower(availability)
	return !strings.Contains(availability, "outofstock") && !strings.Contains(availability, "soldout")
}

// title sanitization
func sanitizeTitle(s string) string {
	uselessWords := []string{"АКЦИЯ", "Хит продаж", "Новинка"}
	for _, word := range uselessWords {
		s = strings.ReplaceAll(s, word, "")
	}

	return strings.Join(strings.Fields(s), " ")
}
