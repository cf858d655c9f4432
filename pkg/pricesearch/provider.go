package pricesearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnauthorized        = errors.New("search provider rejected the credentials")
	ErrProviderUnavailable = errors.New("search provider is unavailable")
)

// placeholderKey is the value shipped in example env files
const placeholderKey = "your_actual_api_key_here"

// Provider returns the raw JSON body of a product search
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]byte, error)
}

type RapidAPIConfig struct {
	Key      string
	Host     string
	BaseURL  string
	Country  string
	Language string
	Limit    int
	Timeout  time.Duration
}

// RapidAPI talks to the real-time product search API on RapidAPI
type RapidAPI struct {
	config RapidAPIConfig
	client *http.Client
}

func NewRapidAPI(config RapidAPIConfig) *RapidAPI {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.Limit <= 0 {
		config.Limit = 20
	}

	return &RapidAPI{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (p *RapidAPI) Name() string {
	return "rapidapi"
}

func (p *RapidAPI) Search(ctx context.Context, query string) ([]byte, error) {
	key := strings.TrimSpace(p.config.Key)
	if key == "" || key == placeholderKey {
		return nil, fmt.Errorf("%w: api key is not configured", ErrUnauthorized)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("country", p.config.Country)
	params.Set("language", p.config.Language)
	params.Set("page", "1")
	params.Set("limit", strconv.Itoa(p.config.Limit))
	endpoint := strings.TrimSuffix(p.config.BaseURL, "/") + "/search-v2?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create search request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", key)
	req.Header.Set("X-RapidAPI-Host", p.config.Host)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read response: %v", ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: http %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: http %d: %s", ErrProviderUnavailable, resp.StatusCode, truncate(string(data), 200))
	}

	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
