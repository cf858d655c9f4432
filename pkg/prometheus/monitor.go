package prometheus

import "github.com/prometheus/client_golang/prometheus"

// Monitor represents a Prometheus monitor
// It contains Prometheus registry and all available metrics
type Monitor struct {
	Registry *prometheus.Registry

	PriceSearches    *prometheus.CounterVec
	OffersFound      *prometheus.HistogramVec
	ProviderDuration *prometheus.HistogramVec
	OfferCache       *prometheus.CounterVec
	Drinks           *prometheus.GaugeVec
	Favorites        *prometheus.CounterVec
}

// New creates a new Monitor
func New() *Monitor {
	reg := prometheus.NewRegistry()
	monitor := &Monitor{
		Registry: reg,

		PriceSearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "russtea_price_searches_total",
			Help: "Price searches by result (ok, no_candidates, no_prices, unauthorized, unavailable)",
		}, []string{"result"}),

		OffersFound: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "russtea_offers_found",
			Help:    "Number of offers extracted from one provider response",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}, []string{}),

		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "russtea_provider_request_duration_seconds",
			Help:    "Duration of search provider requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),

		OfferCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "russtea_offer_cache_total",
			Help: "Offer cache lookups by outcome (hit, miss, error)",
		}, []string{"outcome"}),

		Drinks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "russtea_drinks",
			Help: "Number of drinks in the catalog",
		}, []string{}),

		Favorites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "russtea_favorites_total",
			Help: "Favorite changes by action (add, remove)",
		}, []string{"action"}),
	}

	reg.MustRegister(
		monitor.PriceSearches,
		monitor.OffersFound,
		monitor.ProviderDuration,
		monitor.OfferCache,
		monitor.Drinks,
		monitor.Favorites,
	)

	return monitor
}
