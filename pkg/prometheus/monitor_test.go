package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonitor(t *testing.T) {
	monitor := New()

	require.NotNil(t, monitor.Registry)

	tests := []struct {
		name   string
		metric interface{}
	}{
		{"PriceSearches", monitor.PriceSearches},
		{"OffersFound", monitor.OffersFound},
		{"ProviderDuration", monitor.ProviderDuration},
		{"OfferCache", monitor.OfferCache},
		{"Drinks", monitor.Drinks},
		{"Favorites", monitor.Favorites},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.metric)
		})
	}
}

func TestMonitorCounts(t *testing.T) {
	monitor := New()

	monitor.PriceSearches.WithLabelValues("ok").Inc()
	monitor.PriceSearches.WithLabelValues("ok").Inc()
	monitor.PriceSearches.WithLabelValues("no_prices").Inc()
	monitor.Drinks.WithLabelValues().Set(12)

	assert.Equal(t, 2.0, testutil.ToFloat64(monitor.PriceSearches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(monitor.PriceSearches.WithLabelValues("no_prices")))
	assert.Equal(t, 12.0, testutil.ToFloat64(monitor.Drinks.WithLabelValues()))
}
