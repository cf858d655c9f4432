package pricesearch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback(t *testing.T) {
	unauthorized := &fakeProvider{err: ErrUnauthorized}
	down := &fakeProvider{err: fmt.Errorf("%w: http 503", ErrProviderUnavailable)}
	ok := &fakeProvider{body: `{"items":[]}`}

	tests := []struct {
		name      string
		providers []Provider
		wantBody  string
		wantErr   error
		notErr    error
	}{
		{"first wins", []Provider{ok, down}, `{"items":[]}`, nil, nil},
		{"falls through", []Provider{unauthorized, down, ok}, `{"items":[]}`, nil, nil},
		{"all unauthorized", []Provider{unauthorized, unauthorized}, "", ErrUnauthorized, nil},
		{"unavailable beats unauthorized", []Provider{unauthorized, down}, "", ErrProviderUnavailable, ErrUnauthorized},
		{"no providers", nil, "", ErrProviderUnavailable, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := NewFallback(tt.providers...).Search(context.Background(), "oolong tea")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.notErr != nil {
					assert.NotErrorIs(t, err, tt.notErr)
				}
				return
			}

			require.NoError(t, err)
			assert.JSONEq(t, tt.wantBody, string(raw))
		})
	}

	assert.Equal(t, "fake+fake", NewFallback(unauthorized, ok).Name())
}
