package pricesearch

import (
	"context"
	"errors"
	"strings"
)

// Fallback asks its providers in order and returns the first successful response
type Fallback struct {
	providers []Provider
}

func NewFallback(providers ...Provider) *Fallback {
	return &Fallback{providers: providers}
}

func (f *Fallback) Name() string {
	names := make([]string, 0, len(f.providers))
	for _, p := range f.providers {
		names = append(names, p.Name())
	}

	return strings.Join(names, "+")
}

func (f *Fallback) Search(ctx context.Context, query string) ([]byte, error) {
	errs := make([]error, 0, len(f.providers))
	for _, p := range f.providers {
		raw, err := p.Search(ctx, query)
		if err == nil {
			return raw, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil, ErrProviderUnavailable
	}

	// a rejected key is reported only when no provider failed for another reason
	for i := len(errs) - 1; i >= 0; i-- {
		if !errors.Is(errs[i], ErrUnauthorized) {
			return nil, errs[i]
		}
	}

	return nil, errs[0]
}
