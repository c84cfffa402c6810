package currency

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/cache"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/metrics"
)

const cacheKey = "exchange_rates:" + Base

// DefaultTTL is how long a fetched table stays valid.
const DefaultTTL = 24 * time.Hour

// Service serves the cached rate table. Fetch failures degrade to
// FallbackRates, which are never cached.
type Service struct {
	fetcher Fetcher
	cache   cache.Cache
	ttl     time.Duration
	now     func() time.Time

	mu sync.Mutex
}

// NewService creates a Service. A non-positive ttl uses DefaultTTL.
func NewService(fetcher Fetcher, c cache.Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{fetcher: fetcher, cache: c, ttl: ttl, now: time.Now}
}

// Rates returns the cached table, fetching it when missing or expired.
// It always returns a usable table.
func (s *Service) Rates(ctx context.Context) Rates {
	if r, ok := s.cached(ctx); ok {
		metrics.RateFetches.WithLabelValues("cached").Inc()
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have filled the cache while we waited.
	if r, ok := s.cached(ctx); ok {
		metrics.RateFetches.WithLabelValues("cached").Inc()
		return r
	}
	return s.fetch(ctx)
}

// Refresh fetches a new table regardless of the cache.
func (s *Service) Refresh(ctx context.Context) Rates {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetch(ctx)
}

func (s *Service) cached(ctx context.Context) (Rates, bool) {
	raw, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("Rate cache read failed", "error", err)
		}
		return Rates{}, false
	}
	var r Rates
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		slog.Warn("Discarding malformed cached rates", "error", err)
		return Rates{}, false
	}
	if s.now().Sub(r.FetchedAt) >= s.ttl {
		return Rates{}, false
	}
	return r, true
}

func (s *Service) fetch(ctx context.Context) Rates {
	values, err := s.fetcher.Fetch(ctx)
	if err != nil {
		slog.Warn("Exchange rate fetch failed, using fallback rates", "error", err)
		metrics.RateFetches.WithLabelValues("fallback").Inc()
		return FallbackRates()
	}

	r := Rates{Values: values, FetchedAt: s.now()}
	raw, err := json.Marshal(r)
	if err == nil {
		err = s.cache.Set(ctx, cacheKey, string(raw), s.ttl)
	}
	if err != nil {
		slog.Warn("Rate cache write failed", "error", err)
	}

	metrics.RateFetches.WithLabelValues("ok").Inc()
	slog.Info("Exchange rates refreshed", "currencies", len(values))
	return r
}
