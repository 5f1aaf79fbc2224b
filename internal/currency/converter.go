// Package currency converts ledger amounts between currencies using a cached
// set of pairwise rates fetched from an external source.
package currency

import (
	"context"
	"math"
	"strings"
	"sync"

	"dompet/internal/logger"
	"dompet/internal/sanitize"
)

// SupportedCurrencies is the fixed target set the converter pre-warms when
// rates are loaded for a base currency.
var SupportedCurrencies = []string{"IDR", "USD", "EUR", "JPY", "GBP"}

// RateSource looks up the current exchange rate from base to target.
// Implementations sit on the network boundary; the converter absorbs their
// failures, callers never see them.
type RateSource interface {
	Rate(ctx context.Context, base, target string) (float64, error)
}

// Converter holds a base currency and a cache of pairwise conversion rates
// keyed "FROM_TO". A missing pair is fetched once and cached for the life of
// the converter; on any fetch failure the pair is pinned to parity (1) so
// aggregate views always render, even fully offline.
type Converter struct {
	mu     sync.RWMutex
	base   string
	rates  map[string]float64
	source RateSource
}

// NewConverter creates a Converter with the given rate source. A nil source
// means every unknown pair resolves to parity.
func NewConverter(source RateSource) *Converter {
	c := &Converter{
		base:   "IDR",
		rates:  make(map[string]float64),
		source: source,
	}
	for _, code := range SupportedCurrencies {
		c.rates[rateKey(code, code)] = 1
	}
	return c
}

// BaseCurrency returns the currency rates are quoted from.
func (c *Converter) BaseCurrency() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base
}

// LoadRates sets the base currency and warms the cache with the rate from
// base to every supported target.
func (c *Converter) LoadRates(ctx context.Context, base string) {
	base = normalize(base)

	c.mu.Lock()
	c.base = base
	c.mu.Unlock()

	for _, target := range SupportedCurrencies {
		c.FetchRate(ctx, base, target)
	}
}

// FetchRate returns the rate from base to target, consulting the cache first
// and the rate source on a miss. It never fails: an unreachable or malformed
// source yields 1, and that parity rate is cached so the source is asked at
// most once per pair.
func (c *Converter) FetchRate(ctx context.Context, base, target string) float64 {
	base, target = normalize(base), normalize(target)
	if base == target {
		return 1
	}

	key := rateKey(base, target)

	c.mu.RLock()
	cached, ok := c.rates[key]
	c.mu.RUnlock()
	if ok {
		if !validRate(cached) {
			return 1
		}
		return cached
	}

	rate := 1.0
	if c.source != nil {
		fetched, err := c.source.Rate(ctx, base, target)
		if err != nil || !validRate(fetched) {
			if err != nil {
				logger.Get().Warnw("rate fetch failed, assuming parity",
					"base", base, "target", target, "error", err.Error())
			}
		} else {
			rate = fetched
		}
	}

	c.mu.Lock()
	c.rates[key] = rate
	c.mu.Unlock()

	return rate
}

// Convert converts amount from one currency to another using the cached rate
// for the pair. An invalid amount converts to 0. A pair with no usable cached
// rate returns the amount unchanged rather than zeroing it out.
func (c *Converter) Convert(amount float64, from, to string) float64 {
	amount = sanitize.Number(amount)
	from, to = normalize(from), normalize(to)
	if from == to {
		return amount
	}

	c.mu.RLock()
	rate, ok := c.rates[rateKey(from, to)]
	c.mu.RUnlock()
	if !ok || !validRate(rate) {
		return amount
	}

	converted := amount * rate
	if math.IsNaN(converted) || math.IsInf(converted, 0) {
		return 0
	}
	return converted
}

func rateKey(from, to string) string {
	return from + "_" + to
}

func validRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
