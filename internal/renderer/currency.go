package renderer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
)

const ratesRefresh = 15 * time.Minute

// fallbackRates keeps the ticker ticking when the integration is down.
var fallbackRates = model.Rates{
	Base:   "USD",
	Values: map[string]float64{"EUR": 0.92, "GBP": 0.79, "JPY": 148.0},
}

// CurrencyRenderer shows a currency ticker. Rates are refreshed on their own
// interval and shared across rotations; a fixed fallback table renders when
// the endpoint fails.
type CurrencyRenderer struct {
	source RatesSource

	mu        sync.Mutex
	last      *model.Rates
	fetchedAt time.Time
}

func NewCurrencyRenderer(source RatesSource) *CurrencyRenderer {
	return &CurrencyRenderer{source: source}
}

func (r *CurrencyRenderer) Start(ctx context.Context, unit Unit, sink Sink) {
	go func() {
		rates := r.current(ctx)
		if ctx.Err() != nil {
			return
		}
		sink.Publish(Frame{Kind: "currency", Rates: rates})
	}()
	countdown(ctx, unit, sink)
}

func (r *CurrencyRenderer) current(ctx context.Context) *model.Rates {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last != nil && time.Since(r.fetchedAt) < ratesRefresh {
		return r.last
	}
	if r.source != nil {
		rates, err := r.source.Rates(ctx)
		if err == nil {
			r.last = rates
			r.fetchedAt = time.Now()
			return rates
		}
		if ctx.Err() == nil {
			log.Warn().Err(err).Msg("currency rates fetch failed, using fallback")
		}
	}
	if r.last != nil {
		return r.last
	}
	fb := fallbackRates
	return &fb
}
