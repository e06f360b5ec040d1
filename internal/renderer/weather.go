package renderer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
)

// weatherRefresh is the staleness bound on fetched conditions; the widget
// refreshes on its own multi-minute interval, independent of rotation.
const weatherRefresh = 10 * time.Minute

// fallbackWeather is shown when the integration endpoint cannot be reached.
var fallbackWeather = model.Weather{City: "", TempC: 20, Condition: "Clear"}

// WeatherRenderer shows current conditions for the location's city. Fetches
// are cached across rotations and a fixed default is rendered when the
// endpoint fails, so the widget never blocks or blanks the screen.
type WeatherRenderer struct {
	source WeatherSource
	city   string

	mu        sync.Mutex
	last      *model.Weather
	fetchedAt time.Time
}

func NewWeatherRenderer(source WeatherSource, city string) *WeatherRenderer {
	return &WeatherRenderer{source: source, city: city}
}

func (r *WeatherRenderer) Start(ctx context.Context, unit Unit, sink Sink) {
	go func() {
		w := r.current(ctx)
		if ctx.Err() != nil {
			return
		}
		sink.Publish(Frame{Kind: "weather", Weather: w})
	}()
	countdown(ctx, unit, sink)
}

func (r *WeatherRenderer) current(ctx context.Context) *model.Weather {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last != nil && time.Since(r.fetchedAt) < weatherRefresh {
		return r.last
	}
	if r.source != nil {
		w, err := r.source.Weather(ctx, r.city)
		if err == nil {
			r.last = w
			r.fetchedAt = time.Now()
			return w
		}
		if ctx.Err() == nil {
			log.Warn().Err(err).Str("city", r.city).Msg("weather fetch failed, using fallback")
		}
	}
	if r.last != nil {
		return r.last
	}
	fb := fallbackWeather
	fb.City = r.city
	return &fb
}
