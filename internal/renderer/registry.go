package renderer

import (
	"context"
	"net/http"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
)

// Fetcher reads content bytes through the player's cache.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// WeatherSource resolves current conditions for a city.
type WeatherSource interface {
	Weather(ctx context.Context, city string) (*model.Weather, error)
}

// RatesSource resolves current currency conversion rates.
type RatesSource interface {
	Rates(ctx context.Context) (*model.Rates, error)
}

// Playback plays a video to completion. Play blocks until playback ends,
// fails, or ctx is cancelled.
type Playback interface {
	Play(ctx context.Context, source string) error
}

// Deps carries the external collaborators renderers need.
type Deps struct {
	Fetcher  Fetcher
	Weather  WeatherSource
	Rates    RatesSource
	Playback Playback
	City     string
	HTTP     *http.Client
}

// Registry dispatches over the closed set of content types. Unknown types
// fall through to a placeholder that still honors the rotation timer.
type Registry struct {
	byType map[model.ContentType]Renderer
	news   Renderer
	other  Renderer
}

func NewRegistry(deps Deps) *Registry {
	if deps.HTTP == nil {
		deps.HTTP = http.DefaultClient
	}
	return &Registry{
		byType: map[model.ContentType]Renderer{
			model.ContentImage:    &ImageRenderer{Fetcher: deps.Fetcher},
			model.ContentVideo:    &VideoRenderer{Playback: deps.Playback},
			model.ContentEmbed:    &EmbedRenderer{HTTP: deps.HTTP},
			model.ContentDocument: &DocumentRenderer{Fetcher: deps.Fetcher},
			model.ContentStream:   &StreamRenderer{HTTP: deps.HTTP},
			model.ContentClock:    &ClockRenderer{},
			model.ContentCurrency: NewCurrencyRenderer(deps.Rates),
			model.ContentWeather:  NewWeatherRenderer(deps.Weather, deps.City),
		},
		news:  &NewsRenderer{},
		other: &UnsupportedRenderer{},
	}
}

// For returns the renderer for a content type, or the unsupported-type
// placeholder when no handler exists.
func (r *Registry) For(t model.ContentType) Renderer {
	if rend, ok := r.byType[t]; ok {
		return rend
	}
	return r.other
}

// News returns the interstitial news renderer.
func (r *Registry) News() Renderer { return r.news }
