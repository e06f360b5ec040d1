package renderer

import (
	"context"
	"time"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
)

// Sink is the engine-side callback surface shared by every renderer.
// Publish pushes the visual payload for the current unit, ReportTimeRemaining
// is invoked at 1 Hz by timed renderers, and Ended is invoked exactly once by
// playback-driven renderers (video) when the media finishes on its own.
type Sink interface {
	Publish(f Frame)
	ReportTimeRemaining(seconds int)
	Ended()
}

// Unit is the visible unit handed to a renderer: either a media item or a
// news item, plus the display duration the engine computed for it. Timed is
// false for playback-driven content, whose lifetime the renderer owns.
// Seconds is the countdown's starting value; when zero it is derived from
// Duration.
type Unit struct {
	Item     *model.MediaItem
	News     *model.NewsItem
	Duration time.Duration
	Seconds  int
	Timed    bool
}

// Renderer owns the internal lifecycle of one content type. Start must not
// block; everything it spawns must exit when ctx is cancelled. A renderer
// must surface transport errors as an inline error frame, never by stopping.
type Renderer interface {
	Start(ctx context.Context, unit Unit, sink Sink)
}

// Frame is what the display surface shows. Exactly one payload group is set
// depending on Kind; Err marks an inline error affordance.
type Frame struct {
	Kind      string         `json:"kind"`
	Source    string         `json:"source,omitempty"`
	EmbedURL  string         `json:"embed_url,omitempty"`
	Title     string         `json:"title,omitempty"`
	Body      string         `json:"body,omitempty"`
	ImageURL  string         `json:"image_url,omitempty"`
	Label     string         `json:"label,omitempty"`
	Clock     string         `json:"clock,omitempty"`
	Date      string         `json:"date,omitempty"`
	Weather   *model.Weather `json:"weather,omitempty"`
	Rates     *model.Rates   `json:"rates,omitempty"`
	Err       string         `json:"error,omitempty"`
}

// countdown reports whole seconds remaining at 1 Hz until the duration
// elapses or the unit is torn down. The first report fires immediately so a
// fresh unit never shows a blank counter.
func countdown(ctx context.Context, unit Unit, sink Sink) {
	if !unit.Timed || unit.Duration <= 0 {
		return
	}
	seconds := unit.Seconds
	if seconds < 1 {
		seconds = secondsIn(unit.Duration)
	}
	interval := unit.Duration / time.Duration(seconds)
	go func() {
		remaining := seconds
		sink.ReportTimeRemaining(remaining)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for remaining > 0 {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				remaining--
				sink.ReportTimeRemaining(remaining)
			}
		}
	}()
}

func secondsIn(d time.Duration) int {
	s := int((d + time.Second/2) / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}
