package renderer

import "context"

// NewsRenderer shows one interstitial news item.
type NewsRenderer struct{}

func (r *NewsRenderer) Start(ctx context.Context, unit Unit, sink Sink) {
	item := unit.News
	frame := Frame{Kind: "news", Title: item.Title}
	if item.Body != nil {
		frame.Body = *item.Body
	}
	if item.Image != nil {
		frame.ImageURL = *item.Image
	}
	if item.Source != nil {
		frame.Label = *item.Source
	}
	sink.Publish(frame)
	countdown(ctx, unit, sink)
}
