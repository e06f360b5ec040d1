package renderer

import (
	"context"

	"github.com/rs/zerolog/log"
)

// DocumentRenderer shows a document (PDF and friends) through the cache.
// Documents run on the normal rotation timer but show no on-screen
// countdown, so no 1 Hz reporting happens here.
type DocumentRenderer struct {
	Fetcher Fetcher
}

func (r *DocumentRenderer) Start(ctx context.Context, unit Unit, sink Sink) {
	src := unit.Item.Source
	go func() {
		frame := Frame{Kind: "document", Source: src}
		if r.Fetcher != nil {
			if _, err := r.Fetcher.Fetch(ctx, src); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Str("source", src).Msg("document fetch failed")
				frame.Err = "document unavailable"
			}
		}
		if ctx.Err() != nil {
			return
		}
		sink.Publish(frame)
	}()
}
