package renderer

import (
	"context"

	"github.com/rs/zerolog/log"
)

// ImageRenderer shows a static image, warming it through the content cache
// so repeated rotations don't refetch the asset.
type ImageRenderer struct {
	Fetcher Fetcher
}

func (r *ImageRenderer) Start(ctx context.Context, unit Unit, sink Sink) {
	src := unit.Item.Source
	go func() {
		frame := Frame{Kind: "image", Source: src}
		if r.Fetcher != nil {
			if _, err := r.Fetcher.Fetch(ctx, src); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Str("source", src).Msg("image fetch failed")
				frame.Err = "image unavailable"
			}
		}
		if ctx.Err() != nil {
			return
		}
		sink.Publish(frame)
	}()
	countdown(ctx, unit, sink)
}
