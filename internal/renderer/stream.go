package renderer

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// streamProbeInterval is how often an erroring live stream is re-probed
// while its unit stays visible.
const streamProbeInterval = 5 * time.Second

// StreamRenderer shows a live video stream. The stream endpoint is probed on
// start and re-probed while unavailable; failures render an inline error
// frame and never interrupt rotation. ProbeEvery overrides the re-probe
// interval; zero means the default.
type StreamRenderer struct {
	HTTP       *http.Client
	ProbeEvery time.Duration
}

func (r *StreamRenderer) Start(ctx context.Context, unit Unit, sink Sink) {
	src := unit.Item.Source
	every := r.ProbeEvery
	if every <= 0 {
		every = streamProbeInterval
	}
	go func() {
		healthy := r.probe(ctx, src)
		sink.Publish(streamFrame(src, healthy))
		for !healthy {
			select {
			case <-ctx.Done():
				return
			case <-time.After(every):
			}
			healthy = r.probe(ctx, src)
			if ctx.Err() != nil {
				return
			}
			sink.Publish(streamFrame(src, healthy))
			if healthy {
				log.Info().Str("source", src).Msg("stream recovered")
			}
		}
	}()
	countdown(ctx, unit, sink)
}

func (r *StreamRenderer) probe(ctx context.Context, src string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src, nil)
	if err != nil {
		return false
	}
	resp, err := r.HTTP.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Str("source", src).Msg("stream probe failed")
		}
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 400
}

func streamFrame(src string, healthy bool) Frame {
	f := Frame{Kind: "stream", Source: src}
	if !healthy {
		f.Err = "stream unavailable"
	}
	return f
}
