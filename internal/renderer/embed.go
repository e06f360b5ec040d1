package renderer

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// EmbedRenderer shows a third-party hosted video (YouTube/Vimeo style) via
// its embed URL. Some webviews drop the first autoplay, so the frame is
// republished once shortly after start to retrigger it.
type EmbedRenderer struct {
	HTTP *http.Client
}

func (r *EmbedRenderer) Start(ctx context.Context, unit Unit, sink Sink) {
	src := unit.Item.Source
	go func() {
		frame := Frame{Kind: "embed", Source: src, EmbedURL: embedURL(src)}
		sink.Publish(frame)
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, frame.EmbedURL, nil)
		if err == nil {
			if resp, herr := r.HTTP.Do(req); herr != nil {
				log.Warn().Err(herr).Str("source", src).Msg("embed unreachable")
			} else {
				resp.Body.Close()
			}
		}
		if ctx.Err() == nil {
			// autoplay retry
			sink.Publish(frame)
		}
	}()
	countdown(ctx, unit, sink)
}

// embedURL rewrites well-known share links into their autoplaying embed
// form; anything else passes through untouched.
func embedURL(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	host := strings.TrimPrefix(u.Host, "www.")
	switch {
	case host == "youtube.com" && u.Path == "/watch":
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube.com/embed/" + id + "?autoplay=1&mute=1&controls=0"
		}
	case host == "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://www.youtube.com/embed/" + id + "?autoplay=1&mute=1&controls=0"
		}
	case host == "vimeo.com":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://player.vimeo.com/video/" + id + "?autoplay=1&muted=1"
		}
	}
	return src
}
