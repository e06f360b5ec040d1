package renderer

import (
	"context"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// VideoRenderer plays an uploaded video through the playback backend. No
// countdown runs and no rotation timer is armed for video: the engine
// advances only when Ended fires, which this renderer guarantees exactly
// once per start even when playback fails.
type VideoRenderer struct {
	Playback Playback
}

func (r *VideoRenderer) Start(ctx context.Context, unit Unit, sink Sink) {
	src := unit.Item.Source
	go func() {
		sink.Publish(Frame{Kind: "video", Source: src})
		var err error
		if r.Playback != nil {
			err = r.Playback.Play(ctx, src)
		}
		if ctx.Err() != nil {
			// unit was swapped out mid-playback; the new unit owns the screen
			return
		}
		if err != nil {
			log.Warn().Err(err).Str("source", src).Msg("video playback failed")
			sink.Publish(Frame{Kind: "video", Source: src, Err: "playback failed"})
		}
		sink.Ended()
	}()
}

// ExecPlayback runs an external player process to completion, the
// development-mode backend. Production builds wire the platform player here.
type ExecPlayback struct {
	Command string
	Args    []string
}

func (p *ExecPlayback) Play(ctx context.Context, source string) error {
	args := append(append([]string(nil), p.Args...), source)
	cmd := exec.CommandContext(ctx, p.Command, args...)
	return cmd.Run()
}
