package renderer

import (
	"context"
	"strings"
	"time"
)

// ClockRenderer shows the local time, updated every second.
type ClockRenderer struct{}

func (r *ClockRenderer) Start(ctx context.Context, unit Unit, sink Sink) {
	go func() {
		sink.Publish(clockFrame(time.Now()))
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				sink.Publish(clockFrame(now))
			}
		}
	}()
	countdown(ctx, unit, sink)
}

func clockFrame(now time.Time) Frame {
	return Frame{
		Kind:  "clock",
		Clock: now.Format("03:04:05 PM"),
		Date:  strings.ToUpper(now.Format("January 2, 2006")),
	}
}
