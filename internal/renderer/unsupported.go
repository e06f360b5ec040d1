package renderer

import (
	"context"

	"github.com/rs/zerolog/log"
)

// UnsupportedRenderer is the fallback for unknown content types. It shows a
// generic placeholder and runs the normal countdown so rotation never gets
// stuck on an item the player can't draw.
type UnsupportedRenderer struct{}

func (r *UnsupportedRenderer) Start(ctx context.Context, unit Unit, sink Sink) {
	kind := "unknown"
	if unit.Item != nil {
		kind = string(unit.Item.Type)
	}
	log.Warn().Str("type", kind).Msg("unsupported content type")
	sink.Publish(Frame{Kind: "unsupported", Label: kind, Err: "unsupported content type"})
	countdown(ctx, unit, sink)
}
