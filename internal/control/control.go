package control

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
)

const (
	livenessEvery = 15 * time.Second
	pollEvery     = 10 * time.Second
)

// API is the console surface the control channel needs; satisfied by
// console.Client.
type API interface {
	Heartbeat(ctx context.Context, slug, deviceID string) error
	PendingCommands(ctx context.Context, slug string) ([]model.Command, error)
	AckCommand(ctx context.Context, result model.CommandResult) error
}

// Handler executes one remote command type.
type Handler func(ctx context.Context, cmd model.Command) error

// Channel runs the two periodic remote-control tasks: liveness signaling and
// command polling. Both tolerate the console being unreachable — failures
// are logged and retried on the next tick, never escalated — and neither is
// coupled to the rotation timers.
type Channel struct {
	api      API
	slug     string
	deviceID string

	livenessEvery time.Duration
	pollEvery     time.Duration

	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewChannel(a API, slug, deviceID string) *Channel {
	return &Channel{
		api:           a,
		slug:          slug,
		deviceID:      deviceID,
		livenessEvery: livenessEvery,
		pollEvery:     pollEvery,
		handlers:      make(map[string]Handler),
	}
}

// Handle registers the handler for a command type. The handler table is open
// for new types; anything unregistered is acknowledged as a logged no-op.
func (c *Channel) Handle(cmdType string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[cmdType] = h
}

// Run drives both tasks until ctx is cancelled. Each fires once immediately
// at startup, then on its own interval.
func (c *Channel) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.loop(ctx, c.livenessEvery, c.beat)
	}()
	go func() {
		defer wg.Done()
		c.loop(ctx, c.pollEvery, c.pollOnce)
	}()
	wg.Wait()
}

func (c *Channel) loop(ctx context.Context, every time.Duration, task func(context.Context)) {
	task(ctx)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			task(ctx)
		}
	}
}

func (c *Channel) beat(ctx context.Context) {
	if err := c.api.Heartbeat(ctx, c.slug, c.deviceID); err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Str("screen", c.slug).Msg("heartbeat failed, retrying next tick")
	}
}

// pollOnce pulls pending commands and executes them synchronously in arrival
// order. Every command gets exactly one acknowledgement, even when execution
// fails, so the console never redelivers it forever.
func (c *Channel) pollOnce(ctx context.Context) {
	cmds, err := c.api.PendingCommands(ctx, c.slug)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Str("screen", c.slug).Msg("command poll failed, retrying next tick")
		}
		return
	}
	for _, cmd := range cmds {
		result := c.Dispatch(ctx, cmd)
		if err := c.api.AckCommand(ctx, result); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Int("command", cmd.ID).Msg("command ack failed")
		}
	}
}

// Dispatch executes one command through the handler table and builds its
// result. Unknown types are a logged no-op reported as executed.
func (c *Channel) Dispatch(ctx context.Context, cmd model.Command) model.CommandResult {
	c.mu.RLock()
	h, ok := c.handlers[cmd.Type]
	c.mu.RUnlock()

	if !ok {
		log.Warn().Str("type", cmd.Type).Int("command", cmd.ID).Msg("unsupported command type, ignoring")
		return model.CommandResult{CommandID: cmd.ID, Status: model.CommandExecuted}
	}

	log.Info().Str("type", cmd.Type).Int("command", cmd.ID).Msg("executing command")
	if err := h(ctx, cmd); err != nil {
		log.Error().Err(err).Str("type", cmd.Type).Int("command", cmd.ID).Msg("command failed")
		return model.CommandResult{CommandID: cmd.ID, Status: model.CommandFailed, ErrorMessage: err.Error()}
	}
	return model.CommandResult{CommandID: cmd.ID, Status: model.CommandExecuted}
}
