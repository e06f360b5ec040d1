package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/stheno/internal/auth"
	"github.com/Nixie-Tech-LLC/stheno/internal/cache"
	"github.com/Nixie-Tech-LLC/stheno/internal/console"
	"github.com/Nixie-Tech-LLC/stheno/internal/control"
	"github.com/Nixie-Tech-LLC/stheno/internal/engine"
	"github.com/Nixie-Tech-LLC/stheno/internal/model"
	"github.com/Nixie-Tech-LLC/stheno/internal/mqttlink"
	"github.com/Nixie-Tech-LLC/stheno/internal/renderer"
	"github.com/Nixie-Tech-LLC/stheno/internal/status"
)

const (
	fetchRetries       = 10
	fetchRetryInterval = 2 * time.Second
	fetchSlowInterval  = time.Minute
)

// player holds the pieces that outlive one engine cycle: reload requests
// coming from the status endpoint or MQTT always target whichever engine is
// currently running.
type player struct {
	engine atomic.Pointer[engine.Engine]
}

func (p *player) requestReload(reason string) {
	if e := p.engine.Load(); e != nil {
		e.RequestReload(reason)
	}
}

func (p *player) snapshot() engine.Snapshot {
	if e := p.engine.Load(); e != nil {
		return e.Snapshot()
	}
	return engine.Snapshot{State: engine.StateLoading}
}

func main() {
	_ = godotenv.Load()
	env := LoadEnvironment()

	if env.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	claims, err := auth.ParseScreenToken(env.ScreenToken)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid screen token")
	}
	if claims.ExpiresSoon(time.Now()) {
		log.Warn().Time("expires_at", claims.ExpiresAt).Msg("screen token expires soon, re-pair this device")
	}
	log.Info().Int("screen_id", claims.ScreenID).Str("slug", claims.Slug).Msg("screen token loaded")

	deviceID, err := ensureDeviceID(env.DeviceIDFile)
	if err != nil {
		log.Fatal().Err(err).Msg("could not establish device identity")
	}

	contentCache := InitCache(env)
	client := console.NewClient(env.APIBaseURL, env.ScreenToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := &player{}

	statusServer := status.NewServer(p.snapshot, p.requestReload)
	go func() {
		if err := statusServer.Router().Run(env.StatusAddress); err != nil {
			log.Error().Err(err).Msg("status server stopped")
		}
	}()

	if env.MQTTBrokerURL != "" {
		link, err := mqttlink.Connect(env.MQTTBrokerURL, deviceID, p.requestReload)
		if err != nil {
			log.Warn().Err(err).Msg("MQTT unavailable, preview refresh will rely on polling")
		} else {
			defer link.Close()
		}
	}

	// the player's whole life is this cycle: fetch once, rotate until a
	// full reload is asked for, then start over with fresh data
	for {
		boot, err := fetchWithRetry(ctx, client)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("bootstrap fetch aborted")
			}
			return
		}

		reason := runCycle(ctx, p, env, boot, client, contentCache, deviceID)
		if reason == "" {
			log.Info().Msg("player shutting down")
			return
		}
		log.Info().Str("reason", reason).Msg("reloading player")
	}
}

// runCycle wires one engine instance plus its control channel, runs it until
// a reload is requested, and tears both down together.
func runCycle(ctx context.Context, p *player, env Environment, boot *console.Bootstrap, client *console.Client, contentCache cache.Cache, deviceID string) string {
	city := env.WeatherCity
	if boot.Location.City != nil {
		city = *boot.Location.City
	}

	registry := renderer.NewRegistry(renderer.Deps{
		Fetcher: cache.NewHTTPFetcher(contentCache),
		Weather: client,
		Rates:   client,
		Playback: &renderer.ExecPlayback{
			Command: env.VideoPlayer,
			Args:    []string{"--play-and-exit", "--fullscreen"},
		},
		City: city,
	})

	eng := engine.New(engine.Options{
		Screen:    &boot.Screen,
		Location:  &boot.Location,
		Campaigns: boot.Campaigns,
		Media:     boot.Media,
		News:      boot.News,
		Renderers: registry,
	})
	p.engine.Store(eng)

	channel := control.NewChannel(client, boot.Screen.Slug, deviceID)
	channel.Handle(model.CommandRefresh, func(_ context.Context, cmd model.Command) error {
		eng.RequestReload("remote refresh")
		return nil
	})
	channel.Handle(model.CommandRestart, func(_ context.Context, cmd model.Command) error {
		eng.RequestReload("remote restart")
		return nil
	})
	channel.Handle(model.CommandShowMessage, func(_ context.Context, cmd model.Command) error {
		eng.ShowMessage(cmd.Payload)
		return nil
	})
	channel.Handle(model.CommandClearCache, func(cctx context.Context, cmd model.Command) error {
		return contentCache.Purge(cctx)
	})

	controlCtx, cancelControl := context.WithCancel(ctx)
	defer cancelControl()
	go channel.Run(controlCtx)

	return eng.Run(ctx)
}

// fetchWithRetry performs the one-time bootstrap load. Connection problems
// get a bounded fast retry, then the player stays in the loading state and
// keeps trying once a minute until the console comes back or we are stopped.
func fetchWithRetry(ctx context.Context, client *console.Client) (*console.Bootstrap, error) {
	interval := fetchRetryInterval
	for attempt := 1; ; attempt++ {
		boot, err := client.FetchBootstrap(ctx)
		if err == nil {
			return boot, nil
		}
		if ctx.Err() != nil {
			return nil, context.Canceled
		}

		if attempt == fetchRetries {
			interval = fetchSlowInterval
			log.Error().Err(err).Int("attempts", attempt).Msg("console unreachable, slowing down bootstrap retries")
		} else {
			log.Error().Err(err).Int("attempt", attempt).Msgf("failed to fetch bootstrap, retrying in %s", interval)
		}

		select {
		case <-ctx.Done():
			return nil, context.Canceled
		case <-time.After(interval):
		}
	}
}

// ensureDeviceID loads the persisted device id, minting one on first boot.
func ensureDeviceID(path string) (string, error) {
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", err
	}
	log.Info().Str("device_id", id).Msg("generated new device id")
	return id, nil
}
