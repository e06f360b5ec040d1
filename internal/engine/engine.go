package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
	"github.com/Nixie-Tech-LLC/stheno/internal/renderer"
)

// State is the player's top-level rendering state. The three non-rotating
// states outrank normal rotation and arm no timers.
type State string

const (
	StateLoading    State = "loading"
	StateNoCampaign State = "no-campaign"
	StateNoMedia    State = "no-media"
	StateRotating   State = "rotating"
)

// Scheduling defaults. Durations are in display seconds.
const (
	defaultItemSeconds = 10
	defaultNewsSeconds = 15
	minNewsSeconds     = 5
	defaultNewsEvery   = 3

	messageSeconds = 10
)

// Snapshot is a read-only copy of what the screen is showing, served to the
// status endpoint and to tests.
type Snapshot struct {
	State       State          `json:"state"`
	Campaign    string         `json:"campaign,omitempty"`
	ItemID      int            `json:"item_id,omitempty"`
	ShowingNews bool           `json:"showing_news"`
	Remaining   int            `json:"remaining"`
	Fading      bool           `json:"fading"`
	Message     string         `json:"message,omitempty"`
	Frame       renderer.Frame `json:"frame"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// RendererSource dispatches content types to renderers; satisfied by
// renderer.Registry.
type RendererSource interface {
	For(t model.ContentType) renderer.Renderer
	News() renderer.Renderer
}

// Options carries the reference data fetched once at process start plus the
// renderer registry. The engine only ever reads this data; a full reload is
// the sole way to pick up console-side changes.
type Options struct {
	Screen    *model.Screen
	Location  *model.Location
	Campaigns []model.Campaign
	Media     []model.MediaItem
	News      []model.NewsItem
	Renderers RendererSource
	Now       func() time.Time
}

type sinkEventKind int

const (
	evFrame sinkEventKind = iota
	evRemaining
	evEnded
)

type sinkEvent struct {
	gen     int
	kind    sinkEventKind
	frame   renderer.Frame
	seconds int
}

// Engine owns the rotation state for one screen process. A single goroutine
// (Run) performs every state mutation; renderers talk back through sinkCh so
// cross-task communication stays serialized.
type Engine struct {
	opts Options
	now  func() time.Time

	// second is the display-second unit. Production leaves it at
	// time.Second; timing tests shrink it.
	second time.Duration

	cur      cursor
	campaign *model.Campaign
	eligible []model.MediaItem

	gen            int
	advanceT       *time.Timer
	fadeT          *time.Timer
	unfadeT        *time.Timer
	msgClearT      *time.Timer
	cancelRenderer context.CancelFunc

	sinkCh   chan sinkEvent
	msgCh    chan string
	reloadCh chan string
	closed   chan struct{}

	mu   sync.RWMutex
	snap Snapshot
}

func New(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	e := &Engine{
		opts:     opts,
		now:      opts.Now,
		second:   time.Second,
		sinkCh:   make(chan sinkEvent, 64),
		msgCh:    make(chan string, 4),
		reloadCh: make(chan string, 1),
		closed:   make(chan struct{}),
	}
	e.setSnapshot(func(s *Snapshot) {
		s.State = StateLoading
		s.Frame = renderer.Frame{Kind: "loading"}
	})
	return e
}

// Run drives rotation until the context is cancelled or a full reload is
// requested, returning the reload reason ("" on cancellation). It must be
// called exactly once per Engine.
func (e *Engine) Run(ctx context.Context) string {
	defer e.teardown()

	now := e.now()
	e.campaign = SelectCampaign(e.opts.Campaigns, e.opts.Screen.ID, now)
	if e.campaign == nil {
		log.Info().Str("screen", e.opts.Screen.Slug).Msg("no governing campaign, awaiting configuration")
		e.setSnapshot(func(s *Snapshot) {
			s.State = StateNoCampaign
			s.Frame = renderer.Frame{Kind: "no-campaign", Title: "Awaiting configuration"}
		})
		return e.idle(ctx)
	}

	e.eligible = EligibleMedia(e.opts.Media, e.campaign.ID, now)
	if len(e.eligible) == 0 {
		log.Info().Str("campaign", e.campaign.Name).Msg("campaign has no eligible media, awaiting content")
		e.setSnapshot(func(s *Snapshot) {
			s.State = StateNoMedia
			s.Campaign = e.campaign.Name
			s.Frame = renderer.Frame{Kind: "no-media", Title: "Awaiting content", Body: e.campaign.Name}
		})
		return e.idle(ctx)
	}

	log.Info().
		Str("campaign", e.campaign.Name).
		Int("eligible", len(e.eligible)).
		Int("news_pool", len(e.opts.News)).
		Msg("rotation starting")
	e.show(ctx)

	for {
		select {
		case <-ctx.Done():
			return ""
		case reason := <-e.reloadCh:
			return reason
		case <-timerC(e.advanceT):
			e.advance(ctx)
		case <-timerC(e.fadeT):
			e.setSnapshot(func(s *Snapshot) { s.Fading = true })
		case <-timerC(e.unfadeT):
			e.unfadeT = nil
			e.setSnapshot(func(s *Snapshot) { s.Fading = false })
		case ev := <-e.sinkCh:
			e.handleSink(ctx, ev)
		case msg := <-e.msgCh:
			e.showMessage(msg)
		case <-timerC(e.msgClearT):
			e.msgClearT = nil
			e.setSnapshot(func(s *Snapshot) { s.Message = "" })
		}
	}
}

// idle services terminal states: no rotation timers run, but remote
// show-message overlays and reload requests are still honored.
func (e *Engine) idle(ctx context.Context) string {
	for {
		select {
		case <-ctx.Done():
			return ""
		case reason := <-e.reloadCh:
			return reason
		case msg := <-e.msgCh:
			e.showMessage(msg)
		case <-timerC(e.msgClearT):
			e.msgClearT = nil
			e.setSnapshot(func(s *Snapshot) { s.Message = "" })
		}
	}
}

// RequestReload asks the host process to tear everything down and re-run the
// initial fetch. Duplicate requests within one cycle collapse into one.
func (e *Engine) RequestReload(reason string) {
	select {
	case e.reloadCh <- reason:
	default:
	}
}

// ShowMessage displays operator-supplied text transiently over whatever is
// currently on screen. Rotation timers are not touched.
func (e *Engine) ShowMessage(text string) {
	select {
	case e.msgCh <- text:
	case <-e.closed:
	}
}

// Snapshot returns a copy of the current display state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

func (e *Engine) advance(ctx context.Context) {
	out := e.cur.Advance(len(e.eligible), len(e.opts.News), e.cadence(), e.newsEnabled())
	if out.wrapped {
		// deliberate periodic state reset, not an error: re-pull fresh
		// schedules and campaigns by reloading the whole process
		log.Info().Str("campaign", e.campaign.Name).Msg("rotation wrapped, scheduling reload")
		e.RequestReload("rotation wrap")
		return
	}
	e.show(ctx)
}

// show swaps the visible unit: cancels the previous unit's timers and
// renderer, then arms the new ones. The cancel-then-arm order guarantees at
// most one pending advance at any time.
func (e *Engine) show(ctx context.Context) {
	e.gen++
	e.disarm()
	if e.cancelRenderer != nil {
		e.cancelRenderer()
		e.cancelRenderer = nil
	}

	unit, rend := e.currentUnit()
	d, timed := e.duration()
	unit.Duration = d
	unit.Timed = timed
	if timed {
		unit.Seconds = int(d / e.second)
	}

	if timed {
		e.advanceT = time.NewTimer(d)
		if lead := e.second / 2; d > lead {
			e.fadeT = time.NewTimer(d - lead)
		}
	}

	wasFading := e.Snapshot().Fading
	e.setSnapshot(func(s *Snapshot) {
		s.State = StateRotating
		s.Campaign = e.campaign.Name
		s.ShowingNews = e.cur.showingNews
		if unit.Item != nil {
			s.ItemID = unit.Item.ID
		} else {
			s.ItemID = 0
		}
		if timed {
			s.Remaining = int(d / e.second)
		} else {
			s.Remaining = 0
		}
	})
	if wasFading {
		// keep the fade up briefly across the swap to hide the repaint
		e.unfadeT = time.NewTimer(e.second / 5)
	}

	rctx, cancel := context.WithCancel(ctx)
	e.cancelRenderer = cancel
	rend.Start(rctx, unit, &engineSink{e: e, gen: e.gen})
}

func (e *Engine) currentUnit() (renderer.Unit, renderer.Renderer) {
	if e.cur.showingNews {
		item := e.opts.News[e.cur.newsIndex%len(e.opts.News)]
		return renderer.Unit{News: &item}, e.opts.Renderers.News()
	}
	item := e.eligible[e.cur.index%len(e.eligible)]
	return renderer.Unit{Item: &item}, e.opts.Renderers.For(item.Type)
}

// duration computes the current unit's display time. Video is untimed: its
// renderer signals completion instead.
func (e *Engine) duration() (time.Duration, bool) {
	if e.cur.showingNews {
		secs := defaultNewsSeconds
		if e.campaign.NewsDuration != nil {
			secs = *e.campaign.NewsDuration
		}
		if secs < minNewsSeconds {
			secs = minNewsSeconds
		}
		return time.Duration(secs) * e.second, true
	}

	item := e.eligible[e.cur.index%len(e.eligible)]
	if item.Type == model.ContentVideo {
		return 0, false
	}
	secs := defaultItemSeconds
	if item.Duration != nil && *item.Duration > 0 {
		secs = *item.Duration
	}
	return time.Duration(secs) * e.second, true
}

func (e *Engine) cadence() int {
	if e.campaign.NewsEvery != nil && *e.campaign.NewsEvery >= 1 {
		return *e.campaign.NewsEvery
	}
	return defaultNewsEvery
}

// newsEnabled resolves the interleave switch: campaign override first, then
// location override, default on.
func (e *Engine) newsEnabled() bool {
	if e.campaign.ShowNews != nil {
		return *e.campaign.ShowNews
	}
	if e.opts.Location != nil && e.opts.Location.ShowNews != nil {
		return *e.opts.Location.ShowNews
	}
	return true
}

func (e *Engine) handleSink(ctx context.Context, ev sinkEvent) {
	if ev.gen != e.gen {
		// stale renderer talking about a unit that was swapped out
		return
	}
	switch ev.kind {
	case evFrame:
		e.setSnapshot(func(s *Snapshot) { s.Frame = ev.frame })
	case evRemaining:
		e.setSnapshot(func(s *Snapshot) { s.Remaining = ev.seconds })
	case evEnded:
		e.advance(ctx)
	}
}

func (e *Engine) showMessage(text string) {
	log.Info().Str("text", text).Msg("showing operator message")
	if e.msgClearT != nil {
		e.msgClearT.Stop()
	}
	e.msgClearT = time.NewTimer(messageSeconds * e.second)
	e.setSnapshot(func(s *Snapshot) { s.Message = text })
}

func (e *Engine) disarm() {
	for _, t := range []*time.Timer{e.advanceT, e.fadeT, e.unfadeT} {
		if t != nil {
			t.Stop()
		}
	}
	e.advanceT, e.fadeT, e.unfadeT = nil, nil, nil
}

func (e *Engine) teardown() {
	e.disarm()
	if e.msgClearT != nil {
		e.msgClearT.Stop()
		e.msgClearT = nil
	}
	if e.cancelRenderer != nil {
		e.cancelRenderer()
		e.cancelRenderer = nil
	}
	close(e.closed)
}

func (e *Engine) setSnapshot(mutate func(*Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	mutate(&e.snap)
	e.snap.UpdatedAt = e.now()
}

// timerC lets the run loop select on a timer that may not be armed: a nil
// timer yields a nil channel, which never fires.
func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// engineSink forwards renderer callbacks into the run loop, tagged with the
// visible-unit generation so late events from a replaced renderer are
// dropped instead of advancing stale content.
type engineSink struct {
	e   *Engine
	gen int
}

func (s *engineSink) Publish(f renderer.Frame) {
	s.send(sinkEvent{gen: s.gen, kind: evFrame, frame: f})
}

func (s *engineSink) ReportTimeRemaining(seconds int) {
	s.send(sinkEvent{gen: s.gen, kind: evRemaining, seconds: seconds})
}

func (s *engineSink) Ended() {
	s.send(sinkEvent{gen: s.gen, kind: evEnded})
}

func (s *engineSink) send(ev sinkEvent) {
	select {
	case s.e.sinkCh <- ev:
	case <-s.e.closed:
	}
}
