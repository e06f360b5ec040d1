package renderer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
)

// recordSink collects everything a renderer reports back so tests can assert
// on the shared callback contract.
type recordSink struct {
	mu        sync.Mutex
	frames    []Frame
	remaining []int
	ended     int
}

func (s *recordSink) Publish(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
}

func (s *recordSink) ReportTimeRemaining(seconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = append(s.remaining, seconds)
}

func (s *recordSink) Ended() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended++
}

func (s *recordSink) lastFrame() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

func (s *recordSink) reported() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.remaining...)
}

func (s *recordSink) endedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func mediaItem(t model.ContentType, source string) *model.MediaItem {
	return &model.MediaItem{ID: 1, CampaignID: 5, Type: t, Source: source, Active: true}
}

func timedUnit(item *model.MediaItem, seconds int) Unit {
	return Unit{
		Item:     item,
		Duration: time.Duration(seconds) * 20 * time.Millisecond,
		Seconds:  seconds,
		Timed:    true,
	}
}

func TestCountdownReportsEverySecondDownToZero(t *testing.T) {
	sink := &recordSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	countdown(ctx, timedUnit(nil, 5), sink)

	assert.Eventually(t, func() bool {
		r := sink.reported()
		return len(r) > 0 && r[len(r)-1] == 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{5, 4, 3, 2, 1, 0}, sink.reported(), "first report fires immediately, then one per second")
}

func TestCountdownSilentForUntimedUnits(t *testing.T) {
	sink := &recordSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	countdown(ctx, Unit{Duration: 100 * time.Millisecond, Seconds: 5, Timed: false}, sink)
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, sink.reported())
}

type fakeWeatherSource struct {
	mu    sync.Mutex
	calls int
	w     *model.Weather
	err   error
}

func (f *fakeWeatherSource) Weather(ctx context.Context, city string) (*model.Weather, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.w, f.err
}

func (f *fakeWeatherSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestWeatherRendersFixedDefaultWhenEndpointFails(t *testing.T) {
	source := &fakeWeatherSource{err: errors.New("console unreachable")}
	r := NewWeatherRenderer(source, "Chicago")
	sink := &recordSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Start(ctx, timedUnit(mediaItem(model.ContentWeather, ""), 1), sink)

	assert.Eventually(t, func() bool {
		f, ok := sink.lastFrame()
		return ok && f.Kind == "weather"
	}, 2*time.Second, 5*time.Millisecond)

	f, _ := sink.lastFrame()
	require.NotNil(t, f.Weather)
	assert.Equal(t, fallbackWeather.TempC, f.Weather.TempC)
	assert.Equal(t, fallbackWeather.Condition, f.Weather.Condition)
	assert.Equal(t, "Chicago", f.Weather.City)
}

func TestWeatherCachesAcrossRotations(t *testing.T) {
	source := &fakeWeatherSource{w: &model.Weather{City: "Chicago", TempC: 24, Condition: "Sunny"}}
	r := NewWeatherRenderer(source, "Chicago")
	sink := &recordSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := 0; i < 3; i++ {
		r.Start(ctx, timedUnit(mediaItem(model.ContentWeather, ""), 1), sink)
	}

	assert.Eventually(t, func() bool {
		f, ok := sink.lastFrame()
		return ok && f.Weather != nil && f.Weather.TempC == 24
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, source.callCount(), "within the refresh window only the first rotation fetches")
}

type fakeRatesSource struct {
	rates *model.Rates
	err   error
}

func (f *fakeRatesSource) Rates(ctx context.Context) (*model.Rates, error) {
	return f.rates, f.err
}

func TestCurrencyRendersFixedDefaultWhenEndpointFails(t *testing.T) {
	r := NewCurrencyRenderer(&fakeRatesSource{err: errors.New("console unreachable")})
	sink := &recordSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Start(ctx, timedUnit(mediaItem(model.ContentCurrency, ""), 1), sink)

	assert.Eventually(t, func() bool {
		f, ok := sink.lastFrame()
		return ok && f.Kind == "currency"
	}, 2*time.Second, 5*time.Millisecond)

	f, _ := sink.lastFrame()
	require.NotNil(t, f.Rates)
	assert.Equal(t, "USD", f.Rates.Base)
	assert.Contains(t, f.Rates.Values, "EUR")
}

func TestEmbedURLRewritesShareLinks(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "youtube watch link",
			in:   "https://www.youtube.com/watch?v=abc123",
			want: "https://www.youtube.com/embed/abc123?autoplay=1&mute=1&controls=0",
		},
		{
			name: "youtu.be short link",
			in:   "https://youtu.be/abc123",
			want: "https://www.youtube.com/embed/abc123?autoplay=1&mute=1&controls=0",
		},
		{
			name: "vimeo link",
			in:   "https://vimeo.com/987654",
			want: "https://player.vimeo.com/video/987654?autoplay=1&muted=1",
		},
		{
			name: "already an embed url passes through",
			in:   "https://www.youtube.com/embed/abc123",
			want: "https://www.youtube.com/embed/abc123",
		},
		{
			name: "unknown host passes through",
			in:   "https://media.example.com/player/42",
			want: "https://media.example.com/player/42",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, embedURL(tc.in))
		})
	}
}

func TestStreamPublishesErrorFrameThenRecovers(t *testing.T) {
	var mu sync.Mutex
	healthy := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		ok := healthy
		mu.Unlock()
		if !ok {
			http.Error(w, "stream down", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := &StreamRenderer{HTTP: srv.Client(), ProbeEvery: 20 * time.Millisecond}
	sink := &recordSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Start(ctx, Unit{Item: mediaItem(model.ContentStream, srv.URL)}, sink)

	assert.Eventually(t, func() bool {
		f, ok := sink.lastFrame()
		return ok && f.Kind == "stream" && f.Err == "stream unavailable"
	}, 2*time.Second, 5*time.Millisecond, "down stream renders an inline error frame")

	mu.Lock()
	healthy = true
	mu.Unlock()

	assert.Eventually(t, func() bool {
		f, ok := sink.lastFrame()
		return ok && f.Kind == "stream" && f.Err == ""
	}, 2*time.Second, 5*time.Millisecond, "a recovered stream clears the error frame")
}

func TestUnsupportedPlaceholderStillRunsTheCountdown(t *testing.T) {
	r := &UnsupportedRenderer{}
	sink := &recordSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Start(ctx, timedUnit(mediaItem("hologram", "x"), 2), sink)

	f, ok := sink.lastFrame()
	require.True(t, ok)
	assert.Equal(t, "unsupported", f.Kind)
	assert.Equal(t, "hologram", f.Label)
	assert.NotEmpty(t, f.Err)

	assert.Eventually(t, func() bool {
		rep := sink.reported()
		return len(rep) > 0 && rep[len(rep)-1] == 0
	}, 2*time.Second, 5*time.Millisecond, "rotation must never get stuck on an unknown type")
}

func TestVideoSignalsEndedExactlyOnceEvenOnFailure(t *testing.T) {
	r := &VideoRenderer{Playback: failingPlayback{}}
	sink := &recordSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r.Start(ctx, Unit{Item: mediaItem(model.ContentVideo, "http://example.com/a.mp4")}, sink)

	assert.Eventually(t, func() bool {
		return sink.endedCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	f, ok := sink.lastFrame()
	require.True(t, ok)
	assert.Equal(t, "playback failed", f.Err)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, sink.endedCount())
	assert.Empty(t, sink.reported(), "no 1 Hz reporting for playback-driven content")
}

type failingPlayback struct{}

func (failingPlayback) Play(ctx context.Context, source string) error {
	return errors.New("decoder crashed")
}
