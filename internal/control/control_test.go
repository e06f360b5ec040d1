package control

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/stheno/internal/model"
)

type fakeAPI struct {
	mu         sync.Mutex
	heartbeats int
	polls      int
	pending    []model.Command
	acks       []model.CommandResult
	beatErr    error
	pollErr    error
}

func (f *fakeAPI) Heartbeat(ctx context.Context, slug, deviceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heartbeats++
	return f.beatErr
}

func (f *fakeAPI) PendingCommands(ctx context.Context, slug string) ([]model.Command, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	cmds := f.pending
	f.pending = nil
	return cmds, nil
}

func (f *fakeAPI) AckCommand(ctx context.Context, result model.CommandResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acks = append(f.acks, result)
	return nil
}

func (f *fakeAPI) snapshot() ([]model.CommandResult, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.CommandResult(nil), f.acks...), f.heartbeats, f.polls
}

func TestDispatchUnknownTypeIsExecutedNoOp(t *testing.T) {
	c := NewChannel(&fakeAPI{}, "lobby-1", "device-1")
	res := c.Dispatch(context.Background(), model.Command{ID: 9, Type: "reboot-the-building"})
	assert.Equal(t, model.CommandExecuted, res.Status)
	assert.Empty(t, res.ErrorMessage)
}

func TestDispatchFailureReportsError(t *testing.T) {
	c := NewChannel(&fakeAPI{}, "lobby-1", "device-1")
	c.Handle(model.CommandClearCache, func(ctx context.Context, cmd model.Command) error {
		return errors.New("cache directory locked")
	})
	res := c.Dispatch(context.Background(), model.Command{ID: 3, Type: model.CommandClearCache})
	assert.Equal(t, model.CommandFailed, res.Status)
	assert.Equal(t, "cache directory locked", res.ErrorMessage)
}

func TestPollExecutesInOrderAndAcksExactlyOnce(t *testing.T) {
	api := &fakeAPI{pending: []model.Command{
		{ID: 1, Type: model.CommandShowMessage, Payload: "a"},
		{ID: 2, Type: "unknown-type"},
		{ID: 3, Type: model.CommandClearCache},
	}}
	c := NewChannel(api, "lobby-1", "device-1")

	var order []int
	c.Handle(model.CommandShowMessage, func(ctx context.Context, cmd model.Command) error {
		order = append(order, cmd.ID)
		return nil
	})
	c.Handle(model.CommandClearCache, func(ctx context.Context, cmd model.Command) error {
		order = append(order, cmd.ID)
		return errors.New("boom")
	})

	c.pollOnce(context.Background())

	assert.Equal(t, []int{1, 3}, order)
	acks, _, _ := api.snapshot()
	require.Len(t, acks, 3, "every command acked exactly once, unknown included")
	assert.Equal(t, model.CommandExecuted, acks[0].Status)
	assert.Equal(t, model.CommandExecuted, acks[1].Status)
	assert.Equal(t, model.CommandFailed, acks[2].Status)
	assert.Equal(t, "boom", acks[2].ErrorMessage)
}

func TestRunFiresBothTasksImmediatelyAndSurvivesErrors(t *testing.T) {
	api := &fakeAPI{beatErr: errors.New("offline"), pollErr: errors.New("offline")}
	c := NewChannel(api, "lobby-1", "device-1")
	c.livenessEvery = 20 * time.Millisecond
	c.pollEvery = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, beats, polls := api.snapshot()
		return beats >= 2 && polls >= 2
	}, 2*time.Second, 10*time.Millisecond, "network failures must not stop either loop")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
