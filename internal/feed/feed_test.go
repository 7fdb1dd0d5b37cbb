package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testInterval = 3 * time.Second
	testTimeout  = 5 * time.Second
)

type fetchResult struct {
	price float64
	err   error
}

// scriptedSource replays a fixed sequence of fetch results; the last entry
// repeats once the script is exhausted.
type scriptedSource struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
}

func (s *scriptedSource) Latest(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	s.calls++
	r := s.results[idx]
	return r.price, r.err
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// channelSender hands each frame to the test through a channel.
type channelSender struct {
	frames  chan string
	sendErr error
}

func newChannelSender() *channelSender {
	return &channelSender{frames: make(chan string, 16)}
}

func (c *channelSender) SendText(frame string) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.frames <- frame
	return nil
}

func (c *channelSender) next(t *testing.T) string {
	t.Helper()
	select {
	case frame := <-c.frames:
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return ""
	}
}

func startStream(t *testing.T, source *scriptedSource, sender *channelSender, clock clockwork.Clock, tracker *Tracker) (cancel context.CancelFunc, done chan struct{}) {
	t.Helper()

	stream := NewStream(source, tracker, clock, testInterval, testTimeout, nil)

	ctx, cancelFn := context.WithCancel(context.Background())
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		stream.Run(ctx, sender)
	}()

	t.Cleanup(func() {
		cancelFn()
		select {
		case <-doneCh:
		case <-time.After(time.Second):
			t.Error("stream did not stop")
		}
	})

	return cancelFn, doneCh
}

// advance waits for the stream to reach its between-tick sleep, then moves
// the fake clock past one interval.
func advance(t *testing.T, clock *clockwork.FakeClock) {
	t.Helper()
	clock.BlockUntil(1)
	clock.Advance(testInterval)
}

func TestStream_FreshPriceFormattedToTwoDecimals(t *testing.T) {
	source := &scriptedSource{results: []fetchResult{{price: 102.5}}}
	sender := newChannelSender()
	clock := clockwork.NewFakeClock()
	tracker := NewTracker()

	startStream(t, source, sender, clock, tracker)

	assert.Equal(t, "102.50", sender.next(t))

	price, updatedAt, ok := tracker.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 102.5, price)
	assert.Equal(t, clock.Now(), updatedAt)
}

func TestStream_FallbackToLastKnownOnFailure(t *testing.T) {
	source := &scriptedSource{results: []fetchResult{
		{price: 102.5},
		{err: errors.New("upstream down")},
	}}
	sender := newChannelSender()
	clock := clockwork.NewFakeClock()

	startStream(t, source, sender, clock, NewTracker())

	assert.Equal(t, "102.50", sender.next(t))

	advance(t, clock)
	assert.Equal(t, "102.50", sender.next(t))
}

func TestStream_SentinelBeforeFirstPrice(t *testing.T) {
	source := &scriptedSource{results: []fetchResult{{err: errors.New("upstream down")}}}
	sender := newChannelSender()
	clock := clockwork.NewFakeClock()

	startStream(t, source, sender, clock, NewTracker())

	assert.Equal(t, Sentinel, sender.next(t))
}

func TestStream_RecoversAfterInitialFailure(t *testing.T) {
	source := &scriptedSource{results: []fetchResult{
		{err: errors.New("upstream down")},
		{price: 101.239},
	}}
	sender := newChannelSender()
	clock := clockwork.NewFakeClock()

	startStream(t, source, sender, clock, NewTracker())

	assert.Equal(t, Sentinel, sender.next(t))

	advance(t, clock)
	assert.Equal(t, "101.24", sender.next(t))
}

func TestStream_RepeatedIdenticalFetches(t *testing.T) {
	source := &scriptedSource{results: []fetchResult{{price: 88}}}
	sender := newChannelSender()
	clock := clockwork.NewFakeClock()

	startStream(t, source, sender, clock, NewTracker())

	assert.Equal(t, "88.00", sender.next(t))
	for i := 0; i < 3; i++ {
		advance(t, clock)
		assert.Equal(t, "88.00", sender.next(t))
	}
}

func TestStream_TrackerIsNotAFallbackSource(t *testing.T) {
	// Another connection's successful fetch must not leak into this loop's
	// fallback: the tracker feeds the status surface only.
	source := &scriptedSource{results: []fetchResult{{err: errors.New("upstream down")}}}
	sender := newChannelSender()
	clock := clockwork.NewFakeClock()
	tracker := NewTracker()
	tracker.Record(250.0, clock.Now())

	startStream(t, source, sender, clock, tracker)

	assert.Equal(t, Sentinel, sender.next(t))
}

func TestStream_SendFailureEndsLoop(t *testing.T) {
	source := &scriptedSource{results: []fetchResult{{price: 42}}}
	sender := newChannelSender()
	sender.sendErr = errors.New("connection reset")
	clock := clockwork.NewFakeClock()

	_, done := startStream(t, source, sender, clock, NewTracker())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after send failure")
	}
	assert.Equal(t, 1, source.callCount())
}

func TestStream_CancelMidSleepStopsFetching(t *testing.T) {
	source := &scriptedSource{results: []fetchResult{{price: 42}}}
	sender := newChannelSender()
	clock := clockwork.NewFakeClock()

	cancel, done := startStream(t, source, sender, clock, NewTracker())

	assert.Equal(t, "42.00", sender.next(t))

	// Loop is now sleeping between ticks. Disconnect.
	clock.BlockUntil(1)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancellation")
	}

	assert.Equal(t, 1, source.callCount())
	assert.Empty(t, sender.frames)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  string
	}{
		{"whole number", 90, "90.00"},
		{"one fraction digit", 102.5, "102.50"},
		{"rounds half up", 101.239, "101.24"},
		{"large price", 12345.678, "12345.68"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.price))
		})
	}
}

func TestTracker_SnapshotLifecycle(t *testing.T) {
	tracker := NewTracker()

	_, _, ok := tracker.Snapshot()
	assert.False(t, ok)

	at := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	tracker.Record(102.5, at)

	price, updatedAt, ok := tracker.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 102.5, price)
	assert.Equal(t, at, updatedAt)

	tracker.Record(103.1, at.Add(3*time.Second))
	price, updatedAt, ok = tracker.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 103.1, price)
	assert.Equal(t, at.Add(3*time.Second), updatedAt)
}
