package feed

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Rathna12Thyagu/stake-tracker/internal/metrics"
	"github.com/Rathna12Thyagu/stake-tracker/internal/quote"
)

// Sentinel is pushed when a fetch fails before any price has been seen.
const Sentinel = "0.00"

// Sender delivers one text frame to a client. A returned error means the
// connection is dead and the loop must stop.
type Sender interface {
	SendText(frame string) error
}

// Stream runs the poll-and-push loop for a single client connection.
// Each connection gets its own Stream with its own last-known price, so
// concurrent clients never share fallback state.
type Stream struct {
	source       quote.Source
	tracker      *Tracker
	clock        clockwork.Clock
	interval     time.Duration
	fetchTimeout time.Duration
	log          *slog.Logger
}

// NewStream creates a feed stream. tracker may be nil when no status surface
// needs feeding.
func NewStream(source quote.Source, tracker *Tracker, clock clockwork.Clock, interval, fetchTimeout time.Duration, log *slog.Logger) *Stream {
	if log == nil {
		log = slog.Default()
	}
	return &Stream{
		source:       source,
		tracker:      tracker,
		clock:        clock,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		log:          log,
	}
}

// Run executes the loop until ctx is cancelled or a send fails. The first
// tick runs immediately; afterwards the loop sleeps for the configured
// interval between ticks. Fetch failures are absorbed: the client receives
// the last known price, or the sentinel before any price has been seen.
func (s *Stream) Run(ctx context.Context, send Sender) {
	var (
		lastKnown float64
		hasLast   bool
	)

	for {
		if ctx.Err() != nil {
			return
		}

		price, err := s.fetch(ctx)
		if ctx.Err() != nil {
			// Client went away mid-fetch; nothing left to push.
			return
		}

		var frame, outcome string
		if err == nil {
			lastKnown, hasLast = price, true
			if s.tracker != nil {
				s.tracker.Record(price, s.clock.Now())
			}
			frame, outcome = FormatPrice(price), "fresh"
		} else {
			s.log.Warn("Quote fetch failed", "error", err)
			if hasLast {
				frame, outcome = FormatPrice(lastKnown), "fallback"
			} else {
				frame, outcome = Sentinel, "sentinel"
			}
		}
		metrics.FeedTicksTotal.WithLabelValues(outcome).Inc()

		if err := send.SendText(frame); err != nil {
			metrics.FeedSendFailuresTotal.Inc()
			s.log.Info("Frame send failed, ending feed", "error", err)
			return
		}
		s.log.Debug("Sent price frame", "frame", frame, "outcome", outcome)

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.interval):
		}
	}
}

// fetch runs one bounded adapter call. A timeout presents as an ordinary
// fetch failure, so a hung upstream never blocks the tick past fetchTimeout.
func (s *Stream) fetch(ctx context.Context) (float64, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	return s.source.Latest(fetchCtx)
}

// FormatPrice renders a price as a decimal string with two fraction digits,
// the wire format for every pushed frame.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}
