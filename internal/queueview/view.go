package queueview

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/trichbarbershop/barber-queue/internal/models"
	"github.com/trichbarbershop/barber-queue/internal/realtime"
)

// Fetcher loads the current entry set, newest first.
type Fetcher func(ctx context.Context) ([]models.BookingEntry, error)

// View is a live-updating, ordered snapshot of the booking queue. It
// is seeded with an initial snapshot, catches up with one fetch after
// subscribing, and then folds change events in delivery order.
//
// The catch-up fetch and the subscription are not coordinated: an
// event racing the fetch may be applied twice, which the reducer makes
// harmless. An event delivered before the subscribe handshake is lost;
// the next full fetch heals that.
type View struct {
	fetch  Fetcher
	broker realtime.Broker
	logger zerolog.Logger

	mu      sync.RWMutex
	entries []models.BookingEntry
	err     error
}

func NewView(
	seed []models.BookingEntry,
	fetch Fetcher,
	broker realtime.Broker,
	logger zerolog.Logger,
) *View {
	entries := make([]models.BookingEntry, len(seed))
	copy(entries, seed)

	return &View{
		fetch:   fetch,
		broker:  broker,
		logger:  logger,
		entries: entries,
	}
}

// Run subscribes, catches up, and consumes events until ctx is
// cancelled. It always releases the subscription on the way out.
func (v *View) Run(ctx context.Context) error {
	sub, err := v.broker.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sub.Close(); err != nil {
			// Last resort: log and move on, never propagate a
			// teardown failure out of Run.
			v.logger.Warn().Err(err).Msg("queue view subscription release failed")
		}
	}()

	v.catchUp(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			v.apply(ev)
		}
	}
}

// catchUp fetches rows created between seeding and subscribing and
// merges them in. A failed fetch keeps the seeded snapshot and records
// the error; the view stays serviceable.
func (v *View) catchUp(ctx context.Context) {
	fresh, err := v.fetch(ctx)
	if err != nil {
		v.logger.Warn().Err(err).Msg("queue view catch-up fetch failed")
		v.mu.Lock()
		v.err = err
		v.mu.Unlock()
		return
	}

	v.mu.Lock()
	v.entries = Merge(v.entries, fresh)
	v.err = nil
	v.mu.Unlock()
}

func (v *View) apply(ev realtime.ChangeEvent) {
	v.mu.Lock()
	v.entries = Apply(v.entries, ev)
	v.mu.Unlock()
}

// Entries returns a copy of the current view.
func (v *View) Entries() []models.BookingEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]models.BookingEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Err reports the last catch-up failure, nil once a fetch succeeds.
func (v *View) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}
