package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/trichbarbershop/barber-queue/internal/metrics"
)

const subscriberBuffer = 64

// MemoryBroker is the in-process broker used when no redis is
// configured. Single-process only.
type MemoryBroker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*memorySubscription
	logger zerolog.Logger
}

func NewMemoryBroker(logger zerolog.Logger) *MemoryBroker {
	return &MemoryBroker{
		subs:   make(map[int]*memorySubscription),
		logger: logger,
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, ev ChangeEvent) error {
	metrics.IncChangeEvent(string(ev.Type))

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			// Slow consumer: drop rather than block the publisher.
			b.logger.Warn().
				Str("event", string(ev.Type)).
				Str("entry_id", ev.EntryID()).
				Msg("subscriber buffer full, dropping event")
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &memorySubscription{
		id:     b.nextID,
		ch:     make(chan ChangeEvent, subscriberBuffer),
		broker: b,
	}
	b.subs[sub.id] = sub
	return sub, nil
}

func (b *MemoryBroker) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.ch)
	}
}

type memorySubscription struct {
	id     int
	ch     chan ChangeEvent
	broker *MemoryBroker
	once   sync.Once
}

func (s *memorySubscription) Events() <-chan ChangeEvent {
	return s.ch
}

func (s *memorySubscription) Close() error {
	s.once.Do(func() {
		s.broker.remove(s.id)
	})
	return nil
}
