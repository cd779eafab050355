package realtime

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/trichbarbershop/barber-queue/internal/metrics"
)

// Channel carrying booking-table change events.
const redisChannel = "booking_entries:changes"

// RedisBroker fans events out through redis pub/sub so every API
// process sees changes committed by any of them.
type RedisBroker struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisBroker(redisURL string, logger zerolog.Logger) (*RedisBroker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	return &RedisBroker{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

// NewRedisBrokerWithClient is used by tests to inject a client bound
// to a fake server.
func NewRedisBrokerWithClient(client *redis.Client, logger zerolog.Logger) *RedisBroker {
	return &RedisBroker{client: client, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, ev ChangeEvent) error {
	payload, err := ev.Marshal()
	if err != nil {
		return err
	}
	metrics.IncChangeEvent(string(ev.Type))
	return b.client.Publish(ctx, redisChannel, payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, redisChannel)

	// Wait for the subscription handshake so callers know delivery has
	// started once Subscribe returns.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan ChangeEvent, subscriberBuffer),
	}

	go func() {
		defer close(sub.ch)
		for msg := range pubsub.Channel() {
			ev, err := UnmarshalEvent([]byte(msg.Payload))
			if err != nil {
				b.logger.Warn().Err(err).Msg("dropping malformed change event")
				continue
			}
			select {
			case sub.ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

type redisSubscription struct {
	pubsub *redis.PubSub
	ch     chan ChangeEvent
	once   sync.Once
	err    error
}

func (s *redisSubscription) Events() <-chan ChangeEvent {
	return s.ch
}

// Close releases the subscription. If the graceful unsubscribe fails
// the connection is torn down directly; either way nothing dangles.
func (s *redisSubscription) Close() error {
	s.once.Do(func() {
		if err := s.pubsub.Unsubscribe(context.Background(), redisChannel); err != nil {
			s.err = s.pubsub.Close()
			return
		}
		s.err = s.pubsub.Close()
	})
	return s.err
}
