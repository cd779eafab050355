package realtime

import "context"

// Broker fans booking-table change events out to subscribers. One
// publisher (the mutating use cases), many subscribers (SSE clients,
// the server-side queue view).
type Broker interface {
	Publish(ctx context.Context, ev ChangeEvent) error
	Subscribe(ctx context.Context) (Subscription, error)
}

// Subscription is one consumer's event stream. Events are delivered in
// publish order; the channel closes when the subscription is released.
type Subscription interface {
	Events() <-chan ChangeEvent
	Close() error
}
