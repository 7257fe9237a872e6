// Package changefeed delivers row-level change events from the store's
// native change feed (Postgres LISTEN/NOTIFY) to in-process subscribers.
//
// Events for one table arrive in the order the feed emits them; there is no
// cross-table ordering guarantee and no replay after a gap. A dropped feed
// connection closes every subscriber channel rather than reconnecting -
// callers observe the closure and re-subscribe if they want to continue.
package changefeed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"reqwire/internal/domain/models"
)

// subscriberBuffer is the per-subscriber event buffer. A subscriber that
// falls this far behind starts losing events (logged); the feed offers no
// catch-up protocol, so blocking the feed on one slow consumer would be
// worse than dropping.
const subscriberBuffer = 64

// Filter restricts a subscription to rows whose column equals the given
// value, compared against the raw row JSON. A nil *Filter matches all rows
// of the table.
type Filter struct {
	Column string
	Value  string
}

// matches reports whether the event's row payload satisfies the filter.
// DELETE events are matched against the old row, everything else against
// the new row.
func (f *Filter) matches(ev models.ChangeEvent) bool {
	if f == nil {
		return true
	}

	raw := ev.New
	if ev.EventType == models.ChangeDelete {
		raw = ev.Old
	}
	if len(raw) == 0 {
		return false
	}

	var row map[string]interface{}
	if err := json.Unmarshal(raw, &row); err != nil {
		return false
	}

	v, ok := row[f.Column]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == f.Value
}

type subscriber struct {
	table  string
	filter *Filter
	ch     chan models.ChangeEvent
}

// Subscription is one registered listener on the feed. Events arrive on C;
// the channel closes when the subscription is torn down or the underlying
// feed drops.
type Subscription struct {
	C <-chan models.ChangeEvent

	once   sync.Once
	cancel func()
}

// Unsubscribe deregisters the subscription and closes C. Safe to call more
// than once and safe to call concurrently with event delivery.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// Broker fans change events out to subscribers registered per table and
// optional filter.
type Broker struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
	closed bool
	logger *slog.Logger
}

// NewBroker creates an empty broker
func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		subs:   make(map[uint64]*subscriber),
		logger: logger,
	}
}

// Subscribe registers a listener for one table, optionally narrowed by an
// equality filter. The caller must arrange Unsubscribe on every exit path;
// leaking a subscription leaks its registration until the broker closes.
func (b *Broker) Subscribe(table string, filter *Filter) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan models.ChangeEvent, subscriberBuffer)

	if b.closed {
		close(ch)
		return &Subscription{C: ch, cancel: func() {}}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = &subscriber{table: table, filter: filter, ch: ch}

	return &Subscription{
		C: ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub.ch)
			}
		},
	}
}

// Publish delivers one event to every matching subscriber. Delivery is
// non-blocking: a full subscriber buffer drops the event for that
// subscriber only.
func (b *Broker) Publish(ev models.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if sub.table != ev.Table || !sub.filter.matches(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			b.logger.Warn("change event dropped for slow subscriber",
				"table", ev.Table,
				"event_type", ev.EventType,
			)
		}
	}
}

// Close tears the broker down, closing every subscriber channel. Called
// when the underlying feed connection is lost or the server shuts down.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}
