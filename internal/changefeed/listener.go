package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"reqwire/internal/domain/models"
)

// Listener owns a dedicated connection running LISTEN on the change-feed
// channel and forwards every notification to the broker. One listener per
// process; the notify triggers installed by the migrations publish all
// table changes on a single channel.
type Listener struct {
	pool    *pgxpool.Pool
	channel string
	broker  *Broker
	logger  *slog.Logger
}

// NewListener creates a listener for the named notify channel
func NewListener(pool *pgxpool.Pool, channel string, broker *Broker, logger *slog.Logger) *Listener {
	return &Listener{
		pool:    pool,
		channel: channel,
		broker:  broker,
		logger:  logger,
	}
}

// Run blocks consuming notifications until the context is cancelled or the
// connection drops. On any exit the broker is closed so every subscriber
// observes the closed stream; there is no automatic reconnect and missed
// events are not replayed.
func (l *Listener) Run(ctx context.Context) error {
	// Broker teardown on every exit path, including panics in decode.
	defer l.broker.Close()

	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+l.channel); err != nil {
		return fmt.Errorf("listen on %s: %w", l.channel, err)
	}

	l.logger.Info("change feed listening", "channel", l.channel)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("change feed connection lost: %w", err)
		}

		var ev models.ChangeEvent
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			l.logger.Error("malformed change feed payload",
				"error", err,
				"channel", l.channel,
			)
			continue
		}

		l.broker.Publish(ev)
	}
}
