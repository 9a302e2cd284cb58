package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a client; no connection is made until first use.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisNotifier publishes and subscribes to plan events over a redis
// pub/sub channel.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisNotifier(rdb *redis.Client, channel string, logger *slog.Logger) *RedisNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisNotifier{rdb: rdb, channel: channel, logger: logger}
}

func (n *RedisNotifier) Ping(ctx context.Context) error {
	if err := n.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}

func (n *RedisNotifier) Publish(ctx context.Context, e PlanEvent) error {
	data, err := e.Encode()
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, n.channel, data).Err(); err != nil {
		return fmt.Errorf("publishing %s to %s: %w", e.Kind, n.channel, err)
	}
	return nil
}

func (n *RedisNotifier) Subscribe(ctx context.Context) (<-chan PlanEvent, func() error, error) {
	ps := n.rdb.Subscribe(ctx, n.channel)
	// Receive blocks until the subscription is confirmed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribing to %s: %w", n.channel, err)
	}

	out := make(chan PlanEvent)
	done := make(chan struct{})
	stop := sync.OnceValue(func() error {
		close(done)
		return ps.Close()
	})
	msgs := ps.Channel()
	go func() {
		defer close(out)
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				e, err := DecodePlanEvent([]byte(msg.Payload))
				if err != nil {
					n.logger.Warn("dropping malformed plan event", "channel", n.channel, "error", err)
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()
	return out, stop, nil
}
