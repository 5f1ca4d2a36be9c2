package sse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher fans a change out to every open view.
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// LocalPublisher delivers straight to the in-process hub.
type LocalPublisher struct {
	hub *Hub
}

func NewLocalPublisher(hub *Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) Publish(_ context.Context, ev ChangeEvent) error {
	p.hub.deliver(ev)
	return nil
}

// DefaultChannel is the redis channel carrying change events.
const DefaultChannel = "dmc-erp:changes"

// RedisRelay publishes changes on a redis channel and relays everything
// received on it to the local hub, so every instance sees every change.
type RedisRelay struct {
	client  *redis.Client
	hub     *Hub
	channel string
	logger  *zap.Logger
}

func NewRedisRelay(client *redis.Client, hub *Hub, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		hub:     hub,
		channel: DefaultChannel,
		logger:  logger.Named("sse-relay"),
	}
}

func (r *RedisRelay) Publish(ctx context.Context, ev ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// Run subscribes until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.logger.Info("relay subscribed", zap.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				r.logger.Warn("drop malformed change event", zap.Error(err))
				continue
			}
			r.hub.deliver(ev)
		}
	}
}
