package events

import (
	"context"
	"encoding/json"
	"fmt"

	"ripple-chat/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisBus implements Bus on Redis Pub/Sub. One channel per conversation,
// one per profile; SubscribeAll pattern-subscribes across all of them.
type RedisBus struct {
	client *redis.Client
	log    *logger.Logger
}

func NewRedisBus(client *redis.Client, log *logger.Logger) *RedisBus {
	return &RedisBus{client: client, log: log}
}

func (b *RedisBus) Publish(ctx context.Context, env Envelope) error {
	channels := ResolveChannels(env)
	if len(channels) == 0 {
		return fmt.Errorf("no channel for event type %q", env.Type)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	for _, channel := range channels {
		if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", channel, err)
		}
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string, fn HandlerFunc) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}
	go b.listen(ctx, pubsub, fn)
	return &redisSubscription{pubsub: pubsub}, nil
}

func (b *RedisBus) SubscribeAll(ctx context.Context, fn HandlerFunc) (Subscription, error) {
	pubsub := b.client.PSubscribe(ctx, channelPatternAll)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}
	go b.listen(ctx, pubsub, fn)
	return &redisSubscription{pubsub: pubsub}, nil
}

func (b *RedisBus) listen(ctx context.Context, pubsub *redis.PubSub, fn HandlerFunc) {
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				if b.log != nil {
					b.log.Warnf("dropping malformed feed payload on %s: %v", msg.Channel, err)
				}
				continue
			}
			if err := fn(ctx, env); err != nil {
				if b.log != nil {
					b.log.Warnf("feed handler failed on %s: %v", msg.Channel, err)
				}
			}
		}
	}
}

type redisSubscription struct {
	pubsub *redis.PubSub
}

func (s *redisSubscription) Close() error {
	return s.pubsub.Close()
}
