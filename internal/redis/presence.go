package redis

import (
	"context"
	"time"

	"ripple-chat/internal/events"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Presence key layout:
// - presence:online            set of online profile ids
// - presence:connections:{id}  live connection count, expires with the TTL
const (
	presenceOnlineSet     = "presence:online"
	presenceConnKeyPrefix = "presence:connections:"
	defaultPresenceTTL    = 5 * time.Minute
)

// PresenceStore tracks which profiles have live connections. A profile with
// multiple tabs or devices stays online until the last connection drops.
type PresenceStore struct {
	client *goredis.Client
	bus    events.Bus
	ttl    time.Duration
}

func NewPresenceStore(client *goredis.Client, bus events.Bus, ttl time.Duration) *PresenceStore {
	if ttl == 0 {
		ttl = defaultPresenceTTL
	}
	return &PresenceStore{client: client, bus: bus, ttl: ttl}
}

// Connected records one new connection for the profile. The first connection
// flips the profile online and emits a presence event.
func (p *PresenceStore) Connected(ctx context.Context, profileID uuid.UUID) error {
	key := presenceConnKeyPrefix + profileID.String()

	pipe := p.client.Pipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, p.ttl)
	pipe.SAdd(ctx, presenceOnlineSet, profileID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if count.Val() == 1 && p.bus != nil {
		return p.bus.Publish(ctx, events.Envelope{
			Type:       events.TypePresenceOnline,
			ProfileID:  profileID,
			OccurredAt: time.Now(),
		})
	}
	return nil
}

// Disconnected records one closed connection. When the last one drops the
// profile goes offline and a presence event is emitted.
func (p *PresenceStore) Disconnected(ctx context.Context, profileID uuid.UUID) error {
	key := presenceConnKeyPrefix + profileID.String()

	remaining, err := p.client.Decr(ctx, key).Result()
	if err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, presenceOnlineSet, profileID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if p.bus != nil {
		return p.bus.Publish(ctx, events.Envelope{
			Type:       events.TypePresenceOffline,
			ProfileID:  profileID,
			OccurredAt: time.Now(),
		})
	}
	return nil
}

// Heartbeat refreshes the connection TTL so idle profiles stay online.
func (p *PresenceStore) Heartbeat(ctx context.Context, profileID uuid.UUID) error {
	return p.client.Expire(ctx, presenceConnKeyPrefix+profileID.String(), p.ttl).Err()
}

// IsOnline reports whether the profile has at least one live connection.
func (p *PresenceStore) IsOnline(ctx context.Context, profileID uuid.UUID) (bool, error) {
	return p.client.SIsMember(ctx, presenceOnlineSet, profileID.String()).Result()
}

// OnlineProfiles returns every profile id currently online.
func (p *PresenceStore) OnlineProfiles(ctx context.Context) ([]string, error) {
	return p.client.SMembers(ctx, presenceOnlineSet).Result()
}
