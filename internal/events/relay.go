package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type envelope struct {
	Origin string `json:"origin"`
	UserID string `json:"user_id"`
	Event  Event  `json:"event"`
}

// RedisRelay is a Bus that mirrors every publish onto a redis pub/sub
// channel so subscribers on other instances receive it too. Each relay
// tags publishes with its instance id and ignores its own echoes.
type RedisRelay struct {
	local      *LocalBus
	rdb        *redis.Client
	channel    string
	instanceID string
	log        *zap.SugaredLogger
}

func NewRedisRelay(local *LocalBus, rdb *redis.Client, prefix string, log *zap.SugaredLogger) *RedisRelay {
	return &RedisRelay{
		local:      local,
		rdb:        rdb,
		channel:    prefix + ":events",
		instanceID: uuid.NewString(),
		log:        log,
	}
}

func (r *RedisRelay) Publish(userID string, ev Event) {
	r.local.Publish(userID, ev)

	b, err := json.Marshal(envelope{Origin: r.instanceID, UserID: userID, Event: ev})
	if err != nil {
		return
	}
	if err := r.rdb.Publish(context.Background(), r.channel, b).Err(); err != nil {
		r.log.Warnw("relay publish failed", "err", err)
	}
}

func (r *RedisRelay) Subscribe(userID string) (<-chan Event, func()) {
	return r.local.Subscribe(userID)
}

// Run consumes the redis channel and replays remote events into the local
// bus. Blocks until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.log.Warnw("relay decode failed", "err", err)
				continue
			}
			if env.Origin == r.instanceID {
				continue
			}
			r.local.Publish(env.UserID, env.Event)
		}
	}
}
