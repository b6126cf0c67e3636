package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const replyKeyPrefix = "replies:seen:"

// ReplyDeduplicator remembers inbound message ids so webhook retries and
// queue redeliveries of the same reply are processed once.
type ReplyDeduplicator struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewReplyDeduplicator(client redis.Cmdable, ttl time.Duration) *ReplyDeduplicator {
	return &ReplyDeduplicator{client: client, ttl: ttl}
}

func (d *ReplyDeduplicator) FirstSeen(ctx context.Context, messageID string) (bool, error) {
	return d.client.SetNX(ctx, replyKeyPrefix+messageID, time.Now().Unix(), d.ttl).Result()
}

// Forget releases an id again; used when processing failed and the message
// must be retried.
func (d *ReplyDeduplicator) Forget(ctx context.Context, messageID string) error {
	return d.client.Del(ctx, replyKeyPrefix+messageID).Err()
}
