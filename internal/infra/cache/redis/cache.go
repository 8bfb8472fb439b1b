// Package rediscache keeps the post listing, rate-limit counters and the change
// channel in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"
)

// RedisCache implements repository.ListingCache on top of a Redis client.
type RedisCache struct {
	client     *redis.Client
	keyPrefix  string
	listingTTL time.Duration
}

// NewRedisCache creates a RedisCache. A listingTTL of zero keeps the listing
// until the next mutation evicts it.
func NewRedisCache(client *redis.Client, keyPrefix string, listingTTL time.Duration) *RedisCache {
	if client == nil {
		panic("redis client cannot be nil for RedisCache")
	}
	if keyPrefix == "" {
		keyPrefix = "catalog:"
	}
	return &RedisCache{client: client, keyPrefix: keyPrefix, listingTTL: listingTTL}
}

func (r *RedisCache) listingKey() string {
	return r.keyPrefix + "posts:listing"
}

// ChangesChannel is the pub/sub channel carrying ChangeEvents.
func (r *RedisCache) ChangesChannel() string {
	return r.keyPrefix + "posts:changes"
}

func (r *RedisCache) rateLimitKey(client string) string {
	return fmt.Sprintf("%sratelimit:%s", r.keyPrefix, client)
}

// GetListing returns repository.ErrCacheMiss when no listing is stored.
func (r *RedisCache) GetListing(ctx context.Context) ([]domain.Post, error) {
	key := r.listingKey()
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis: failed to get listing from %s: %w", key, err)
	}
	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("redis: failed to unmarshal listing from %s: %w", key, err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (r *RedisCache) SetListing(ctx context.Context, posts []domain.Post) error {
	key := r.listingKey()
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("redis: failed to marshal listing (%d posts): %w", len(posts), err)
	}
	if err := r.client.Set(ctx, key, raw, r.listingTTL).Err(); err != nil {
		return fmt.Errorf("redis: failed to set listing on %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) InvalidateListing(ctx context.Context) error {
	key := r.listingKey()
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete listing %s: %w", key, err)
	}
	return nil
}

// CheckRateLimit counts a request from client within window and reports
// whether limit is exceeded.
func (r *RedisCache) CheckRateLimit(ctx context.Context, client string, limit int, window time.Duration) (bool, error) {
	key := r.rateLimitKey(client)
	pipe := r.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis: pipeline failed for rate limit check on key %s: %w", key, err)
	}
	count, err := incrCmd.Result()
	if err != nil {
		return false, fmt.Errorf("redis: failed to get incr result for rate limit on key %s: %w", key, err)
	}
	return count > int64(limit), nil
}

// PublishChange fans event out to every process subscribed to ChangesChannel.
func (r *RedisCache) PublishChange(ctx context.Context, event domain.ChangeEvent) error {
	channel := r.ChangesChannel()
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: failed to marshal change event for post %d: %w", event.PostID, err)
	}
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"channel": channel,
			"post_id": event.PostID,
			"kind":    event.Kind,
		}).WithError(err).Error("Redis Publish failed")
		return fmt.Errorf("redis: failed to publish change to channel %s: %w", channel, err)
	}
	return nil
}

// SubscribeChanges delivers decoded events to handle until ctx is cancelled.
// Undecodable messages are logged and skipped.
func (r *RedisCache) SubscribeChanges(ctx context.Context, handle func(domain.ChangeEvent)) error {
	channel := r.ChangesChannel()
	pubsub := r.client.Subscribe(ctx, channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis: failed to subscribe to %s: %w", channel, err)
	}
	logrus.WithField("channel", channel).Info("Subscribed to change channel")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event domain.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logrus.WithError(err).WithField("channel", channel).Warn("Discarding malformed change event")
				continue
			}
			handle(event)
		}
	}
}
