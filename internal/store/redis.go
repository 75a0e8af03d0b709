// internal/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/bramish/pasiva/internal/models"
)

// RedisStore keeps room documents as JSON values and fans writes out over
// pub/sub, one channel per room.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// ConnectRedis initializes a Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() (*redis.Client, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

func roomKey(id string) string     { return "pasiva:rooms:" + id }
func roomChannel(id string) string { return "pasiva:rooms:" + id + ":updates" }

// Create stores the document. Same write path as Set; uniqueness is the
// lifecycle manager's concern via Exists.
func (s *RedisStore) Create(ctx context.Context, id string, doc RoomDoc) error {
	return s.Set(ctx, id, doc)
}

// Exists reports whether the room document is present.
func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, roomKey(id)).Result()
	if err != nil {
		return false, &models.NetworkError{Cause: err}
	}
	return n > 0, nil
}

// Get fetches and decodes the room document.
func (s *RedisStore) Get(ctx context.Context, id string) (RoomDoc, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return RoomDoc{}, notFoundErr(id)
	}
	if err != nil {
		return RoomDoc{}, &models.NetworkError{Cause: err}
	}
	var doc RoomDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return RoomDoc{}, &models.NetworkError{Cause: err}
	}
	return doc, nil
}

// Set replaces the room document and publishes the new state to the room's
// update channel.
func (s *RedisStore) Set(ctx context.Context, id string, doc RoomDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal room doc: %w", err)
	}
	if err := s.client.Set(ctx, roomKey(id), data, 0).Err(); err != nil {
		return &models.NetworkError{Cause: err}
	}
	if err := s.client.Publish(ctx, roomChannel(id), data).Err(); err != nil {
		// Subscribers miss this write but will catch up on the next one.
		log.Warnf("redis store: publish failed for room %s: %v", id, err)
	}
	return nil
}

// Subscribe emits the current state followed by every published write until
// ctx is cancelled. Broken subscriptions deliver a terminal error snapshot;
// reconnection is left to the caller.
func (s *RedisStore) Subscribe(ctx context.Context, id string) (<-chan Snapshot, error) {
	pubsub := s.client.Subscribe(ctx, roomChannel(id))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, &models.NetworkError{Cause: err}
	}

	ch := make(chan Snapshot, 16)

	// Initial snapshot, after the subscription is live so no write is lost
	// between fetch and subscribe.
	doc, err := s.Get(ctx, id)
	switch {
	case err == nil:
		ch <- Snapshot{Doc: &doc, Exists: true}
	case models.IsRoomNotFound(err):
		ch <- Snapshot{Exists: false}
	default:
		pubsub.Close()
		close(ch)
		return nil, err
	}

	go func() {
		defer close(ch)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					ch <- Snapshot{Err: &models.NetworkError{Cause: errors.New("subscription closed")}}
					return
				}
				var doc RoomDoc
				if err := json.Unmarshal([]byte(msg.Payload), &doc); err != nil {
					log.Warnf("redis store: bad payload on %s: %v", msg.Channel, err)
					continue
				}
				select {
				case ch <- Snapshot{Doc: &doc, Exists: true}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
