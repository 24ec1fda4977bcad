package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisSessionPrefix = "homeforge:session:"
	redisUserPrefix    = "homeforge:user_sessions:"
)

// RedisStore keeps each session under a key that expires with it, plus a per-user
// set so every session of a user can be revoked at once.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error) {
	sess := &Session{ID: uuid.NewString(), UserID: userID, ExpiresAt: time.Now().Add(ttl)}
	userKey := redisUserPrefix + userID
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisSessionPrefix+sess.ID, userID, ttl)
		pipe.SAdd(ctx, userKey, sess.ID)
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	key := redisSessionPrefix + id
	userID, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, UserID: userID, ExpiresAt: time.Now().Add(ttl)}, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	key := redisSessionPrefix + id
	userID, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, redisUserPrefix+userID, id)
		return nil
	})
	return err
}

func (s *RedisStore) DeleteUser(ctx context.Context, userID string) error {
	userKey := redisUserPrefix + userID
	ids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, redisSessionPrefix+id)
	}
	keys = append(keys, userKey)
	return s.client.Del(ctx, keys...).Err()
}
