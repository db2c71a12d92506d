package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "todo:session:"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis backed session store.
func NewRedisStore(addr, password string, db int) (Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &redisStore{client: client}, nil
}

func (s *redisStore) Put(ctx context.Context, ref string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, redisKeyPrefix+ref, strconv.FormatInt(userID, 10), ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, ref string) (int64, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+ref).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrUnauthenticated
		}
		return 0, err
	}
	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// Corrupt entry; treat as no session.
		return 0, ErrUnauthenticated
	}
	return userID, nil
}

func (s *redisStore) Delete(ctx context.Context, ref string) error {
	return s.client.Del(ctx, redisKeyPrefix+ref).Err()
}
