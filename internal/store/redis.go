package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"push-notify-go/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisStore is an alternative backend for deployments without PostgreSQL.
// Entities are stored as JSON values with INCR-generated ids; the endpoint
// index key doubles as the uniqueness guard.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(opts *redis.Options) *RedisStore {
	rdb := redis.NewClient(opts)
	return &RedisStore{client: rdb}
}

// User methods

func (s *RedisStore) CreateUser(ctx context.Context, name, email string) (models.User, error) {
	id, err := s.client.Incr(ctx, "user:next_id").Result()
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:        int(id),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		return models.User{}, err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf("user:%d", user.ID), data, 0) // No TTL
	pipe.SAdd(ctx, "users", user.ID)
	_, err = pipe.Exec(ctx)

	return user, err
}

func (s *RedisStore) GetUser(ctx context.Context, id int) (models.User, error) {
	val, err := s.client.Get(ctx, fmt.Sprintf("user:%d", id)).Result()
	if err == redis.Nil {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Subscription methods

func (s *RedisStore) CreateSubscription(ctx context.Context, userID int, endpoint, p256dh, auth string) (models.PushSubscription, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return models.PushSubscription{}, err
	}

	id, err := s.client.Incr(ctx, "subscription:next_id").Result()
	if err != nil {
		return models.PushSubscription{}, err
	}

	// SETNX on the endpoint index makes concurrent identical subscribes
	// converge on a single row.
	ok, err := s.client.SetNX(ctx, endpointKey(endpoint), id, 0).Result()
	if err != nil {
		return models.PushSubscription{}, err
	}
	if !ok {
		return s.GetSubscriptionByEndpoint(ctx, endpoint)
	}

	sub := models.PushSubscription{
		ID:        int(id),
		UserID:    userID,
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      auth,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return models.PushSubscription{}, err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf("subscription:%d", sub.ID), data, 0)
	pipe.SAdd(ctx, "subscriptions", sub.ID)
	pipe.SAdd(ctx, fmt.Sprintf("user:%d:subscriptions", userID), sub.ID)
	_, err = pipe.Exec(ctx)

	return sub, err
}

func (s *RedisStore) GetSubscriptionByEndpoint(ctx context.Context, endpoint string) (models.PushSubscription, error) {
	idVal, err := s.client.Get(ctx, endpointKey(endpoint)).Result()
	if err == redis.Nil {
		return models.PushSubscription{}, ErrSubscriptionNotFound
	}
	if err != nil {
		return models.PushSubscription{}, err
	}

	var id int
	fmt.Sscanf(idVal, "%d", &id)
	return s.getSubscription(ctx, id)
}

func (s *RedisStore) GetUserSubscriptions(ctx context.Context, userID int) ([]models.PushSubscription, error) {
	return s.subscriptionsFromSet(ctx, fmt.Sprintf("user:%d:subscriptions", userID))
}

func (s *RedisStore) GetAllSubscriptions(ctx context.Context) ([]models.PushSubscription, error) {
	return s.subscriptionsFromSet(ctx, "subscriptions")
}

func (s *RedisStore) getSubscription(ctx context.Context, id int) (models.PushSubscription, error) {
	val, err := s.client.Get(ctx, fmt.Sprintf("subscription:%d", id)).Result()
	if err == redis.Nil {
		return models.PushSubscription{}, ErrSubscriptionNotFound
	}
	if err != nil {
		return models.PushSubscription{}, err
	}

	var sub models.PushSubscription
	if err := json.Unmarshal([]byte(val), &sub); err != nil {
		return models.PushSubscription{}, err
	}

	return sub, nil
}

func (s *RedisStore) subscriptionsFromSet(ctx context.Context, key string) ([]models.PushSubscription, error) {
	ids, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var subs []models.PushSubscription
	for _, idStr := range ids {
		var id int
		fmt.Sscanf(idStr, "%d", &id)
		if sub, err := s.getSubscription(ctx, id); err == nil {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func endpointKey(endpoint string) string {
	return "subscription:endpoint:" + endpoint
}
