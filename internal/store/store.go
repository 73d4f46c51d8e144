package store

import (
	"context"
	"errors"

	"push-notify-go/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Store persists users and their push subscriptions.
type Store interface {
	CreateUser(ctx context.Context, name, email string) (models.User, error)
	GetUser(ctx context.Context, id int) (models.User, error)

	// CreateSubscription returns ErrUserNotFound if userID does not exist.
	// Endpoints are unique: a concurrent insert of the same endpoint yields
	// the already-stored row, never a duplicate.
	CreateSubscription(ctx context.Context, userID int, endpoint, p256dh, auth string) (models.PushSubscription, error)
	GetSubscriptionByEndpoint(ctx context.Context, endpoint string) (models.PushSubscription, error)
	GetUserSubscriptions(ctx context.Context, userID int) ([]models.PushSubscription, error)
	GetAllSubscriptions(ctx context.Context) ([]models.PushSubscription, error)
}
