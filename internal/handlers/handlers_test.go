package handlers_test

import (
	"context"
	"errors"
	"time"

	"push-notify-go/internal/models"
	"push-notify-go/internal/push"
	"push-notify-go/internal/store"
)

// fakeStore is an in-memory store.Store used to test handlers without a
// database.
type fakeStore struct {
	users      map[int]models.User
	subs       map[int]models.PushSubscription
	nextUserID int
	nextSubID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int]models.User),
		subs:  make(map[int]models.PushSubscription),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, name, email string) (models.User, error) {
	f.nextUserID++
	user := models.User{
		ID:        f.nextUserID,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) GetUser(_ context.Context, id int) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) CreateSubscription(ctx context.Context, userID int, endpoint, p256dh, auth string) (models.PushSubscription, error) {
	if _, ok := f.users[userID]; !ok {
		return models.PushSubscription{}, store.ErrUserNotFound
	}
	if existing, err := f.GetSubscriptionByEndpoint(ctx, endpoint); err == nil {
		return existing, nil
	}

	f.nextSubID++
	sub := models.PushSubscription{
		ID:        f.nextSubID,
		UserID:    userID,
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      auth,
		CreatedAt: time.Now().UTC(),
	}
	f.subs[sub.ID] = sub
	return sub, nil
}

func (f *fakeStore) GetSubscriptionByEndpoint(_ context.Context, endpoint string) (models.PushSubscription, error) {
	for _, sub := range f.subs {
		if sub.Endpoint == endpoint {
			return sub, nil
		}
	}
	return models.PushSubscription{}, store.ErrSubscriptionNotFound
}

func (f *fakeStore) GetUserSubscriptions(_ context.Context, userID int) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	for _, sub := range f.subs {
		if sub.UserID == userID {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func (f *fakeStore) GetAllSubscriptions(_ context.Context) ([]models.PushSubscription, error) {
	subs := make([]models.PushSubscription, 0, len(f.subs))
	for _, sub := range f.subs {
		subs = append(subs, sub)
	}
	return subs, nil
}

// sentCall records one Send invocation.
type sentCall struct {
	Endpoint string
	Payload  []byte
}

// fakeSender implements push.Sender and can be told to fail for chosen
// endpoints.
type fakeSender struct {
	calls        []sentCall
	failEndpoint map[string]bool
	failAll      bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failEndpoint: make(map[string]bool)}
}

func (f *fakeSender) Send(_ context.Context, sub models.PushSubscription, payload []byte) error {
	f.calls = append(f.calls, sentCall{Endpoint: sub.Endpoint, Payload: payload})
	if f.failAll || f.failEndpoint[sub.Endpoint] {
		return &push.DeliveryError{Endpoint: sub.Endpoint, Err: errors.New("push service returned 410 Gone")}
	}
	return nil
}
