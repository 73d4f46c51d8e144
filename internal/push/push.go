// Package push delivers Web Push notifications over VAPID.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"push-notify-go/internal/models"

	"github.com/SherClockHolmes/webpush-go"
)

const deliveryTimeout = 10 * time.Second

// Notification is the payload the service worker displays verbatim.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (n Notification) Bytes() ([]byte, error) {
	return json.Marshal(n)
}

// DeliveryError is a per-endpoint transport failure. It is logged by the
// caller and never aborts the rest of a batch.
type DeliveryError struct {
	Endpoint string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("push delivery to %s failed: %v", e.Endpoint, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Sender delivers one payload to one subscription endpoint.
type Sender interface {
	Send(ctx context.Context, sub models.PushSubscription, payload []byte) error
}

// WebPushSender sends notifications through the browser push services
// using the configured VAPID credentials.
type WebPushSender struct {
	config Config
	client *http.Client
}

func NewWebPushSender(cfg Config) *WebPushSender {
	return &WebPushSender{
		config: cfg,
		client: &http.Client{Timeout: deliveryTimeout},
	}
}

func (s *WebPushSender) Send(ctx context.Context, sub models.PushSubscription, payload []byte) error {
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, target, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.config.Subject,
		VAPIDPublicKey:  s.config.PublicKey,
		VAPIDPrivateKey: s.config.PrivateKey,
		TTL:             s.config.TTL,
	})
	if err != nil {
		return &DeliveryError{Endpoint: sub.Endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &DeliveryError{Endpoint: sub.Endpoint, Err: fmt.Errorf("push service returned %s", resp.Status)}
	}

	return nil
}
