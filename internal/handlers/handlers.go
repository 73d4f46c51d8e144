package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"push-notify-go/internal/metrics"
	"push-notify-go/internal/models"
	"push-notify-go/internal/push"
	"push-notify-go/internal/store"
)

type Handler struct {
	Store          store.Store
	Sender         push.Sender
	VAPIDPublicKey string
}

func NewHandler(s store.Store, sender push.Sender, vapidPublicKey string) *Handler {
	return &Handler{
		Store:          s,
		Sender:         sender,
		VAPIDPublicKey: vapidPublicKey,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// deliveryResult records the outcome of one delivery attempt. The HTTP
// response only reports the attempted count; failures stay in the log and
// the failure counter.
type deliveryResult struct {
	Endpoint string
	Err      error
}

// deliverAll sends one payload to every subscription. A failed endpoint is
// logged and the loop continues; the request never fails because of it.
func (h *Handler) deliverAll(ctx context.Context, subs []models.PushSubscription, payload []byte) []deliveryResult {
	results := make([]deliveryResult, 0, len(subs))
	for _, sub := range subs {
		err := h.Sender.Send(ctx, sub, payload)
		if err != nil {
			log.Printf("Failed to send push to %s: %v", sub.Endpoint, err)
			metrics.Deliveries.WithLabelValues("error").Inc()
		} else {
			metrics.Deliveries.WithLabelValues("ok").Inc()
		}
		results = append(results, deliveryResult{Endpoint: sub.Endpoint, Err: err})
	}
	return results
}
