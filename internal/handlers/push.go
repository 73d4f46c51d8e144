package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"push-notify-go/internal/metrics"
	"push-notify-go/internal/push"
	"push-notify-go/internal/store"
)

// GetVAPIDKeyHandler returns the public VAPID key the browser needs to
// create its subscription.
func (h *Handler) GetVAPIDKeyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, h.VAPIDPublicKey)
}

// SubscribeHandler saves a push subscription for a user
func (h *Handler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		UserID   int    `json:"userId"`
		Endpoint string `json:"endpoint"`
		P256dh   string `json:"p256dh"`
		Auth     string `json:"auth"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if _, err := h.Store.GetUser(r.Context(), req.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			http.Error(w, "User not found.", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to look up user", http.StatusInternalServerError)
		return
	}

	if _, err := h.Store.GetSubscriptionByEndpoint(r.Context(), req.Endpoint); err == nil {
		fmt.Fprint(w, "Already subscribed.")
		return
	} else if !errors.Is(err, store.ErrSubscriptionNotFound) {
		http.Error(w, "Failed to look up subscription", http.StatusInternalServerError)
		return
	}

	sub, err := h.Store.CreateSubscription(r.Context(), req.UserID, req.Endpoint, req.P256dh, req.Auth)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			http.Error(w, "User not found.", http.StatusNotFound)
			return
		}
		log.Printf("Failed to save subscription: %v", err)
		http.Error(w, "Failed to save subscription", http.StatusInternalServerError)
		return
	}

	metrics.SubscriptionsCreated.Inc()
	writeJSON(w, http.StatusCreated, sub)
}

// SendToUserHandler sends a notification to every subscription of one user.
// Path: /api/push/send/{userId}
func (h *Handler) SendToUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/push/send/")
	userID, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	payload, ok := decodeNotification(w, r)
	if !ok {
		return
	}

	subs, err := h.Store.GetUserSubscriptions(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get subscriptions", http.StatusInternalServerError)
		return
	}
	if len(subs) == 0 {
		http.Error(w, "No subscriptions found for this user.", http.StatusNotFound)
		return
	}

	results := h.deliverAll(r.Context(), subs, payload)
	fmt.Fprintf(w, "%d notifications sent.", len(results))
}

// BroadcastHandler sends a notification to every stored subscription.
func (h *Handler) BroadcastHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload, ok := decodeNotification(w, r)
	if !ok {
		return
	}

	subs, err := h.Store.GetAllSubscriptions(r.Context())
	if err != nil {
		http.Error(w, "Failed to get subscriptions", http.StatusInternalServerError)
		return
	}

	results := h.deliverAll(r.Context(), subs, payload)
	fmt.Fprintf(w, "%d total notifications attempted.", len(results))
}

// decodeNotification reads {title, message} and serializes it once for the
// whole batch. Writes the error response itself on failure.
func decodeNotification(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	var req push.Notification
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return nil, false
	}

	payload, err := req.Bytes()
	if err != nil {
		http.Error(w, "Invalid payload", http.StatusInternalServerError)
		return nil, false
	}
	return payload, true
}
