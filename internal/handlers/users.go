package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"push-notify-go/internal/metrics"
)

// RegisterUserHandler creates a user from {name, email}
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		http.Error(w, "Name and Email are required.", http.StatusBadRequest)
		return
	}

	user, err := h.Store.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	metrics.UsersCreated.Inc()
	writeJSON(w, http.StatusCreated, user)
}
