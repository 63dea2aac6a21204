package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clubsphere/clubsphere/server/database"
)

type CreateContactMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *handler) CreateContactMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var rq CreateContactMessageRequest
	if err := decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if rq.Email == "" || strings.TrimSpace(rq.Message) == "" {
		h.message(w, r, http.StatusBadRequest, "Email and message are required")
		return
	}

	message := database.ContactMessage{
		ID:        uuid.New(),
		Name:      rq.Name,
		Email:     rq.Email,
		Subject:   rq.Subject,
		Message:   rq.Message,
		CreatedAt: time.Now(),
	}

	if err := h.DB.InsertContactMessage(ctx, message); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.SendNotification(ctx, fmt.Sprintf("New contact message from `%s`: %s", message.Email, message.Subject))

	h.json(w, r, http.StatusCreated, newContactMessage(message))
}

func (h *handler) GetContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.DB.GetContactMessages(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	out := make([]ContactMessage, 0, len(messages))
	for _, message := range messages {
		out = append(out, newContactMessage(message))
	}

	h.json(w, r, http.StatusOK, out)
}
