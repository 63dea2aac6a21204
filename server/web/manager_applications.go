package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/database"
)

type CreateManagerApplicationRequest struct {
	Motivation string `json:"motivation"`
	Experience string `json:"experience"`
}

func (h *handler) CreateManagerApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.GetUser(ctx)

	var rq CreateManagerApplicationRequest
	if err := decode(r, &rq); err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(rq.Motivation) == "" {
		h.message(w, r, http.StatusBadRequest, "Motivation is required")
		return
	}

	application := database.ManagerApplication{
		ID:         uuid.New(),
		UserEmail:  user.Email,
		Motivation: rq.Motivation,
		Experience: rq.Experience,
		Status:     database.ApplicationStatusPending,
		CreatedAt:  time.Now(),
	}

	if err := h.DB.CreateManagerApplication(ctx, application); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.SendNotification(ctx, fmt.Sprintf("New manager application from `%s`", application.UserEmail))

	h.json(w, r, http.StatusCreated, newManagerApplication(application))
}

func (h *handler) GetManagerApplications(w http.ResponseWriter, r *http.Request) {
	applications, err := h.DB.GetManagerApplications(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	out := make([]ManagerApplication, 0, len(applications))
	for _, application := range applications {
		out = append(out, newManagerApplication(application))
	}

	h.json(w, r, http.StatusOK, out)
}

// ApproveManagerApplication decides the application and promotes the
// applicant to manager.
func (h *handler) ApproveManagerApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	application, ok := h.decideManagerApplication(w, r, database.ApplicationStatusApproved)
	if !ok {
		return
	}

	if err := h.DB.UpdateUserRole(ctx, application.UserEmail, database.RoleManager); err != nil {
		h.storeError(w, r, err)
		return
	}

	h.json(w, r, http.StatusOK, newManagerApplication(*application))
}

func (h *handler) RejectManagerApplication(w http.ResponseWriter, r *http.Request) {
	application, ok := h.decideManagerApplication(w, r, database.ApplicationStatusRejected)
	if !ok {
		return
	}

	h.json(w, r, http.StatusOK, newManagerApplication(*application))
}

func (h *handler) decideManagerApplication(w http.ResponseWriter, r *http.Request, status string) (*database.ManagerApplication, bool) {
	ctx := r.Context()

	applicationID, err := uuid.Parse(r.PathValue("application_id"))
	if err != nil {
		h.message(w, r, http.StatusBadRequest, "Invalid application id")
		return nil, false
	}

	application, err := h.DB.DecideManagerApplication(ctx, applicationID, status)
	if err != nil {
		h.storeError(w, r, err)
		return nil, false
	}

	return application, true
}
