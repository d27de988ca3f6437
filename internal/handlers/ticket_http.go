package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"agencydesk/internal/middleware"
	"agencydesk/internal/models"
	"agencydesk/internal/repository"
	"agencydesk/internal/service"
	"agencydesk/internal/utils"
)

// TicketHTTP wires ticket endpoints to the lifecycle service.
type TicketHTTP struct {
	svc    *service.TicketService
	timers *service.TimerService
}

func NewTicketHTTP(svc *service.TicketService, timers *service.TimerService) *TicketHTTP {
	return &TicketHTTP{svc: svc, timers: timers}
}

func ident(r *http.Request) (orgID, userID, role string) {
	orgID, _ = utils.GetString(r.Context(), middleware.CtxOrgID)
	userID, _ = utils.GetString(r.Context(), middleware.CtxUserID)
	role, _ = utils.GetString(r.Context(), middleware.CtxRole)
	return
}

// -----------------------------------------------------------------------------
// GET /api/tickets: filtered, paginated, sorted; clients see their own only
// -----------------------------------------------------------------------------
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, userID, role := ident(r)

		qv := r.URL.Query()
		f := repository.TicketFilter{
			Q:        strings.TrimSpace(qv.Get("q")),
			Status:   strings.TrimSpace(qv.Get("status")),
			Priority: strings.TrimSpace(qv.Get("priority")),
			Category: strings.TrimSpace(qv.Get("category")),
			FolderID: strings.TrimSpace(qv.Get("folder")),
			Limit:    utils.QueryInt(qv, "limit", 10),
			Offset:   utils.QueryInt(qv, "offset", 0),
			Sort:     qv.Get("sort"),
			Order:    qv.Get("order"),
		}
		if role == models.RoleClient {
			f.CreatedBy = userID
		}

		items, total, err := h.svc.List(r.Context(), orgID, f)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
	}
}

// -----------------------------------------------------------------------------
// GET /api/tickets/{id}
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, userID, role := ident(r)
		id := chi.URLParam(r, "id")

		t, err := h.svc.Get(r.Context(), orgID, id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if t == nil {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}
		if role == models.RoleClient && t.CreatedBy != userID {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		if role == models.RoleClient {
			// Staff-only fields never leave the org boundary.
			t.InternalNotes = ""
			visible := t.Subtasks[:0]
			for _, st := range t.Subtasks {
				if st.ClientVisible {
					visible = append(visible, st)
				}
			}
			t.Subtasks = visible
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// -----------------------------------------------------------------------------
// POST /api/tickets
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Subject     string   `json:"subject"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Priority    string   `json:"priority"`
		ClientName  string   `json:"clientName"`
		Price       *float64 `json:"price"`
		BillingType *string  `json:"billingType"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, userID, role := ident(r)

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		input := service.CreateTicketInput{
			Subject:     in.Subject,
			Description: in.Description,
			Category:    in.Category,
			Priority:    in.Priority,
			ClientName:  in.ClientName,
		}
		// Billing setup is staff-only; a client-supplied price is dropped.
		if role == models.RoleAdmin {
			input.Price = in.Price
			input.BillingType = in.BillingType
		}

		t, err := h.svc.Create(r.Context(), orgID, userID, input)
		if err != nil {
			if errors.Is(err, service.ErrMissingFields) {
				utils.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusCreated, t)
	}
}

// -----------------------------------------------------------------------------
// PATCH /api/tickets/{id}: partial update, camelCase keys accepted
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		id := chi.URLParam(r, "id")

		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := h.svc.UpdateFields(r.Context(), orgID, id, patch); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				utils.Error(w, http.StatusNotFound, "not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		t, err := h.svc.Get(r.Context(), orgID, id)
		if err != nil || t == nil {
			utils.Error(w, http.StatusInternalServerError, "ticket not found after update")
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// -----------------------------------------------------------------------------
// PUT /api/tickets/{id}/status
// -----------------------------------------------------------------------------
func (h *TicketHTTP) UpdateStatus() http.HandlerFunc {
	type inDTO struct {
		Status string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		id := chi.URLParam(r, "id")

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := h.svc.UpdateStatus(r.Context(), orgID, id, strings.TrimSpace(in.Status)); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				utils.Error(w, http.StatusNotFound, "not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// -----------------------------------------------------------------------------
// DELETE /api/tickets/{id}
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		id := chi.URLParam(r, "id")

		if err := h.svc.Delete(r.Context(), orgID, id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				utils.Error(w, http.StatusNotFound, "not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// -----------------------------------------------------------------------------
// GET /api/tickets/{id}/metrics: billing view (tracked time, RHR/accrual)
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Metrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		id := chi.URLParam(r, "id")

		t, err := h.svc.Get(r.Context(), orgID, id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if t == nil {
			utils.Error(w, http.StatusNotFound, "not found")
			return
		}
		tracked, err := h.timers.TrackedSeconds(r.Context(), id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, service.ComputeMetrics(t, tracked))
	}
}
