package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"agencydesk/internal/service"
	"agencydesk/internal/utils"
)

type TimerHTTP struct {
	svc *service.TimerService
}

func NewTimerHTTP(svc *service.TimerService) *TimerHTTP {
	return &TimerHTTP{svc: svc}
}

// POST /api/timer/start
func (h *TimerHTTP) Start() http.HandlerFunc {
	type inDTO struct {
		TicketID string `json:"ticketId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		_, userID, _ := ident(r)

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.TicketID = strings.TrimSpace(in.TicketID)
		if in.TicketID == "" {
			utils.Error(w, http.StatusBadRequest, "ticketId is required")
			return
		}

		t, err := h.svc.Start(r.Context(), userID, in.TicketID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusCreated, t)
	}
}

// POST /api/timer/stop: success whether or not a timer was running.
func (h *TimerHTTP) Stop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, userID, _ := ident(r)

		sess, err := h.svc.Stop(r.Context(), userID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"success": true, "session": sess})
	}
}

// GET /api/timer: the caller's running timer, if any.
func (h *TimerHTTP) Active() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, userID, _ := ident(r)

		t, err := h.svc.Active(r.Context(), userID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"running": t != nil, "timer": t})
	}
}

// POST /api/tickets/{id}/sessions: manual (backdated) session entry.
func (h *TimerHTTP) AddSession() http.HandlerFunc {
	type inDTO struct {
		StartTime time.Time `json:"startTime"`
		Minutes   int       `json:"minutes"`
		Note      string    `json:"note"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		_, userID, _ := ident(r)
		ticketID := chi.URLParam(r, "id")

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		sess, err := h.svc.AddManualSession(r.Context(), userID, ticketID, in.StartTime, in.Minutes, in.Note)
		if err != nil {
			if errors.Is(err, service.ErrInvalidDuration) {
				utils.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusCreated, sess)
	}
}

// GET /api/tickets/{id}/sessions
func (h *TimerHTTP) ListSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticketID := chi.URLParam(r, "id")

		items, total, err := h.svc.Sessions(r.Context(), ticketID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "totalSeconds": total})
	}
}

// DELETE /api/sessions/{id}
func (h *TimerHTTP) DeleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.svc.DeleteSession(r.Context(), id); err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
