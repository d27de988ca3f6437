package handlers

import (
	"encoding/json"
	"net/http"

	"agencydesk/internal/assistant"
	"agencydesk/internal/utils"
)

type AssistantHTTP struct {
	svc *assistant.Service
}

func NewAssistantHTTP(svc *assistant.Service) *AssistantHTTP {
	return &AssistantHTTP{svc: svc}
}

// POST /api/assistant/chat
func (h *AssistantHTTP) Chat() http.HandlerFunc {
	type inDTO struct {
		Messages       []assistant.ChatMessage `json:"messages"`
		ActiveTicketID string                  `json:"activeTicketId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, userID, _ := ident(r)

		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if len(in.Messages) == 0 {
			utils.Error(w, http.StatusBadRequest, "messages are required")
			return
		}

		lines, err := h.svc.Respond(r.Context(), orgID, userID, in.Messages, in.ActiveTicketID)
		if err != nil {
			// LLM failure degrades to an error payload, not a crash.
			utils.Error(w, http.StatusBadGateway, "assistant unavailable")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"replies": lines})
	}
}
