package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"agencydesk/internal/notify"
	"agencydesk/internal/utils"
)

// NotifyHTTP upgrades authenticated clients onto the revalidation hub.
type NotifyHTTP struct {
	hub *notify.Hub
	log zerolog.Logger

	upgrader websocket.Upgrader
}

func NewNotifyHTTP(hub *notify.Hub, origin string, log zerolog.Logger) *NotifyHTTP {
	return &NotifyHTTP{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				o := r.Header.Get("Origin")
				return o == "" || o == origin
			},
		},
	}
}

// GET /api/ws
func (h *NotifyHTTP) Serve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, _, _ := ident(r)
		if orgID == "" {
			utils.Error(w, http.StatusForbidden, "no organization")
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn().Err(err).Msg("ws upgrade failed")
			return
		}
		c := notify.NewClient(orgID, conn)
		h.hub.Register <- c
		go c.WritePump()
		go c.ReadPump(h.hub)
	}
}
