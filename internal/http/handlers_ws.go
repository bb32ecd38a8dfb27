package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// HandleNotificationStream upgrades to a websocket and pushes the caller's
// new notifications as {id, message, read, time} text frames.
func (h *Handler) HandleNotificationStream(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	if h.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "Notification stream not enabled", "STREAM_DISABLED")
		return
	}

	// Subscribe before the handshake so nothing published after it is missed
	sub := h.hub.Subscribe(user)
	defer h.hub.Unsubscribe(sub)

	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		h.logger.Warn().Err(err).Int64("user_id", user).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	log := h.logger.With().Int64("user_id", user).Logger()
	log.Debug().Msg("notification stream opened")

	// The client only sends control frames; a read error means it went away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := wsutil.ReadClientData(conn); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			log.Debug().Msg("notification stream closed by client")
			return
		case <-r.Context().Done():
			return
		case n, ok := <-sub.C:
			if !ok {
				return
			}
			frame, err := json.Marshal(n)
			if err != nil {
				log.Error().Err(err).Int64("notification_id", n.ID).Msg("failed to encode notification")
				continue
			}
			if err := wsutil.WriteServerText(conn, frame); err != nil {
				log.Warn().Err(err).Msg("failed to push notification")
				return
			}
		}
	}
}
