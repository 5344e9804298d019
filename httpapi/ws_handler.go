package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"pairchat/auth"
	"pairchat/observability"
	"pairchat/realtime"
	"pairchat/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// WSHandler authenticates and upgrades realtime connections, then runs the
// session's pumps until the client goes away.
type WSHandler struct {
	log         *slog.Logger
	verifier    auth.Verifier
	chatService services.IChatService
	hub         *realtime.Hub
	monitor     *observability.Monitor
}

func NewWSHandler(log *slog.Logger, verifier auth.Verifier,
	chatService services.IChatService, hub *realtime.Hub,
	monitor *observability.Monitor) *WSHandler {
	return &WSHandler{
		log:         log,
		verifier:    verifier,
		chatService: chatService,
		hub:         hub,
		monitor:     monitor,
	}
}

// Serve handles GET /ws. The token travels as a query parameter because
// browser websocket clients cannot set headers; verification happens before
// the upgrade so an invalid token is refused with a plain 401.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	identity, err := h.verifier.Verify(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "user_id", identity.ID, "error", err)
		return
	}

	session := realtime.NewSession(h.log, conn, identity)
	h.hub.Register(session)
	h.log.Info("user connected", "user_id", identity.ID, "username", identity.Username)

	go session.WritePump()

	session.ReadPump(func(to, content string) {
		if _, err := h.chatService.Submit(r.Context(), identity, to, content, session); err != nil {
			session.SendError(err.Error())
			return
		}
		h.monitor.MessageRouted()
	})

	h.hub.Unregister(session)
	session.Close()
	h.log.Info("user disconnected", "user_id", identity.ID, "username", identity.Username)
}
