package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pairchat/auth"
	"pairchat/errors"
	"pairchat/observability"
	"pairchat/realtime"
	"pairchat/services"
)

const defaultSearchLimit = 20

type ChatHandler struct {
	chatService services.IChatService
	hub         *realtime.Hub
	monitor     *observability.Monitor
}

func NewChatHandler(chatService services.IChatService, hub *realtime.Hub,
	monitor *observability.Monitor) *ChatHandler {
	return &ChatHandler{chatService: chatService, hub: hub, monitor: monitor}
}

// Contacts lists every registered user except the caller.
func (h *ChatHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, errors.ErrInvalidToken)
		return
	}

	contacts, err := h.chatService.Contacts(identity.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, contacts)
}

// History returns a conversation's message log in insertion order.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	messages, err := h.chatService.History(conversationID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// Search runs a full-text query over one conversation's messages.
func (h *ChatHandler) Search(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	terms := r.URL.Query().Get("q")
	if terms == "" {
		respondError(w, errors.ErrValidation)
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, errors.ErrValidation)
			return
		}
		limit = parsed
	}

	hits, err := h.chatService.SearchMessages(r.Context(), conversationID, terms, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hits)
}

// Stats reports process and messaging metrics.
func (h *ChatHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.monitor.Collect(len(h.hub.Online())))
}
