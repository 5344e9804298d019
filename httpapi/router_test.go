package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"pairchat/domain"
	"pairchat/errors"
	"pairchat/observability"
	"pairchat/realtime"
	"pairchat/search"
	"pairchat/services"
)

type stubVerifier struct {
	identity domain.Identity
	err      error
}

func (s stubVerifier) Verify(string) (domain.Identity, error) {
	return s.identity, s.err
}

type stubChatService struct {
	history    []domain.Message
	historyErr error
}

func (s stubChatService) Submit(context.Context, domain.Identity, string, string,
	services.MessageSink) (domain.Message, error) {
	return domain.Message{}, nil
}

func (s stubChatService) History(string) ([]domain.Message, error) {
	return s.history, s.historyErr
}

func (s stubChatService) SearchMessages(context.Context, string, string, int) ([]search.Hit, error) {
	return []search.Hit{}, nil
}

func (s stubChatService) Contacts(string) ([]domain.Identity, error) {
	return []domain.Identity{}, nil
}

func newTestRouter(verifier stubVerifier, chatService services.IChatService) http.Handler {
	log := slog.Default()
	hub := realtime.NewHub(log, realtime.NewRegistry())
	monitor := observability.NewMonitor(log)
	return NewRouter(verifier,
		NewAuthHandler(nil),
		NewChatHandler(chatService, hub, monitor),
		NewWSHandler(log, verifier, chatService, hub, monitor))
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	req := require.New(t)
	router := newTestRouter(stubVerifier{err: errors.ErrInvalidToken}, stubChatService{})

	for _, path := range []string{"/api/me", "/api/users", "/api/messages/a_b", "/api/stats"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		req.Equal(http.StatusUnauthorized, w.Code, path)

		r = httptest.NewRequest(http.MethodGet, path, nil)
		r.Header.Set("Authorization", "Bearer forged")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, r)
		req.Equal(http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_MeReturnsVerifiedIdentity(t *testing.T) {
	req := require.New(t)
	identity := domain.Identity{ID: "u1", Username: "alice", DisplayName: "Alice"}
	router := newTestRouter(stubVerifier{identity: identity}, stubChatService{})

	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	r.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	req.Equal(http.StatusOK, w.Code)
	var got domain.Identity
	req.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	req.Equal(identity, got)
}

func TestRouter_HistoryErrorMapsToStatus(t *testing.T) {
	req := require.New(t)
	router := newTestRouter(stubVerifier{identity: domain.Identity{ID: "u1"}},
		stubChatService{historyErr: errors.ErrPersistence})

	r := httptest.NewRequest(http.MethodGet, "/api/messages/a_b", nil)
	r.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	req.Equal(http.StatusInternalServerError, w.Code)
}

func TestRouter_SearchRejectsMissingQuery(t *testing.T) {
	req := require.New(t)
	router := newTestRouter(stubVerifier{identity: domain.Identity{ID: "u1"}}, stubChatService{})

	r := httptest.NewRequest(http.MethodGet, "/api/messages/a_b/search", nil)
	r.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	req.Equal(http.StatusBadRequest, w.Code)
}

func TestRouter_WebsocketRefusedWithoutToken(t *testing.T) {
	req := require.New(t)
	router := newTestRouter(stubVerifier{err: errors.ErrInvalidToken}, stubChatService{})

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	req.Equal(http.StatusUnauthorized, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/ws?token=forged", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	req.Equal(http.StatusUnauthorized, w.Code)
}
