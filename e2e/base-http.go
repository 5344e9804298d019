package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"pairchat/auth"
	"pairchat/domain"
	"pairchat/httpapi"
	"pairchat/moderation"
	"pairchat/observability"
	"pairchat/realtime"
	"pairchat/repositories"
	"pairchat/search"
	"pairchat/services"
)

const eventTimeout = 5 * time.Second

// BaseHTTPSuite boots the whole server in-process (badger in a throwaway
// directory, in-memory search index) behind an httptest listener, so the
// scenarios exercise the real wiring end to end.
type BaseHTTPSuite struct {
	suite.Suite
	Config Config

	server *httptest.Server
	db     *badger.DB
	index  *search.Index
	dbDir  string
}

func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	s.dbDir, err = os.MkdirTemp("", "e2e-badger-*")
	s.Require().NoError(err)

	logger := logs.GetLoggerFromString("ERROR")

	s.db, err = badger.Open(badger.DefaultOptions(s.dbDir).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	s.Require().NoError(err)

	s.index, err = search.Open("", logger)
	s.Require().NoError(err)

	moderator, err := moderation.NewModerator([]string{"badword"}, '*')
	s.Require().NoError(err)

	messageRepository := repositories.NewMessageRepository(s.db, logger)
	userRepository := repositories.NewUserRepository(s.db)

	registry := realtime.NewRegistry()
	hub := realtime.NewHub(logger, registry)
	monitor := observability.NewMonitor(logger)

	tokens := auth.NewTokenManager(s.Config.JWTSecret, time.Hour)
	authService := services.NewAuthService(userRepository, tokens)
	chatService := services.NewChatService(logger, messageRepository, userRepository,
		&moderator, s.index, hub)

	router := httpapi.NewRouter(authService,
		httpapi.NewAuthHandler(authService),
		httpapi.NewChatHandler(chatService, hub, monitor),
		httpapi.NewWSHandler(logger, authService, chatService, hub, monitor))

	s.server = httptest.NewServer(router)
}

func (s *BaseHTTPSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.index != nil {
		_ = s.index.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.dbDir != "" {
		_ = os.RemoveAll(s.dbDir)
	}
}

// Step prints a colorized header so the scenario reads as a script in logs.
func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// PostJSON posts a payload and decodes the response body into out (when out
// is non-nil), returning the status code.
func (s *BaseHTTPSuite) PostJSON(path string, payload any, out any) int {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)

	if s.Config.DebugJSON {
		s.T().Logf("POST %s\nREQUEST:\n%s", path, body)
	}

	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// GetJSON performs an authenticated GET and decodes the response body.
func (s *BaseHTTPSuite) GetJSON(path, token string, out any) int {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+path, nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type account struct {
	Token string
	User  domain.Identity
}

// RegisterUser creates an account through the public API.
func (s *BaseHTTPSuite) RegisterUser(username, displayName, password string) account {
	var resp struct {
		Token string          `json:"token"`
		User  domain.Identity `json:"user"`
	}
	status := s.PostJSON("/api/register", map[string]string{
		"username":    username,
		"displayName": displayName,
		"password":    password,
	}, &resp)
	s.Require().Equal(http.StatusOK, status)
	s.Require().NotEmpty(resp.Token)
	return account{Token: resp.Token, User: resp.User}
}

// DialWS opens an authenticated realtime connection.
func (s *BaseHTTPSuite) DialWS(token string) *websocket.Conn {
	conn, resp, err := websocket.DefaultDialer.Dial(s.wsURL(token), nil)
	s.Require().NoError(err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	return conn
}

func (s *BaseHTTPSuite) wsURL(token string) string {
	return strings.Replace(s.server.URL, "http", "ws", 1) + "/ws?token=" + token
}

// ReadEvent blocks for the next server event on the connection.
func (s *BaseHTTPSuite) ReadEvent(conn *websocket.Conn) realtime.ServerEvent {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(eventTimeout)))
	_, payload, err := conn.ReadMessage()
	s.Require().NoError(err)

	if s.Config.DebugJSON {
		s.T().Logf("WS EVENT:\n%s", payload)
	}

	var event realtime.ServerEvent
	s.Require().NoError(json.Unmarshal(payload, &event))
	return event
}

// ReadEventOfType skips frames until one of the wanted type arrives. Useful
// when presence frames interleave with the event under test.
func (s *BaseHTTPSuite) ReadEventOfType(conn *websocket.Conn, eventType string) realtime.ServerEvent {
	deadline := time.Now().Add(eventTimeout)
	for time.Now().Before(deadline) {
		event := s.ReadEvent(conn)
		if event.Type == eventType {
			return event
		}
	}
	s.Require().FailNowf("event not received", "no %q event before timeout", eventType)
	return realtime.ServerEvent{}
}

// Submit sends a submit_message frame.
func (s *BaseHTTPSuite) Submit(conn *websocket.Conn, to, content string) {
	payload, err := json.Marshal(map[string]string{
		"type":    "submit_message",
		"to":      to,
		"content": content,
	})
	s.Require().NoError(err)
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, payload))
}
