package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"pairchat/auth"
)

// NewRouter assembles the full HTTP surface: public auth endpoints, the
// token-protected REST API, and the realtime websocket endpoint.
func NewRouter(verifier auth.Verifier, authHandler *AuthHandler,
	chatHandler *ChatHandler, wsHandler *WSHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(verifier))
			r.Get("/me", authHandler.Me)
			r.Get("/users", chatHandler.Contacts)
			r.Get("/messages/{conversationID}", chatHandler.History)
			r.Get("/messages/{conversationID}/search", chatHandler.Search)
			r.Get("/stats", chatHandler.Stats)
		})
	})

	r.Get("/ws", wsHandler.Serve)

	return r
}
