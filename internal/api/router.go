package api

import (
	"net/http"

	"github.com/courierhq/courier/internal/api/handlers"
	"github.com/courierhq/courier/internal/api/middleware"
	"github.com/courierhq/courier/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	userHandler := handlers.NewUserHandler(services.User)
	messageHandler := handlers.NewMessageHandler(services.Message)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{username}", userHandler.Get)
				r.Get("/{username}/messages/from", messageHandler.MessagesFrom)
				r.Get("/{username}/messages/to", messageHandler.MessagesTo)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Post("/", messageHandler.Send)
				r.Get("/{id}", messageHandler.Get)
				r.Post("/{id}/read", messageHandler.MarkRead)
			})
		})
	})

	return r
}
