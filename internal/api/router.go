package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/usamakj/auth-app-be/internal/api/handlers"
	"github.com/usamakj/auth-app-be/internal/auth"
	"github.com/usamakj/auth-app-be/internal/services"
	ws "github.com/usamakj/auth-app-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	corsOrigin string,
	authenticator *auth.Authenticator,
	tokens *auth.TokenManager,
	userService services.UserServiceProvider,
	commentService services.CommentServiceProvider,
	eventService services.EventServiceProvider,
	hub *ws.Hub,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the browser frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens, eventService)
	commentHandler := handlers.NewCommentHandler(commentService, eventService, hub)
	eventHandler := handlers.NewEventHandler(eventService)
	healthHandler := handlers.NewHealthHandler()
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)

		// WebSocket connection endpoint for the live activity feed
		r.Get("/ws", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/check-availability", authHandler.CheckAvailability)
			r.With(authenticator.RequireAuth).Get("/profile", authHandler.GetProfile)
		})

		r.Route("/comments", func(r chi.Router) {
			r.With(authenticator.OptionalAuth).Get("/", commentHandler.List)
			r.With(authenticator.OptionalAuth).Get("/user/{userId}", commentHandler.ListByUser)
			r.With(authenticator.RequireAuth).Post("/", commentHandler.Create)
			r.With(authenticator.RequireAuth).Delete("/{commentId}", commentHandler.Delete)
		})

		r.With(authenticator.RequireAuth).Get("/events", eventHandler.GetRecent)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.Fail(w, http.StatusNotFound, "Route not found")
	})

	return r
}
