package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/wanderwise/wanderwise-api/internal/api/auth"
	"github.com/wanderwise/wanderwise-api/internal/api/generation"
	"github.com/wanderwise/wanderwise-api/internal/api/route"
)

// Config carries the handlers and middleware the router wires together.
// Server-wide middleware (request ID, logging, recoverer) is applied before
// mounting this router in main.go.
type Config struct {
	AuthHandler            *auth.AuthHandler
	GenerationHandler      *generation.GenerationHandler
	RouteHandler           *route.RouteHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter builds the application router: public auth and shared-route
// endpoints, then the authenticated API surface.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {

		// Public routes: no JWT required.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)
			r.Get("/auth/{provider}", cfg.AuthHandler.BeginOAuth)
			r.Get("/auth/{provider}/callback", cfg.AuthHandler.OAuthCallback)

			// Shared routes are link-addressed and readable without an account.
			r.Get("/shared/{token}", cfg.RouteHandler.GetSharedRoute)
		})

		// Protected routes.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Put("/auth/update-password", cfg.AuthHandler.UpdatePassword)

			r.Post("/routes/generate", cfg.GenerationHandler.GenerateItinerary)

			r.Get("/routes", cfg.RouteHandler.ListRoutes)
			r.Post("/routes", cfg.RouteHandler.SaveRoute)
			r.Get("/routes/{routeID}", cfg.RouteHandler.GetRoute)
			r.Delete("/routes/{routeID}", cfg.RouteHandler.DeleteRoute)

			r.Post("/routes/{routeID}/share", cfg.RouteHandler.ShareRoute)
			r.Delete("/routes/{routeID}/share", cfg.RouteHandler.UnshareRoute)
			r.Post("/shared/{token}/copy", cfg.RouteHandler.CopySharedRoute)

			r.Post("/routes/{routeID}/edit", cfg.RouteHandler.StartEdit)
			r.Patch("/routes/{routeID}/edit", cfg.RouteHandler.ApplyEdit)
			r.Delete("/routes/{routeID}/edit", cfg.RouteHandler.CancelEdit)
			r.Post("/routes/{routeID}/edit/save", cfg.RouteHandler.SaveEdit)
		})
	})

	return r
}
