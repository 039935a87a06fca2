package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mcortesr/devtree-be/internal/api/handlers"
	"github.com/mcortesr/devtree-be/internal/auth"
	"github.com/mcortesr/devtree-be/internal/services"
	"github.com/mcortesr/devtree-be/internal/uploads"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(allowedOrigins []string, userService services.UserServiceProvider, tokens *auth.TokenService, uploader uploads.Uploader) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	userHandler := handlers.NewUserHandler(userService, tokens, uploader)
	requireAuth := auth.Middleware(tokens, userService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/user", userHandler.GetMe)
			r.Patch("/user", userHandler.UpdateProfile)
			r.Patch("/user/links", userHandler.UpdateLinks)
			r.Post("/user/image", userHandler.UpdateImage)
			r.Get("/{handle}", userHandler.GetByHandle)
		})
	})

	return r
}
