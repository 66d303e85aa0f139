package main

import (
	"net/http"

	"github.com/Jorik-creator/microvolunteer/internal/api"
	apiMiddleware "github.com/Jorik-creator/microvolunteer/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	taskHandler := api.NewTaskHandler(app.taskService, app.participationService, app.logger)
	categoryHandler := api.NewCategoryHandler(app.categoryService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Public browsing endpoints
		r.Get("/tasks", taskHandler.ListTasks)
		r.Get("/tasks/{id}/participants", taskHandler.ListParticipants)
		r.Get("/categories", categoryHandler.ListCategories)
		r.Get("/categories/{id}", categoryHandler.GetCategory)

		// Task detail works anonymously but includes the caller's
		// participation flag when a valid token is present.
		r.With(authMiddleware.OptionalAuthenticate).Get("/tasks/{id}", taskHandler.GetTask)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Account
			r.Get("/users/me", authHandler.Profile)

			// Task lifecycle endpoints
			r.Post("/tasks", taskHandler.CreateTask)
			r.Patch("/tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
			r.Post("/tasks/{id}/complete", taskHandler.CompleteTask)
			r.Post("/tasks/{id}/cancel", taskHandler.CancelTask)

			// Participation endpoints
			r.Post("/tasks/{id}/join", taskHandler.JoinTask)
			r.Post("/tasks/{id}/leave", taskHandler.LeaveTask)

			// Category management (the service enforces admin)
			r.Post("/categories", categoryHandler.CreateCategory)
			r.Patch("/categories/{id}", categoryHandler.UpdateCategory)
			r.Delete("/categories/{id}", categoryHandler.DeleteCategory)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
