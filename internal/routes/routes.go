package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/dftasks/dftasks-backend/internal/handlers"
	"github.com/dftasks/dftasks-backend/internal/middleware"
	"github.com/dftasks/dftasks-backend/internal/models"
)

func SetupRoutes(r *chi.Mux, jwtSecret string) {
	auth := middleware.Auth(jwtSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin)

	// Auth routes
	r.Post("/api/auth/login", handlers.Login)
	r.Post("/api/auth/forgot-password", handlers.ForgotPassword)
	r.Post("/api/auth/reset-password", handlers.ResetPassword)

	// Task routes
	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(auth)

		r.With(adminOnly).Get("/", handlers.GetTasks)
		r.With(adminOnly).Post("/", handlers.CreateTask)
		r.Get("/assigned", handlers.GetAssignedTasks)

		// Email-reported tasks awaiting an admin decision
		r.Route("/pending", func(r chi.Router) {
			r.With(adminOnly).Get("/", handlers.GetPendingTasks)
			r.With(adminOnly).Post("/{id}/approve", handlers.ApprovePendingTask)
			r.Post("/{id}/decline", handlers.DeclinePendingTask)
		})

		r.Get("/{id}", handlers.GetTask)
		r.With(adminOnly).Patch("/{id}", handlers.UpdateTask)
		r.With(adminOnly).Delete("/{id}", handlers.DeleteTask)
		r.Patch("/{id}/status", handlers.UpdateTaskStatus)

		r.Post("/{id}/comments", handlers.AddComment)
		r.With(adminOnly).Patch("/{id}/comments/{commentID}", handlers.ToggleCommentVisibility)
	})

	// User management
	r.Route("/api/users", func(r chi.Router) {
		r.Use(auth)

		// Self-service: any authenticated user can view and edit their
		// own profile
		r.Get("/profile", handlers.GetProfile)
		r.Patch("/profile", handlers.UpdateProfile)

		// Everything else is admin only
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Get("/", handlers.GetUsers)
			r.Post("/", handlers.CreateUser)
			r.Get("/{id}", handlers.GetUser)
			r.Put("/{id}", handlers.UpdateUser)
			r.Patch("/{id}/status", handlers.ToggleUserStatus)
			r.Delete("/{id}", handlers.DeleteUser)
		})
	})

	// Translation proxy
	r.With(auth).Post("/api/translate", handlers.Translate)

	// File upload routes
	r.With(auth).Post("/api/upload", handlers.UploadFile)

	// WebSocket endpoint for admin pending-task notifications
	r.With(auth, adminOnly).Get("/ws/notifications", handlers.NotificationsSocket)
}
