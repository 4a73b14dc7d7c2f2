package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts every endpoint under /api. Write endpoints require an admin token.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, limits limits) {
	r.Route("/api", func(r chi.Router) {
		r.Use(limits.api.limitRequests)

		r.Get("/health", handlers.healthHandler.getHealth())

		r.Route("/auth", func(r chi.Router) {
			r.With(limits.auth.limitFailures).Post("/login", handlers.authHandler.login())
			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Get("/me", handlers.authHandler.me())
				r.Post("/change-password", handlers.authHandler.changePassword())
			})
		})

		// Static segments are registered alongside {id} and take priority over it.
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", handlers.articleHandler.getArticles())
			r.Get("/{id}", handlers.articleHandler.getArticle())
			r.Patch("/{id}/view", handlers.articleHandler.recordView())
			r.Patch("/{id}/like", handlers.articleHandler.toggleLike())
			r.Get("/{id}/like-status", handlers.articleHandler.getLikeStatus())
			r.Get("/{id}/comments", handlers.commentHandler.getComments())
			r.Post("/{id}/comments", handlers.commentHandler.createComment())

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Get("/admin/all", handlers.articleHandler.getAllArticles())
				r.Post("/", handlers.articleHandler.createArticle())
				r.Put("/{id}", handlers.articleHandler.updateArticle())
				r.Delete("/{id}", handlers.articleHandler.deleteArticle())
				r.Get("/{id}/comments/admin", handlers.commentHandler.getAllComments())
				r.Patch("/comments/{id}/approve", handlers.commentHandler.toggleApproval())
				r.Delete("/comments/{id}", handlers.commentHandler.deleteComment())
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.getAllProjects())
			r.Get("/{id}", handlers.projectHandler.getProject())

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Post("/", handlers.projectHandler.createProject())
				r.Put("/reorder", handlers.projectHandler.reorderProjects())
				r.Put("/{id}", handlers.projectHandler.updateProject())
				r.Delete("/{id}", handlers.projectHandler.deleteProject())
			})
		})

		r.Route("/skills", func(r chi.Router) {
			r.Get("/", handlers.skillHandler.getAllSkills())
			r.Get("/{id}", handlers.skillHandler.getSkill())

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Post("/", handlers.skillHandler.createSkill())
				r.Put("/{id}", handlers.skillHandler.updateSkill())
				r.Delete("/{id}", handlers.skillHandler.deleteSkill())
			})
		})

		r.Route("/experiences", func(r chi.Router) {
			r.Get("/", handlers.experienceHandler.getAllExperiences())
			r.Get("/{id}", handlers.experienceHandler.getExperience())

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Post("/", handlers.experienceHandler.createExperience())
				r.Put("/{id}", handlers.experienceHandler.updateExperience())
				r.Delete("/{id}", handlers.experienceHandler.deleteExperience())
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.With(limits.contact.limitRequests).Post("/", handlers.messageHandler.createMessage())

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Get("/", handlers.messageHandler.getAllMessages())
				r.Delete("/read", handlers.messageHandler.deleteReadMessages())
				r.Get("/{id}", handlers.messageHandler.getMessage())
				r.Patch("/{id}/read", handlers.messageHandler.markRead())
				r.Patch("/{id}/replied", handlers.messageHandler.markReplied())
				r.Delete("/{id}", handlers.messageHandler.deleteMessage())
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", handlers.settingsHandler.getSettings())

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Put("/", handlers.settingsHandler.replaceSettings())
				r.Patch("/{section}", handlers.settingsHandler.patchSection())
			})
		})

		r.With(auth.authenticate).Post("/upload", handlers.uploadHandler.uploadImage())
	})
}
