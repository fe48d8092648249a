package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/analytics"
	"github.com/RahulB-24/ExpenseOps/internal/auth"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
	"github.com/RahulB-24/ExpenseOps/internal/category"
	"github.com/RahulB-24/ExpenseOps/internal/expense"
	"github.com/RahulB-24/ExpenseOps/internal/transport/middleware"
	"github.com/RahulB-24/ExpenseOps/internal/transport/swagger"
	"github.com/RahulB-24/ExpenseOps/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes wires the full route tree onto the router. Handlers may
// be nil in partial wirings (tests, tooling); their routes are skipped.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	cfg *internal.ServerConfig,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	expenseHandler *expense.Handler,
	categoryHandler *category.Handler,
	analyticsHandler *analytics.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db, logger)

	allowedOrigins := "*"
	if cfg != nil {
		allowedOrigins = cfg.AllowedOrigins
	}

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve the OpenAPI spec at root, outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/register", authHandler.Register)
			})
		}

		if authHandler == nil {
			return
		}

		// Everything below requires a valid bearer token
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", authHandler.Me)

			if categoryHandler != nil {
				pr.Get("/categories", categoryHandler.ListActive)
			}

			if expenseHandler != nil {
				pr.Route("/expenses", func(er chi.Router) {
					er.Post("/", expenseHandler.Create)
					er.Get("/", expenseHandler.ListMine)

					if analyticsHandler != nil {
						er.Get("/analytics", analyticsHandler.Summary)
					}

					// Approval queue routes: the role table gates the route,
					// the service enforces the instance rules.
					er.Group(func(mr chi.Router) {
						mr.Use(middleware.RequireAction(authz.ActionApprove, authz.ActionReject))
						mr.Get("/pending", expenseHandler.ListPending)
						mr.Get("/approval-history", expenseHandler.ListApprovalHistory)
						mr.Post("/bulk-approve", expenseHandler.BulkApprove)
						mr.Post("/bulk-reject", expenseHandler.BulkReject)
					})

					er.Group(func(fr chi.Router) {
						fr.Use(middleware.RequireAction(authz.ActionReimburse))
						fr.Get("/approved", expenseHandler.ListApproved)
					})

					er.Get("/{id}", expenseHandler.Get)
					er.Get("/{id}/history", expenseHandler.History)
					er.Put("/{id}", expenseHandler.Update)
					er.Delete("/{id}", expenseHandler.Delete)

					er.Post("/{id}/submit", expenseHandler.Submit)

					er.Group(func(mr chi.Router) {
						mr.Use(middleware.RequireAction(authz.ActionApprove))
						mr.Post("/{id}/approve", expenseHandler.Approve)
					})
					er.Group(func(mr chi.Router) {
						mr.Use(middleware.RequireAction(authz.ActionReject))
						mr.Post("/{id}/reject", expenseHandler.Reject)
					})
					er.Group(func(fr chi.Router) {
						fr.Use(middleware.RequireAction(authz.ActionReimburse))
						fr.Post("/{id}/reimburse", expenseHandler.Reimburse)
					})
				})
			}

			// Admin surface
			pr.Route("/admin", func(ar chi.Router) {
				ar.Use(middleware.RequireAdmin)

				if userHandler != nil {
					ar.Get("/users", userHandler.List)
					ar.Put("/users/{id}/role", userHandler.UpdateRole)
					ar.Put("/users/{id}/department", userHandler.UpdateDepartment)
					ar.Post("/users/{id}/toggle-active", userHandler.ToggleActive)
					ar.Post("/users/{id}/reset-password", userHandler.ResetPassword)
					ar.Get("/tenant/invite-code", userHandler.InviteCode)
				}

				if categoryHandler != nil {
					ar.Get("/categories", categoryHandler.ListAll)
					ar.Post("/categories", categoryHandler.Create)
					ar.Put("/categories/{id}", categoryHandler.Update)
					ar.Post("/categories/{id}/toggle-active", categoryHandler.ToggleActive)
				}
			})
		})
	})
}
