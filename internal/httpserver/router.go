package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"decaptrack/internal/audit"
	"decaptrack/internal/auth"
	"decaptrack/internal/config"
	"decaptrack/internal/httpserver/handlers"
	"decaptrack/internal/obs"
	"decaptrack/internal/policy"
	"decaptrack/internal/store"
)

func NewRouter(st store.Store, rec *audit.Recorder, jwtm *auth.Manager, cfg *config.Config, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Use(obs.Instrument)

	loginLimiter := newRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	r.With(loginLimiter.middleware).Post("/api/auth/login", handlers.Login(st, rec, jwtm, lg))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(jwtm))

		protected.Get("/api/auth/me", handlers.Me(st))
		protected.Post("/api/auth/logout", handlers.Logout(rec, lg))

		protected.Get("/api/machines", handlers.ListMachines(st))
		protected.Get("/api/machines/{id}", handlers.GetMachine(st))
		protected.With(auth.RequirePolicy(policy.ActionManageMachines)).
			Post("/api/machines", handlers.CreateMachine(st, rec, lg))
		protected.With(auth.RequirePolicy(policy.ActionManageMachines)).
			Patch("/api/machines/{id}", handlers.UpdateMachine(st, rec, lg))

		protected.Get("/api/operations", handlers.ListOperations(st))
		protected.Get("/api/operations/{id}", handlers.GetOperation(st))
		protected.Post("/api/operations", handlers.CreateOperation(st, rec, lg))
		protected.Patch("/api/operations/{id}", handlers.UpdateOperation(st, rec, lg))

		protected.Get("/api/safety-incidents", handlers.ListSafetyIncidents(st))
		protected.Get("/api/safety-incidents/{id}", handlers.GetSafetyIncident(st))
		protected.Post("/api/safety-incidents", handlers.CreateSafetyIncident(st, rec, lg))
		protected.Patch("/api/safety-incidents/{id}", handlers.UpdateSafetyIncident(st, rec, lg))

		protected.Get("/api/documents", handlers.ListDocuments(st))
		protected.Get("/api/documents/{id}", handlers.GetDocument(st))

		protected.Get("/api/activities", handlers.ListActivities(st))

		protected.Get("/api/dashboard/stats", handlers.DashboardStats(st))
		protected.Get("/api/performance/by-method", handlers.PerformanceByMethod(st))

		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequirePolicy(policy.ActionManageUsers))
			admin.Get("/api/users", handlers.ListUsers(st))
			admin.Post("/api/users", handlers.CreateUser(st, rec, lg))
			admin.Get("/api/users/{id}", handlers.GetUser(st))
			admin.Patch("/api/users/{id}", handlers.UpdateUser(st, rec, lg))
			admin.Delete("/api/users/{id}", handlers.DeleteUser(st, rec, lg))
			admin.Get("/api/connection-logs", handlers.ListConnectionLogs(st))
		})
	})

	r.Handle("/metrics", obs.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
