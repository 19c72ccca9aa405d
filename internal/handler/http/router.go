package http

import (
	"log/slog"
	"os"

	"github.com/chronohq/attendance-engine-go/internal/config"
	"github.com/chronohq/attendance-engine-go/internal/handler/http/middleware"
	"github.com/chronohq/attendance-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	exceptionHandler ExceptionHandler,
	leaveHandler LeaveHandler,
	workplaceHandler WorkplaceHandler,
	eventsHandler EventsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-engine"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  logLevel(cfg.App.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	// Everything the engine exposes requires an authenticated employee.
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

		r.Get("/events", eventsHandler.Stream)

		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/attendance", func(r chi.Router) {
				r.Post("/punch-in", attendanceHandler.PunchIn)
				r.Post("/punch-out", attendanceHandler.PunchOut)
				r.Post("/breaks/start", attendanceHandler.StartBreak)
				r.Post("/breaks/end", attendanceHandler.EndBreak)
				r.Get("/status", attendanceHandler.Status)
				r.Get("/", attendanceHandler.List)
				r.Get("/{id}", attendanceHandler.Get)
			})

			r.Route("/exceptions", func(r chi.Router) {
				r.Post("/", exceptionHandler.Create)
				r.Get("/", exceptionHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/resolve", exceptionHandler.Resolve)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/types", func(r chi.Router) {
					r.Get("/", leaveHandler.ListTypes)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Post("/", leaveHandler.CreateType)
					})
				})

				r.Route("/balances", func(r chi.Router) {
					r.Get("/", leaveHandler.MyBalances)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Post("/", leaveHandler.InitializeBalance)
					})
				})

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", leaveHandler.CreateRequest)
					r.Get("/", leaveHandler.MyRequests)
					r.Post("/{id}/cancel", leaveHandler.Cancel)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Post("/{id}/approve", leaveHandler.Approve)
						r.Post("/{id}/reject", leaveHandler.Reject)
					})
				})
			})

			r.Route("/workplaces", func(r chi.Router) {
				r.Get("/{id}/zones", workplaceHandler.ListZones)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/zones", workplaceHandler.CreateZone)
				})
			})
		})
	})

	return r
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
