package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/kapehan/cafe-workforce-backend-go/internal/handler/http/middleware"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	shiftHandler ShiftHandler,
	workflowHandler WorkflowHandler,
	payrollHandler PayrollHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "cafe-workforce"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// The stream endpoint authenticates through its own short-lived token
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.List)
				r.Get("/{id}", shiftHandler.Get)
				r.Post("/{id}/clock-in", shiftHandler.ClockIn)
				r.Post("/{id}/clock-out", shiftHandler.ClockOut)
				r.Post("/{id}/breaks/{breakID}/start", shiftHandler.StartBreak)
				r.Post("/{id}/breaks/{breakID}/end", shiftHandler.EndBreak)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", shiftHandler.Create)
				})
			})

			r.Route("/trades", func(r chi.Router) {
				r.Get("/", workflowHandler.ListTrades)
				r.Post("/", workflowHandler.CreateTrade)
				r.Post("/{id}/claim", workflowHandler.ClaimTrade)
				r.Post("/{id}/withdraw", workflowHandler.WithdrawTrade)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/reject", workflowHandler.RejectTrade)
				})
			})

			r.Route("/drops", func(r chi.Router) {
				r.Get("/", workflowHandler.ListDrops)
				r.Post("/", workflowHandler.CreateDrop)
				r.Post("/{id}/pickup", workflowHandler.PickupDrop)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/resolve", workflowHandler.ResolveDrop)
				})
			})

			r.Route("/time-off", func(r chi.Router) {
				r.Get("/", workflowHandler.ListTimeOff)
				r.Post("/", workflowHandler.RequestTimeOff)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/approve", workflowHandler.ApproveTimeOff)
					r.Post("/{id}/reject", workflowHandler.RejectTimeOff)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/periods/{id}/entries/my", payrollHandler.GetMyEntry)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/periods", payrollHandler.CreatePeriod)
					r.Post("/periods/{id}/close", payrollHandler.ClosePeriod)
					r.Post("/periods/{id}/pay", payrollHandler.MarkPeriodPaid)
					r.Post("/periods/{id}/run", payrollHandler.Run)
					r.Get("/periods/{id}/entries", payrollHandler.ListEntries)
					r.Get("/periods/{id}/entries/{employeeID}", payrollHandler.GetEntry)
					r.Post("/adjustments", payrollHandler.CreateAdjustment)
					r.Get("/settings/{branchID}", payrollHandler.GetSettings)
					r.Put("/settings/{branchID}", payrollHandler.UpdateSettings)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Post("/{id}/read", notificationHandler.MarkAsRead)
				r.Get("/stream-token", notificationHandler.GetStreamToken)
			})
		})
	})
	return r
}
