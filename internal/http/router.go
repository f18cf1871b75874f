package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/lesquel/mesaYa-Res-sub003/internal/observability"
	"github.com/lesquel/mesaYa-Res-sub003/internal/ratelimit"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *ratelimit.RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(RateLimitMiddleware(rl))

	r.Post("/v1/reservations", h.CreateReservation)
	r.Get("/v1/reservations/{id}", h.GetReservation)
	r.Patch("/v1/reservations/{id}", h.UpdateReservation)
	r.Delete("/v1/reservations/{id}", h.DeleteReservation)
	r.Post("/v1/reservations/{id}/cancel", h.CancelReservation)
	r.Post("/v1/reservations/{id}/confirm", h.ConfirmReservation)
	r.Get("/v1/restaurants/{id}/reservations", h.ListReservations)

	r.Post("/v1/tables/select", h.SelectTable)
	r.Post("/v1/tables/release", h.ReleaseTable)

	r.Post("/v1/restaurants/{id}/schedule-exceptions", h.CreateScheduleException)
	r.Get("/v1/restaurants/{id}/schedule-exceptions", h.ListScheduleExceptions)
	r.Patch("/v1/schedule-exceptions/{id}", h.UpdateScheduleException)
	r.Delete("/v1/schedule-exceptions/{id}", h.DeleteScheduleException)

	r.Get("/v1/healthz", h.Healthz)
	r.Get("/v1/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
