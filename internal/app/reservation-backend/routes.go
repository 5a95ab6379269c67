// Package reservationbackend предоставляет маршруты для основного приложения.
package reservationbackend

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/solarclean/reservation-backend/internal/http/handlers/auth/login"
	clientchangeplan "github.com/solarclean/reservation-backend/internal/http/handlers/client/changeplan"
	clientconfirm "github.com/solarclean/reservation-backend/internal/http/handlers/client/confirmpayment"
	clientcreate "github.com/solarclean/reservation-backend/internal/http/handlers/client/create"
	clientdisable "github.com/solarclean/reservation-backend/internal/http/handlers/client/disable"
	clientenable "github.com/solarclean/reservation-backend/internal/http/handlers/client/enable"
	clientlink "github.com/solarclean/reservation-backend/internal/http/handlers/client/linkidentity"
	clientlist "github.com/solarclean/reservation-backend/internal/http/handlers/client/list"
	clientread "github.com/solarclean/reservation-backend/internal/http/handlers/client/read"
	clientremove "github.com/solarclean/reservation-backend/internal/http/handlers/client/remove"
	clientunlink "github.com/solarclean/reservation-backend/internal/http/handlers/client/unlinkidentity"
	clientwidget "github.com/solarclean/reservation-backend/internal/http/handlers/client/widget"
	"github.com/solarclean/reservation-backend/internal/http/handlers/health"
	reconcilerun "github.com/solarclean/reservation-backend/internal/http/handlers/reconcile/run"
	reservationcreate "github.com/solarclean/reservation-backend/internal/http/handlers/reservation/create"
	reservationlist "github.com/solarclean/reservation-backend/internal/http/handlers/reservation/list"
	reservationread "github.com/solarclean/reservation-backend/internal/http/handlers/reservation/read"
	reservationremove "github.com/solarclean/reservation-backend/internal/http/handlers/reservation/remove"
	"github.com/solarclean/reservation-backend/internal/http/middlewarectx"
	"github.com/solarclean/reservation-backend/internal/lib/jwt"
	authservice "github.com/solarclean/reservation-backend/internal/services/auth"
	clientservice "github.com/solarclean/reservation-backend/internal/services/client"
	reconcileservice "github.com/solarclean/reservation-backend/internal/services/reconcile"
	reservationservice "github.com/solarclean/reservation-backend/internal/services/reservation"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, maker jwt.Maker,
	authService *authservice.Service, clientService *clientservice.Service,
	reservationService *reservationservice.Service, engine *reconcileservice.Engine) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/clients", clientcreate.New(logger, clientService).ServeHTTP)
			r.Get("/clients", clientlist.New(logger, clientService).ServeHTTP)
			r.Get("/clients/{id}", clientread.New(logger, clientService).ServeHTTP)
			r.Delete("/clients/{id}", clientremove.New(logger, clientService).ServeHTTP)
			r.Post("/clients/{id}/confirm-payment", clientconfirm.New(logger, clientService).ServeHTTP)
			r.Put("/clients/{id}/plan", clientchangeplan.New(logger, clientService).ServeHTTP)
			r.Post("/clients/{id}/identity", clientlink.New(logger, clientService).ServeHTTP)
			r.Delete("/clients/{id}/identity", clientunlink.New(logger, clientService).ServeHTTP)
			r.Put("/clients/{id}/widget", clientwidget.New(logger, clientService).ServeHTTP)
			r.Post("/clients/{id}/disable", clientdisable.New(logger, engine).ServeHTTP)
			r.Post("/clients/{id}/enable", clientenable.New(logger, engine).ServeHTTP)

			r.Post("/reservations", reservationcreate.New(logger, reservationService).ServeHTTP)
			r.Get("/reservations", reservationlist.New(logger, reservationService).ServeHTTP)
			r.Get("/reservations/{id}", reservationread.New(logger, reservationService).ServeHTTP)
			r.Delete("/reservations/{id}", reservationremove.New(logger, reservationService).ServeHTTP)

			r.Post("/reconcile/run", reconcilerun.New(logger, engine).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
