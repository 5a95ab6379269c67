// Package enable реализует HTTP-обработчик включения аккаунта клиента
// у identity-провайдера после оплаты.
package enable

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/solarclean/reservation-backend/internal/http/response"
	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/services/reconcile"
	"github.com/solarclean/reservation-backend/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики включения аккаунта.
type Service interface {
	EnableClient(ctx context.Context, id string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Включить аккаунт клиента
// @Description Включает аккаунт клиента у identity-провайдера и снимает флаг отключения.
// @Tags Clients
// @Produce  json
// @Param id path string true "ID клиента"
// @Success 200 {object} map[string]any "Аккаунт включён"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 409 {object} response.ErrorResponse "Аккаунт не привязан"
// @Failure 502 {object} response.ErrorResponse "Identity-провайдер недоступен"
// @Router /clients/{id}/enable [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.enable"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.EnableClient(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("client not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
		case errors.Is(err, reconcile.ErrIdentityNotLinked):
			log.Error("client has no linked identity", slog.String("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("client has no linked identity account"))
		default:
			log.Error("failed to enable client", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to enable client account"))
		}
		return
	}

	log.Info("client account enabled", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"client_id": id,
		"disabled":  false,
	}))
}
