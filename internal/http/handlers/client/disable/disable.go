// Package disable реализует HTTP-обработчик ручного отключения аккаунта
// клиента у identity-провайдера.
package disable

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

// Service описывает интерфейс бизнес-логики ручного отключения аккаунта.
type Service interface {
	DisableClient(ctx context.Context, id string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отключить аккаунт клиента
// @Description Отключает аккаунт клиента у identity-провайдера и помечает клиента отключённым.
// @Tags Clients
// @Produce  json
// @Param id path string true "ID клиента"
// @Success 200 {object} map[string]any "Аккаунт отключён"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 409 {object} response.ErrorResponse "Аккаунт уже отключён или не привязан"
// @Failure 502 {object} response.ErrorResponse "Identity-провайдер недоступен"
// @Router /clients/{id}/disable [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.disable"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.DisableClient(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("client not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
		case errors.Is(err, reconcile.ErrIdentityNotLinked):
			log.Error("client has no linked identity", slog.String("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("client has no linked identity account"))
		case errors.Is(err, reconcile.ErrAlreadyDisabled):
			log.Error("client already disabled", slog.String("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("client account already disabled"))
		default:
			log.Error("failed to disable client", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to disable client account"))
		}
		return
	}

	log.Info("client account disabled", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"client_id": id,
		"disabled":  true,
	}))
}
