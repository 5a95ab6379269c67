// Package linkidentity реализует HTTP-обработчик привязки клиента
// к аккаунту identity-провайдера по его почте.
package linkidentity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/solarclean/reservation-backend/internal/http/response"
	"github.com/solarclean/reservation-backend/internal/identity"
	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики привязки identity-аккаунта.
type Service interface {
	LinkIdentity(ctx context.Context, id string) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Привязать identity-аккаунт
// @Description Ищет у identity-провайдера аккаунт с почтой клиента и сохраняет ссылку на него.
// @Tags Clients
// @Produce  json
// @Param id path string true "ID клиента"
// @Success 200 {object} response.OKResponse "Аккаунт привязан"
// @Failure 404 {object} response.ErrorResponse "Клиент или аккаунт не найден"
// @Failure 502 {object} response.ErrorResponse "Identity-провайдер недоступен"
// @Router /clients/{id}/identity [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.linkidentity"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	ref, err := h.service.LinkIdentity(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("client not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
		case errors.Is(err, identity.ErrAccountNotFound):
			log.Error("identity account not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("identity account not found"))
		default:
			log.Error("failed to link identity", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to link identity"))
		}
		return
	}

	log.Info("identity linked", slog.String("id", id), slog.String("ref", ref))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"client_id":    id,
		"identity_ref": ref,
	}))
}
