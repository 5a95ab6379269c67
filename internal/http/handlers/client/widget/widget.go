// Package widget реализует HTTP-обработчик ручного переключения внешнего
// виджета клиента. Виджет не участвует в автоматической сверке платежей
// и управляется только этим обработчиком.
package widget

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/solarclean/reservation-backend/internal/http/response"
	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/storage/repository"
)

// Request — структура входных данных для переключения виджета.
type Request struct {
	Disabled *bool `json:"disabled" validate:"required"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики переключения виджета.
type Service interface {
	ToggleWidget(ctx context.Context, id string, disabled bool) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить виджет клиента
// @Description Вручную включает или отключает внешний виджет клиента и уведомляет его webhook.
// @Tags Clients
// @Accept  json
// @Produce  json
// @Param id path string true "ID клиента"
// @Param request body Request true "Новое состояние виджета"
// @Success 200 {object} map[string]any "Состояние сохранено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id}/widget [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.widget"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Disabled == nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.ToggleWidget(r.Context(), id, *req.Disabled); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("client not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
			return
		}
		log.Error("failed to toggle widget", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to toggle widget"))
		return
	}

	log.Info("widget toggled", slog.String("id", id), slog.Bool("disabled", *req.Disabled))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"client_id": id,
		"disabled":  *req.Disabled,
	}))
}
