// Package changeplan реализует HTTP-обработчик смены типа абонемента клиента.
//
// Новая дата платежа пересчитывается от даты регистрации и возвращается
// в JSON-ответе.
package changeplan

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/solarclean/reservation-backend/internal/http/response"
	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/storage/repository"
)

// Request — структура входных данных для смены типа абонемента.
type Request struct {
	Plan string `json:"plan" validate:"required,oneof=monthly yearly"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены абонемента.
type Service interface {
	ChangePlan(ctx context.Context, id, plan string) (time.Time, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сменить тип абонемента
// @Description Меняет тип абонемента клиента и пересчитывает дату платежа от даты регистрации.
// @Tags Clients
// @Accept  json
// @Produce  json
// @Param id path string true "ID клиента"
// @Param request body Request true "Новый тип абонемента"
// @Success 200 {object} map[string]any "Новая дата платежа"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id}/plan [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.changeplan"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	next, err := h.service.ChangePlan(r.Context(), id, req.Plan)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("client not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
			return
		}
		log.Error("failed to change plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to change plan"))
		return
	}

	log.Info("plan changed", slog.String("id", id), slog.String("plan", req.Plan))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plan":              req.Plan,
		"next_payment_date": next.Format("2006-01-02"),
	}))
}
