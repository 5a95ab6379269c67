// Package create реализует HTTP-обработчик для создания бронирований выезда бригады.
//
// Handler принимает JSON-запрос с данными бронирования, валидирует их,
// проверяет занятость слота через бизнес-логику и возвращает ID созданной записи.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/solarclean/reservation-backend/internal/http/response"
	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/models"
	"github.com/solarclean/reservation-backend/internal/storage/repository"
)

// Handler управляет HTTP-запросами на создание бронирований.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики бронирований
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания бронирования.
type Service interface {
	Create(ctx context.Context, req models.DummyReservation) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать бронирование
// @Description Создает бронирование выезда бригады. Слот на дату и время может быть занят только один раз.
// @Tags Reservations
// @Accept  json
// @Produce  json
// @Param request body models.DummyReservation true "Данные бронирования"
// @Success 200 {object} map[string]any "Успешное создание бронирования"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Слот уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reservations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reservation.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyReservation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			log.Error("time slot already taken",
				slog.String("date", req.Date), slog.String("time_slot", req.TimeSlot))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("time slot already taken"))
			return
		}
		log.Error("failed to create reservation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create reservation"))
		return
	}

	log.Info("success to create reservation", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"reservation_id": id,
	}))
}
