// Package confirmpayment реализует HTTP-обработчик подтверждения оплаты.
//
// Дата следующего платежа сдвигается на один интервал абонемента вперёд
// от прежнего значения; результат возвращается в JSON-ответе.
package confirmpayment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/solarclean/reservation-backend/internal/http/response"
	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/storage/repository"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	ConfirmPayment(ctx context.Context, id string) (time.Time, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату
// @Description Сдвигает дату следующего платежа клиента на один интервал вперёд.
// @Tags Clients
// @Produce  json
// @Param id path string true "ID клиента"
// @Success 200 {object} map[string]any "Новая дата платежа"
// @Failure 404 {object} response.ErrorResponse "Клиент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id}/confirm-payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.confirmpayment"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	next, err := h.service.ConfirmPayment(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("client not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
			return
		}
		log.Error("failed to confirm payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm payment"))
		return
	}

	log.Info("payment confirmed", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"next_payment_date": next.Format("2006-01-02"),
	}))
}
