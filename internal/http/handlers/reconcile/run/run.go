// Package run реализует HTTP-обработчик для ручного запуска сверки платежей.
//
// Возвращает сводку прохода: количество клиентов в каждой категории,
// отправленных уведомлений и отключённых аккаунтов.
package run

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/solarclean/reservation-backend/internal/http/response"
	"github.com/solarclean/reservation-backend/internal/lib/sl"
	"github.com/solarclean/reservation-backend/internal/services/reconcile"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс движка сверки платежей.
type Service interface {
	Run(ctx context.Context, today time.Time) (reconcile.Summary, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запустить сверку платежей
// @Description Выполняет один проход сверки на текущую дату и возвращает сводку.
// @Tags Reconcile
// @Produce  json
// @Success 200 {object} map[string]any "Сводка прохода"
// @Failure 500 {object} response.ErrorResponse "Ошибка выборки клиентов"
// @Router /reconcile/run [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reconcile.run"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sum, err := h.service.Run(r.Context(), time.Now().UTC())
	if err != nil {
		log.Error("reconciliation run failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("reconciliation run failed"))
		return
	}

	log.Info("reconciliation run finished",
		slog.Int("due_soon", sum.DueSoon), slog.Int("overdue", sum.Overdue))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"summary": sum,
	}))
}
