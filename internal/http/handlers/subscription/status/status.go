// Package status реализует HTTP-обработчик чтения статуса подписки.
//
// Обработчик никогда не отвечает ошибкой: анонимный запрос и любой сбой
// разрешения статуса дают тариф free. UID берётся из контекста запроса,
// куда его кладёт middleware гейта.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/access-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/access-gate/internal/http/response"
	"github.com/magabrotheeeer/access-gate/internal/models"
)

// Service описывает интерфейс бизнес-логики определения статуса подписки.
type Service interface {
	ResolveForUser(ctx context.Context, userUID string) models.SubscriptionStatus
}

// Handler обрабатывает запросы на получение статуса подписки вызывающего.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус подписки вызывающего
// @Description Возвращает эффективный тариф пользователя. Анонимный запрос получает free, ошибкой не является.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} map[string]any "Статус подписки"
// @Router /api/subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)

	status := h.service.ResolveForUser(r.Context(), userUID)

	log.Info("subscription status resolved",
		slog.String("user_uid", userUID), slog.String("plan", status.Plan))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plan":        status.Plan,
		"valid_until": status.ValidUntil,
	}))
}
