// Package upgrade реализует HTTP-обработчик перевода подписки на тариф pro.
//
// Повторный вызов не ошибка: срок действия продлевается заново от текущего
// момента, поэтому ретраи оплаты безопасны.
package upgrade

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/access-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/access-gate/internal/http/response"
	"github.com/magabrotheeeer/access-gate/internal/lib/sl"
	"github.com/magabrotheeeer/access-gate/internal/models"
)

// Service описывает интерфейс бизнес-логики перевода на pro.
type Service interface {
	UpgradeToPro(ctx context.Context, userUID string) (models.SubscriptionStatus, error)
}

// Handler обрабатывает запросы на перевод подписки вызывающего на pro.
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
// @Summary Перевод подписки на pro
// @Description Переводит вызывающего на тариф pro на один платёжный период от текущего момента. Повторный вызов продлевает срок заново.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} map[string]any "Подписка обновлена"
// @Failure 401 {object} response.ErrorResponse "Вызов без аутентификации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/subscription/upgrade [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upgrade"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	if userUID == "" {
		log.Info("upgrade rejected: no authenticated user")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	status, err := h.service.UpgradeToPro(r.Context(), userUID)
	if err != nil {
		log.Error("failed to upgrade subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not upgrade subscription"))
		return
	}

	log.Info("subscription upgraded", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"success":     true,
		"plan":        status.Plan,
		"valid_until": status.ValidUntil,
	}))
}
