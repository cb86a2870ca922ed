// Package transactionlist реализует HTTP-обработчик чтения реферального реестра.
//
// Чтение строго ограничено записями вызывающего: необязательный параметр
// user_uid допустим только со значением, совпадающим с UID из сессии.
// Ошибка хранилища отдаётся наружу, а не маскируется пустым списком.
package transactionlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/access-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/access-gate/internal/http/response"
	"github.com/magabrotheeeer/access-gate/internal/lib/sl"
	"github.com/magabrotheeeer/access-gate/internal/models"
	services "github.com/magabrotheeeer/access-gate/internal/services/affiliate"
)

// Service описывает интерфейс бизнес-логики чтения реестра.
type Service interface {
	ListForUser(ctx context.Context, callerUID, requestedUID string) ([]*models.AffiliateTransaction, error)
	TotalForUser(ctx context.Context, callerUID string) (int64, error)
}

// Handler обрабатывает запросы на получение транзакций вызывающего.
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
// @Summary Транзакции реферального реестра вызывающего
// @Description Возвращает транзакции вызывающего от новых к старым и пожизненную сумму выплат. Параметр user_uid допустим только со значением UID вызывающего.
// @Tags Affiliate
// @Produce  json
// @Param user_uid query string false "UID пользователя, обязан совпадать с UID вызывающего"
// @Success 200 {object} map[string]any "Список транзакций"
// @Failure 401 {object} response.ErrorResponse "Вызов без аутентификации"
// @Failure 403 {object} response.ErrorResponse "Запрошены транзакции другого пользователя"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/user/affiliate/transactions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.affiliate.transactionlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	callerUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	requestedUID := r.URL.Query().Get("user_uid")

	txs, err := h.service.ListForUser(r.Context(), callerUID, requestedUID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			log.Info("transactions request rejected: no authenticated user")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
		case errors.Is(err, services.ErrForeignUser):
			log.Info("transactions request rejected: foreign user",
				slog.String("caller_uid", callerUID), slog.String("requested_uid", requestedUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		default:
			log.Error("failed to list transactions", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list transactions"))
		}
		return
	}

	total, err := h.service.TotalForUser(r.Context(), callerUID)
	if err != nil {
		log.Error("failed to sum transactions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not sum transactions"))
		return
	}

	log.Info("success to list transactions",
		slog.String("caller_uid", callerUID), slog.Int("count", len(txs)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count":   len(txs),
		"transactions": txs,
		"total_amount": total,
	}))
}
