// Package middlewarectx содержит HTTP middleware сервиса контроля доступа.
//
// GateMiddleware на каждом запросе опрашивает сессионного провайдера и
// применяет правила гейта: разрешить, увести на страницу входа или с неё.
// При успехе UID и имя пользователя добавляются в контекст запроса для
// дальнейшего использования в обработчиках.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/access-gate/internal/gate"
	"github.com/magabrotheeeer/access-gate/internal/http/response"
	"github.com/magabrotheeeer/access-gate/internal/lib/sl"
	"github.com/magabrotheeeer/access-gate/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для UID пользователя в контексте
	UserUID Key = "user_uid"
	// User — ключ для имени пользователя в контексте
	User Key = "username"
)

var gateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "access_gate_decisions_total",
	Help: "Access gate decisions by outcome.",
}, []string{"outcome"})

// GateMiddleware возвращает middleware, применяющий правила доступа
// к каждому запросу.
//
// Статически освобождённые пути (health, метрики, статика) пропускаются
// без опроса сессионного провайдера. Для остальных провайдер опрашивается
// заново на каждом запросе; его сбой равнозначен анонимному запросу —
// при неопределённости доступ закрывается, а не открывается.
// Запрет на API-пути отдаётся как 401 JSON, на остальные — как редирект.
func GateMiddleware(oracle session.Oracle, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "gate.Middleware"

			if gate.IsStaticExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			identity, err := oracle.Identify(r)
			if err != nil {
				log.Warn("session oracle failed, treating request as anonymous", sl.Err(err))
				identity = nil
			}

			decision := gate.Decide(r.URL.Path, identity)
			if !decision.Allow {
				gateDecisions.WithLabelValues("deny").Inc()
				if strings.HasPrefix(r.URL.Path, "/api/") {
					w.WriteHeader(http.StatusUnauthorized)
					render.JSON(w, r, response.Error("unauthorized"))
					return
				}
				http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
				return
			}
			gateDecisions.WithLabelValues("allow").Inc()

			if identity != nil {
				ctx := context.WithValue(r.Context(), UserUID, identity.UID)
				ctx = context.WithValue(ctx, User, identity.Username)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
