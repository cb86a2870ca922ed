package accessgate

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/access-gate/internal/http/handlers/affiliate/transactionlist"
	"github.com/magabrotheeeer/access-gate/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/access-gate/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/access-gate/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/access-gate/internal/http/handlers/subscription/status"
	"github.com/magabrotheeeer/access-gate/internal/http/handlers/subscription/upgrade"
	"github.com/magabrotheeeer/access-gate/internal/http/middlewarectx"
	affiliateservice "github.com/magabrotheeeer/access-gate/internal/services/affiliate"
	authservice "github.com/magabrotheeeer/access-gate/internal/services/auth"
	subscriptionservice "github.com/magabrotheeeer/access-gate/internal/services/subscription"
	"github.com/magabrotheeeer/access-gate/internal/session"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Гейт стоит глобально: каждый запрос, кроме статически освобождённых
// путей, проходит через опрос сессионного провайдера и правила доступа.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	oracle session.Oracle,
	authService *authservice.AuthService,
	subscriptionService *subscriptionservice.SubscriptionService,
	affiliateService *affiliateservice.AffiliateService,
) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.GateMiddleware(oracle, logger),
	)

	r.Post("/register", register.New(logger, authService).ServeHTTP)
	r.Post("/login", login.New(logger, authService).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/subscription", status.New(logger, subscriptionService).ServeHTTP)
		r.Post("/subscription/upgrade", upgrade.New(logger, subscriptionService).ServeHTTP)
		r.Get("/user/affiliate/transactions", transactionlist.New(logger, affiliateService).ServeHTTP)
	})

	r.Get("/healthz", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
