// Package session определяет границу с внешним сессионным провайдером.
//
// Oracle по входящему запросу возвращает аутентифицированного пользователя
// или nil. JWTOracle — реализация поверх подписанных JWT: токен берётся из
// заголовка Authorization или из сессионной cookie.
package session

import (
	"net/http"
	"strings"

	"github.com/magabrotheeeer/access-gate/internal/lib/jwt"
	"github.com/magabrotheeeer/access-gate/internal/models"
)

// CookieName — имя cookie с сессионным токеном.
const CookieName = "session_token"

// Oracle описывает внешний сессионный провайдер.
//
// Identify возвращает (nil, nil), когда запрос анонимный. Ошибка означает
// сбой самого провайдера; вызывающая сторона обязана трактовать её как
// отсутствие identity.
type Oracle interface {
	Identify(r *http.Request) (*models.Identity, error)
}

// JWTOracle реализует Oracle поверх подписанных JWT.
type JWTOracle struct {
	maker jwt.Maker
}

// NewJWTOracle создает новый JWTOracle с переданным maker'ом токенов.
func NewJWTOracle(maker jwt.Maker) *JWTOracle {
	return &JWTOracle{maker: maker}
}

// Identify извлекает токен из запроса и проверяет его подпись.
// Отсутствие токена — это анонимный запрос, а не ошибка.
func (o *JWTOracle) Identify(r *http.Request) (*models.Identity, error) {
	tokenStr := tokenFromRequest(r)
	if tokenStr == "" {
		return nil, nil
	}
	claims, err := o.maker.ParseToken(tokenStr)
	if err != nil {
		return nil, err
	}
	return &models.Identity{
		UID:      claims.UserUID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}

// tokenFromRequest ищет токен сначала в заголовке Authorization,
// затем в сессионной cookie.
func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
