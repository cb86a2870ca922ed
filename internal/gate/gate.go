// Package gate реализует решение о доступе для одного HTTP-запроса.
//
// Decide — чистая функция от пути запроса и результата опроса сессионного
// провайдера. Решение нигде не сохраняется и вычисляется заново на каждом
// запросе: между запросами identity может измениться (вход, выход,
// истечение сессии). Тариф пользователя здесь не учитывается вовсе —
// гейт проверяет только наличие аутентификации.
package gate

import (
	"strings"

	"github.com/magabrotheeeer/access-gate/internal/models"
)

// Служебные пути.
const (
	// LoginPath — страница входа. Доступна анонимно, но аутентифицированный
	// пользователь с неё уводится на HomePath.
	LoginPath = "/login"
	// HomePath — путь, на который уводится аутентифицированный пользователь со страницы входа.
	HomePath = "/"
)

// staticExempt — пути, обслуживаемые без опроса сессионного провайдера.
var staticExemptPaths = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

var staticExemptPrefixes = []string{
	"/static/",
	"/docs",
}

// exempt — пути, разрешённые независимо от наличия identity. Сессионный
// провайдер для них всё же опрашивается, чтобы передать identity дальше.
var exemptPaths = map[string]struct{}{
	"/register": {},
	// Статус подписки доступен и анонимно: для таких вызовов резолвер
	// возвращает free, не обращаясь к хранилищу.
	"/api/subscription": {},
}

var exemptPrefixes = []string{
	// Callback-пути протокола аутентификации.
	"/api/auth/",
}

// Decision — результат проверки доступа для одного запроса.
// Не сохраняется между запросами.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// IsStaticExempt сообщает, что путь обслуживается без какой-либо проверки
// сессии: health-чеки, метрики, статика, документация.
func IsStaticExempt(path string) bool {
	if _, ok := staticExemptPaths[path]; ok {
		return true
	}
	for _, prefix := range staticExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IsExempt сообщает, что путь разрешён независимо от наличия identity.
func IsExempt(path string) bool {
	if IsStaticExempt(path) {
		return true
	}
	if _, ok := exemptPaths[path]; ok {
		return true
	}
	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Decide вычисляет решение о доступе. Правила применяются по порядку:
//
//  1. Явно освобождённый путь — разрешить.
//  2. Identity не определена — запретить с редиректом на страницу входа.
//     Сама страница входа при этом остаётся доступной.
//  3. Identity определена, а путь — страница входа: запретить с редиректом
//     на главную, чтобы вошедший пользователь не попадал на вход повторно.
//  4. Иначе — разрешить.
//
// Сбой сессионного провайдера вызывающая сторона обязана передавать сюда
// как отсутствие identity: при неопределённости доступ закрывается.
func Decide(path string, identity *models.Identity) Decision {
	switch {
	case IsExempt(path):
		return Decision{Allow: true}
	case identity == nil && path != LoginPath:
		return Decision{Allow: false, RedirectTo: LoginPath}
	case identity != nil && path == LoginPath:
		return Decision{Allow: false, RedirectTo: HomePath}
	default:
		return Decision{Allow: true}
	}
}
