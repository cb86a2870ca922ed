// Package models содержит доменные структуры сервиса контроля доступа:
// аутентифицированную личность, запись и статус подписки, транзакции
// реферального реестра и учётную запись пользователя.
package models

// Identity представляет аутентифицированного пользователя, полученного
// от сессионного провайдера. Структура только читается при обработке
// запроса и никогда не изменяется сервисом.
type Identity struct {
	UID      string // Уникальный идентификатор пользователя
	Username string // Имя пользователя
	Email    string // Электронная почта
}
