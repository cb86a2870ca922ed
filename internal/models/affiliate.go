package models

import "time"

// AffiliateTransaction — неизменяемая запись реферального реестра,
// привязанная ровно к одному пользователю. Записи только добавляются
// и никогда не редактируются и не удаляются.
type AffiliateTransaction struct {
	ID        string    `json:"id"`
	UserUID   string    `json:"user_uid"`
	Amount    int64     `json:"amount"` // Сумма в минорных единицах валюты
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
