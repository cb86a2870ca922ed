package models

import "time"

// Возможные значения тарифа.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// SubscriptionRecord — хранимая запись о подписке пользователя.
// На пользователя существует не более одной строки, новая запись
// полностью замещает предыдущую.
type SubscriptionRecord struct {
	UserUID    string     `json:"user_uid"`
	Plan       string     `json:"plan"`
	ValidUntil *time.Time `json:"valid_until"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SubscriptionStatus — эффективный статус подписки, вычисленный
// на момент чтения. Для тарифа free ValidUntil всегда nil.
type SubscriptionStatus struct {
	Plan       string     `json:"plan"`
	ValidUntil *time.Time `json:"valid_until"`
}

// EffectiveStatus вычисляет действующий статус записи на момент now.
// Срок действия проверяется при чтении: запись с прошедшим valid_until
// считается free независимо от сохранённого поля plan. Отсутствие записи
// (nil) также означает free.
func (r *SubscriptionRecord) EffectiveStatus(now time.Time) SubscriptionStatus {
	if r == nil || r.ValidUntil == nil || !r.ValidUntil.After(now) {
		return SubscriptionStatus{Plan: PlanFree}
	}
	return SubscriptionStatus{Plan: PlanPro, ValidUntil: r.ValidUntil}
}
