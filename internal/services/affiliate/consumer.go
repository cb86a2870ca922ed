package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator"
)

const appendTimeout = 10 * time.Second

// ReferralEvent — событие от внешнего платёжного/реферального сервиса.
type ReferralEvent struct {
	UserUID string `json:"user_uid" validate:"required,uuid"`
	Amount  int64  `json:"amount" validate:"required,gt=0"`
	Kind    string `json:"kind" validate:"required"`
}

// HandleReferralEvent разбирает событие из очереди и добавляет его в реестр.
// Возвращённая ошибка приводит к nack и повторной доставке сообщения.
func (s *AffiliateService) HandleReferralEvent(body []byte) error {
	const op = "affiliate.HandleReferralEvent"

	var ev ReferralEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := validator.New().Struct(ev); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()

	if _, err := s.Append(ctx, ev.UserUID, ev.Amount, ev.Kind); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
