package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/access-gate/internal/models"
)

// FindByUser возвращает последнюю запись подписки пользователя.
// Отсутствие записи не является ошибкой: возвращается (nil, nil).
func (s *Storage) FindByUser(ctx context.Context, userUID string) (*models.SubscriptionRecord, error) {
	const op = "storage.FindByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, plan, valid_until, updated_at
			  FROM subscriptions
			  WHERE user_uid = $1`
	var rec models.SubscriptionRecord
	var validUntil sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, userUID).
		Scan(&rec.UserUID, &rec.Plan, &validUntil, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if validUntil.Valid {
		rec.ValidUntil = &validUntil.Time
	}
	return &rec, nil
}

// Upsert сохраняет запись подписки пользователя, полностью замещая
// предыдущую: одна строка на пользователя, последняя запись побеждает.
func (s *Storage) Upsert(ctx context.Context, rec models.SubscriptionRecord) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, plan, valid_until, updated_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET plan = EXCLUDED.plan,
			      valid_until = EXCLUDED.valid_until,
			      updated_at = EXCLUDED.updated_at`
	_, err := s.DB.ExecContext(ctx, query, rec.UserUID, rec.Plan, rec.ValidUntil, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
