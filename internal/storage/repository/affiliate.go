package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/access-gate/internal/models"
)

// Append добавляет транзакцию в реферальный реестр и возвращает её ID.
// Записи реестра никогда не обновляются и не удаляются.
func (s *Storage) Append(ctx context.Context, tx models.AffiliateTransaction) (string, error) {
	const op = "storage.AppendTransaction"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO affiliate_transactions (id, user_uid, amount, kind, created_at)
			  VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		tx.ID, tx.UserUID, tx.Amount, tx.Kind, tx.CreatedAt).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListByUser возвращает транзакции пользователя от новых к старым.
func (s *Storage) ListByUser(ctx context.Context, userUID string) ([]*models.AffiliateTransaction, error) {
	const op = "storage.ListTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, amount, kind, created_at
			  FROM affiliate_transactions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.AffiliateTransaction
	for rows.Next() {
		var tx models.AffiliateTransaction
		if err := rows.Scan(&tx.ID, &tx.UserUID, &tx.Amount, &tx.Kind, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumByUser возвращает сумму всех транзакций пользователя.
// Сумма вычисляется по записям и нигде не хранится.
func (s *Storage) SumByUser(ctx context.Context, userUID string) (int64, error) {
	const op = "storage.SumTransactions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM affiliate_transactions
			  WHERE user_uid = $1`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
