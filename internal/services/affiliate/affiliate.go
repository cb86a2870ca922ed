// Package services содержит бизнес-логику реферального реестра.
//
// Реестр только пополняется: записи добавляются единственной точкой входа
// Append и никогда не изменяются. Чтение строго ограничено записями самого
// вызывающего — это граница авторизации, а не просто фильтр.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/access-gate/internal/models"
)

// ErrForeignUser возвращается, когда вызывающий запрашивает транзакции
// другого пользователя.
var ErrForeignUser = errors.New("transactions belong to another user")

// ErrUnauthenticated возвращается при вызове без аутентифицированного пользователя.
var ErrUnauthenticated = errors.New("caller is not authenticated")

// AffiliateRepository определяет методы для работы с реестром в хранилище.
type AffiliateRepository interface {
	// ListByUser возвращает транзакции пользователя от новых к старым.
	ListByUser(ctx context.Context, userUID string) ([]*models.AffiliateTransaction, error)
	// SumByUser возвращает сумму всех транзакций пользователя.
	SumByUser(ctx context.Context, userUID string) (int64, error)
	// Append добавляет транзакцию и возвращает её ID.
	Append(ctx context.Context, tx models.AffiliateTransaction) (string, error)
}

// AffiliateService реализует чтение и пополнение реферального реестра.
type AffiliateService struct {
	repo AffiliateRepository
	log  *slog.Logger
}

// NewAffiliateService создает новый экземпляр AffiliateService.
func NewAffiliateService(repo AffiliateRepository, log *slog.Logger) *AffiliateService {
	return &AffiliateService{
		repo: repo,
		log:  log,
	}
}

// ListForUser возвращает транзакции вызывающего от новых к старым.
//
// requestedUID — userUID из параметров запроса; он может быть пустым, но
// если задан, обязан совпадать с UID аутентифицированного вызывающего.
// Отсутствие транзакций — это пустой список, а не ошибка. Ошибка хранилища
// наружу не сглаживается: для финансовых записей безопасного значения
// по умолчанию не существует.
func (s *AffiliateService) ListForUser(ctx context.Context, callerUID, requestedUID string) ([]*models.AffiliateTransaction, error) {
	if callerUID == "" {
		return nil, ErrUnauthenticated
	}
	if requestedUID != "" && requestedUID != callerUID {
		return nil, ErrForeignUser
	}
	return s.repo.ListByUser(ctx, callerUID)
}

// TotalForUser возвращает пожизненную сумму выплат пользователя.
// Сумма всегда вычисляется из транзакций и нигде не хранится.
func (s *AffiliateService) TotalForUser(ctx context.Context, callerUID string) (int64, error) {
	if callerUID == "" {
		return 0, ErrUnauthenticated
	}
	return s.repo.SumByUser(ctx, callerUID)
}

// Append добавляет транзакцию в реестр и возвращает её ID.
// Это единственная точка записи реестра в сервисе.
func (s *AffiliateService) Append(ctx context.Context, userUID string, amount int64, kind string) (string, error) {
	tx := models.AffiliateTransaction{
		ID:        uuid.New().String(),
		UserUID:   userUID,
		Amount:    amount,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.repo.Append(ctx, tx)
	if err != nil {
		return "", err
	}
	s.log.Info("affiliate transaction appended",
		slog.String("id", id), slog.String("user_uid", userUID), slog.Int64("amount", amount))
	return id, nil
}
