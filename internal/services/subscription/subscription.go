// Package services содержит бизнес-логику определения статуса подписки.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/access-gate/internal/lib/sl"
	"github.com/magabrotheeeer/access-gate/internal/models"
)

// DefaultBillingPeriod — длительность одного оплаченного периода pro.
const DefaultBillingPeriod = 30 * 24 * time.Hour

const cacheTTL = time.Hour

// SubscriptionRepository определяет методы для работы с записями подписок в хранилище.
type SubscriptionRepository interface {
	// FindByUser возвращает последнюю запись подписки пользователя или nil, если её нет.
	FindByUser(ctx context.Context, userUID string) (*models.SubscriptionRecord, error)
	// Upsert сохраняет запись подписки, полностью замещая предыдущую.
	Upsert(ctx context.Context, rec models.SubscriptionRecord) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SubscriptionService вычисляет эффективный тариф пользователя и выполняет
// перевод на pro. Кешируется только хранимая запись; действительность
// срока всегда проверяется заново в момент чтения, поэтому кеш не может
// продлить просроченный доступ.
type SubscriptionService struct {
	repo          SubscriptionRepository
	cache         Cache
	log           *slog.Logger
	billingPeriod time.Duration
	now           func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// Неположительный billingPeriod заменяется на DefaultBillingPeriod.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger, billingPeriod time.Duration) *SubscriptionService {
	if billingPeriod <= 0 {
		billingPeriod = DefaultBillingPeriod
	}
	return &SubscriptionService{
		repo:          repo,
		cache:         cache,
		log:           log,
		billingPeriod: billingPeriod,
		now:           time.Now,
	}
}

// ResolveForUser возвращает эффективный статус подписки пользователя.
//
// Пустой userUID означает анонимный вызов: возвращается free без единого
// обращения к кешу или хранилищу. Ошибка хранилища тоже даёт free — на оси
// прав доступа сервис закрывается, а не открывается; сбой при этом
// логируется, хотя внешний контракт его не различает.
func (s *SubscriptionService) ResolveForUser(ctx context.Context, userUID string) models.SubscriptionStatus {
	if userUID == "" {
		return models.SubscriptionStatus{Plan: models.PlanFree}
	}
	rec, err := s.loadRecord(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load subscription record, reporting free",
			slog.String("user_uid", userUID), sl.Err(err))
		return models.SubscriptionStatus{Plan: models.PlanFree}
	}
	return rec.EffectiveStatus(s.now())
}

// UpgradeToPro переводит пользователя на тариф pro на один платёжный период
// от текущего момента. Повторный вызов продлевает срок заново от "сейчас" —
// это документированное поведение при ретраях, а не две независимые оплаты.
func (s *SubscriptionService) UpgradeToPro(ctx context.Context, userUID string) (models.SubscriptionStatus, error) {
	validUntil := s.now().Add(s.billingPeriod)
	rec := models.SubscriptionRecord{
		UserUID:    userUID,
		Plan:       models.PlanPro,
		ValidUntil: &validUntil,
		UpdatedAt:  s.now(),
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return models.SubscriptionStatus{}, err
	}

	cacheKey := cacheKeyFor(userUID)
	if err := s.cache.Set(cacheKey, rec, cacheTTL); err != nil {
		s.log.Warn("failed to refresh cached subscription record", slog.String("key", cacheKey), sl.Err(err))
	}

	s.log.Info("subscription upgraded",
		slog.String("user_uid", userUID), slog.Time("valid_until", validUntil))
	return rec.EffectiveStatus(s.now()), nil
}

// loadRecord возвращает хранимую запись подписки, используя кеш или репозиторий.
func (s *SubscriptionService) loadRecord(ctx context.Context, userUID string) (*models.SubscriptionRecord, error) {
	cacheKey := cacheKeyFor(userUID)

	var cached models.SubscriptionRecord
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("subscription cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if err == nil && found {
		return &cached, nil
	}

	rec, err := s.repo.FindByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		if err := s.cache.Set(cacheKey, rec, cacheTTL); err != nil {
			s.log.Warn("failed to cache subscription record", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return rec, nil
}

func cacheKeyFor(userUID string) string {
	return "subscription:" + userUID
}
