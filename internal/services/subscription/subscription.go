// Package services содержит бизнес-логику для управления подписками и кешированием.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	"github.com/magabrotheeeer/cloud-chaser/internal/storage/repository"
)

// ErrAlreadySubscribed у пользователя уже есть активная подписка на продукт.
var ErrAlreadySubscribed = errors.New("active subscription for this product already exists")

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateActiveSubscription создает активную подписку в одной транзакции.
	CreateActiveSubscription(ctx context.Context, userID, productID int64, startDate time.Time) (*models.Subscription, error)
	// ListActiveProductIDs возвращает id продуктов с активными подписками пользователя.
	ListActiveProductIDs(ctx context.Context, userID int64) ([]int64, error)
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

// SubscriptionService реализует бизнес-логику работы с подписками, включая кеширование.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Subscribe оформляет подписку пользователя на продукт: статус Active,
// дата начала — сегодня, без даты окончания. Если активная подписка на
// этот продукт уже существует (в том числе создана конкурентным запросом),
// возвращается ErrAlreadySubscribed.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, productID int64) (*models.Subscription, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	sub, err := s.repo.CreateActiveSubscription(ctx, userID, productID, today)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	s.log.Info("created new subscription", slog.Int64("id", sub.ID))

	if err := s.cache.Invalidate(activeIDsCacheKey(userID)); err != nil {
		s.log.Warn("failed to invalidate active ids cache", slog.Any("err", err))
	}
	return sub, nil
}

// ListActiveProductIDs возвращает id продуктов, на которые у пользователя
// есть активные подписки, используя кеш или репозиторий.
func (s *SubscriptionService) ListActiveProductIDs(ctx context.Context, userID int64) ([]int64, error) {
	cacheKey := activeIDsCacheKey(userID)
	var cached []int64
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read active ids cache", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	ids, err := s.repo.ListActiveProductIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, ids, time.Hour); err != nil {
		s.log.Warn("failed to cache active ids", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return ids, nil
}

func activeIDsCacheKey(userID int64) string {
	return fmt.Sprintf("subscription:active-ids:%d", userID)
}
