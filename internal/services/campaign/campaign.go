// Package services содержит бизнес-логику для управления рекламными кампаниями.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	"github.com/magabrotheeeer/cloud-chaser/internal/rabbitmq"
	"github.com/magabrotheeeer/cloud-chaser/internal/storage/repository"
)

// Ошибки бизнес-правил кампаний.
var (
	// ErrNoActiveSubscription у пользователя нет активной подписки на продукт.
	ErrNoActiveSubscription = errors.New("no active subscription for this product")
	// ErrInvalidDateRange дата начала позже даты окончания.
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	// ErrNotFound кампания не найдена.
	ErrNotFound = errors.New("campaign not found")
)

// CampaignRepository определяет методы для работы с кампаниями в хранилище.
type CampaignRepository interface {
	// CreateCampaignForActiveSubscription создает кампанию под активной подпиской.
	CreateCampaignForActiveSubscription(ctx context.Context, userID, productID int64, campaign models.Campaign) (*models.Campaign, error)
	// GetCampaign возвращает кампанию по ID.
	GetCampaign(ctx context.Context, campaignID int64) (*models.Campaign, error)
	// UpdateCampaign применяет частичное обновление кампании.
	UpdateCampaign(ctx context.Context, campaignID int64, patch models.CampaignPatch) (*models.Campaign, error)
	// DeleteCampaign удаляет кампанию и возвращает количество удалённых строк.
	DeleteCampaign(ctx context.Context, campaignID int64) (int, error)
	// ListCampaignsForUser возвращает кампании пользователя.
	ListCampaignsForUser(ctx context.Context, userID int64) ([]*models.Campaign, error)
	// ListAllCampaigns возвращает все кампании.
	ListAllCampaigns(ctx context.Context) ([]*models.Campaign, error)
	// GetCampaignOwner возвращает владельца кампании через ее подписку.
	GetCampaignOwner(ctx context.Context, campaignID int64) (*models.User, error)
}

// Publisher публикует события уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// StatusChangedEvent событие смены статуса кампании для очереди уведомлений.
type StatusChangedEvent struct {
	CampaignID int64  `json:"id_campaign"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	UserName   string `json:"username"`
	Email      string `json:"email"`
}

// CampaignService реализует бизнес-логику работы с кампаниями.
//
// Машина статусов открытая: начальный статус Pending, дальнейшие переходы
// между Pending, Active, Completed и On Hold не упорядочены и доступны
// любому авторизованному вызову через Update.
type CampaignService struct {
	repo      CampaignRepository
	publisher Publisher
	log       *slog.Logger
}

// NewCampaignService создает новый экземпляр CampaignService.
// publisher может быть nil — тогда события смены статуса не публикуются.
func NewCampaignService(repo CampaignRepository, publisher Publisher, log *slog.Logger) *CampaignService {
	return &CampaignService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Create создает кампанию со статусом Pending против активной подписки
// пользователя на продукт. Без активной подписки возвращается
// ErrNoActiveSubscription; при start > end — ErrInvalidDateRange.
func (s *CampaignService) Create(ctx context.Context, userID, productID int64, name string, startDate, endDate time.Time) (*models.Campaign, error) {
	if startDate.After(endDate) {
		return nil, ErrInvalidDateRange
	}

	campaign := models.Campaign{
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
	}
	created, err := s.repo.CreateCampaignForActiveSubscription(ctx, userID, productID, campaign)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	s.log.Info("created new campaign", slog.Int64("id", created.ID))
	return created, nil
}

// Update применяет частичное обновление кампании: изменяются только поля,
// присутствующие в патче. Итоговый диапазон дат перепроверяется после
// применения патча, так что обновление не может сделать диапазон невалидным.
func (s *CampaignService) Update(ctx context.Context, campaignID int64, patch models.CampaignPatch) (*models.Campaign, error) {
	existing, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	startDate := existing.StartDate
	if patch.StartDate != nil {
		startDate = *patch.StartDate
	}
	endDate := existing.EndDate
	if patch.EndDate != nil {
		endDate = *patch.EndDate
	}
	if startDate.After(endDate) {
		return nil, ErrInvalidDateRange
	}

	updated, err := s.repo.UpdateCampaign(ctx, campaignID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.publisher != nil && patch.Status != nil && *patch.Status != existing.Status {
		event := StatusChangedEvent{
			CampaignID: updated.ID,
			Name:       updated.Name,
			Status:     string(updated.Status),
		}
		owner, err := s.repo.GetCampaignOwner(ctx, campaignID)
		if err != nil {
			s.log.Warn("failed to resolve campaign owner", sl.Err(err))
		} else {
			event.UserName = owner.Name
			event.Email = owner.Email
		}
		if err := s.publisher.Publish(rabbitmq.RoutingKeyCampaignStatus, event); err != nil {
			s.log.Warn("failed to publish status change event", sl.Err(err))
		}
	}
	return updated, nil
}

// Delete удаляет кампанию по ID.
func (s *CampaignService) Delete(ctx context.Context, campaignID int64) error {
	count, err := s.repo.DeleteCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForUser возвращает кампании пользователя с названиями продуктов.
func (s *CampaignService) ListForUser(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	return s.repo.ListCampaignsForUser(ctx, userID)
}

// ListAll возвращает все кампании с названиями продуктов.
func (s *CampaignService) ListAll(ctx context.Context) ([]*models.Campaign, error) {
	return s.repo.ListAllCampaigns(ctx)
}
