// Package services содержит бизнес-логику администрирования клиентских
// учетных записей.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/cloud-chaser/internal/lib/password"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	"github.com/magabrotheeeer/cloud-chaser/internal/storage/repository"
)

// Ошибки администрирования клиентов.
var (
	// ErrEmailTaken почта уже зарегистрирована.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNotFound пользователь не найден.
	ErrNotFound = errors.New("user not found")
)

// ClientRepository определяет методы для работы с учетными записями в хранилище.
type ClientRepository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	ListClients(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, userID int64) (int, error)
}

// ClientService реализует администрирование клиентских учетных записей.
// Все операции доступны только администраторам — проверка роли выполняется
// на уровне HTTP middleware.
type ClientService struct {
	repo ClientRepository
	log  *slog.Logger
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, log *slog.Logger) *ClientService {
	return &ClientService{repo: repo, log: log}
}

// List возвращает все учетные записи с ролями CLIENT и OPERATIVE.
func (s *ClientService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListClients(ctx)
}

// Create создает учетную запись с заданной ролью. В отличие от публичной
// регистрации роль задается администратором; политика паролей действует
// и здесь, почта нормализуется и проверяется на занятость.
func (s *ClientService) Create(ctx context.Context, name, email, rawPassword string, role models.Role, phoneNumber, address *string) (*models.User, error) {
	if err := password.ValidatePolicy(rawPassword); err != nil {
		return nil, err
	}

	normalizedEmail := strings.ToLower(email)
	if _, err := s.repo.GetUserByEmail(ctx, normalizedEmail); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Name:         name,
		Email:        normalizedEmail,
		PasswordHash: hashed,
		Role:         role,
		PhoneNumber:  phoneNumber,
		Address:      address,
	}
	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	user.ID = id
	s.log.Info("created new client", slog.Int64("id", id))
	return &user, nil
}

// Update применяет частичное обновление учетной записи.
func (s *ClientService) Update(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.repo.UpdateUser(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Delete удаляет учетную запись. Подписки пользователя удаляются каскадно,
// кампании — каскадно от подписок.
func (s *ClientService) Delete(ctx context.Context, userID int64) error {
	count, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.log.Info("deleted client", slog.Int64("id", userID))
	return nil
}
