// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/cloud-chaser/internal/lib/jwt"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/password"
	"github.com/magabrotheeeer/cloud-chaser/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	"github.com/magabrotheeeer/cloud-chaser/internal/rabbitmq"
	"github.com/magabrotheeeer/cloud-chaser/internal/storage/repository"
)

// Ошибки аутентификации и регистрации.
var (
	// ErrEmailTaken почта уже зарегистрирована.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials неверная почта или пароль. Сообщение одинаковое
	// для несуществующего пользователя и неверного пароля, чтобы не давать
	// перебирать учетные записи.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrUnauthorized токен отсутствует, невалиден или пользователь удален.
	ErrUnauthorized = errors.New("unauthorized")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)

	// GetUserByEmail возвращает пользователя по почте или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по ID или ошибку, если не найден.
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// TouchLastLogin обновляет отметку последнего входа.
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// Publisher публикует события уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// RegisteredEvent событие успешной регистрации для очереди уведомлений.
type RegisteredEvent struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthService отвечает за регистрацию, авторизацию и разрешение JWT
// в пользователя из хранилища.
type AuthService struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	publisher Publisher
	log       *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
// publisher может быть nil — тогда события регистрации не публикуются.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, publisher Publisher, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtMaker:  jwtMaker,
		publisher: publisher,
		log:       log,
	}
}

// Register создает нового пользователя с дефолтной ролью CLIENT.
// Пароль сначала проходит политику стойкости и только потом хешируется;
// почта нормализуется к нижнему регистру. Занятая почта возвращается
// как ErrEmailTaken — и по предварительной проверке, и при гонке
// конкурентных регистраций через уникальный индекс.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string, phoneNumber, address *string) (*models.User, error) {
	if err := password.ValidatePolicy(rawPassword); err != nil {
		return nil, err
	}

	normalizedEmail := strings.ToLower(email)
	if _, err := s.users.GetUserByEmail(ctx, normalizedEmail); err == nil {
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
		Role:         models.RoleClient, // дефолтная роль при регистрации
		PhoneNumber:  phoneNumber,
		Address:      address,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	user.ID = id
	user.CreatedAt = time.Now().UTC()

	if s.publisher != nil {
		event := RegisteredEvent{Name: user.Name, Email: user.Email}
		if err := s.publisher.Publish(rabbitmq.RoutingKeyUserRegistered, event); err != nil {
			s.log.Warn("failed to publish registered event", sl.Err(err))
		}
	}
	return &user, nil
}

// Login проверяет пароль пользователя, обновляет отметку последнего входа
// и генерирует JWT с id пользователя и ролью.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (token string, role models.Role, err error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", "", err
	}
	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.log.Warn("failed to refresh last login", sl.Err(err))
	}
	return token, user.Role, nil
}

// ResolveToken проверяет JWT и возвращает пользователя из хранилища.
// Любая ошибка разбора токена, отсутствие claim или удаленный пользователь
// дают ErrUnauthorized.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims.UserID == 0 {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
