// Package client реализует HTTP-обработчики администрирования клиентских
// учетных записей. Все маршруты пакета закрыты middleware ролей и доступны
// только администраторам.
package client

import (
	"context"
	"time"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// Service описывает интерфейс бизнес-логики администрирования клиентов.
type Service interface {
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, name, email, rawPassword string, role models.Role, phoneNumber, address *string) (*models.User, error)
	Update(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, userID int64) error
}

// Item — учетная запись в ответах пакета, без чувствительных полей.
type Item struct {
	ID          int64      `json:"id_user"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	Address     *string    `json:"address,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func convertItem(u *models.User) Item {
	return Item{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
