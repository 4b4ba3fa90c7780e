// Package component реализует HTTP-обработчики каталога компонентов.
// Маршруты пакета закрыты middleware ролей: запись доступна операторам
// и администраторам.
package component

import (
	"context"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога компонентов.
type Service interface {
	CreateComponent(ctx context.Context, c models.Component) (*models.Component, error)
	ListComponents(ctx context.Context) ([]*models.Component, error)
	UpdateComponent(ctx context.Context, componentID int64, patch models.ComponentPatch) (*models.Component, error)
	DeleteComponent(ctx context.Context, componentID int64) error
}

// Item — компонент в ответах пакета.
type Item struct {
	ID            int64   `json:"id_component"`
	Name          string  `json:"name"`
	ComponentType string  `json:"component_type"`
	UnitCost      float64 `json:"unit_cost"`
	Description   *string `json:"description,omitempty"`
}

func convertItem(c *models.Component) Item {
	return Item{
		ID:            c.ID,
		Name:          c.Name,
		ComponentType: c.ComponentType,
		UnitCost:      c.UnitCost,
		Description:   c.Description,
	}
}
