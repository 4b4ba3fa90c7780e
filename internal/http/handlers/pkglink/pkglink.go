// Package pkglink реализует HTTP-обработчики связей компонент-продукт
// с количеством. Маршруты пакета доступны операторам и администраторам.
package pkglink

import (
	"context"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// Service описывает интерфейс бизнес-логики связей компонент-продукт.
type Service interface {
	CreateLink(ctx context.Context, link models.ProductComponent) (*models.ProductComponent, error)
	ListLinks(ctx context.Context) ([]*models.ProductComponent, error)
	UpdateLink(ctx context.Context, productID, componentID int64, quantity int) (*models.ProductComponent, error)
	DeleteLink(ctx context.Context, productID, componentID int64) error
}

// Item — связь компонент-продукт в ответах пакета.
type Item struct {
	ProductID     int64  `json:"id_product"`
	ComponentID   int64  `json:"id_component"`
	Quantity      int    `json:"quantity"`
	ProductName   string `json:"product_name,omitempty"`
	ComponentName string `json:"component_name,omitempty"`
}

func convertItem(link *models.ProductComponent) Item {
	return Item{
		ProductID:     link.ProductID,
		ComponentID:   link.ComponentID,
		Quantity:      link.Quantity,
		ProductName:   link.ProductName,
		ComponentName: link.ComponentName,
	}
}
