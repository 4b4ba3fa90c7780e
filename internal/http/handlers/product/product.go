// Package product реализует HTTP-обработчики каталога продуктов.
// Запись доступна операторам и администраторам; выпадающий список
// активных продуктов открыт любому авторизованному пользователю.
package product

import (
	"context"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога продуктов.
type Service interface {
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	ListProductOptions(ctx context.Context) ([]models.ProductOption, error)
	UpdateProduct(ctx context.Context, productID int64, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
}

// Item — продукт в ответах пакета.
type Item struct {
	ID           int64   `json:"id_product"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	MonthlyPrice float64 `json:"monthly_price"`
	IsActive     bool    `json:"is_active"`
}

func convertItem(p *models.Product) Item {
	return Item{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		MonthlyPrice: p.MonthlyPrice,
		IsActive:     p.IsActive,
	}
}
