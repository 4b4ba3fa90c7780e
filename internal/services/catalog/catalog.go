// Package services содержит бизнес-логику для управления каталогом:
// компоненты, продукты и связи продукт-компонент.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
	"github.com/magabrotheeeer/cloud-chaser/internal/storage/repository"
)

// Ошибки бизнес-правил каталога.
var (
	// ErrNotFound запись каталога не найдена.
	ErrNotFound = errors.New("catalog record not found")
	// ErrLinkExists компонент уже привязан к продукту.
	ErrLinkExists = errors.New("component is already linked to this product")
	// ErrProductInUse продукт нельзя удалить, пока на него ссылаются подписки.
	ErrProductInUse = errors.New("product is referenced by subscriptions")
)

// CatalogRepository определяет методы для работы с каталогом в хранилище.
type CatalogRepository interface {
	CreateComponent(ctx context.Context, c models.Component) (int64, error)
	ListComponents(ctx context.Context) ([]*models.Component, error)
	UpdateComponent(ctx context.Context, componentID int64, patch models.ComponentPatch) (*models.Component, error)
	DeleteComponent(ctx context.Context, componentID int64) (int, error)

	CreateProduct(ctx context.Context, p models.Product) (int64, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	ListActiveProductOptions(ctx context.Context) ([]models.ProductOption, error)
	UpdateProduct(ctx context.Context, productID int64, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID int64) (int, error)

	CreateProductComponentLink(ctx context.Context, link models.ProductComponent) (*models.ProductComponent, error)
	ListProductComponentLinks(ctx context.Context) ([]*models.ProductComponent, error)
	UpdateProductComponentLink(ctx context.Context, productID, componentID int64, quantity int) (*models.ProductComponent, error)
	DeleteProductComponentLink(ctx context.Context, productID, componentID int64) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

const productOptionsCacheKey = "products:drop-down"

// CatalogService реализует бизнес-логику каталога, включая кеширование
// выпадающего списка продуктов.
type CatalogService struct {
	repo  CatalogRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// CreateComponent создает компонент каталога.
func (s *CatalogService) CreateComponent(ctx context.Context, c models.Component) (*models.Component, error) {
	id, err := s.repo.CreateComponent(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	s.log.Info("created new component", slog.Int64("id", id))
	return &c, nil
}

// ListComponents возвращает все компоненты каталога.
func (s *CatalogService) ListComponents(ctx context.Context) ([]*models.Component, error) {
	return s.repo.ListComponents(ctx)
}

// UpdateComponent применяет частичное обновление компонента.
func (s *CatalogService) UpdateComponent(ctx context.Context, componentID int64, patch models.ComponentPatch) (*models.Component, error) {
	c, err := s.repo.UpdateComponent(ctx, componentID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// DeleteComponent удаляет компонент; связи с продуктами удаляются каскадно.
func (s *CatalogService) DeleteComponent(ctx context.Context, componentID int64) error {
	count, err := s.repo.DeleteComponent(ctx, componentID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateProduct создает продукт каталога и сбрасывает кеш выпадающего списка.
func (s *CatalogService) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	id, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	s.log.Info("created new product", slog.Int64("id", id))
	s.invalidateProductOptions()
	return &p, nil
}

// ListProducts возвращает все продукты каталога.
func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx)
}

// ListProductOptions возвращает активные продукты для выпадающего списка,
// используя кеш или репозиторий.
func (s *CatalogService) ListProductOptions(ctx context.Context) ([]models.ProductOption, error) {
	var cached []models.ProductOption
	found, err := s.cache.Get(productOptionsCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read product options cache", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	options, err := s.repo.ListActiveProductOptions(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(productOptionsCacheKey, options, time.Hour); err != nil {
		s.log.Warn("failed to cache product options", slog.Any("err", err))
	}
	return options, nil
}

// UpdateProduct применяет частичное обновление продукта и сбрасывает кеш
// выпадающего списка.
func (s *CatalogService) UpdateProduct(ctx context.Context, productID int64, patch models.ProductPatch) (*models.Product, error) {
	p, err := s.repo.UpdateProduct(ctx, productID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.invalidateProductOptions()
	return p, nil
}

// DeleteProduct удаляет продукт. Удаление блокируется, пока на продукт
// ссылаются подписки (FK RESTRICT): возвращается ErrProductInUse.
func (s *CatalogService) DeleteProduct(ctx context.Context, productID int64) error {
	count, err := s.repo.DeleteProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrRestricted) {
			return ErrProductInUse
		}
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.invalidateProductOptions()
	return nil
}

// CreateLink создает связь продукт-компонент. Повторная привязка того же
// компонента к тому же продукту возвращается как ErrLinkExists — первичный
// ключ пары закрывает и гонку конкурентных запросов.
func (s *CatalogService) CreateLink(ctx context.Context, link models.ProductComponent) (*models.ProductComponent, error) {
	created, err := s.repo.CreateProductComponentLink(ctx, link)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrLinkExists
		}
		if errors.Is(err, repository.ErrRestricted) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return created, nil
}

// ListLinks возвращает все связи продукт-компонент.
func (s *CatalogService) ListLinks(ctx context.Context) ([]*models.ProductComponent, error) {
	return s.repo.ListProductComponentLinks(ctx)
}

// UpdateLink обновляет количество компонента в составе продукта.
func (s *CatalogService) UpdateLink(ctx context.Context, productID, componentID int64, quantity int) (*models.ProductComponent, error) {
	link, err := s.repo.UpdateProductComponentLink(ctx, productID, componentID, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return link, nil
}

// DeleteLink удаляет связь продукт-компонент.
func (s *CatalogService) DeleteLink(ctx context.Context, productID, componentID int64) error {
	count, err := s.repo.DeleteProductComponentLink(ctx, productID, componentID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) invalidateProductOptions() {
	if err := s.cache.Invalidate(productOptionsCacheKey); err != nil {
		s.log.Warn("failed to invalidate product options cache", slog.Any("err", err))
	}
}
