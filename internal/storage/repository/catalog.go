package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// CreateComponent сохраняет новый компонент каталога и возвращает его ID.
func (s *Storage) CreateComponent(ctx context.Context, c models.Component) (int64, error) {
	const op = "storage.CreateComponent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO components (name, component_type, unit_cost, description)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id_component`
	if err := s.DB.QueryRowContext(ctx, query,
		c.Name, c.ComponentType, c.UnitCost, c.Description).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListComponents возвращает все компоненты каталога.
func (s *Storage) ListComponents(ctx context.Context) ([]*models.Component, error) {
	const op = "storage.ListComponents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id_component, name, component_type, unit_cost, description
			  FROM components
			  ORDER BY id_component`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Component
	for rows.Next() {
		var c models.Component
		if err := rows.Scan(&c.ID, &c.Name, &c.ComponentType, &c.UnitCost, &c.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateComponent применяет частичное обновление компонента и возвращает
// обновленную запись.
func (s *Storage) UpdateComponent(ctx context.Context, componentID int64, patch models.ComponentPatch) (*models.Component, error) {
	const op = "storage.UpdateComponent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.ComponentType != nil {
		add("component_type", *patch.ComponentType)
	}
	if patch.UnitCost != nil {
		add("unit_cost", *patch.UnitCost)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}

	c := &models.Component{}
	if len(set) == 0 {
		query := `SELECT id_component, name, component_type, unit_cost, description
			  FROM components WHERE id_component = $1`
		if err := s.DB.QueryRowContext(ctx, query, componentID).Scan(&c.ID, &c.Name,
			&c.ComponentType, &c.UnitCost, &c.Description); err != nil {
			return nil, translatePgError(op, err)
		}
		return c, nil
	}

	args = append(args, componentID)
	query := fmt.Sprintf(`UPDATE components SET %s WHERE id_component = $%d
			  RETURNING id_component, name, component_type, unit_cost, description`,
		strings.Join(set, ", "), len(args))
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name,
		&c.ComponentType, &c.UnitCost, &c.Description); err != nil {
		return nil, translatePgError(op, err)
	}
	return c, nil
}

// DeleteComponent удаляет компонент; связи с продуктами удаляются каскадно.
func (s *Storage) DeleteComponent(ctx context.Context, componentID int64) (int, error) {
	const op = "storage.DeleteComponent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM components WHERE id_component = $1`, componentID)
	if err != nil {
		return 0, translatePgError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CreateProduct сохраняет новый продукт каталога и возвращает его ID.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (int64, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO products (name, description, monthly_price, is_active)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id_product`
	if err := s.DB.QueryRowContext(ctx, query,
		p.Name, p.Description, p.MonthlyPrice, p.IsActive).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListProducts возвращает все продукты каталога.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id_product, name, description, monthly_price, is_active
			  FROM products
			  ORDER BY id_product`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.MonthlyPrice, &p.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListActiveProductOptions возвращает активные продукты для выпадающего списка.
func (s *Storage) ListActiveProductOptions(ctx context.Context) ([]models.ProductOption, error) {
	const op = "storage.ListActiveProductOptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id_product, name FROM products
			  WHERE is_active = true
			  ORDER BY id_product`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ProductOption
	for rows.Next() {
		var opt models.ProductOption
		if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, opt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProduct применяет частичное обновление продукта и возвращает
// обновленную запись.
func (s *Storage) UpdateProduct(ctx context.Context, productID int64, patch models.ProductPatch) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.MonthlyPrice != nil {
		add("monthly_price", *patch.MonthlyPrice)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}

	p := &models.Product{}
	if len(set) == 0 {
		query := `SELECT id_product, name, description, monthly_price, is_active
			  FROM products WHERE id_product = $1`
		if err := s.DB.QueryRowContext(ctx, query, productID).Scan(&p.ID, &p.Name,
			&p.Description, &p.MonthlyPrice, &p.IsActive); err != nil {
			return nil, translatePgError(op, err)
		}
		return p, nil
	}

	args = append(args, productID)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id_product = $%d
			  RETURNING id_product, name, description, monthly_price, is_active`,
		strings.Join(set, ", "), len(args))
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Name,
		&p.Description, &p.MonthlyPrice, &p.IsActive); err != nil {
		return nil, translatePgError(op, err)
	}
	return p, nil
}

// DeleteProduct удаляет продукт. Пока на продукт ссылаются подписки,
// внешний ключ RESTRICT блокирует удаление — возвращается ErrRestricted.
func (s *Storage) DeleteProduct(ctx context.Context, productID int64) (int, error) {
	const op = "storage.DeleteProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id_product = $1`, productID)
	if err != nil {
		return 0, translatePgError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CreateProductComponentLink создает связь продукт-компонент с количеством.
// Дубликат связи возвращается как ErrDuplicate: пара (продукт, компонент)
// является первичным ключом таблицы связей.
func (s *Storage) CreateProductComponentLink(ctx context.Context, link models.ProductComponent) (*models.ProductComponent, error) {
	const op = "storage.CreateProductComponentLink"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO products_components (id_product, id_component, quantity)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query, link.ProductID, link.ComponentID, link.Quantity); err != nil {
		return nil, translatePgError(op, err)
	}
	return s.getProductComponentLink(ctx, op, link.ProductID, link.ComponentID)
}

// ListProductComponentLinks возвращает все связи с названиями продукта и компонента.
func (s *Storage) ListProductComponentLinks(ctx context.Context) ([]*models.ProductComponent, error) {
	const op = "storage.ListProductComponentLinks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT pc.id_product, pc.id_component, pc.quantity, p.name, c.name
			  FROM products_components pc
			  JOIN products p ON pc.id_product = p.id_product
			  JOIN components c ON pc.id_component = c.id_component
			  ORDER BY pc.id_product, pc.id_component`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ProductComponent
	for rows.Next() {
		var link models.ProductComponent
		if err := rows.Scan(&link.ProductID, &link.ComponentID, &link.Quantity,
			&link.ProductName, &link.ComponentName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProductComponentLink обновляет количество в связи и возвращает её.
func (s *Storage) UpdateProductComponentLink(ctx context.Context, productID, componentID int64, quantity int) (*models.ProductComponent, error) {
	const op = "storage.UpdateProductComponentLink"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products_components SET quantity = $1
			  WHERE id_product = $2 AND id_component = $3`
	result, err := s.DB.ExecContext(ctx, query, quantity, productID, componentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return s.getProductComponentLink(ctx, op, productID, componentID)
}

// DeleteProductComponentLink удаляет связь продукт-компонент.
func (s *Storage) DeleteProductComponentLink(ctx context.Context, productID, componentID int64) (int, error) {
	const op = "storage.DeleteProductComponentLink"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM products_components WHERE id_product = $1 AND id_component = $2`,
		productID, componentID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func (s *Storage) getProductComponentLink(ctx context.Context, op string, productID, componentID int64) (*models.ProductComponent, error) {
	query := `SELECT pc.id_product, pc.id_component, pc.quantity, p.name, c.name
			  FROM products_components pc
			  JOIN products p ON pc.id_product = p.id_product
			  JOIN components c ON pc.id_component = c.id_component
			  WHERE pc.id_product = $1 AND pc.id_component = $2`
	link := &models.ProductComponent{}
	if err := s.DB.QueryRowContext(ctx, query, productID, componentID).Scan(&link.ProductID,
		&link.ComponentID, &link.Quantity, &link.ProductName, &link.ComponentName); err != nil {
		return nil, translatePgError(op, err)
	}
	return link, nil
}
