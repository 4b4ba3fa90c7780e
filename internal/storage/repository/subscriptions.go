package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// CreateActiveSubscription создает подписку со статусом Active для пары
// (пользователь, продукт) внутри одной транзакции. Предварительная проверка
// и вставка выполняются в транзакции, а гонку конкурентных запросов закрывает
// частичный уникальный индекс по активным подпискам: нарушение 23505
// возвращается тем же ErrDuplicate, что и предварительная проверка.
func (s *Storage) CreateActiveSubscription(ctx context.Context, userID, productID int64, startDate time.Time) (*models.Subscription, error) {
	const op = "storage.CreateActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sub := &models.Subscription{
		UserID:    userID,
		ProductID: productID,
		Status:    models.SubscriptionActive,
		StartDate: startDate,
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var existingID int64
		checkQuery := `SELECT id_subscription FROM subscriptions
			  WHERE id_user = $1 AND id_product = $2 AND status = 'Active'`
		err := tx.QueryRowContext(ctx, checkQuery, userID, productID).Scan(&existingID)
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		insertQuery := `INSERT INTO subscriptions (id_user, id_product, status, start_date)
			  VALUES ($1, $2, 'Active', $3)
			  RETURNING id_subscription`
		return tx.QueryRowContext(ctx, insertQuery, userID, productID, startDate).Scan(&sub.ID)
	})
	if err != nil {
		return nil, translatePgError(op, err)
	}
	return sub, nil
}

// FindActiveSubscription возвращает активную подписку пользователя на продукт
// или ErrNotFound, если такой нет.
func (s *Storage) FindActiveSubscription(ctx context.Context, userID, productID int64) (*models.Subscription, error) {
	const op = "storage.FindActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id_subscription, id_user, id_product, status, start_date, end_date
			  FROM subscriptions
			  WHERE id_user = $1 AND id_product = $2 AND status = 'Active'`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userID, productID))
	if err != nil {
		return nil, translatePgError(op, err)
	}
	return sub, nil
}

// ListActiveProductIDs возвращает идентификаторы продуктов, на которые у
// пользователя есть активные подписки. Инвариант уникальности активной
// подписки гарантирует не более одной строки на продукт.
func (s *Storage) ListActiveProductIDs(ctx context.Context, userID int64) ([]int64, error) {
	const op = "storage.ListActiveProductIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id_product FROM subscriptions
			  WHERE id_user = $1 AND status = 'Active'
			  ORDER BY id_product`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanSubscription(row interface{ Scan(dest ...any) error }) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var status string
	var endDate sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.ProductID, &status,
		&sub.StartDate, &endDate); err != nil {
		return nil, err
	}
	sub.Status = models.SubscriptionStatus(status)
	if endDate.Valid {
		sub.EndDate = &endDate.Time
	}
	return sub, nil
}
