package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

// CreateCampaignForActiveSubscription находит активную подписку пользователя
// на продукт и создает под ней кампанию со статусом Pending — всё в одной
// транзакции. Отсутствие активной подписки возвращается как ErrNotFound.
func (s *Storage) CreateCampaignForActiveSubscription(ctx context.Context, userID, productID int64, campaign models.Campaign) (*models.Campaign, error) {
	const op = "storage.CreateCampaignForActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	created := campaign
	created.Status = models.CampaignPending
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var subscriptionID int64
		findQuery := `SELECT id_subscription FROM subscriptions
			  WHERE id_user = $1 AND id_product = $2 AND status = 'Active'`
		err := tx.QueryRowContext(ctx, findQuery, userID, productID).Scan(&subscriptionID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		created.SubscriptionID = subscriptionID

		insertQuery := `INSERT INTO campaigns (id_subscription, name, status, start_date, end_date)
			  VALUES ($1, $2, 'Pending', $3, $4)
			  RETURNING id_campaign`
		return tx.QueryRowContext(ctx, insertQuery, subscriptionID,
			created.Name, created.StartDate, created.EndDate).Scan(&created.ID)
	})
	if err != nil {
		return nil, translatePgError(op, err)
	}
	return &created, nil
}

// GetCampaign возвращает кампанию по её ID.
func (s *Storage) GetCampaign(ctx context.Context, campaignID int64) (*models.Campaign, error) {
	const op = "storage.GetCampaign"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id_campaign, id_subscription, name, status, start_date, end_date
			  FROM campaigns
			  WHERE id_campaign = $1`
	c := &models.Campaign{}
	var status string
	if err := s.DB.QueryRowContext(ctx, query, campaignID).Scan(&c.ID, &c.SubscriptionID,
		&c.Name, &status, &c.StartDate, &c.EndDate); err != nil {
		return nil, translatePgError(op, err)
	}
	c.Status = models.CampaignStatus(status)
	return c, nil
}

// GetCampaignOwner возвращает владельца кампании через ее подписку.
func (s *Storage) GetCampaignOwner(ctx context.Context, campaignID int64) (*models.User, error) {
	const op = "storage.GetCampaignOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id_user, u.name, u.email, u.password_hash, u.role,
				     u.phone_number, u.address, u.created_at, u.last_login_at
			  FROM users u
			  JOIN subscriptions s ON s.id_user = u.id_user
			  JOIN campaigns c ON c.id_subscription = s.id_subscription
			  WHERE c.id_campaign = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, campaignID))
	if err != nil {
		return nil, translatePgError(op, err)
	}
	return user, nil
}

// UpdateCampaign применяет частичное обновление кампании внутри транзакции
// и возвращает обновленную запись. Изменяются только ненулевые поля патча.
func (s *Storage) UpdateCampaign(ctx context.Context, campaignID int64, patch models.CampaignPatch) (*models.Campaign, error) {
	const op = "storage.UpdateCampaign"
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
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if len(set) == 0 {
		return s.GetCampaign(ctx, campaignID)
	}

	args = append(args, campaignID)
	query := fmt.Sprintf(`UPDATE campaigns SET %s WHERE id_campaign = $%d
			  RETURNING id_campaign, id_subscription, name, status, start_date, end_date`,
		strings.Join(set, ", "), len(args))

	c := &models.Campaign{}
	var status string
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.SubscriptionID,
		&c.Name, &status, &c.StartDate, &c.EndDate); err != nil {
		return nil, translatePgError(op, err)
	}
	c.Status = models.CampaignStatus(status)
	return c, nil
}

// DeleteCampaign удаляет кампанию по ID и возвращает количество удалённых строк.
func (s *Storage) DeleteCampaign(ctx context.Context, campaignID int64) (int, error) {
	const op = "storage.DeleteCampaign"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id_campaign = $1`, campaignID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

const campaignListColumns = `c.id_campaign, c.id_subscription, c.name, c.status,
			      c.start_date, c.end_date, p.name`

// ListCampaignsForUser возвращает кампании пользователя вместе с названием
// продукта подписки.
func (s *Storage) ListCampaignsForUser(ctx context.Context, userID int64) ([]*models.Campaign, error) {
	const op = "storage.ListCampaignsForUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + campaignListColumns + `
			  FROM campaigns c
			  JOIN subscriptions s ON c.id_subscription = s.id_subscription
			  JOIN products p ON s.id_product = p.id_product
			  WHERE s.id_user = $1
			  ORDER BY c.id_campaign`
	return s.listCampaigns(ctx, op, query, userID)
}

// ListAllCampaigns возвращает все кампании с названием продукта.
func (s *Storage) ListAllCampaigns(ctx context.Context) ([]*models.Campaign, error) {
	const op = "storage.ListAllCampaigns"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + campaignListColumns + `
			  FROM campaigns c
			  JOIN subscriptions s ON c.id_subscription = s.id_subscription
			  JOIN products p ON s.id_product = p.id_product
			  ORDER BY c.id_campaign`
	return s.listCampaigns(ctx, op, query)
}

func (s *Storage) listCampaigns(ctx context.Context, op, query string, args ...any) ([]*models.Campaign, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Campaign
	for rows.Next() {
		var c models.Campaign
		var status string
		if err := rows.Scan(&c.ID, &c.SubscriptionID, &c.Name, &status,
			&c.StartDate, &c.EndDate, &c.ProductName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.Status = models.CampaignStatus(status)
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
