package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/cloud-chaser/internal/models"
)

const userColumns = `id_user, name, email, password_hash, role, phone_number, address,
			      created_at, last_login_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	var role string
	var lastLoginAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role,
		&u.PhoneNumber, &u.Address, &u.CreatedAt, &lastLoginAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Email приводится к нижнему регистру перед записью; дубликат почты
// возвращается как ErrDuplicate.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO users (name, email, password_hash, role, phone_number, address)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id_user;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, strings.ToLower(user.Email), user.PasswordHash, string(user.Role),
		user.PhoneNumber, user.Address).Scan(&newID); err != nil {
		return 0, translatePgError(op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по его почте.
// Поиск нечувствителен к регистру: почта нормализуется перед запросом.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err != nil {
		return nil, translatePgError(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id_user = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, translatePgError(op, err)
	}
	return u, nil
}

// ListClients возвращает всех пользователей с ролями CLIENT и OPERATIVE.
func (s *Storage) ListClients(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE role IN ('CLIENT', 'OPERATIVE')
			  ORDER BY id_user`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateUser применяет частичное обновление пользователя: изменяются только
// ненулевые поля патча. Возвращает обновленную запись.
func (s *Storage) UpdateUser(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	set := make([]string, 0, 6)
	args := make([]any, 0, 7)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Email != nil {
		add("email", strings.ToLower(*patch.Email))
	}
	if patch.Role != nil {
		add("role", string(*patch.Role))
	}
	if patch.PhoneNumber != nil {
		add("phone_number", *patch.PhoneNumber)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if len(set) == 0 {
		return s.GetUser(ctx, userID)
	}

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id_user = $%d RETURNING `+userColumns,
		strings.Join(set, ", "), len(args))
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translatePgError(op, err)
	}
	return u, nil
}

// TouchLastLogin обновляет отметку последнего входа пользователя.
func (s *Storage) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	const op = "storage.TouchLastLogin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET last_login_at = $1 WHERE id_user = $2`
	if _, err := s.DB.ExecContext(ctx, query, at, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteUser удаляет пользователя. Его подписки удаляются каскадно на уровне
// базы, кампании — каскадно от подписок. Возвращает количество удалённых строк.
func (s *Storage) DeleteUser(ctx context.Context, userID int64) (int, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id_user = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
